package rehost

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"codeberg.org/aiam/server/internal/blobstore"
	"codeberg.org/aiam/server/internal/logger"
)

const (
	maxAssetBytes = 25 << 20
	fetchTimeout  = 30 * time.Second
)

var fetchHTTPClient = &http.Client{Timeout: fetchTimeout}

// copies provider-hosted assets into durable blob storage
type Rehoster struct {
	store      blobstore.Store
	httpClient *http.Client
	now        func() time.Time
}

func New(store blobstore.Store) *Rehoster {
	return &Rehoster{store: store, httpClient: fetchHTTPClient, now: time.Now}
}

// downloads src and stores it under the image path; returns src itself when anything fails
func (r *Rehoster) RehostImage(ctx context.Context, src, userID, affirmationID string) string {
	data, contentType, err := r.fetch(ctx, src)
	if err != nil {
		logger.WarnErr(err, "image rehost fetch failed, keeping provider url", "affirmation_id", affirmationID)
		return src
	}

	key := ImagePath(userID, affirmationID, r.now(), ExtensionFor(contentType, "jpg"))

	url, err := r.store.Put(ctx, key, data, contentType)
	if err != nil {
		logger.WarnErr(err, "image rehost upload failed, keeping provider url", "affirmation_id", affirmationID)
		return src
	}

	return url
}

// uploads bytes that only exist in memory, such as synthesized audio
func (r *Rehoster) StoreBytes(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	url, err := r.store.Put(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", key, err)
	}

	return url, nil
}

// uploads a profile reference photo
func (r *Rehoster) StoreProfilePhoto(ctx context.Context, userID, kind string, data []byte, contentType string) (string, error) {
	key := ProfilePhotoPath(userID, kind, r.now(), ExtensionFor(contentType, "jpg"))
	return r.StoreBytes(ctx, key, data, contentType)
}

func (r *Rehoster) fetch(ctx context.Context, src string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch asset: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("asset fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read asset: %w", err)
	}

	if len(data) > maxAssetBytes {
		return nil, "", fmt.Errorf("asset exceeds %d bytes", maxAssetBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return data, contentType, nil
}

func ImagePath(userID, affirmationID string, at time.Time, ext string) string {
	return fmt.Sprintf("users/%s/affirmations/%s/images/generated-%d.%s", userID, affirmationID, at.UnixMilli(), ext)
}

// one object per render; the cache decides which render an affirmation keeps
func AudioPath(userID, affirmationID, voiceID string, at time.Time) string {
	return fmt.Sprintf("users/%s/affirmations/%s/audio/%s-%d.mp3", userID, affirmationID, voiceID, at.UnixMilli())
}

func ProfilePhotoPath(userID, kind string, at time.Time, ext string) string {
	return fmt.Sprintf("users/%s/profile/%s-%d.%s", userID, kind, at.UnixMilli(), ext)
}

// file extension for a content type, fallback when unknown
func ExtensionFor(contentType, fallback string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fallback
	}

	switch mediaType {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	case "audio/mpeg":
		return "mp3"
	case "audio/webm":
		return "webm"
	}

	if i := strings.LastIndex(mediaType, "/"); i >= 0 && mediaType[:i] == "image" {
		return mediaType[i+1:]
	}

	return fallback
}
