package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/aiam/server/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// durable storage for generated images, audio and profile photos
type Store interface {
	// stores data under key and returns a URL clients can fetch it from
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) (*Object, error)
	Close() error
}

type Object struct {
	Data        []byte
	ContentType string
}

// picks the backend named by BLOB_BACKEND
func New(ctx context.Context, cfg config.BlobConfig, publicBaseURL string) (Store, error) {
	switch cfg.Backend {
	case config.BlobBackendS3:
		return NewS3Store(ctx, cfg, publicBaseURL)
	case config.BlobBackendNATS:
		return NewNATSStore(cfg, publicBaseURL)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

// URL of a key served through GET /api/v1/blobs/*key
func proxyURL(publicBaseURL, key string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/api/v1/blobs/" + strings.TrimLeft(key, "/")
}

func validKey(key string) error {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return fmt.Errorf("invalid object key %q", key)
	}

	return nil
}
