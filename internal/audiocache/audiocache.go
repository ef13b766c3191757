package audiocache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/aiam/server/internal/logger"
	"codeberg.org/aiam/server/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "aiam:audio:"
	mirrorTTL = 30 * 24 * time.Hour
)

// authoritative per-affirmation voice -> URL map
type Repository interface {
	GetAudio(ctx context.Context, affirmationID, voiceID string) (string, error)
	PutAudioIfAbsent(ctx context.Context, affirmationID, voiceID, url string) (string, error)
}

// audio URL cache keyed by (affirmation, voice); entries are write-once
type Cache struct {
	repo  Repository
	redis *redis.Client
}

// rdb may be nil, in which case only the document store is used
func New(repo Repository, rdb *redis.Client) *Cache {
	return &Cache{repo: repo, redis: rdb}
}

// returns the cached URL, empty on a miss
func (c *Cache) Get(ctx context.Context, affirmationID, voiceID string) (string, error) {
	if url := c.mirrorGet(ctx, affirmationID, voiceID); url != "" {
		metrics.RecordAudioCacheLookup("hit")
		return url, nil
	}

	url, err := c.repo.GetAudio(ctx, affirmationID, voiceID)
	if err != nil {
		return "", err
	}

	if url == "" {
		metrics.RecordAudioCacheLookup("miss")
		return "", nil
	}

	metrics.RecordAudioCacheLookup("hit")
	c.mirrorSet(ctx, affirmationID, voiceID, url)

	return url, nil
}

// stores url unless an entry exists; the first writer wins and its URL is returned
func (c *Cache) Put(ctx context.Context, affirmationID, voiceID, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("audio url is required")
	}

	winner, err := c.repo.PutAudioIfAbsent(ctx, affirmationID, voiceID, url)
	if err != nil {
		return "", err
	}

	c.mirrorSet(ctx, affirmationID, voiceID, winner)

	return winner, nil
}

func (c *Cache) mirrorGet(ctx context.Context, affirmationID, voiceID string) string {
	if c.redis == nil {
		return ""
	}

	url, err := c.redis.Get(ctx, cacheKey(affirmationID, voiceID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WarnErr(err, "audio cache mirror read failed", "affirmation_id", affirmationID)
		}

		return ""
	}

	return url
}

func (c *Cache) mirrorSet(ctx context.Context, affirmationID, voiceID, url string) {
	if c.redis == nil {
		return
	}

	if err := c.redis.SetNX(ctx, cacheKey(affirmationID, voiceID), url, mirrorTTL).Err(); err != nil {
		logger.WarnErr(err, "audio cache mirror write failed", "affirmation_id", affirmationID)
	}
}

func cacheKey(affirmationID, voiceID string) string {
	return keyPrefix + affirmationID + ":" + voiceID
}
