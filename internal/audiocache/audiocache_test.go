package audiocache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// in-memory stand-in for the affirmations table
type memoryRepo struct {
	mu      sync.Mutex
	entries map[string]string
	reads   int
	failGet bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{entries: map[string]string{}}
}

func (m *memoryRepo) GetAudio(_ context.Context, affirmationID, voiceID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	if m.failGet {
		return "", errors.New("db down")
	}

	return m.entries[affirmationID+"/"+voiceID], nil
}

func (m *memoryRepo) PutAudioIfAbsent(_ context.Context, affirmationID, voiceID, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := affirmationID + "/" + voiceID
	if existing, ok := m.entries[key]; ok {
		return existing, nil
	}

	m.entries[key] = url

	return url, nil
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() }) //nolint:errcheck

	return mr, client
}

func TestCache_MissThenHit(t *testing.T) {
	cache := New(newMemoryRepo(), nil)
	ctx := context.Background()

	url, err := cache.Get(ctx, "a1", "v1")
	require.NoError(t, err)
	assert.Empty(t, url)

	_, err = cache.Put(ctx, "a1", "v1", "https://cdn/a1/v1.mp3")
	require.NoError(t, err)

	url, err = cache.Get(ctx, "a1", "v1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a1/v1.mp3", url)
}

func TestCache_FirstWriterWins(t *testing.T) {
	repo := newMemoryRepo()
	cache := New(repo, nil)
	ctx := context.Background()

	first, err := cache.Put(ctx, "a1", "v1", "https://cdn/first.mp3")
	require.NoError(t, err)

	second, err := cache.Put(ctx, "a1", "v1", "https://cdn/second.mp3")
	require.NoError(t, err)

	again, err := cache.Put(ctx, "a1", "v1", "https://cdn/first.mp3")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn/first.mp3", first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, again)
	assert.Len(t, repo.entries, 1)
}

func TestCache_ConcurrentPutsConverge(t *testing.T) {
	cache := New(newMemoryRepo(), nil)

	var wg sync.WaitGroup
	results := make([]string, 8)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url, err := cache.Put(context.Background(), "a1", "v1", "https://cdn/"+string(rune('a'+i))+".mp3")
			assert.NoError(t, err)
			results[i] = url
		}(i)
	}

	wg.Wait()

	for _, url := range results {
		assert.Equal(t, results[0], url)
	}
}

func TestCache_RedisMirror(t *testing.T) {
	mr, client := newRedis(t)
	repo := newMemoryRepo()
	cache := New(repo, client)
	ctx := context.Background()

	_, err := cache.Put(ctx, "a1", "v1", "https://cdn/a1/v1.mp3")
	require.NoError(t, err)

	mirrored, err := mr.Get(cacheKey("a1", "v1"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a1/v1.mp3", mirrored)

	url, err := cache.Get(ctx, "a1", "v1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a1/v1.mp3", url)
	assert.Equal(t, 0, repo.reads, "mirror hit skips the document store")
}

func TestCache_RedisOutageFallsBack(t *testing.T) {
	mr, client := newRedis(t)
	repo := newMemoryRepo()
	repo.entries["a1/v1"] = "https://cdn/a1/v1.mp3"
	cache := New(repo, client)

	mr.Close()

	url, err := cache.Get(context.Background(), "a1", "v1")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a1/v1.mp3", url)
	assert.Equal(t, 1, repo.reads)
}

func TestCache_RepositoryError(t *testing.T) {
	repo := newMemoryRepo()
	repo.failGet = true

	_, err := New(repo, nil).Get(context.Background(), "a1", "v1")
	assert.Error(t, err)
}
