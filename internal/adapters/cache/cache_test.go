package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testCache interface {
	core.CacheRepository
	Stop()
}

func cacheImplementations(t *testing.T) map[string]testCache {
	t.Helper()

	sqliteCache, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache.db"), zap.NewNop(), 0)
	require.NoError(t, err)

	return map[string]testCache{
		"memory": NewMemoryCache(zap.NewNop(), 0),
		"sqlite": sqliteCache,
	}
}

func entry(key string, ttl time.Duration) *core.CacheEntry {
	now := time.Now()
	return &core.CacheEntry{
		Key:            key,
		Classification: "Produtivo",
		SuggestedReply: "Olá, estamos verificando.",
		ModelUsed:      "gemini-pro-latest",
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}
}

func TestCache_SetGet(t *testing.T) {
	for name, c := range cacheImplementations(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Stop()
			ctx := context.Background()

			require.NoError(t, c.Set(ctx, entry("k1", time.Hour)))

			got, err := c.Get(ctx, "k1")
			require.NoError(t, err)
			assert.Equal(t, "k1", got.Key)
			assert.Equal(t, "Produtivo", got.Classification)
			assert.Equal(t, "Olá, estamos verificando.", got.SuggestedReply)
			assert.Equal(t, "gemini-pro-latest", got.ModelUsed)
			assert.True(t, got.ExpiresAt.After(time.Now()))
		})
	}
}

func TestCache_Miss(t *testing.T) {
	for name, c := range cacheImplementations(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Stop()

			_, err := c.Get(context.Background(), "absent")
			assert.ErrorIs(t, err, core.ErrCacheMiss)
		})
	}
}

func TestCache_Overwrite(t *testing.T) {
	for name, c := range cacheImplementations(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Stop()
			ctx := context.Background()

			require.NoError(t, c.Set(ctx, entry("k1", time.Hour)))
			updated := entry("k1", time.Hour)
			updated.Classification = "Improdutivo"
			require.NoError(t, c.Set(ctx, updated))

			got, err := c.Get(ctx, "k1")
			require.NoError(t, err)
			assert.Equal(t, "Improdutivo", got.Classification)
		})
	}
}

func TestCache_ExpiredAndCleanup(t *testing.T) {
	for name, c := range cacheImplementations(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Stop()
			ctx := context.Background()

			require.NoError(t, c.Set(ctx, entry("old", -time.Hour)))
			require.NoError(t, c.Set(ctx, entry("new", time.Hour)))

			_, err := c.Get(ctx, "old")
			assert.ErrorIs(t, err, core.ErrCacheMiss)

			require.NoError(t, c.Cleanup(ctx))

			_, err = c.Get(ctx, "new")
			assert.NoError(t, err)
		})
	}
}

func TestCache_Delete(t *testing.T) {
	for name, c := range cacheImplementations(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Stop()
			ctx := context.Background()

			require.NoError(t, c.Set(ctx, entry("k1", time.Hour)))
			require.NoError(t, c.Delete(ctx, "k1"))

			_, err := c.Get(ctx, "k1")
			assert.ErrorIs(t, err, core.ErrCacheMiss)
		})
	}
}

func TestMemoryCache_CleanupRemovesExpired(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 0)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, entry("old", -time.Minute)))
	require.NoError(t, c.Set(ctx, entry("new", time.Minute)))
	require.Equal(t, 2, c.Len())

	require.NoError(t, c.Cleanup(ctx))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_BackgroundCleanup(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 10*time.Millisecond)
	defer c.Stop()

	require.NoError(t, c.Set(context.Background(), entry("old", -time.Minute)))

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestStop_Idempotent(t *testing.T) {
	for name, c := range cacheImplementations(t) {
		t.Run(name, func(t *testing.T) {
			c.Stop()
			assert.NotPanics(t, c.Stop)
		})
	}
}
