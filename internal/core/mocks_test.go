package core

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLLMClient is a mock implementation of LLMClient
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt Prompt) (*ModelReply, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ModelReply), args.Error(1)
}

// lowercaseNormalizer stands in for the real normalizer in core tests
type lowercaseNormalizer struct{}

func (lowercaseNormalizer) Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// emptyNormalizer drops everything, as a stop-word-only email would
type emptyNormalizer struct{}

func (emptyNormalizer) Normalize(string) string { return "" }

type truncator struct{}

func (truncator) TruncateText(text string, maxSize int) string {
	if len(text) <= maxSize {
		return text
	}
	return text[:maxSize]
}

// mapCache is a minimal CacheRepository for service tests
type mapCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*CacheEntry)}
}

func (c *mapCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || time.Now().After(entry.ExpiresAt) {
		return nil, ErrCacheMiss
	}
	return entry, nil
}

func (c *mapCache) Set(_ context.Context, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Key] = entry
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *mapCache) Cleanup(context.Context) error { return nil }
