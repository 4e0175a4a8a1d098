package core

import (
	"context"
)

// LLMClient defines the interface for interacting with LLM services.
// Failures are reported as *ModelError.
type LLMClient interface {
	// Generate sends the prompt and returns the model's raw text
	Generate(ctx context.Context, prompt Prompt) (*ModelReply, error)
}

// Normalizer condenses email text before it is embedded in the prompt
type Normalizer interface {
	Normalize(text string) string
}

// TextProcessor bounds the size of text handed to a model
type TextProcessor interface {
	TruncateText(text string, maxSize int) string
}

// CacheRepository defines the interface for caching classification results
type CacheRepository interface {
	// Get retrieves a live entry, ErrCacheMiss when absent or expired
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
