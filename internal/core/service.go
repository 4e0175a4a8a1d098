package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ServiceSettings configures the analysis service
type ServiceSettings struct {
	RequestTimeout time.Duration
	CacheEnabled   bool
	CacheTTL       time.Duration
}

// AnalysisService is the core service for email classification
type AnalysisService struct {
	normalizer Normalizer
	gateway    *ClassificationGateway
	cache      CacheRepository
	settings   ServiceSettings
	logger     *zap.Logger
}

// NewAnalysisService creates a new analysis service.
// cache may be nil when settings.CacheEnabled is false.
func NewAnalysisService(
	normalizer Normalizer,
	gateway *ClassificationGateway,
	cache CacheRepository,
	settings ServiceSettings,
	logger *zap.Logger,
) *AnalysisService {
	if cache == nil {
		settings.CacheEnabled = false
	}
	return &AnalysisService{
		normalizer: normalizer,
		gateway:    gateway,
		cache:      cache,
		settings:   settings,
		logger:     logger,
	}
}

// Analyze resolves, normalizes and classifies one submission
func (s *AnalysisService) Analyze(ctx context.Context, sub *EmailSubmission) (*ClassificationResult, error) {
	text, err := ResolveInput(sub)
	if err != nil {
		return nil, err
	}

	normalized := s.normalizer.Normalize(text)
	if normalized == "" {
		return nil, ErrNoAnalyzableContent
	}

	s.logger.Debug("Normalized email content",
		zap.Int("original_length", len(text)),
		zap.Int("normalized_length", len(normalized)))

	key := cacheKey(normalized)
	if s.settings.CacheEnabled {
		entry, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.logger.Debug("Cache hit for email content", zap.String("key", key))
			return &ClassificationResult{
				Status:         StatusSuccess,
				Classification: entry.Classification,
				SuggestedReply: entry.SuggestedReply,
				ModelUsed:      entry.ModelUsed,
				Cached:         true,
				AnalyzedAt:     time.Now(),
			}, nil
		case !errors.Is(err, ErrCacheMiss):
			s.logger.Warn("Failed to read cache", zap.Error(err))
		}
	}

	callCtx := ctx
	if s.settings.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.settings.RequestTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.gateway.Classify(callCtx, normalized)
	if err != nil {
		if _, ok := ModelErrorKindOf(err); !ok && errors.Is(err, context.DeadlineExceeded) {
			err = NewModelError("llm", ModelErrorTimeout, err)
		}
		return nil, err
	}

	s.logger.Info("Email classified",
		zap.String("status", string(result.Status)),
		zap.String("classification", result.Classification),
		zap.String("model", result.ModelUsed),
		zap.Duration("duration", time.Since(start)))

	if s.settings.CacheEnabled && result.Status == StatusSuccess {
		now := time.Now()
		entry := &CacheEntry{
			Key:            key,
			Classification: result.Classification,
			SuggestedReply: result.SuggestedReply,
			ModelUsed:      result.ModelUsed,
			CreatedAt:      now,
			ExpiresAt:      now.Add(s.settings.CacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return result, nil
}

func cacheKey(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
