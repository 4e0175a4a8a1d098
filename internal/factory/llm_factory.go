package factory

import (
	"fmt"

	"github.com/mikey/llm-email-triage/internal/config"
	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/mikey/llm-email-triage/internal/metrics"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	provider := f.cfg.GetLLM().Provider

	var (
		client core.LLMClient
		err    error
	)
	switch provider {
	case "gemini":
		client, err = NewGeminiFactory(f.cfg, f.logger).CreateLLMClient()
	case "openai":
		client, err = NewOpenAIFactory(f.cfg, f.logger).CreateLLMClient()
	case "bedrock":
		client, err = NewBedrockFactory(f.cfg, f.logger).CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	f.logger.Info("Initialized LLM client", zap.String("provider", provider))

	if f.cfg.GetBool("metrics.enabled") {
		return metrics.NewInstrumentedLLMClient(client, provider), nil
	}
	return client, nil
}
