package factory

import (
	"fmt"

	"github.com/mikey/llm-email-triage/internal/config"
	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/mikey/llm-email-triage/internal/utils"
	"go.uber.org/zap"
)

// ServiceFactory assembles the classification gateway and the analysis service
type ServiceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewServiceFactory creates a new service factory
func NewServiceFactory(cfg *config.Config, logger *zap.Logger) *ServiceFactory {
	return &ServiceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGateway creates the classification gateway around llmClient
func (f *ServiceFactory) CreateGateway(llmClient core.LLMClient, textProcessor *utils.TextProcessor) (*core.ClassificationGateway, error) {
	promptCfg := f.cfg.GetPrompt()
	prompts, err := core.NewPromptBuilder(promptCfg.SystemInstruction, promptCfg.UserTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt configuration: %w", err)
	}

	classifierCfg, err := f.cfg.GetClassifier()
	if err != nil {
		return nil, err
	}

	return core.NewClassificationGateway(llmClient, prompts, textProcessor, core.GatewayOptions{
		MaxContentSize:        classifierCfg.MaxContentSize,
		DefaultClassification: classifierCfg.DefaultClassification,
		DefaultReply:          classifierCfg.DefaultReply,
	}, f.logger.Named("gateway")), nil
}

// CreateAnalysisService creates the analysis service. cache may be nil.
func (f *ServiceFactory) CreateAnalysisService(
	normalizer core.Normalizer,
	gateway *core.ClassificationGateway,
	cache core.CacheRepository,
) (*core.AnalysisService, error) {
	classifierCfg, err := f.cfg.GetClassifier()
	if err != nil {
		return nil, err
	}

	settings := core.ServiceSettings{
		RequestTimeout: classifierCfg.RequestTimeout,
		CacheEnabled:   cache != nil,
	}
	if cache != nil {
		if settings.CacheTTL, err = NewCacheFactory(f.cfg, f.logger).GetCacheTTL(); err != nil {
			return nil, err
		}
	}

	return core.NewAnalysisService(normalizer, gateway, cache, settings, f.logger.Named("service")), nil
}
