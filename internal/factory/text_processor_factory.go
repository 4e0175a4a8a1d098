package factory

import (
	"github.com/mikey/llm-email-triage/internal/config"
	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/mikey/llm-email-triage/internal/normalizer"
	"github.com/mikey/llm-email-triage/internal/utils"
	"go.uber.org/zap"
)

// TextProcessorFactory creates the text processing stages
type TextProcessorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(cfg *config.Config, logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreateNormalizer creates the configured normalizer
func (f *TextProcessorFactory) CreateNormalizer() (core.Normalizer, error) {
	normCfg := f.cfg.GetNormalizer()
	n, err := normalizer.New(normCfg.Mode, normCfg.Language)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Initialized normalizer",
		zap.String("mode", normCfg.Mode),
		zap.String("language", normCfg.Language))
	return n, nil
}
