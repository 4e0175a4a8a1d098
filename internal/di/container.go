package di

import (
	"go.uber.org/dig"

	"github.com/mikey/llm-email-triage/internal/config"
	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/mikey/llm-email-triage/internal/factory"
	"github.com/mikey/llm-email-triage/internal/logging"
	"github.com/mikey/llm-email-triage/internal/ports"
	"github.com/mikey/llm-email-triage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register cache repository, nil when caching is disabled
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register intakes
	if err := container.Provide(func(f *factory.FilterFactory) ([]ports.EmailFilter, error) {
		return f.CreateEmailFilters()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideCore registers the factories and the analysis pipeline shared by every binary
func provideCore(container *dig.Container) error {
	// Register factories
	for _, constructor := range []interface{}{
		factory.NewLLMFactory,
		factory.NewCacheFactory,
		factory.NewTextProcessorFactory,
		factory.NewServiceFactory,
		factory.NewFilterFactory,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return err
	}

	// Register text processor and normalizer
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) (core.Normalizer, error) {
		return f.CreateNormalizer()
	}); err != nil {
		return err
	}

	// Register classification gateway
	if err := container.Provide(func(
		f *factory.ServiceFactory,
		llmClient core.LLMClient,
		textProcessor *utils.TextProcessor,
	) (*core.ClassificationGateway, error) {
		return f.CreateGateway(llmClient, textProcessor)
	}); err != nil {
		return err
	}

	// Register analysis service
	return container.Provide(func(
		f *factory.ServiceFactory,
		normalizer core.Normalizer,
		gateway *core.ClassificationGateway,
		cache core.CacheRepository,
	) (*core.AnalysisService, error) {
		return f.CreateAnalysisService(normalizer, gateway, cache)
	})
}
