package factory

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-email-triage/internal/adapters/filter"
	"github.com/mikey/llm-email-triage/internal/adapters/http/handler"
	"github.com/mikey/llm-email-triage/internal/adapters/http/router"
	"github.com/mikey/llm-email-triage/internal/config"
	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/mikey/llm-email-triage/internal/ports"
	"github.com/mikey/llm-email-triage/internal/whitelist"
	"go.uber.org/zap"
)

// FilterFactory creates the configured intakes
type FilterFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.AnalysisService
}

// NewFilterFactory creates a new filter factory
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.AnalysisService) *FilterFactory {
	return &FilterFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateEmailFilters creates the HTTP intake and, when enabled, the SMTP content filter
func (f *FilterFactory) CreateEmailFilters() ([]ports.EmailFilter, error) {
	httpFilter, err := f.CreateHTTPFilter()
	if err != nil {
		return nil, err
	}

	filters := []ports.EmailFilter{httpFilter}
	if smtpCfg := f.cfg.GetSMTP(); smtpCfg.Enabled {
		filters = append(filters, f.CreateSMTPFilter())
	}

	return filters, nil
}

// CreateHTTPFilter creates the HTTP intake
func (f *FilterFactory) CreateHTTPFilter() (*filter.HTTPFilter, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, err
	}

	gin.SetMode(serverCfg.Mode)
	logger := f.logger.Named("http")

	engine := router.Setup(
		handler.NewAnalyzeHandler(f.service, serverCfg.MaxUploadBytes, logger),
		handler.NewHealthHandler(f.cfg.GetLLM().Provider, f.cfg.GetNormalizer().Mode),
		logger,
		router.Options{MetricsEnabled: f.cfg.GetBool("metrics.enabled")},
	)

	return filter.NewHTTPFilter(f.service, engine, logger, filter.HTTPFilterOptions{
		ListenAddress:   serverCfg.ListenAddress,
		ReadTimeout:     serverCfg.ReadTimeout,
		WriteTimeout:    serverCfg.WriteTimeout,
		ShutdownTimeout: serverCfg.ShutdownTimeout,
	}), nil
}

// CreateSMTPFilter creates the SMTP content filter
func (f *FilterFactory) CreateSMTPFilter() *filter.SMTPFilter {
	smtpCfg := f.cfg.GetSMTP()
	logger := f.logger.Named("smtp")

	return filter.NewSMTPFilter(
		f.service,
		whitelist.NewChecker(smtpCfg.WhitelistedDomains, logger),
		logger,
		filter.SMTPFilterOptions{
			ListenAddress:        smtpCfg.ListenAddress,
			RelayEnabled:         smtpCfg.RelayEnabled,
			RelayAddress:         smtpCfg.RelayAddress,
			RelayPort:            smtpCfg.RelayPort,
			ClassificationHeader: smtpCfg.ClassificationHeader,
			ReplyHeader:          smtpCfg.ReplyHeader,
			StatusHeader:         smtpCfg.StatusHeader,
		},
	)
}

// CreateCliFilter creates the CLI intake printing to out
func (f *FilterFactory) CreateCliFilter(out io.Writer) *filter.CliFilter {
	return filter.NewCliFilter(f.service, f.logger, out, f.cfg.GetBool("cli.verbose"))
}
