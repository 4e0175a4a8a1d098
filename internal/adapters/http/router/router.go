package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-triage/internal/adapters/http/handler"
	"github.com/mikey/llm-email-triage/internal/adapters/http/middleware"
)

// Options controls optional routes
type Options struct {
	MetricsEnabled bool
}

// Setup creates and configures the Gin router
func Setup(analyzeHandler *handler.AnalyzeHandler, healthHandler *handler.HealthHandler, logger *zap.Logger, opts Options) *gin.Engine {
	router := gin.New()

	// /analyze and /analyze/ are both registered, neither redirects
	router.RedirectTrailingSlash = false

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())
	if opts.MetricsEnabled {
		router.Use(middleware.Metrics())
	}

	// Health endpoints
	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)

	// Prometheus metrics
	if opts.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Analysis
	router.POST("/analyze", analyzeHandler.Analyze)
	router.POST("/analyze/", analyzeHandler.Analyze)

	return router
}
