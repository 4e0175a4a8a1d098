package filter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-email-triage/internal/core"
	"go.uber.org/zap"
)

// HTTPFilterOptions configures the HTTP intake
type HTTPFilterOptions struct {
	ListenAddress   string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// HTTPFilter serves the analysis API
type HTTPFilter struct {
	service *core.AnalysisService
	engine  *gin.Engine
	logger  *zap.Logger
	opts    HTTPFilterOptions
	server  *http.Server
}

// NewHTTPFilter creates a new HTTP intake around a configured router
func NewHTTPFilter(service *core.AnalysisService, engine *gin.Engine, logger *zap.Logger, opts HTTPFilterOptions) *HTTPFilter {
	return &HTTPFilter{
		service: service,
		engine:  engine,
		logger:  logger,
		opts:    opts,
	}
}

// Start starts the HTTP server
func (f *HTTPFilter) Start() error {
	listener, err := net.Listen("tcp", f.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.opts.ListenAddress, err)
	}
	return f.Serve(listener)
}

// Serve starts the HTTP server on an existing listener
func (f *HTTPFilter) Serve(listener net.Listener) error {
	f.server = &http.Server{
		Handler:      f.engine,
		ReadTimeout:  f.opts.ReadTimeout,
		WriteTimeout: f.opts.WriteTimeout,
	}

	f.logger.Info("HTTP server starting", zap.String("address", listener.Addr().String()))

	go func() {
		if err := f.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts the HTTP server down, waiting for in-flight requests
func (f *HTTPFilter) Stop() error {
	if f.server == nil {
		return nil
	}

	ctx := context.Background()
	if f.opts.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.ShutdownTimeout)
		defer cancel()
	}

	return f.server.Shutdown(ctx)
}

// ProcessSubmission classifies a submission without going through HTTP
func (f *HTTPFilter) ProcessSubmission(ctx context.Context, sub *core.EmailSubmission) (*core.ClassificationResult, error) {
	return f.service.Analyze(ctx, sub)
}
