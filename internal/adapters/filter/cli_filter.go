package filter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mikey/llm-email-triage/internal/core"
	"go.uber.org/zap"
)

// CliFilter implements a command-line interface for email triage
type CliFilter struct {
	service *core.AnalysisService
	logger  *zap.Logger
	out     io.Writer
	verbose bool
}

// NewCliFilter creates a new CLI filter that prints to out
func NewCliFilter(service *core.AnalysisService, logger *zap.Logger, out io.Writer, verbose bool) *CliFilter {
	return &CliFilter{
		service: service,
		logger:  logger,
		out:     out,
		verbose: verbose,
	}
}

// ProcessSubmission classifies a submission and prints the results
func (f *CliFilter) ProcessSubmission(ctx context.Context, sub *core.EmailSubmission) (*core.ClassificationResult, error) {
	f.logger.Debug("Processing submission")

	fmt.Fprintf(f.out, "\n=== Email Summary ===\n")
	switch {
	case sub.RawText != "":
		fmt.Fprintf(f.out, "Source: text\n")
		fmt.Fprintf(f.out, "Length: %d bytes\n", len(sub.RawText))
	case sub.File != nil:
		fmt.Fprintf(f.out, "Source: file %s (%s)\n", sub.File.Filename, sub.File.ContentType)
		fmt.Fprintf(f.out, "Length: %d bytes\n", len(sub.File.Content))
	}

	if f.verbose {
		preview := sub.RawText
		if preview == "" && sub.File != nil {
			preview = core.DecodeUTF8(sub.File.Content)
		}
		if runes := []rune(preview); len(runes) > 500 {
			preview = string(runes[:500]) + "..."
		}
		fmt.Fprintf(f.out, "\nPreview:\n%s\n", preview)
	}

	fmt.Fprintf(f.out, "\n=== Analysis ===\n")
	fmt.Fprintf(f.out, "Analyzing email with LLM...\n")
	startTime := time.Now()
	result, err := f.service.Analyze(ctx, sub)
	if err != nil {
		f.logger.Error("Failed to analyze email", zap.Error(err))
		fmt.Fprintf(f.out, "Error: %v\n", err)
		return nil, err
	}
	duration := time.Since(startTime)

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Status: %s\n", result.Status)
	if result.Status == core.StatusSuccess {
		fmt.Fprintf(f.out, "Classification: %s\n", result.Classification)
		fmt.Fprintf(f.out, "Suggested reply: %s\n", result.SuggestedReply)
	} else {
		fmt.Fprintf(f.out, "Message: %s\n", result.Message)
	}
	fmt.Fprintf(f.out, "Model used: %s\n", result.ModelUsed)
	fmt.Fprintf(f.out, "Processing time: %v\n", duration)

	return result, nil
}

// Start is a no-op for the CLI filter
func (f *CliFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CliFilter) Stop() error {
	return nil
}
