package ports

import (
	"context"

	"github.com/mikey/llm-email-triage/internal/core"
)

// EmailFilter defines the interface for an intake that feeds emails to the analysis service
type EmailFilter interface {
	// ProcessSubmission classifies one submission and returns the result
	ProcessSubmission(ctx context.Context, sub *core.EmailSubmission) (*core.ClassificationResult, error)

	// Start starts the intake
	Start() error

	// Stop stops the intake
	Stop() error
}
