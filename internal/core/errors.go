package core

import (
	"errors"
	"fmt"
)

// Validation errors are caused by the client and never retried
var (
	ErrContentRequired     = errors.New("text or file content required")
	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrNoAnalyzableContent = errors.New("no analyzable content")
)

// ErrCacheMiss is returned by cache repositories when no live entry exists
var ErrCacheMiss = errors.New("cache entry not found")

// ModelErrorKind tags why a model call failed
type ModelErrorKind string

const (
	ModelErrorTimeout           ModelErrorKind = "timeout"
	ModelErrorAuthentication    ModelErrorKind = "authentication"
	ModelErrorRateLimited       ModelErrorKind = "rate_limited"
	ModelErrorMalformedResponse ModelErrorKind = "malformed_response"
	ModelErrorUnavailable       ModelErrorKind = "unavailable"
)

// ModelError is returned by LLMClient implementations
type ModelError struct {
	Provider string
	Kind     ModelErrorKind
	Err      error
}

// NewModelError wraps err with the provider name and failure kind
func NewModelError(provider string, kind ModelErrorKind, err error) *ModelError {
	return &ModelError{Provider: provider, Kind: kind, Err: err}
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s model call failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ModelErrorKindOf returns the kind of the first ModelError in err's chain
func ModelErrorKindOf(err error) (ModelErrorKind, bool) {
	var modelErr *ModelError
	if errors.As(err, &modelErr) {
		return modelErr.Kind, true
	}
	return "", false
}

// IsValidationError reports whether err was caused by the submitted content
func IsValidationError(err error) bool {
	return errors.Is(err, ErrContentRequired) ||
		errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrNoAnalyzableContent)
}
