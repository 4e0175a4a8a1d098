package core

import (
	"time"
)

// UploadedFile is an email supplied as an uploaded document
type UploadedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// EmailSubmission is one request to classify an email.
// RawText takes precedence over File when it is not blank.
type EmailSubmission struct {
	RawText string
	File    *UploadedFile
}

// ResultStatus reports whether the model produced a usable classification
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// ClassificationResult represents the outcome of analysing one submission
type ClassificationResult struct {
	Status         ResultStatus
	Classification string
	SuggestedReply string
	Message        string
	ModelUsed      string
	Cached         bool
	AnalyzedAt     time.Time
}

// Prompt is what the gateway sends to a model
type Prompt struct {
	System string
	User   string
}

// ModelReply is the raw text a model answered with
type ModelReply struct {
	Text  string
	Model string
	ID    string
}

// CacheEntry is a stored classification keyed by a digest of the normalized text
type CacheEntry struct {
	Key            string
	Classification string
	SuggestedReply string
	ModelUsed      string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}
