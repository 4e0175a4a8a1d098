// Package normalizer condenses email text before it is sent to a model.
package normalizer

import (
	"fmt"
	"strings"

	"github.com/mikey/llm-email-triage/internal/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	// ModeStopWords tokenizes and drops punctuation and stop-words
	ModeStopWords = "stopwords"
	// ModeLowercase only lowercases and trims
	ModeLowercase = "lowercase"
)

// StopWordNormalizer lowercases, tokenizes and keeps alphanumeric non stop-word tokens
type StopWordNormalizer struct {
	tag       language.Tag
	stopWords StopWords
}

// NewStopWordNormalizer loads the stop-word list for lang once
func NewStopWordNormalizer(lang string) (*StopWordNormalizer, error) {
	stopWords, err := LoadStopWords(lang)
	if err != nil {
		return nil, err
	}
	return &StopWordNormalizer{tag: languages[lang], stopWords: stopWords}, nil
}

// Normalize returns the surviving tokens joined by single spaces, in input order
func (n *StopWordNormalizer) Normalize(text string) string {
	// cases.Caser is stateful, one per call keeps Normalize safe for concurrent use
	lowered := cases.Lower(n.tag).String(norm.NFC.String(text))

	tokens := Tokenize(strings.TrimSpace(lowered))
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if IsAlnum(token) && !n.stopWords.Contains(token) {
			kept = append(kept, token)
		}
	}

	return strings.Join(kept, " ")
}

// LowercaseNormalizer only lowercases and trims
type LowercaseNormalizer struct {
	tag language.Tag
}

// NewLowercaseNormalizer creates a lowercase-only normalizer for lang
func NewLowercaseNormalizer(lang string) (*LowercaseNormalizer, error) {
	tag, ok := languages[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported normalizer language: %s", lang)
	}
	return &LowercaseNormalizer{tag: tag}, nil
}

// Normalize lowercases and trims text
func (n *LowercaseNormalizer) Normalize(text string) string {
	return strings.TrimSpace(cases.Lower(n.tag).String(text))
}

// New creates the normalizer for mode
func New(mode, lang string) (core.Normalizer, error) {
	switch mode {
	case ModeStopWords, "":
		return NewStopWordNormalizer(lang)
	case ModeLowercase:
		return NewLowercaseNormalizer(lang)
	default:
		return nil, fmt.Errorf("unsupported normalizer mode: %s", mode)
	}
}
