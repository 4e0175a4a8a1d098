package normalizer

import (
	"unicode"
)

// Tokenize splits text into word tokens and single-rune punctuation tokens.
// Hyphens and apostrophes stay inside a word when both of their neighbours are
// word characters ("e-mail", "d'água"). Dots and commas only do so between
// digits ("3.5", "1,99"). Anything else becomes a token of its own.
func Tokenize(text string) []string {
	runes := []rune(text)
	tokens := make([]string, 0, len(runes)/4+1)
	start := -1

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, string(runes[start:end]))
			start = -1
		}
	}

	for i, r := range runes {
		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case start >= 0 && i+1 < len(runes) && joins(r, runes[i-1], runes[i+1]):
			// inner connector, keep the word going
		case unicode.IsSpace(r):
			flush(i)
		default:
			flush(i)
			tokens = append(tokens, string(r))
		}
	}
	flush(len(runes))

	return tokens
}

// IsAlnum reports whether token consists only of letters and numbers
func IsAlnum(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
}

// joins reports whether r continues the word between prev and next
func joins(r, prev, next rune) bool {
	switch r {
	case '-', '\'', '’':
		return isWordRune(next)
	case '.', ',':
		return unicode.IsDigit(prev) && unicode.IsDigit(next)
	}
	return false
}
