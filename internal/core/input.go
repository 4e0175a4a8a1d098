package core

import (
	"fmt"
	"mime"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

const plainTextMediaType = "text/plain"

// ResolveInput picks the effective email text of a submission.
// Typed text wins over an uploaded file; a file must be declared text/plain.
func ResolveInput(sub *EmailSubmission) (string, error) {
	if sub == nil {
		return "", ErrContentRequired
	}

	if text := strings.TrimSpace(sub.RawText); text != "" {
		return text, nil
	}

	if sub.File == nil {
		return "", ErrContentRequired
	}

	if !isPlainText(sub.File.ContentType) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, sub.File.ContentType)
	}

	text := strings.TrimSpace(DecodeUTF8(sub.File.Content))
	if text == "" {
		return "", ErrContentRequired
	}

	return text, nil
}

// DecodeUTF8 decodes b as UTF-8, replacing invalid sequences with U+FFFD
func DecodeUTF8(b []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(decoded)
}

func isPlainText(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == plainTextMediaType
}
