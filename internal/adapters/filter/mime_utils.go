package filter

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
)

// maxMultipartDepth bounds recursion into nested multipart bodies
const maxMultipartDepth = 5

var headerDecoder = new(mime.WordDecoder)

// decodeEncodedHeader decodes RFC 2047 encoded-words in a header value
func decodeEncodedHeader(value string) (string, error) {
	return headerDecoder.DecodeHeader(value)
}

// encodeHeaderValue encodes a header value as RFC 2047 encoded-words when it
// is not plain ASCII, folding between words
func encodeHeaderValue(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	encoded := mime.QEncoding.Encode("utf-8", value)
	return strings.ReplaceAll(encoded, "?= =?", "?=\r\n =?")
}

// extractTextFromMessage extracts the text/plain content of an email message.
// Multipart bodies are walked recursively and their text/plain parts joined.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	text, err := extractText(textproto.MIMEHeader(msg.Header), msg.Body, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func extractText(header textproto.MIMEHeader, body io.Reader, depth int) (string, error) {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable Content-Type, treat the body as plain text
		mediaType = "text/plain"
	}

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		boundary := params["boundary"]
		if boundary == "" || depth >= maxMultipartDepth {
			return "", nil
		}
		return extractMultipart(body, boundary, depth)
	case mediaType == "text/plain":
		if isAttachment(header) {
			return "", nil
		}
		data, err := io.ReadAll(decodeTransfer(header.Get("Content-Transfer-Encoding"), body))
		if err != nil {
			return "", fmt.Errorf("failed to read text part: %w", err)
		}
		return string(data), nil
	default:
		return "", nil
	}
}

func extractMultipart(body io.Reader, boundary string, depth int) (string, error) {
	mr := multipart.NewReader(body, boundary)

	var textContent bytes.Buffer
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Return what was collected from a truncated or malformed body
			if textContent.Len() > 0 {
				return textContent.String(), nil
			}
			return "", fmt.Errorf("failed to read multipart body: %w", err)
		}

		text, err := extractText(part.Header, part, depth+1)
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) != "" {
			textContent.WriteString(strings.TrimRight(text, "\r\n"))
			textContent.WriteString("\n")
		}
	}

	return textContent.String(), nil
}

func decodeTransfer(encoding string, body io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return quotedprintable.NewReader(body)
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, body)
	default:
		return body
	}
}

func isAttachment(header textproto.MIMEHeader) bool {
	disposition, _, err := mime.ParseMediaType(header.Get("Content-Disposition"))
	return err == nil && disposition == "attachment"
}
