package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInput(t *testing.T) {
	tests := []struct {
		name    string
		sub     *EmailSubmission
		want    string
		wantErr error
	}{
		{
			name: "typed text is trimmed",
			sub:  &EmailSubmission{RawText: "  Preciso de ajuda com meu pedido \n"},
			want: "Preciso de ajuda com meu pedido",
		},
		{
			name: "typed text wins over a plain text file",
			sub: &EmailSubmission{
				RawText: "texto digitado",
				File:    &UploadedFile{Filename: "email.txt", ContentType: "text/plain", Content: []byte("conteudo do arquivo")},
			},
			want: "texto digitado",
		},
		{
			name: "typed text wins over an unsupported file",
			sub: &EmailSubmission{
				RawText: "texto digitado",
				File:    &UploadedFile{Filename: "foto.png", ContentType: "image/png", Content: []byte{0x89, 'P', 'N', 'G'}},
			},
			want: "texto digitado",
		},
		{
			name: "blank text falls back to the file",
			sub: &EmailSubmission{
				RawText: "   ",
				File:    &UploadedFile{Filename: "email.txt", ContentType: "text/plain", Content: []byte("  conteudo do arquivo  ")},
			},
			want: "conteudo do arquivo",
		},
		{
			name: "charset parameter is accepted",
			sub: &EmailSubmission{
				File: &UploadedFile{Filename: "email.txt", ContentType: "text/plain; charset=utf-8", Content: []byte("olá")},
			},
			want: "olá",
		},
		{
			name: "non text file is rejected",
			sub: &EmailSubmission{
				File: &UploadedFile{Filename: "foto.png", ContentType: "image/png", Content: []byte("qualquer coisa")},
			},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name: "missing content type is rejected",
			sub: &EmailSubmission{
				File: &UploadedFile{Filename: "email.txt", Content: []byte("conteudo")},
			},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name: "html is not plain text",
			sub: &EmailSubmission{
				File: &UploadedFile{Filename: "email.html", ContentType: "text/html", Content: []byte("<p>oi</p>")},
			},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:    "nothing supplied",
			sub:     &EmailSubmission{},
			wantErr: ErrContentRequired,
		},
		{
			name:    "nil submission",
			sub:     nil,
			wantErr: ErrContentRequired,
		},
		{
			name: "whitespace only file",
			sub: &EmailSubmission{
				RawText: "\t",
				File:    &UploadedFile{Filename: "email.txt", ContentType: "text/plain", Content: []byte(" \n\r\n ")},
			},
			wantErr: ErrContentRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveInput(tt.sub)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeUTF8(t *testing.T) {
	t.Run("valid text is unchanged", func(t *testing.T) {
		assert.Equal(t, "ação rápida", DecodeUTF8([]byte("ação rápida")))
	})

	t.Run("invalid bytes become replacement characters", func(t *testing.T) {
		// latin-1 encoded "ação"
		got := DecodeUTF8([]byte{'a', 0xe7, 0xe3, 'o'})
		assert.Equal(t, "a\uFFFD\uFFFDo", got)
	})

	t.Run("truncated sequence does not fail", func(t *testing.T) {
		got := DecodeUTF8([]byte{'o', 'k', 0xc3})
		assert.Equal(t, "ok\uFFFD", got)
	})
}
