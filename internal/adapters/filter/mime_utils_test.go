package filter

import (
	"mime"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMessage(t *testing.T, raw string) *mail.Message {
	t.Helper()
	msg, err := mail.ReadMessage(strings.NewReader(crlf(raw)))
	require.NoError(t, err)
	return msg
}

func TestExtractTextFromMessage_Plain(t *testing.T) {
	msg := readMessage(t, `From: a@example.com
Subject: test

Quando meu pedido chega?
`)
	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "Quando meu pedido chega?", text)
}

func TestExtractTextFromMessage_QuotedPrintable(t *testing.T) {
	msg := readMessage(t, `Content-Type: text/plain; charset=utf-8
Content-Transfer-Encoding: quoted-printable

Pedido n=C3=A3o entregue
`)
	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "Pedido não entregue", text)
}

func TestExtractTextFromMessage_Multipart(t *testing.T) {
	msg := readMessage(t, `Content-Type: multipart/mixed; boundary=outer

--outer
Content-Type: multipart/alternative; boundary=inner

--inner
Content-Type: text/plain; charset=utf-8

Texto principal
--inner
Content-Type: text/html

<p>Texto principal</p>
--inner--
--outer
Content-Type: text/plain
Content-Disposition: attachment; filename=notes.txt

anexo ignorado
--outer
Content-Type: text/plain
Content-Transfer-Encoding: base64

U2VndW5kYSBwYXJ0ZQ==
--outer--
`)
	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "Texto principal\nSegunda parte", text)
}

func TestExtractTextFromMessage_NoText(t *testing.T) {
	msg := readMessage(t, `Content-Type: image/png

binary
`)
	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestEncodeHeaderValue(t *testing.T) {
	assert.Equal(t, "Produtivo", encodeHeaderValue("Produtivo"))

	encoded := encodeHeaderValue("Olá, obrigado pelo contato.\nRetornaremos em breve.")
	assert.True(t, strings.HasPrefix(encoded, "=?utf-8?q?"))

	decoded, err := new(mime.WordDecoder).DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, "Olá, obrigado pelo contato. Retornaremos em breve.", decoded)
}

func TestDecodeEncodedHeader(t *testing.T) {
	decoded, err := decodeEncodedHeader("=?utf-8?q?Reclama=C3=A7=C3=A3o?=")
	require.NoError(t, err)
	assert.Equal(t, "Reclamação", decoded)
}
