package filter

import (
	"bytes"
	"context"
	"testing"

	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCliFilter_ProcessSubmission(t *testing.T) {
	var out bytes.Buffer
	f := NewCliFilter(newTestService(t, &stubLLM{reply: productiveReply}), zap.NewNop(), &out, true)

	result, err := f.ProcessSubmission(context.Background(), &core.EmailSubmission{
		File: &core.UploadedFile{Filename: "mail.txt", ContentType: "text/plain", Content: []byte("Meu pedido atrasou")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Produtivo", result.Classification)

	printed := out.String()
	assert.Contains(t, printed, "Source: file mail.txt (text/plain)")
	assert.Contains(t, printed, "Preview:\nMeu pedido atrasou")
	assert.Contains(t, printed, "Classification: Produtivo")
	assert.Contains(t, printed, "Suggested reply: Olá, já verificamos o seu pedido.")
	assert.Contains(t, printed, "Model used: stub-model")
}

func TestCliFilter_SoftFailure(t *testing.T) {
	var out bytes.Buffer
	f := NewCliFilter(newTestService(t, &stubLLM{reply: "sem json"}), zap.NewNop(), &out, false)

	result, err := f.ProcessSubmission(context.Background(), &core.EmailSubmission{RawText: "Meu pedido atrasou"})
	require.NoError(t, err)
	assert.Equal(t, core.StatusError, result.Status)
	assert.Contains(t, out.String(), "Message: "+core.MalformedReplyMessage)
	assert.NotContains(t, out.String(), "Preview:")
}

func TestCliFilter_Error(t *testing.T) {
	var out bytes.Buffer
	f := NewCliFilter(newTestService(t, &stubLLM{reply: productiveReply}), zap.NewNop(), &out, false)

	_, err := f.ProcessSubmission(context.Background(), &core.EmailSubmission{RawText: "   "})
	assert.ErrorIs(t, err, core.ErrContentRequired)
	assert.Contains(t, out.String(), "Error: ")
	assert.NoError(t, f.Start())
	assert.NoError(t, f.Stop())
}
