package filter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/mikey/llm-email-triage/internal/normalizer"
	"github.com/mikey/llm-email-triage/internal/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubLLM answers every prompt with a fixed reply or error and records prompts
type stubLLM struct {
	reply   string
	err     error
	prompts []core.Prompt
}

func (s *stubLLM) Generate(_ context.Context, prompt core.Prompt) (*core.ModelReply, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return &core.ModelReply{Text: s.reply, Model: "stub-model"}, nil
}

func newTestService(t *testing.T, llm core.LLMClient) *core.AnalysisService {
	t.Helper()

	norm, err := normalizer.New(normalizer.ModeStopWords, "portuguese")
	require.NoError(t, err)
	prompts, err := core.NewPromptBuilder("", "")
	require.NoError(t, err)

	gateway := core.NewClassificationGateway(llm, prompts, utils.NewTextProcessor(zap.NewNop()), core.GatewayOptions{
		MaxContentSize:        8000,
		DefaultClassification: "Não Classificado",
		DefaultReply:          "Não foi possível gerar uma resposta.",
	}, zap.NewNop())

	return core.NewAnalysisService(norm, gateway, nil, core.ServiceSettings{}, zap.NewNop())
}

const productiveReply = `{"classificacao":"Produtivo","resposta_sugerida":"Olá, já verificamos o seu pedido."}`

var errTransport = core.NewModelError("stub", core.ModelErrorUnavailable, errors.New("connection refused"))

func lastUserPrompt(t *testing.T, llm *stubLLM) string {
	t.Helper()
	require.NotEmpty(t, llm.prompts)
	return llm.prompts[len(llm.prompts)-1].User
}

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}
