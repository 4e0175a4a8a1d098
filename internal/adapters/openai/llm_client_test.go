package openai

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, status int, body any, seen *openai.ChatCompletionRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(baseURL string) *OpenAIClient {
	return NewOpenAIClient("test-key", baseURL, "gpt-4o-mini", 256, 0, 0.9, zap.NewNop())
}

func TestGenerate(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := newTestServer(t, http.StatusOK, openai.ChatCompletionResponse{
		ID:    "chatcmpl-1",
		Model: "gpt-4o-mini-2024-07-18",
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: `{"classificacao":"Produtivo","resposta_sugerida":"Ok"}`,
			},
		}},
	}, &seen)

	reply, err := newTestClient(srv.URL).Generate(context.Background(), core.Prompt{
		System: "sys",
		User:   "user",
	})
	require.NoError(t, err)

	assert.Equal(t, `{"classificacao":"Produtivo","resposta_sugerida":"Ok"}`, reply.Text)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", reply.Model)
	assert.Equal(t, "chatcmpl-1", reply.ID)

	require.Len(t, seen.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, seen.Messages[0].Role)
	assert.Equal(t, "sys", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Content)
	require.NotNil(t, seen.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, seen.ResponseFormat.Type)
}

func TestGenerate_NoSystemMessage(t *testing.T) {
	var seen openai.ChatCompletionRequest
	srv := newTestServer(t, http.StatusOK, openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Content: "{}"},
		}},
	}, &seen)

	reply, err := newTestClient(srv.URL).Generate(context.Background(), core.Prompt{User: "user"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", reply.Model)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, seen.Messages[0].Role)
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, openai.ChatCompletionResponse{}, nil)

	_, err := newTestClient(srv.URL).Generate(context.Background(), core.Prompt{User: "x"})
	kind, ok := core.ModelErrorKindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.ModelErrorMalformedResponse, kind)
}

func TestGenerate_ErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		want   core.ModelErrorKind
	}{
		{http.StatusUnauthorized, core.ModelErrorAuthentication},
		{http.StatusTooManyRequests, core.ModelErrorRateLimited},
		{http.StatusGatewayTimeout, core.ModelErrorTimeout},
		{http.StatusInternalServerError, core.ModelErrorUnavailable},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := newTestServer(t, tt.status, map[string]any{
				"error": map[string]any{"message": "boom", "type": "test"},
			}, nil)

			_, err := newTestClient(srv.URL).Generate(context.Background(), core.Prompt{User: "x"})
			require.Error(t, err)

			var modelErr *core.ModelError
			require.ErrorAs(t, err, &modelErr)
			assert.Equal(t, "openai", modelErr.Provider)
			assert.Equal(t, tt.want, modelErr.Kind)
		})
	}
}

func TestGenerate_ContextDeadline(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, openai.ChatCompletionResponse{}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()

	_, err := newTestClient(srv.URL).Generate(ctx, core.Prompt{User: "x"})
	kind, ok := core.ModelErrorKindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.ModelErrorTimeout, kind)
}

func TestGenerate_ZeroTemperatureIsSent(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &raw))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: "{}"}}},
		}))
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(srv.URL).Generate(context.Background(), core.Prompt{User: "user"})
	require.NoError(t, err)

	require.Contains(t, raw, "temperature")
	var temperature float64
	require.NoError(t, json.Unmarshal(raw["temperature"], &temperature))
	assert.Greater(t, temperature, 0.0)
	assert.Less(t, temperature, 1e-6)
}

func TestWireTemperature(t *testing.T) {
	assert.Equal(t, float32(math.SmallestNonzeroFloat32), wireTemperature(0))
	assert.Equal(t, float32(0.3), wireTemperature(0.3))
}
