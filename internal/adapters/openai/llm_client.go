package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const providerName = "openai"

// OpenAIClient is an implementation of the LLMClient interface using OpenAI
// or any endpoint speaking the chat completions API
type OpenAIClient struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client. An empty baseURL selects the
// public OpenAI endpoint.
func NewOpenAIClient(
	apiKey string,
	baseURL string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Generate sends the prompt as a system and a user message and returns the first choice
func (c *OpenAIClient) Generate(ctx context.Context, prompt core.Prompt) (*core.ModelReply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt.User,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.modelName,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: wireTemperature(c.temperature),
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		kind := classifyError(err)
		c.logger.Error("OpenAI request failed",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("model", c.modelName))
		return nil, core.NewModelError(providerName, kind, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, core.NewModelError(providerName, core.ModelErrorMalformedResponse,
			fmt.Errorf("empty response from OpenAI"))
	}

	model := resp.Model
	if model == "" {
		model = c.modelName
	}

	return &core.ModelReply{
		Text:  resp.Choices[0].Message.Content,
		Model: model,
		ID:    resp.ID,
	}, nil
}

// classifyError maps go-openai errors onto model error kinds
func classifyError(err error) core.ModelErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.ModelErrorTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return kindForHTTPStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return kindForHTTPStatus(reqErr.HTTPStatusCode)
	}

	return core.ModelErrorUnavailable
}

func kindForHTTPStatus(code int) core.ModelErrorKind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.ModelErrorAuthentication
	case http.StatusTooManyRequests:
		return core.ModelErrorRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return core.ModelErrorTimeout
	default:
		return core.ModelErrorUnavailable
	}
}

// wireTemperature keeps a zero temperature on the wire, go-openai omits the
// field when it is empty and the API then defaults to 1.0
func wireTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
