package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/mikey/llm-email-triage/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

const providerName = "gemini"

// blockNone disables every content-safety filter category. Business email about
// complaints, failures or disputes must reach the model unfiltered.
var blockNone = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
}

// GeminiClient is an implementation of the LLMClient interface using Google Gemini
type GeminiClient struct {
	client      *genai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*GeminiClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// newModel builds a model handle for one call; handles are not shared between requests
func (c *GeminiClient) newModel(systemInstruction string) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(c.temperature)
	model.SetTopP(c.topP)
	if c.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(c.maxTokens))
	}
	model.ResponseMIMEType = "application/json"
	model.SafetySettings = blockNone
	if systemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	}
	return model
}

// Generate sends the prompt to Gemini and returns the text of the first candidate
func (c *GeminiClient) Generate(ctx context.Context, prompt core.Prompt) (*core.ModelReply, error) {
	resp, err := c.newModel(prompt.System).GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		kind := classifyError(err)
		c.logger.Error("Gemini request failed",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("model", c.modelName))
		return nil, core.NewModelError(providerName, kind, err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, core.NewModelError(providerName, core.ModelErrorMalformedResponse, err)
	}

	return &core.ModelReply{Text: text, Model: c.modelName}, nil
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("empty response from Gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("Gemini response has no text parts")
	}

	return b.String(), nil
}

// classifyError maps Gemini SDK errors onto model error kinds
func classifyError(err error) core.ModelErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.ModelErrorTimeout
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return core.ModelErrorMalformedResponse
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := kindForHTTPStatus(apiErr.HTTPCode()); ok {
			return kind
		}
		if status := apiErr.GRPCStatus(); status != nil {
			switch status.Code() {
			case codes.Unauthenticated, codes.PermissionDenied:
				return core.ModelErrorAuthentication
			case codes.ResourceExhausted:
				return core.ModelErrorRateLimited
			case codes.DeadlineExceeded:
				return core.ModelErrorTimeout
			}
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		if kind, ok := kindForHTTPStatus(gErr.Code); ok {
			return kind
		}
	}

	return core.ModelErrorUnavailable
}

func kindForHTTPStatus(code int) (core.ModelErrorKind, bool) {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.ModelErrorAuthentication, true
	case http.StatusTooManyRequests:
		return core.ModelErrorRateLimited, true
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return core.ModelErrorTimeout, true
	}
	return "", false
}
