package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// MalformedReplyMessage is shown to callers when the model's answer cannot be used
const MalformedReplyMessage = "A resposta do modelo não estava no formato esperado."

// GatewayOptions holds the gateway's size limit and fallbacks for missing keys
type GatewayOptions struct {
	MaxContentSize        int
	DefaultClassification string
	DefaultReply          string
}

// ClassificationGateway asks a model to classify normalized email text
type ClassificationGateway struct {
	llmClient     LLMClient
	prompts       *PromptBuilder
	textProcessor TextProcessor
	opts          GatewayOptions
	logger        *zap.Logger
}

// modelAnswer holds the two keys the model is instructed to return, empty when
// absent or not a scalar
type modelAnswer struct {
	Classificacao    string
	RespostaSugerida string
}

// NewClassificationGateway creates a new classification gateway
func NewClassificationGateway(
	llmClient LLMClient,
	prompts *PromptBuilder,
	textProcessor TextProcessor,
	opts GatewayOptions,
	logger *zap.Logger,
) *ClassificationGateway {
	return &ClassificationGateway{
		llmClient:     llmClient,
		prompts:       prompts,
		textProcessor: textProcessor,
		opts:          opts,
		logger:        logger,
	}
}

// Classify sends content to the model and maps its JSON answer.
// An unusable answer yields a StatusError result, not an error.
func (g *ClassificationGateway) Classify(ctx context.Context, content string) (*ClassificationResult, error) {
	if g.opts.MaxContentSize > 0 && g.textProcessor != nil {
		content = g.textProcessor.TruncateText(content, g.opts.MaxContentSize)
	}

	reply, err := g.llmClient.Generate(ctx, g.prompts.Build(content))
	if err != nil {
		if kind, ok := ModelErrorKindOf(err); ok && kind == ModelErrorMalformedResponse {
			g.logger.Warn("Model returned an unusable response", zap.Error(err))
			return malformedResult(""), nil
		}
		return nil, err
	}

	answer, err := parseModelAnswer(reply.Text)
	if err != nil {
		g.logger.Warn("Model did not return valid JSON",
			zap.Error(err),
			zap.String("model", reply.Model),
			zap.String("response", reply.Text))
		return malformedResult(reply.Model), nil
	}

	return &ClassificationResult{
		Status:         StatusSuccess,
		Classification: valueOr(answer.Classificacao, g.opts.DefaultClassification),
		SuggestedReply: valueOr(answer.RespostaSugerida, g.opts.DefaultReply),
		ModelUsed:      reply.Model,
		AnalyzedAt:     time.Now(),
	}, nil
}

// parseModelAnswer parses the reply strictly, then retries on the outermost {...}
// for models that wrap their JSON in prose or code fences. Scalar values of any
// JSON type are accepted as text.
func parseModelAnswer(text string) (*modelAnswer, error) {
	text = strings.TrimSpace(text)

	fields, err := decodeObject(text)
	if err != nil {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start == -1 || end <= start {
			return nil, errors.New("no JSON object in model response")
		}
		if fields, err = decodeObject(text[start : end+1]); err != nil {
			return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}

	return &modelAnswer{
		Classificacao:    scalarText(fields["classificacao"]),
		RespostaSugerida: scalarText(fields["resposta_sugerida"]),
	}, nil
}

func decodeObject(text string) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("model response is not a JSON object")
	}
	return fields, nil
}

// scalarText renders strings, numbers and booleans, nested values count as missing
func scalarText(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func malformedResult(model string) *ClassificationResult {
	return &ClassificationResult{
		Status:     StatusError,
		Message:    MalformedReplyMessage,
		ModelUsed:  model,
		AnalyzedAt: time.Now(),
	}
}
