package bedrock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/mikey/llm-email-triage/internal/core"
	"go.uber.org/zap"
)

const providerName = "bedrock"

// ConverseAPI is the part of the Bedrock runtime client used here
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockClient is an implementation of the LLMClient interface using Amazon Bedrock
type BedrockClient struct {
	client      ConverseAPI
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client ConverseAPI,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *BedrockClient {
	return &BedrockClient{
		client:      client,
		modelID:     modelID,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
	}
}

// Generate calls the Converse API, which gives every Bedrock model the same request shape
func (c *BedrockClient) Generate(ctx context.Context, prompt core.Prompt) (*core.ModelReply, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(c.modelID),
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt.User}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(c.temperature),
			TopP:        aws.Float32(c.topP),
		},
	}
	if c.maxTokens > 0 {
		input.InferenceConfig.MaxTokens = aws.Int32(int32(c.maxTokens))
	}
	if prompt.System != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: prompt.System},
		}
	}

	resp, err := c.client.Converse(ctx, input)
	if err != nil {
		kind := classifyError(err)
		c.logger.Error("Bedrock request failed",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("model", c.modelID))
		return nil, core.NewModelError(providerName, kind, err)
	}

	text, err := outputText(resp)
	if err != nil {
		return nil, core.NewModelError(providerName, core.ModelErrorMalformedResponse, err)
	}

	return &core.ModelReply{Text: text, Model: c.modelID}, nil
}

// outputText concatenates the text blocks of the assistant message
func outputText(resp *bedrockruntime.ConverseOutput) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from Bedrock")
	}

	msg, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", fmt.Errorf("unexpected Bedrock output type %T", resp.Output)
	}

	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("Bedrock response has no text blocks")
	}

	return b.String(), nil
}

// classifyError maps Bedrock runtime exceptions onto model error kinds
func classifyError(err error) core.ModelErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return core.ModelErrorTimeout
	}

	var (
		throttling   *types.ThrottlingException
		quota        *types.ServiceQuotaExceededException
		accessDenied *types.AccessDeniedException
		modelTimeout *types.ModelTimeoutException
	)
	switch {
	case errors.As(err, &throttling), errors.As(err, &quota):
		return core.ModelErrorRateLimited
	case errors.As(err, &accessDenied):
		return core.ModelErrorAuthentication
	case errors.As(err, &modelTimeout):
		return core.ModelErrorTimeout
	}

	return core.ModelErrorUnavailable
}
