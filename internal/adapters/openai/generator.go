package openai

import (
	"context"
	"fmt"

	"github.com/lmarin/mailtriage/internal/adapters/replyprompt"
	"github.com/lmarin/mailtriage/internal/core"
	"github.com/lmarin/mailtriage/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Generator is an implementation of the ResponseGenerator interface using
// OpenAI chat completions.
type Generator struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewGenerator creates a new OpenAI reply generator.
func NewGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		client:        openai.NewClient(apiKey),
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// GenerateReply produces the reply body for a sanitized email.
func (g *Generator) GenerateReply(ctx context.Context, email *core.InboundEmail, triage *core.TriageResult) (string, error) {
	body := g.textProcessor.ProcessText(email.Body, g.maxBodySize)
	prompt := replyprompt.Build(email, triage, body)

	req := openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a customer support assistant. Respond only with the email body text.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		Temperature: replyprompt.Temperature(triage.Category, g.temperature),
		TopP:        g.topP,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	reply := replyprompt.CleanReply(resp.Choices[0].Message.Content)

	g.logger.Debug("Generated reply",
		zap.String("email_id", email.ID),
		zap.String("category", string(triage.Category)),
		zap.String("completion_id", resp.ID),
		zap.Int("reply_size", len(reply)))

	return reply, nil
}
