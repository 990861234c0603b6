package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/lmarin/mailtriage/internal/adapters/replyprompt"
	"github.com/lmarin/mailtriage/internal/core"
	"github.com/lmarin/mailtriage/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Generator is an implementation of the ResponseGenerator interface using
// Google Gemini.
type Generator struct {
	client        *genai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	textProcessor *utils.TextProcessor
	gate          *requestGate
	logger        *zap.Logger
}

// geminiRequestsPerMinute matches the free-tier quota of the Gemini API.
const geminiRequestsPerMinute = 60

// NewGenerator creates a new Gemini reply generator.
func NewGenerator(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) (*Generator, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Generator{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		textProcessor: textProcessor,
		gate:          newRequestGate(geminiRequestsPerMinute),
		logger:        logger,
	}, nil
}

// Close closes the Gemini client.
func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// GenerateReply produces the reply body for a sanitized email.
func (g *Generator) GenerateReply(ctx context.Context, email *core.InboundEmail, triage *core.TriageResult) (string, error) {
	if err := g.gate.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for request slot: %w", err)
	}

	body := g.textProcessor.ProcessText(email.Body, g.maxBodySize)
	prompt := replyprompt.Build(email, triage, body)

	// The model is configured per call because the temperature depends on
	// the triage category.
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(replyprompt.Temperature(triage.Category, g.temperature))
	model.SetTopP(g.topP)
	model.SetMaxOutputTokens(int32(g.maxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	reply := replyprompt.CleanReply(responseText)

	g.logger.Debug("Generated reply",
		zap.String("email_id", email.ID),
		zap.String("category", string(triage.Category)),
		zap.Int("reply_size", len(reply)))

	return reply, nil
}
