package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/lmarin/mailtriage/internal/adapters/replyprompt"
	"github.com/lmarin/mailtriage/internal/core"
	"github.com/lmarin/mailtriage/internal/utils"
	"go.uber.org/zap"
)

// Generator is an implementation of the ResponseGenerator interface using
// Amazon Bedrock.
type Generator struct {
	client        *bedrockruntime.Client
	modelID       string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewGenerator creates a new Bedrock reply generator.
func NewGenerator(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *Generator {
	return &Generator{
		client:        client,
		modelID:       modelID,
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
	temperature := replyprompt.Temperature(triage.Category, g.temperature)

	var payload []byte
	var err error

	if g.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": g.maxTokens,
			"temperature":          temperature,
			"top_p":                g.topP,
		})
	} else if g.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": g.maxTokens,
				"temperature":   temperature,
				"topP":          g.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  g.maxTokens,
			"temperature": temperature,
			"top_p":       g.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &g.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var responseText string

	if g.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		responseText = claudeResp.Completion
	} else if g.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(resp.Body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		responseText = titanResp.Results[0].OutputText
	} else {
		var genericResp struct {
			Output   string `json:"output"`
			Text     string `json:"text"`
			Response string `json:"response"`
		}
		if err := json.Unmarshal(resp.Body, &genericResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
		}
		switch {
		case genericResp.Output != "":
			responseText = genericResp.Output
		case genericResp.Text != "":
			responseText = genericResp.Text
		case genericResp.Response != "":
			responseText = genericResp.Response
		default:
			responseText = string(resp.Body)
		}
	}

	reply := replyprompt.CleanReply(responseText)

	g.logger.Debug("Generated reply",
		zap.String("email_id", email.ID),
		zap.String("category", string(triage.Category)),
		zap.Int("reply_size", len(reply)))

	return reply, nil
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (g *Generator) isAnthropicModel() bool {
	return strings.HasPrefix(g.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (g *Generator) isAmazonTitanModel() bool {
	return strings.HasPrefix(g.modelID, "amazon.titan")
}
