package factory

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/lmarin/mailtriage/internal/adapters/bedrock"
	"github.com/lmarin/mailtriage/internal/adapters/gemini"
	"github.com/lmarin/mailtriage/internal/adapters/openai"
	"github.com/lmarin/mailtriage/internal/config"
	"github.com/lmarin/mailtriage/internal/core"
	"github.com/lmarin/mailtriage/internal/utils"
	"go.uber.org/zap"
)

// GeneratorFactory creates response generators
type GeneratorFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewGeneratorFactory creates a new generator factory
func NewGeneratorFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *GeneratorFactory {
	return &GeneratorFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateResponseGenerator creates a response generator based on the configuration
func (f *GeneratorFactory) CreateResponseGenerator() (core.ResponseGenerator, error) {
	llmCfg := f.cfg.GetLLM()

	switch llmCfg.Provider {
	case "gemini":
		geminiCfg := f.cfg.GetGemini()
		return gemini.NewGenerator(
			geminiCfg.APIKey,
			geminiCfg.ModelName,
			geminiCfg.MaxTokens,
			geminiCfg.Temperature,
			geminiCfg.TopP,
			geminiCfg.MaxBodySize,
			f.textProcessor,
			f.logger,
		)
	case "openai":
		openaiCfg := f.cfg.GetOpenAI()
		return openai.NewGenerator(
			openaiCfg.APIKey,
			openaiCfg.ModelName,
			openaiCfg.MaxTokens,
			openaiCfg.Temperature,
			openaiCfg.TopP,
			openaiCfg.MaxBodySize,
			f.textProcessor,
			f.logger,
		), nil
	case "bedrock":
		bedrockCfg := f.cfg.GetBedrock()
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(bedrockCfg.Region),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return bedrock.NewGenerator(
			bedrockruntime.NewFromConfig(awsCfg),
			bedrockCfg.ModelID,
			bedrockCfg.MaxTokens,
			bedrockCfg.Temperature,
			bedrockCfg.TopP,
			bedrockCfg.MaxBodySize,
			f.textProcessor,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", llmCfg.Provider)
	}
}
