package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/lmarin/mailtriage/internal/config"
	"github.com/lmarin/mailtriage/internal/core"
	"github.com/lmarin/mailtriage/internal/factory"
	"github.com/lmarin/mailtriage/internal/logging"
	"github.com/lmarin/mailtriage/internal/processor"
	"github.com/lmarin/mailtriage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewLedgerFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewGeneratorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewMailFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register ledger repository
	if err := container.Provide(func(f *factory.LedgerFactory) (core.LedgerRepository, error) {
		return f.CreateLedgerRepository()
	}); err != nil {
		return nil, err
	}

	// Register response generator
	if err := container.Provide(func(f *factory.GeneratorFactory) (core.ResponseGenerator, error) {
		return f.CreateResponseGenerator()
	}); err != nil {
		return nil, err
	}

	// Register mail source and sender
	if err := container.Provide(func(f *factory.MailFactory) core.MailSource {
		return f.CreateMailSource()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.MailFactory) core.MailSender {
		return f.CreateMailSender()
	}); err != nil {
		return nil, err
	}

	// Register risk rules with any configured whitelist additions
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.RiskRules {
		rules := core.DefaultRiskRules()
		triageCfg := cfg.GetTriage()
		if len(triageCfg.WhitelistedDomains) > 0 {
			logger.Info("Loaded whitelisted domains", zap.Strings("domains", triageCfg.WhitelistedDomains))
			rules.WhitelistedDomains = append(rules.WhitelistedDomains, triageCfg.WhitelistedDomains...)
		}
		return rules
	}); err != nil {
		return nil, err
	}

	// Register risk scorer
	if err := container.Provide(func(rules core.RiskRules, cfg *config.Config, logger *zap.Logger) (*core.RiskScorer, error) {
		return core.NewRiskScorer(rules, cfg.GetTriage().SpamThreshold, logger)
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(logger *zap.Logger) *core.Classifier {
		return core.NewClassifier(core.DefaultClassifierRules(), logger)
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(func(
		risk *core.RiskScorer,
		classifier *core.Classifier,
		ledger core.LedgerRepository,
		cfg *config.Config,
		logger *zap.Logger,
	) *core.TriageService {
		triageCfg := cfg.GetTriage()
		return core.NewTriageService(risk, classifier, ledger, logger,
			triageCfg.MaxPerSender, triageCfg.RateLimitWindow)
	}); err != nil {
		return nil, err
	}

	// Register processor
	if err := container.Provide(func(
		source core.MailSource,
		triage *core.TriageService,
		generator core.ResponseGenerator,
		sender core.MailSender,
		ledger core.LedgerRepository,
		cfg *config.Config,
		logger *zap.Logger,
	) *processor.Processor {
		return processor.New(source, triage, generator, sender, ledger, logger,
			cfg.GetProcessor().CheckInterval)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
