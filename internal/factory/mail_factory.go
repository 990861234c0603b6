package factory

import (
	"github.com/lmarin/mailtriage/internal/adapters/imapsource"
	"github.com/lmarin/mailtriage/internal/adapters/smtpsender"
	"github.com/lmarin/mailtriage/internal/config"
	"github.com/lmarin/mailtriage/internal/core"
	"go.uber.org/zap"
)

// MailFactory creates the mail source and sender
type MailFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailFactory creates a new mail factory
func NewMailFactory(cfg *config.Config, logger *zap.Logger) *MailFactory {
	return &MailFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailSource creates the IMAP mail source
func (f *MailFactory) CreateMailSource() core.MailSource {
	return imapsource.New(f.cfg.GetIMAP(), f.logger)
}

// CreateMailSender creates the SMTP mail sender
func (f *MailFactory) CreateMailSender() core.MailSender {
	return smtpsender.New(f.cfg.GetSMTP(), f.logger)
}
