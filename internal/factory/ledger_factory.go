package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lmarin/mailtriage/internal/adapters/ledger"
	"github.com/lmarin/mailtriage/internal/config"
	"github.com/lmarin/mailtriage/internal/core"
	"go.uber.org/zap"
)

// LedgerFactory creates ledger repositories based on configuration
type LedgerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLedgerFactory creates a new ledger factory
func NewLedgerFactory(cfg *config.Config, logger *zap.Logger) *LedgerFactory {
	return &LedgerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLedgerRepository creates a ledger repository based on the configuration
func (f *LedgerFactory) CreateLedgerRepository() (core.LedgerRepository, error) {
	ledgerCfg := f.cfg.GetLedger()

	switch ledgerCfg.Type {
	case "file":
		if dir := filepath.Dir(ledgerCfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create ledger directory: %w", err)
			}
		}
		return ledger.NewFileStore(ledgerCfg.Path, ledgerCfg.RetentionDays, f.logger), nil
	case "memory":
		return ledger.NewMemoryStore(ledgerCfg.RetentionDays, f.logger), nil
	case "sqlite":
		if dir := filepath.Dir(ledgerCfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
			}
		}
		return ledger.NewSQLiteStore(ledgerCfg.SQLitePath, ledgerCfg.RetentionDays, f.logger)
	case "mysql":
		return ledger.NewMySQLStore(ledgerCfg.MySQLDSN, ledgerCfg.RetentionDays, f.logger)
	default:
		return nil, fmt.Errorf("unsupported ledger type: %s", ledgerCfg.Type)
	}
}
