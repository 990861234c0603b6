package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/lmarin/mailtriage/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the LedgerRepository interface,
// for deployments where several tools share the processing history.
type MySQLStore struct {
	db        *sql.DB
	retention time.Duration
	logger    *zap.Logger
}

// NewMySQLStore connects to the ledger database.
func NewMySQLStore(dsn string, retentionDays int, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS processed_emails (
			email_id VARCHAR(255) PRIMARY KEY,
			processed_at VARCHAR(40),
			subject VARCHAR(255),
			from_address VARCHAR(255),
			category VARCHAR(64),
			response_sent BOOLEAN,
			INDEX idx_processed_at (processed_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS ledger_meta (
			meta_key VARCHAR(64) PRIMARY KEY,
			meta_value VARCHAR(40)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create meta table: %w", err)
	}

	return &MySQLStore{
		db:        db,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}, nil
}

// IsProcessed reports whether an email id already has a ledger record.
func (s *MySQLStore) IsProcessed(ctx context.Context, emailID string) bool {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM processed_emails WHERE email_id = ?
	`, emailID).Scan(&one)

	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Error("Failed to query ledger", zap.Error(err), zap.String("email_id", emailID))
		}
		return false
	}
	return true
}

// MarkProcessed upserts the record for an email id.
func (s *MySQLStore) MarkProcessed(ctx context.Context, emailID string, rec core.LedgerRecord) {
	processedAt := rec.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		REPLACE INTO processed_emails
			(email_id, processed_at, subject, from_address, category, response_sent)
		VALUES (?, ?, ?, ?, ?, ?)
	`, emailID, processedAt.UTC().Format(time.RFC3339), subjectSnippet(rec.Subject),
		rec.From, rec.Category, rec.ResponseSent)

	if err != nil {
		s.logger.Error("Failed to insert ledger record", zap.Error(err), zap.String("email_id", emailID))
	}

	if s.cleanupDue(ctx) {
		s.Cleanup(ctx, s.retention)
	}
}

// CountSenderEmails counts records from the sender within the trailing window.
func (s *MySQLStore) CountSenderEmails(ctx context.Context, sender string, window time.Duration) int {
	cutoff := time.Now().Add(-window).UTC().Format(time.RFC3339)

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM processed_emails
		WHERE LOWER(from_address) = ? AND processed_at >= ?
	`, strings.ToLower(sender), cutoff).Scan(&count)

	if err != nil {
		s.logger.Error("Failed to count sender emails", zap.Error(err), zap.String("sender", sender))
		return 0
	}
	return count
}

// Cleanup removes records older than the retention window.
func (s *MySQLStore) Cleanup(ctx context.Context, retention time.Duration) int {
	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339)

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM processed_emails WHERE processed_at < ?
	`, cutoff)
	if err != nil {
		s.logger.Error("Failed to clean up ledger", zap.Error(err))
		return 0
	}

	s.setLastCleanup(ctx, time.Now())

	removed, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
		return 0
	}
	if removed > 0 {
		s.logger.Info("Cleaned up old ledger entries", zap.Int64("removed", removed))
	}
	return int(removed)
}

// Stats summarizes the ledger contents.
func (s *MySQLStore) Stats(ctx context.Context) *core.LedgerStats {
	stats := &core.LedgerStats{
		Categories: make(map[string]int),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, response_sent, COUNT(*)
		FROM processed_emails
		GROUP BY category, response_sent
	`)
	if err != nil {
		s.logger.Error("Failed to query ledger stats", zap.Error(err))
		return stats
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var responseSent bool
		var count int
		if err := rows.Scan(&category, &responseSent, &count); err != nil {
			s.logger.Error("Failed to scan ledger stats", zap.Error(err))
			continue
		}
		stats.TotalProcessed += count
		if responseSent {
			stats.ResponsesSent += count
		}
		stats.Categories[category] += count
	}
	return stats
}

func (s *MySQLStore) cleanupDue(ctx context.Context) bool {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT meta_value FROM ledger_meta WHERE meta_key = 'last_cleanup'
	`).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			s.logger.Error("Failed to read last cleanup time", zap.Error(err))
		}
		s.setLastCleanup(ctx, time.Now())
		return false
	}

	last, err := time.Parse(time.RFC3339, value)
	if err != nil {
		s.setLastCleanup(ctx, time.Now())
		return false
	}
	return time.Since(last) >= cleanupInterval
}

func (s *MySQLStore) setLastCleanup(ctx context.Context, t time.Time) {
	_, err := s.db.ExecContext(ctx, `
		REPLACE INTO ledger_meta (meta_key, meta_value) VALUES ('last_cleanup', ?)
	`, t.UTC().Format(time.RFC3339))
	if err != nil {
		s.logger.Error("Failed to record last cleanup time", zap.Error(err))
	}
}

// Close closes the database connection.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
