package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lmarin/mailtriage/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the LedgerRepository
// interface. Nothing survives a restart; it exists for tests and for runs
// where duplicate suppression only needs to hold within one process.
type MemoryStore struct {
	retention time.Duration
	logger    *zap.Logger

	mu          sync.RWMutex
	records     map[string]core.LedgerRecord
	lastCleanup time.Time
}

// NewMemoryStore creates a new in-memory ledger.
func NewMemoryStore(retentionDays int, logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		retention:   time.Duration(retentionDays) * 24 * time.Hour,
		logger:      logger,
		records:     make(map[string]core.LedgerRecord),
		lastCleanup: time.Now(),
	}
}

// IsProcessed reports whether an email id already has a ledger record.
func (s *MemoryStore) IsProcessed(ctx context.Context, emailID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[emailID]
	return ok
}

// MarkProcessed upserts the record for an email id.
func (s *MemoryStore) MarkProcessed(ctx context.Context, emailID string, rec core.LedgerRecord) {
	s.mu.Lock()

	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now()
	}
	rec.Subject = subjectSnippet(rec.Subject)
	s.records[emailID] = rec

	due := time.Since(s.lastCleanup) >= cleanupInterval
	s.mu.Unlock()

	if due {
		s.Cleanup(ctx, s.retention)
	}
}

// CountSenderEmails counts records from the sender within the trailing window.
func (s *MemoryStore) CountSenderEmails(ctx context.Context, sender string, window time.Duration) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-window)
	senderLower := strings.ToLower(sender)
	count := 0
	for _, rec := range s.records {
		if !rec.ProcessedAt.Before(cutoff) && strings.ToLower(rec.From) == senderLower {
			count++
		}
	}
	return count
}

// Cleanup removes records older than the retention window.
func (s *MemoryStore) Cleanup(ctx context.Context, retention time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	removed := 0
	for id, rec := range s.records {
		if rec.ProcessedAt.Before(cutoff) {
			delete(s.records, id)
			removed++
		}
	}
	s.lastCleanup = time.Now()

	if removed > 0 {
		s.logger.Debug("Cleaned up old ledger entries", zap.Int("removed", removed))
	}
	return removed
}

// Stats summarizes the ledger contents.
func (s *MemoryStore) Stats(ctx context.Context) *core.LedgerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &core.LedgerStats{
		Categories: make(map[string]int),
	}
	for _, rec := range s.records {
		stats.TotalProcessed++
		if rec.ResponseSent {
			stats.ResponsesSent++
		}
		stats.Categories[rec.Category]++
	}
	return stats
}
