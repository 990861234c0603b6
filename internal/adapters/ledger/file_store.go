package ledger

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmarin/mailtriage/internal/core"
	"go.uber.org/zap"
)

const (
	storeVersion = 1

	// subjectSnippetLen bounds the stored subject.
	subjectSnippetLen = 100

	// cleanupInterval is how often the retention sweep may run as a side
	// effect of MarkProcessed.
	cleanupInterval = 24 * time.Hour
)

// storeDocument is the persisted schema. Timestamps round-trip as RFC 3339.
type storeDocument struct {
	Version     int                    `json:"version"`
	Emails      map[string]storeRecord `json:"emails"`
	LastCleanup time.Time              `json:"last_cleanup"`
}

type storeRecord struct {
	ProcessedAt  time.Time `json:"processed_at"`
	Subject      string    `json:"subject"`
	From         string    `json:"from"`
	Category     string    `json:"category"`
	ResponseSent bool      `json:"response_sent"`
}

// FileStore is a JSON-file implementation of the LedgerRepository interface.
// In-memory state is authoritative; the file is written synchronously after
// every mutation and a failed write is logged, never surfaced.
type FileStore struct {
	path      string
	retention time.Duration
	logger    *zap.Logger

	mu  sync.RWMutex
	doc storeDocument
}

// NewFileStore loads the ledger from path. A missing or structurally corrupt
// file initializes an empty ledger instead of failing startup.
func NewFileStore(path string, retentionDays int, logger *zap.Logger) *FileStore {
	s := &FileStore{
		path:      path,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}
	s.doc = s.load()
	return s
}

func emptyDocument() storeDocument {
	return storeDocument{
		Version:     storeVersion,
		Emails:      make(map[string]storeRecord),
		LastCleanup: time.Now(),
	}
}

func (s *FileStore) load() storeDocument {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Failed to read ledger file, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return emptyDocument()
	}

	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("Ledger file is corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return emptyDocument()
	}
	if doc.Emails == nil {
		doc.Emails = make(map[string]storeRecord)
	}
	if doc.Version == 0 {
		doc.Version = storeVersion
	}
	if doc.LastCleanup.IsZero() {
		doc.LastCleanup = time.Now()
	}
	return doc
}

// save writes the whole document. Callers hold the write lock.
func (s *FileStore) save() {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		s.logger.Error("Failed to encode ledger", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Error("Failed to save ledger, in-memory state remains authoritative",
			zap.String("path", s.path), zap.Error(err))
	}
}

// IsProcessed reports whether an email id already has a ledger record.
func (s *FileStore) IsProcessed(ctx context.Context, emailID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.doc.Emails[emailID]
	return ok
}

// MarkProcessed upserts the record for an email id and persists the store.
// At most once per day it also sweeps entries past the retention window.
func (s *FileStore) MarkProcessed(ctx context.Context, emailID string, rec core.LedgerRecord) {
	s.mu.Lock()

	processedAt := rec.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now()
	}

	s.doc.Emails[emailID] = storeRecord{
		ProcessedAt:  processedAt,
		Subject:      subjectSnippet(rec.Subject),
		From:         rec.From,
		Category:     rec.Category,
		ResponseSent: rec.ResponseSent,
	}
	s.save()

	due := time.Since(s.doc.LastCleanup) >= cleanupInterval
	s.mu.Unlock()

	if due {
		s.Cleanup(ctx, s.retention)
	}
}

// CountSenderEmails counts records from the sender within the trailing window.
func (s *FileStore) CountSenderEmails(ctx context.Context, sender string, window time.Duration) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-window)
	senderLower := strings.ToLower(sender)
	count := 0
	for _, rec := range s.doc.Emails {
		if rec.ProcessedAt.Before(cutoff) {
			continue
		}
		if strings.ToLower(rec.From) == senderLower {
			count++
		}
	}
	return count
}

// Cleanup removes records older than the retention window.
func (s *FileStore) Cleanup(ctx context.Context, retention time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	removed := 0
	for id, rec := range s.doc.Emails {
		if rec.ProcessedAt.Before(cutoff) {
			delete(s.doc.Emails, id)
			removed++
		}
	}

	s.doc.LastCleanup = time.Now()
	s.save()

	if removed > 0 {
		s.logger.Info("Cleaned up old ledger entries", zap.Int("removed", removed))
	}
	return removed
}

// Stats summarizes the ledger contents.
func (s *FileStore) Stats(ctx context.Context) *core.LedgerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &core.LedgerStats{
		Categories: make(map[string]int),
	}
	for _, rec := range s.doc.Emails {
		stats.TotalProcessed++
		if rec.ResponseSent {
			stats.ResponsesSent++
		}
		stats.Categories[rec.Category]++
	}
	return stats
}

// subjectSnippet bounds the stored subject to its first characters.
func subjectSnippet(subject string) string {
	runes := []rune(subject)
	if len(runes) <= subjectSnippetLen {
		return subject
	}
	return string(runes[:subjectSnippetLen])
}
