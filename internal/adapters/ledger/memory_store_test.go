package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/lmarin/mailtriage/internal/core"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMemoryStoreMarkAndCount(t *testing.T) {
	store := NewMemoryStore(7, zap.NewNop())
	ctx := context.Background()
	now := time.Now()

	assert.False(t, store.IsProcessed(ctx, "1:1"))
	store.MarkProcessed(ctx, "1:1", core.LedgerRecord{From: "a@example.com", Category: "complaint", ResponseSent: true})
	store.MarkProcessed(ctx, "1:2", core.LedgerRecord{From: "A@example.com", ProcessedAt: now.Add(-2 * time.Hour)})
	store.MarkProcessed(ctx, "1:3", core.LedgerRecord{From: "a@example.com", ProcessedAt: now.Add(-30 * time.Hour)})

	assert.True(t, store.IsProcessed(ctx, "1:1"))
	assert.Equal(t, 2, store.CountSenderEmails(ctx, "a@example.com", 24*time.Hour))

	stats := store.Stats(ctx)
	assert.Equal(t, 3, stats.TotalProcessed)
	assert.Equal(t, 1, stats.ResponsesSent)
	assert.Equal(t, 1, stats.Categories["complaint"])
}

func TestMemoryStoreCleanup(t *testing.T) {
	store := NewMemoryStore(7, zap.NewNop())
	ctx := context.Background()

	store.MarkProcessed(ctx, "old", core.LedgerRecord{ProcessedAt: time.Now().Add(-10 * 24 * time.Hour)})
	store.MarkProcessed(ctx, "fresh", core.LedgerRecord{})

	assert.Equal(t, 1, store.Cleanup(ctx, 7*24*time.Hour))
	assert.False(t, store.IsProcessed(ctx, "old"))
	assert.True(t, store.IsProcessed(ctx, "fresh"))
}
