package core

import (
	"context"
	"time"
)

// LedgerRepository records every evaluated email for idempotence checks and
// sender rate limiting. Persistence failures are contained inside the
// implementation: lookups degrade to zero values and writes are logged, so
// the in-memory outcome of a triage decision is never affected.
type LedgerRepository interface {
	// IsProcessed reports whether an email id already has a ledger record.
	IsProcessed(ctx context.Context, emailID string) bool

	// MarkProcessed upserts the record for an email id. Writing the same id
	// twice overwrites, it never duplicates. A zero rec.ProcessedAt is
	// filled in with the current time.
	MarkProcessed(ctx context.Context, emailID string, rec LedgerRecord)

	// CountSenderEmails counts records from the sender (case-insensitive
	// address match) processed within the trailing window.
	CountSenderEmails(ctx context.Context, sender string, window time.Duration) int

	// Cleanup removes records older than the retention window and returns
	// how many were removed.
	Cleanup(ctx context.Context, retention time.Duration) int

	// Stats summarizes the ledger contents.
	Stats(ctx context.Context) *LedgerStats
}

// ResponseGenerator produces the reply body for an email that passed triage.
// The email handed in is already sanitized.
type ResponseGenerator interface {
	GenerateReply(ctx context.Context, email *InboundEmail, triage *TriageResult) (string, error)
}

// MailSource supplies inbound emails, newest first, each with a non-empty ID.
type MailSource interface {
	Fetch(ctx context.Context) ([]*InboundEmail, error)
}

// MailSender dispatches a reply, preserving conversation threading.
type MailSender interface {
	Send(ctx context.Context, reply *OutboundReply) error
}
