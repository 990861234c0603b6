package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubLedger lets each test pin the history the service sees.
type stubLedger struct {
	processed   map[string]bool
	senderCount int
	marked      []string
}

func (s *stubLedger) IsProcessed(ctx context.Context, emailID string) bool {
	return s.processed[emailID]
}

func (s *stubLedger) MarkProcessed(ctx context.Context, emailID string, rec LedgerRecord) {
	s.marked = append(s.marked, emailID)
}

func (s *stubLedger) CountSenderEmails(ctx context.Context, sender string, window time.Duration) int {
	return s.senderCount
}

func (s *stubLedger) Cleanup(ctx context.Context, retention time.Duration) int { return 0 }

func (s *stubLedger) Stats(ctx context.Context) *LedgerStats { return &LedgerStats{} }

func newTestService(t *testing.T, ledger LedgerRepository) *TriageService {
	t.Helper()
	logger := zap.NewNop()
	risk, err := NewRiskScorer(DefaultRiskRules(), DefaultSpamThreshold, logger)
	require.NoError(t, err)
	classifier := NewClassifier(DefaultClassifierRules(), logger)
	return NewTriageService(risk, classifier, ledger, logger, 3, 24*time.Hour)
}

func cleanEmail() *InboundEmail {
	return &InboundEmail{
		ID:      "1:100",
		From:    "Jane Doe <jane@example.com>",
		Subject: "Question about my order",
		Body:    "Hi, when will my order ship?",
	}
}

func TestDecideAlreadyProcessed(t *testing.T) {
	ledger := &stubLedger{processed: map[string]bool{"1:100": true}}
	svc := newTestService(t, ledger)

	decision := svc.Decide(context.Background(), cleanEmail())
	assert.False(t, decision.Proceed)
	assert.Equal(t, "Already processed", decision.Reason)
	assert.Nil(t, decision.Triage)
}

func TestDecideRiskSkip(t *testing.T) {
	svc := newTestService(t, &stubLedger{})

	email := cleanEmail()
	email.From = "noreply@example.com"
	decision := svc.Decide(context.Background(), email)
	assert.False(t, decision.Proceed)
	assert.Equal(t, "No-reply address", decision.Reason)
	assert.Nil(t, decision.Triage)
}

func TestDecideRateLimited(t *testing.T) {
	svc := newTestService(t, &stubLedger{senderCount: 3})

	decision := svc.Decide(context.Background(), cleanEmail())
	assert.False(t, decision.Proceed)
	assert.Contains(t, decision.Reason, "Rate limit exceeded for sender")
	assert.Nil(t, decision.Triage)
}

func TestDecideUnderRateLimitProceeds(t *testing.T) {
	svc := newTestService(t, &stubLedger{senderCount: 2})

	decision := svc.Decide(context.Background(), cleanEmail())
	assert.True(t, decision.Proceed)
}

func TestDecideSpamCategorySuppressed(t *testing.T) {
	svc := newTestService(t, &stubLedger{})

	// Spam keywords in the body but a sender and score that pass the risk
	// checks, so only the category gate fires.
	decision := svc.Decide(context.Background(), &InboundEmail{
		ID:      "1:101",
		From:    "Bob <bob@example.com>",
		Subject: "Opportunity",
		Body:    "This inheritance is a genuine investment opportunity.",
	})
	assert.False(t, decision.Proceed)
	assert.Equal(t, "Spam category suppressed", decision.Reason)
	require.NotNil(t, decision.Triage)
	assert.Equal(t, CategorySpam, decision.Triage.Category)
}

func TestDecideProceedPopulatesTriage(t *testing.T) {
	svc := newTestService(t, &stubLedger{})

	decision := svc.Decide(context.Background(), cleanEmail())
	assert.True(t, decision.Proceed)
	assert.Empty(t, decision.Reason)
	require.NotNil(t, decision.Triage)
	assert.Equal(t, CategoryCustomerInquiry, decision.Triage.Category)
	assert.Equal(t, "Jane Doe", decision.Triage.SenderName)
	assert.GreaterOrEqual(t, decision.Triage.SpamScore, 0.0)
}

func TestDecideNeverMarksLedger(t *testing.T) {
	ledger := &stubLedger{}
	svc := newTestService(t, ledger)

	svc.Decide(context.Background(), cleanEmail())
	assert.Empty(t, ledger.marked)
}
