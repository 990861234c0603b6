package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lmarin/mailtriage/internal/adapters/ledger"
	"github.com/lmarin/mailtriage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	emails []*core.InboundEmail
	err    error
}

func (f *fakeSource) Fetch(ctx context.Context) ([]*core.InboundEmail, error) {
	return f.emails, f.err
}

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateReply(ctx context.Context, email *core.InboundEmail, triage *core.TriageResult) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeSender struct {
	sent []*core.OutboundReply
	err  error
}

func (f *fakeSender) Send(ctx context.Context, reply *core.OutboundReply) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, reply)
	return nil
}

type fixture struct {
	proc      *Processor
	source    *fakeSource
	generator *fakeGenerator
	sender    *fakeSender
	ledger    *ledger.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := ledger.NewMemoryStore(7, logger)
	risk, err := core.NewRiskScorer(core.DefaultRiskRules(), core.DefaultSpamThreshold, logger)
	require.NoError(t, err)
	classifier := core.NewClassifier(core.DefaultClassifierRules(), logger)
	triage := core.NewTriageService(risk, classifier, store, logger, 3, 24*time.Hour)

	f := &fixture{
		source:    &fakeSource{},
		generator: &fakeGenerator{reply: "Thanks for reaching out."},
		sender:    &fakeSender{},
		ledger:    store,
	}
	f.proc = New(f.source, triage, f.generator, f.sender, store, logger, time.Minute)
	return f
}

func inquiry(id string) *core.InboundEmail {
	return &core.InboundEmail{
		ID:        id,
		MessageID: "<msg-" + id + "@example.com>",
		From:      "Jane Doe <jane@example.com>",
		Subject:   "Question about my order",
		Body:      "Hi, when will my order ship?",
	}
}

func TestProcessEmailSendsReplyAndMarks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, category, err := f.proc.ProcessEmail(ctx, inquiry("1:1"))
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "customer_inquiry", category)

	require.Len(t, f.sender.sent, 1)
	reply := f.sender.sent[0]
	assert.Equal(t, "Jane Doe <jane@example.com>", reply.To)
	assert.Equal(t, "Re: Question about my order", reply.Subject)
	assert.Equal(t, "Thanks for reaching out.", reply.Body)
	assert.Equal(t, "<msg-1:1@example.com>", reply.InReplyTo)
	assert.Equal(t, "<msg-1:1@example.com>", reply.References)

	assert.True(t, f.ledger.IsProcessed(ctx, "1:1"))
	stats := f.ledger.Stats(ctx)
	assert.Equal(t, 1, stats.ResponsesSent)
}

func TestProcessEmailSkippedStillMarked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	email := inquiry("1:2")
	email.From = "noreply@example.com"
	sent, category, err := f.proc.ProcessEmail(ctx, email)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, "unknown", category)
	assert.Empty(t, f.sender.sent)
	assert.Zero(t, f.generator.calls)

	assert.True(t, f.ledger.IsProcessed(ctx, "1:2"))
	assert.Equal(t, 0, f.ledger.Stats(ctx).ResponsesSent)
}

func TestProcessEmailDuplicateNotResent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	email := inquiry("1:3")
	_, _, err := f.proc.ProcessEmail(ctx, email)
	require.NoError(t, err)
	sent, _, err := f.proc.ProcessEmail(ctx, email)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, f.sender.sent, 1)
}

func TestProcessEmailFallbackOnGeneratorError(t *testing.T) {
	f := newFixture(t)
	f.generator.err = errors.New("model unavailable")
	ctx := context.Background()

	sent, _, err := f.proc.ProcessEmail(ctx, inquiry("1:4"))
	require.NoError(t, err)
	assert.True(t, sent)

	require.Len(t, f.sender.sent, 1)
	body := f.sender.sent[0].Body
	assert.Contains(t, body, "Dear Jane Doe,")
	assert.Contains(t, body, "1-2 business days")
}

func TestProcessEmailSendFailureRecordedAsNotSent(t *testing.T) {
	f := newFixture(t)
	f.sender.err = errors.New("smtp down")
	ctx := context.Background()

	sent, _, err := f.proc.ProcessEmail(ctx, inquiry("1:5"))
	assert.Error(t, err)
	assert.False(t, sent)

	assert.True(t, f.ledger.IsProcessed(ctx, "1:5"))
	assert.Equal(t, 0, f.ledger.Stats(ctx).ResponsesSent)
}

func TestProcessEmailThreadsReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	email := inquiry("1:6")
	email.References = "<a@example.com> <b@example.com>"
	_, _, err := f.proc.ProcessEmail(ctx, email)
	require.NoError(t, err)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "<a@example.com> <b@example.com> <msg-1:6@example.com>", f.sender.sent[0].References)
}

func TestProcessEmailRateLimitsSender(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, id := range []string{"1:10", "1:11", "1:12"} {
		sent, _, err := f.proc.ProcessEmail(ctx, inquiry(id))
		require.NoError(t, err)
		assert.True(t, sent, "email %d", i)
	}

	// Fourth email from the same sender inside the window.
	sent, _, err := f.proc.ProcessEmail(ctx, inquiry("1:13"))
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, f.sender.sent, 3)
	assert.True(t, f.ledger.IsProcessed(ctx, "1:13"))
}

func TestRunCycleCountsOutcomes(t *testing.T) {
	f := newFixture(t)

	skip := inquiry("1:8")
	skip.From = "noreply@example.com"
	f.source.emails = []*core.InboundEmail{inquiry("1:7"), skip}

	stats := f.proc.RunCycle(context.Background())
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Sent)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, 1, stats.Categories["customer_inquiry"])
	assert.Equal(t, 1, stats.Categories["unknown"])
}

func TestRunCycleFetchError(t *testing.T) {
	f := newFixture(t)
	f.source.err = errors.New("imap down")

	stats := f.proc.RunCycle(context.Background())
	assert.Equal(t, 0, stats.Processed)
	assert.Equal(t, 1, stats.Errors)
}

func TestReplySubject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Order question", "Re: Order question"},
		{"Re: Order question", "Re: Order question"},
		{"RE: Order question", "RE: Order question"},
		{"  Order question  ", "Re: Order question"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, replySubject(tt.in), tt.in)
	}
}

func TestFallbackReplyByCategory(t *testing.T) {
	urgent := fallbackReply(&core.TriageResult{Category: core.CategoryUrgentRequest, SenderName: "Ann"})
	assert.Contains(t, urgent, "Dear Ann,")
	assert.Contains(t, urgent, "within the next hour")

	complaint := fallbackReply(&core.TriageResult{Category: core.CategoryComplaint})
	assert.Contains(t, complaint, "Hello,")
	assert.Contains(t, complaint, "sincerely apologize")

	generic := fallbackReply(&core.TriageResult{Category: core.CategoryCustomerInquiry})
	assert.Contains(t, generic, "1-2 business days")
}
