// Package processor drives the triage pipeline: it fetches inbound mail,
// runs the triage decision, generates and sends replies, and records every
// handled email in the ledger exactly once.
package processor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lmarin/mailtriage/internal/core"
	"go.uber.org/zap"
)

// CycleStats summarizes one fetch cycle.
type CycleStats struct {
	Processed  int
	Sent       int
	Skipped    int
	Errors     int
	Categories map[string]int
}

// Processor runs the periodic triage loop.
type Processor struct {
	source        core.MailSource
	triage        *core.TriageService
	generator     core.ResponseGenerator
	sender        core.MailSender
	ledger        core.LedgerRepository
	logger        *zap.Logger
	checkInterval time.Duration
}

// New creates a processor.
func New(
	source core.MailSource,
	triage *core.TriageService,
	generator core.ResponseGenerator,
	sender core.MailSender,
	ledger core.LedgerRepository,
	logger *zap.Logger,
	checkInterval time.Duration,
) *Processor {
	return &Processor{
		source:        source,
		triage:        triage,
		generator:     generator,
		sender:        sender,
		ledger:        ledger,
		logger:        logger,
		checkInterval: checkInterval,
	}
}

// Run executes fetch cycles until the context is cancelled. The first cycle
// runs immediately.
func (p *Processor) Run(ctx context.Context) error {
	p.logger.Info("Starting processor", zap.Duration("check_interval", p.checkInterval))

	ticker := time.NewTicker(p.checkInterval)
	defer ticker.Stop()

	p.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Processor stopping")
			return ctx.Err()
		case <-ticker.C:
			p.RunCycle(ctx)
		}
	}
}

// RunCycle fetches a batch of emails and processes each one. Per-email
// failures are counted, logged and do not abort the batch.
func (p *Processor) RunCycle(ctx context.Context) CycleStats {
	stats := CycleStats{Categories: make(map[string]int)}

	emails, err := p.source.Fetch(ctx)
	if err != nil {
		p.logger.Error("Fetch failed", zap.Error(err))
		stats.Errors++
		return stats
	}

	for _, email := range emails {
		if ctx.Err() != nil {
			break
		}
		sent, category, err := p.ProcessEmail(ctx, email)
		stats.Processed++
		if category != "" {
			stats.Categories[category]++
		}
		switch {
		case err != nil:
			stats.Errors++
		case sent:
			stats.Sent++
		default:
			stats.Skipped++
		}
	}

	if stats.Processed > 0 {
		p.logger.Info("Cycle complete",
			zap.Int("processed", stats.Processed),
			zap.Int("sent", stats.Sent),
			zap.Int("skipped", stats.Skipped),
			zap.Int("errors", stats.Errors))
	}
	return stats
}

// ProcessEmail runs the full pipeline for a single email: decide, generate,
// send, and record the outcome. The ledger is marked exactly once per email,
// with the response_sent flag reflecting what actually happened.
func (p *Processor) ProcessEmail(ctx context.Context, email *core.InboundEmail) (sent bool, category string, err error) {
	decision := p.triage.Decide(ctx, email)

	if !decision.Proceed {
		category = "unknown"
		if decision.Triage != nil {
			category = string(decision.Triage.Category)
		}
		p.logger.Info("Email skipped",
			zap.String("email_id", email.ID),
			zap.String("reason", decision.Reason))
		p.markProcessed(ctx, email, category, false)
		return false, category, nil
	}

	triage := decision.Triage
	category = string(triage.Category)
	p.logger.Info("Email triaged",
		zap.String("email_id", email.ID),
		zap.String("category", category),
		zap.String("sentiment", string(triage.Sentiment)),
		zap.String("priority", string(triage.Priority)),
		zap.Float64("spam_score", triage.SpamScore))

	sanitized := core.Sanitize(email)
	body, genErr := p.generator.GenerateReply(ctx, sanitized, triage)
	if genErr != nil {
		p.logger.Warn("Reply generation failed, using fallback",
			zap.String("email_id", email.ID),
			zap.Error(genErr))
		body = fallbackReply(triage)
	}

	reply := &core.OutboundReply{
		To:        email.From,
		Subject:   replySubject(email.Subject),
		Body:      body,
		InReplyTo: email.MessageID,
		References: strings.TrimSpace(
			strings.TrimSpace(email.References) + " " + email.MessageID),
	}

	if err := p.sender.Send(ctx, reply); err != nil {
		p.logger.Error("Send failed",
			zap.String("email_id", email.ID),
			zap.Error(err))
		p.markProcessed(ctx, email, category, false)
		return false, category, err
	}

	p.markProcessed(ctx, email, category, true)
	return true, category, nil
}

func (p *Processor) markProcessed(ctx context.Context, email *core.InboundEmail, category string, responseSent bool) {
	p.ledger.MarkProcessed(ctx, email.ID, core.LedgerRecord{
		Subject:      email.Subject,
		From:         email.From,
		Category:     category,
		ResponseSent: responseSent,
	})
}

// replySubject prepends "Re: " unless the subject already carries one.
func replySubject(subject string) string {
	trimmed := strings.TrimSpace(subject)
	if strings.HasPrefix(strings.ToLower(trimmed), "re:") {
		return trimmed
	}
	return "Re: " + trimmed
}

// fallbackReply returns a canned response when generation fails, so the
// customer still hears back.
func fallbackReply(triage *core.TriageResult) string {
	greeting := "Hello,"
	if triage.SenderName != "" {
		greeting = fmt.Sprintf("Dear %s,", triage.SenderName)
	}

	switch triage.Category {
	case core.CategoryUrgentRequest:
		return greeting + `

Thank you for your urgent message. We understand the time-sensitive nature of your request and are escalating it to our priority support team. You can expect a response within the next hour.

If you need immediate assistance, please call our urgent support line at (555) 123-4567.

Best regards,
Urgent Response Team`
	case core.CategoryComplaint:
		return greeting + `

Thank you for bringing this to our attention. We sincerely apologize for the inconvenience you have experienced. Your feedback is important to us, and a member of our team will contact you within 24 hours to resolve this issue.

Best regards,
Customer Support Team`
	default:
		return greeting + `

Thank you for contacting us. We have received your message and a member of our team will get back to you within 1-2 business days.

Best regards,
Customer Support Team`
	}
}
