package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TriageService combines risk scoring, classification and the history ledger
// into a single ordered accept/reject verdict per email.
type TriageService struct {
	risk         *RiskScorer
	classifier   *Classifier
	ledger       LedgerRepository
	logger       *zap.Logger
	maxPerSender int
	rateWindow   time.Duration
}

// NewTriageService creates the triage policy service.
func NewTriageService(
	risk *RiskScorer,
	classifier *Classifier,
	ledger LedgerRepository,
	logger *zap.Logger,
	maxPerSender int,
	rateWindow time.Duration,
) *TriageService {
	return &TriageService{
		risk:         risk,
		classifier:   classifier,
		ledger:       ledger,
		logger:       logger,
		maxPerSender: maxPerSender,
		rateWindow:   rateWindow,
	}
}

// Decide runs the ordered checks, first match wins:
// already-processed, risk skip, sender rate limit, spam category, proceed.
// The caller marks the email in the ledger exactly once afterwards,
// whichever branch fired.
func (s *TriageService) Decide(ctx context.Context, email *InboundEmail) *Decision {
	if s.ledger.IsProcessed(ctx, email.ID) {
		return &Decision{Proceed: false, Reason: "Already processed"}
	}

	if skip, reason := s.risk.ShouldSkip(email); skip {
		s.logger.Info("Risk skip",
			zap.String("email_id", email.ID),
			zap.String("reason", reason))
		return &Decision{Proceed: false, Reason: reason}
	}

	if count := s.ledger.CountSenderEmails(ctx, email.From, s.rateWindow); count >= s.maxPerSender {
		reason := fmt.Sprintf("Rate limit exceeded for sender (max %d per %s)", s.maxPerSender, s.rateWindow)
		s.logger.Info("Sender rate limited",
			zap.String("email_id", email.ID),
			zap.String("sender", email.From),
			zap.Int("count", count))
		return &Decision{Proceed: false, Reason: reason}
	}

	triage := s.classifier.Classify(email)
	triage.SpamScore, triage.SkipReasons = s.risk.Score(email)

	if triage.Category == CategorySpam {
		return &Decision{Proceed: false, Reason: "Spam category suppressed", Triage: triage}
	}

	return &Decision{Proceed: true, Triage: triage}
}
