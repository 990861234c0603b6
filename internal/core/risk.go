package core

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Score contributions. The final score is capped at 1.0.
const (
	suspiciousSenderWeight     = 0.5
	spamKeywordWeight          = 0.1
	spamKeywordCap             = 0.5
	excessiveCapsWeight        = 0.2
	excessiveCapsRatio         = 0.5
	suspiciousAttachmentWeight = 0.3
	urlShortenerWeight         = 0.2
)

// DefaultSpamThreshold is the skip threshold used when none is configured.
const DefaultSpamThreshold = 0.5

// RiskScorer computes a spam/phishing likelihood score and the hard-skip
// verdicts that protect the mailbox owner from auto-replying to dangerous
// senders. It is a pure function of its inputs and rule tables.
type RiskScorer struct {
	rules      RiskRules
	noReply    []*regexp.Regexp
	suspicious []*regexp.Regexp
	threshold  float64
	logger     *zap.Logger
}

// NewRiskScorer compiles the rule patterns. An invalid pattern is a
// configuration error and fails construction.
func NewRiskScorer(rules RiskRules, threshold float64, logger *zap.Logger) (*RiskScorer, error) {
	if threshold <= 0 {
		threshold = DefaultSpamThreshold
	}

	noReply, err := compilePatterns(rules.NoReplyPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid no-reply pattern: %w", err)
	}
	suspicious, err := compilePatterns(rules.SuspiciousSenderPatterns)
	if err != nil {
		return nil, fmt.Errorf("invalid suspicious-sender pattern: %w", err)
	}

	return &RiskScorer{
		rules:      rules,
		noReply:    noReply,
		suspicious: suspicious,
		threshold:  threshold,
		logger:     logger,
	}, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// extractAddress pulls the bare address out of a From header that may carry
// a display name, lowercased. Malformed input degrades to the lowercased
// original, never an error.
func extractAddress(from string) string {
	if start := strings.Index(from, "<"); start >= 0 {
		if end := strings.Index(from[start:], ">"); end > 0 {
			from = from[start+1 : start+end]
		}
	}
	return strings.ToLower(strings.TrimSpace(from))
}

// IsNoReplyAddress reports whether the sender matches a no-reply pattern.
func (s *RiskScorer) IsNoReplyAddress(from string) bool {
	addr := extractAddress(from)
	for _, re := range s.noReply {
		if re.MatchString(addr) {
			return true
		}
	}
	return false
}

// isSuspiciousSender reports whether the sender matches a brand-impersonation
// pattern. The whitelist always runs first: an exact domain match suppresses
// the pattern check entirely.
func (s *RiskScorer) isSuspiciousSender(from string) bool {
	addr := extractAddress(from)
	for _, domain := range s.rules.WhitelistedDomains {
		if strings.HasSuffix(addr, "@"+strings.ToLower(domain)) {
			return false
		}
	}
	for _, re := range s.suspicious {
		if re.MatchString(addr) {
			return true
		}
	}
	return false
}

// Score computes the additive spam score in [0, 1] along with the
// contributing reasons.
func (s *RiskScorer) Score(email *InboundEmail) (float64, []string) {
	score := 0.0
	var reasons []string

	subject := strings.ToLower(email.Subject)
	body := strings.ToLower(email.Body)

	if s.isSuspiciousSender(email.From) {
		score += suspiciousSenderWeight
		reasons = append(reasons, "Suspicious sender pattern")
	}

	var found []string
	for _, keyword := range s.rules.SpamKeywords {
		if strings.Contains(subject, keyword) || strings.Contains(body, keyword) {
			found = append(found, keyword)
		}
	}
	if len(found) > 0 {
		keywordScore := float64(len(found)) * spamKeywordWeight
		if keywordScore > spamKeywordCap {
			keywordScore = spamKeywordCap
		}
		score += keywordScore
		shown := found
		if len(shown) > 5 {
			shown = shown[:5]
		}
		reasons = append(reasons, "Spam keywords found: "+strings.Join(shown, ", "))
	}

	if capsRatio(email.Subject) > excessiveCapsRatio {
		score += excessiveCapsWeight
		reasons = append(reasons, "Excessive capitalization")
	}

	for _, ext := range s.rules.SuspiciousExtensions {
		if strings.Contains(body, ext) {
			score += suspiciousAttachmentWeight
			reasons = append(reasons, "Suspicious attachment type: "+ext)
		}
	}

	for _, shortener := range s.rules.URLShorteners {
		if strings.Contains(body, shortener) {
			score += urlShortenerWeight
			reasons = append(reasons, "URL shortener detected: "+shortener)
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score, reasons
}

// capsRatio is the fraction of uppercase characters among all characters.
func capsRatio(subject string) float64 {
	if subject == "" {
		return 0
	}
	total, upper := 0, 0
	for _, r := range subject {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	return float64(upper) / float64(total)
}

// ShouldSkip decides whether the email must not receive an automated reply.
// The no-reply and payment-processor rules fire independently of the score.
func (s *RiskScorer) ShouldSkip(email *InboundEmail) (bool, string) {
	if s.IsNoReplyAddress(email.From) {
		return true, "No-reply address"
	}

	addr := extractAddress(email.From)
	subject := strings.ToLower(email.Subject)
	for _, keyword := range s.rules.PaymentKeywords {
		if !strings.Contains(subject, keyword) {
			continue
		}
		for _, domain := range s.rules.PaymentProcessorDomains {
			if strings.Contains(addr, domain) {
				return true, fmt.Sprintf("Payment processor email (%s)", domain)
			}
		}
	}

	score, reasons := s.Score(email)
	if score >= s.threshold {
		reason := fmt.Sprintf("High spam score (%.2f): %s", score, strings.Join(reasons, "; "))
		if s.logger != nil {
			s.logger.Debug("Risk skip",
				zap.String("email_id", email.ID),
				zap.Float64("score", score),
				zap.Strings("reasons", reasons))
		}
		return true, reason
	}

	return false, ""
}

// Threshold returns the configured skip threshold.
func (s *RiskScorer) Threshold() float64 {
	return s.threshold
}
