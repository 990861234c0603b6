package core

import (
	"net/mail"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Classifier derives category, sentiment, priority and sender name from an
// email's subject and body. It never fails: unclassifiable input degrades to
// customer_inquiry/neutral/low.
type Classifier struct {
	rules  ClassifierRules
	logger *zap.Logger
}

// NewClassifier creates a classifier over the given rule tables.
func NewClassifier(rules ClassifierRules, logger *zap.Logger) *Classifier {
	return &Classifier{
		rules:  rules,
		logger: logger,
	}
}

// Classify infers the triage fields for one email. SpamScore and SkipReasons
// are the RiskScorer's to fill, not the classifier's.
func (c *Classifier) Classify(email *InboundEmail) *TriageResult {
	text := strings.ToLower(email.Subject + " " + email.Body)

	category, keywords := c.categorize(text)
	sentiment := c.sentiment(text)
	priority := priorityFor(category, sentiment)

	result := &TriageResult{
		Category:        category,
		MatchedKeywords: keywords,
		Sentiment:       sentiment,
		Priority:        priority,
		SenderName:      ExtractSenderName(email.From),
	}

	if c.logger != nil {
		c.logger.Debug("Email classified",
			zap.String("email_id", email.ID),
			zap.String("category", string(category)),
			zap.String("sentiment", string(sentiment)),
			zap.String("priority", string(priority)))
	}

	return result
}

// categorize collects keyword matches and resolves ties by the fixed
// category order. Walking that order also keeps the matched-keyword list
// deterministic. No match at all yields the customer_inquiry default.
func (c *Classifier) categorize(text string) (Category, []string) {
	winner := CategoryCustomerInquiry
	var allMatched []string

	for _, category := range c.rules.CategoryOrder {
		matched := false
		for _, keyword := range c.rules.CategoryKeywords[category] {
			if strings.Contains(text, keyword) {
				allMatched = append(allMatched, keyword)
				matched = true
			}
		}
		if matched && winner == CategoryCustomerInquiry {
			winner = category
		}
	}

	if winner == CategoryCustomerInquiry {
		return winner, nil
	}
	return winner, allMatched
}

// sentiment compares how many positive and negative words appear in the
// text. Equal counts, including none at all, are neutral.
func (c *Classifier) sentiment(text string) Sentiment {
	positive := 0
	for _, word := range c.rules.PositiveWords {
		if strings.Contains(text, word) {
			positive++
		}
	}
	negative := 0
	for _, word := range c.rules.NegativeWords {
		if strings.Contains(text, word) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// priorityFor maps category and sentiment to a priority. The high-priority
// category check runs first and short-circuits.
func priorityFor(category Category, sentiment Sentiment) Priority {
	switch category {
	case CategoryComplaint, CategoryUrgentRequest:
		return PriorityHigh
	}
	if category == CategoryProductSupport || category == CategoryBillingQuestion || sentiment == SentimentNegative {
		return PriorityMedium
	}
	return PriorityLow
}

var displayNamePattern = regexp.MustCompile(`^"?([^"<]+)"?\s*<[^>]+>$`)

// ExtractSenderName pulls the display name out of a From header. A bare
// address yields an empty string rather than a guess.
func ExtractSenderName(from string) string {
	if !strings.Contains(from, "<") || !strings.Contains(from, ">") {
		return ""
	}
	if addr, err := mail.ParseAddress(from); err == nil && addr.Name != "" {
		return strings.TrimSpace(addr.Name)
	}
	if m := displayNamePattern.FindStringSubmatch(strings.TrimSpace(from)); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
