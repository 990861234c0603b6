package core

import (
	"time"
)

// Category is the triage category assigned to an inbound email.
type Category string

const (
	CategoryComplaint       Category = "complaint"
	CategoryProductSupport  Category = "product_support"
	CategoryFeatureRequest  Category = "feature_request"
	CategoryBillingQuestion Category = "billing_question"
	CategoryGeneralFeedback Category = "general_feedback"
	CategoryUrgentRequest   Category = "urgent_request"
	CategorySpam            Category = "spam"
	// CategoryCustomerInquiry is the default when no keyword table matches.
	CategoryCustomerInquiry Category = "customer_inquiry"
)

// Sentiment is the overall tone inferred from an email.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Priority steers how quickly a reply should be produced.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// InboundEmail is one message as delivered by the mail source. The body is
// plain text, already extracted from whatever MIME structure the message had.
type InboundEmail struct {
	// ID is opaque but stable and unique for the lifetime of the ledger.
	ID         string
	MessageID  string
	References string
	InReplyTo  string
	From       string
	To         string
	Subject    string
	Date       string
	Body       string
}

// TriageResult is the derived classification for one inbound email.
type TriageResult struct {
	Category        Category
	MatchedKeywords []string
	Sentiment       Sentiment
	Priority        Priority
	// SenderName is the display name parsed from the From header, empty
	// when the header carries a bare address.
	SenderName  string
	SpamScore   float64
	SkipReasons []string
}

// Decision is the triage verdict for one email. Triage is nil when the
// pipeline short-circuited before classification ran.
type Decision struct {
	Proceed bool
	Reason  string
	Triage  *TriageResult
}

// OutboundReply is what the mail sender needs to dispatch a threaded reply.
type OutboundReply struct {
	To         string
	Subject    string
	Body       string
	InReplyTo  string
	References string
}

// LedgerRecord is the persisted trace of one evaluated email.
type LedgerRecord struct {
	ProcessedAt  time.Time
	Subject      string
	From         string
	Category     string
	ResponseSent bool
}

// LedgerStats summarizes the ledger contents.
type LedgerStats struct {
	TotalProcessed int
	ResponsesSent  int
	Categories     map[string]int
}
