package replyprompt

import (
	"testing"

	"github.com/lmarin/mailtriage/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildUsesSenderName(t *testing.T) {
	email := &core.InboundEmail{
		From:    "Jane <jane@example.com>",
		To:      "support@example.com",
		Subject: "Terrible service",
	}
	triage := &core.TriageResult{
		Category:   core.CategoryComplaint,
		Sentiment:  core.SentimentNegative,
		Priority:   core.PriorityHigh,
		SenderName: "Jane",
	}

	prompt := Build(email, triage, "The product broke after one day.")
	assert.Contains(t, prompt, "Jane's frustration")
	assert.Contains(t, prompt, "Subject: Terrible service")
	assert.Contains(t, prompt, "Body: The product broke after one day.")
	assert.Contains(t, prompt, "Email sentiment: negative")
	assert.Contains(t, prompt, "Priority: high")
	assert.Contains(t, prompt, "NO subject lines or headers")
}

func TestBuildFallsBackToGenericName(t *testing.T) {
	email := &core.InboundEmail{From: "jane@example.com"}
	triage := &core.TriageResult{Category: core.CategoryCustomerInquiry}

	prompt := Build(email, triage, "hello")
	assert.Contains(t, prompt, "Greet the customer warmly")
}

func TestTemperature(t *testing.T) {
	tests := []struct {
		category core.Category
		base     float32
		want     float32
	}{
		{core.CategoryProductSupport, 0.7, 0.4},
		{core.CategoryBillingQuestion, 0.2, 0.1},
		{core.CategoryUrgentRequest, 0.7, 0.4},
		{core.CategoryComplaint, 0.7, 0.6},
		{core.CategoryComplaint, 0.3, 0.3},
		{core.CategoryFeatureRequest, 0.7, 0.8},
		{core.CategoryGeneralFeedback, 0.9, 0.9},
		{core.CategoryCustomerInquiry, 0.7, 0.7},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Temperature(tt.category, tt.base), 1e-6, string(tt.category))
	}
}

func TestCleanReplyStripsHeaderLines(t *testing.T) {
	in := "Subject: Re: Your order\n\nDear Jane,\n\nYour order ships tomorrow.\n\nBest regards,\nSupport"
	want := "Dear Jane,\n\nYour order ships tomorrow.\n\nBest regards,\nSupport"
	assert.Equal(t, want, CleanReply(in))
}

func TestCleanReplyKeepsPlainBody(t *testing.T) {
	in := "Dear Jane,\n\nThanks for writing in."
	assert.Equal(t, in, CleanReply(in))
}

func TestCleanReplyFallsBackWhenEmptied(t *testing.T) {
	in := "Subject: hi\nFrom: someone"
	assert.Equal(t, in, CleanReply(in))
}
