// Package replyprompt builds the instructions handed to whichever
// generative provider produces the reply body. The tone policy is keyed on
// the triage category so a complaint is answered apologetically, a feature
// request enthusiastically, and suspected spam generically.
package replyprompt

import (
	"fmt"
	"strings"

	"github.com/lmarin/mailtriage/internal/core"
)

const bodyOnlyReminder = "Remember: Generate ONLY the email body. NO subject lines or headers."

var categoryInstructions = map[core.Category]string{
	core.CategoryComplaint: `You are a professional customer support assistant handling a complaint.
Generate a professional, apologetic, and solution-oriented response to the following complaint email.

Guidelines:
1. Start by acknowledging the issue and apologizing sincerely
2. Show empathy for %s's frustration
3. Explain what might have happened (if clear from the email)
4. Provide a specific solution or next steps
5. Offer some form of goodwill or compensation if appropriate
6. Thank them for bringing this to your attention
7. Sign off as 'Customer Support Team'`,

	core.CategoryProductSupport: `You are a technical support specialist. Generate a professional, clear, and step-by-step response to the following support email.

Guidelines:
1. Acknowledge %s's issue
2. Provide clear, step-by-step instructions to solve the problem
3. Use simple, non-technical language when possible
4. Explain why your solution works (if relevant)
5. Offer alternative solutions if available
6. Invite them to reach out again if the issue persists
7. Sign off as 'Technical Support Team'`,

	core.CategoryFeatureRequest: `You are a product manager. Generate a thoughtful response to the following feature request email.

Guidelines:
1. Thank %s for their suggestion
2. Show appreciation for their engagement with the product
3. Give your impression of the idea (positively framed)
4. Explain if similar features are planned or already available
5. If appropriate, ask for more details about their use case
6. Set realistic expectations about implementation possibilities
7. Sign off as 'Product Team'`,

	core.CategoryBillingQuestion: `You are a billing specialist. Generate a professional, clear, and helpful response to the following billing question.

Guidelines:
1. Address %s's billing concern directly
2. Provide clear information about the billing process
3. If relevant, explain why charges appear as they do
4. Offer specific next steps if action is needed
5. Reassure them about data security
6. Provide contact information for further billing questions
7. Sign off as 'Billing Support Team'`,

	core.CategoryGeneralFeedback: `You are a customer experience manager. Generate a warm and appreciative response to the following feedback email.

Guidelines:
1. Thank %s enthusiastically for their feedback
2. Acknowledge specific positive points they mentioned
3. Explain how this feedback helps your team
4. Mention any relevant upcoming improvements
5. Invite them to continue providing feedback
6. Sign off warmly as 'Customer Experience Team'`,

	core.CategoryUrgentRequest: `You are an urgent response specialist. Generate a prompt, clear, and action-oriented response to the following time-sensitive email.

Guidelines:
1. Acknowledge the urgency of %s's request
2. Provide immediate next steps or solutions
3. Be direct and concise
4. If you can't resolve immediately, explain exactly when they can expect resolution
5. Provide alternative contact methods for faster response
6. Sign off as 'Urgent Response Team'`,

	core.CategorySpam: `You are a security specialist. Generate a brief, professional response to what appears to be a spam or phishing email. Do not engage with specific claims in the email.

Guidelines:
1. Be extremely brief and generic
2. Do not reference or acknowledge specific claims from the email
3. Provide general security advice
4. Do not include links or contact information
5. Sign off as 'Security Team'`,
}

const defaultInstructions = `You are a customer support specialist. Generate a professional, informative response to the following inquiry email.

Guidelines:
1. Greet %s warmly
2. Answer their questions directly and completely
3. Provide relevant additional information they might find helpful
4. Include links or references to resources if relevant
5. Invite further questions
6. Sign off as 'Customer Support Team'`

// Build assembles the full prompt for a sanitized email and its triage
// result. The body passed in may already be truncated by the caller.
func Build(email *core.InboundEmail, triage *core.TriageResult, body string) string {
	senderName := "the customer"
	if triage.SenderName != "" {
		senderName = triage.SenderName
	}

	instructions, ok := categoryInstructions[triage.Category]
	if !ok {
		instructions = defaultInstructions
	}
	if strings.Contains(instructions, "%s") {
		instructions = fmt.Sprintf(instructions, senderName)
	}

	var b strings.Builder
	b.WriteString(instructions)
	b.WriteString("\n\n")
	b.WriteString(bodyOnlyReminder)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "From: %s\n", email.From)
	fmt.Fprintf(&b, "To: %s\n", email.To)
	fmt.Fprintf(&b, "Subject: %s\n", email.Subject)
	fmt.Fprintf(&b, "Body: %s\n", body)
	fmt.Fprintf(&b, "\nEmail sentiment: %s\n", triage.Sentiment)
	fmt.Fprintf(&b, "Priority: %s", triage.Priority)

	return b.String()
}

// Temperature adjusts the configured base temperature per category:
// technical and urgent matters get deterministic output, idea-driven mail a
// bit more variety.
func Temperature(category core.Category, base float32) float32 {
	switch category {
	case core.CategoryProductSupport, core.CategoryBillingQuestion, core.CategoryUrgentRequest:
		return max32(0.1, base-0.3)
	case core.CategoryComplaint:
		return max32(0.3, base-0.1)
	case core.CategoryFeatureRequest, core.CategoryGeneralFeedback:
		return min32(0.9, base+0.1)
	default:
		return base
	}
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// CleanReply strips header-looking lines a model sometimes prepends to the
// body ("Subject: Re: ...", "From: ..."), plus the blank line that follows
// them. An empty result falls back to the original text.
func CleanReply(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	skipNextEmpty := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Subject:") ||
			strings.HasPrefix(trimmed, "From:") ||
			strings.HasPrefix(trimmed, "To:") ||
			strings.HasPrefix(trimmed, "Date:") ||
			strings.HasPrefix(trimmed, "Re:") {
			skipNextEmpty = true
			continue
		}
		if skipNextEmpty && trimmed == "" {
			skipNextEmpty = false
			continue
		}
		skipNextEmpty = false
		cleaned = append(cleaned, line)
	}

	result := strings.TrimSpace(strings.Join(cleaned, "\n"))
	if result == "" {
		return strings.TrimSpace(text)
	}
	return result
}
