package core

// RiskRules is the immutable rule set driving the RiskScorer. The defaults
// mirror the patterns the mailbox owner actually sees; tests and deployments
// substitute their own copies instead of mutating shared state.
type RiskRules struct {
	// NoReplyPatterns match the local part of automated senders that must
	// never receive a reply. Anchored regular expressions.
	NoReplyPatterns []string

	// SuspiciousSenderPatterns match brand-impersonation addresses.
	SuspiciousSenderPatterns []string

	// WhitelistedDomains suppress the suspicious-sender contribution for
	// exact domain matches. Checked before the patterns.
	WhitelistedDomains []string

	SpamKeywords []string

	// PaymentKeywords in the subject combined with a PaymentProcessorDomains
	// token in the sender address force a skip regardless of score.
	PaymentKeywords         []string
	PaymentProcessorDomains []string

	SuspiciousExtensions []string
	URLShorteners        []string
}

// DefaultRiskRules returns the built-in rule set.
func DefaultRiskRules() RiskRules {
	return RiskRules{
		NoReplyPatterns: []string{
			`^noreply@`,
			`^no-reply@`,
			`^donotreply@`,
			`^do-not-reply@`,
			`^notifications@`,
			`^alerts@`,
			`^automated@`,
			`^system@`,
			`^mailer-daemon@`,
			`^postmaster@`,
		},
		SuspiciousSenderPatterns: []string{
			`@.*paypal\.`,
			`@.*banking\.`,
			`@.*amazon\.`,
			`@.*ebay\.`,
			`@.*lottery\.`,
			`@.*winner\.`,
			`@.*prize\.`,
			`@.*kilpailu\.`,
			`@.*arvonta\.`,
			`voita@`,
		},
		WhitelistedDomains: []string{
			"paypal.com",
			"amazon.com",
			"amazon.co.uk",
			"ebay.com",
			"google.com",
			"microsoft.com",
			"apple.com",
			"facebook.com",
			"linkedin.com",
		},
		SpamKeywords: []string{
			// Financial scams
			"lottery", "winner", "million dollars", "inheritance", "bitcoin",
			"investment opportunity", "claim your", "free money", "jackpot",
			"casino", "get rich", "earn money fast", "prize winner",
			// Finnish spam
			"voita", "arvonta", "kilpailu", "ilmainen", "voittaja",
			// Urgency scams
			"act now", "limited time", "expires today", "urgent action required",
			// Phishing attempts
			"verify your account", "suspended account", "click here immediately",
			"confirm your identity", "update payment information",
			// Adult content
			"xxx", "adult", "singles", "dating",
			// Pharmaceuticals
			"viagra", "cialis", "pharmacy", "pills", "medication",
		},
		PaymentKeywords:         []string{"receipt", "payment", "invoice", "transaction"},
		PaymentProcessorDomains: []string{"paypal", "stripe", "square", "venmo"},
		SuspiciousExtensions:    []string{".exe", ".zip", ".rar", ".bat", ".cmd", ".scr"},
		URLShorteners:           []string{"bit.ly", "tinyurl.com", "goo.gl", "ow.ly", "t.co"},
	}
}

// ClassifierRules holds the keyword tables driving categorization and the
// sentiment word lists.
type ClassifierRules struct {
	// CategoryKeywords maps each non-default category to its keyword list.
	CategoryKeywords map[Category][]string

	// CategoryOrder is the tie-break order: the first category in this order
	// with at least one matched keyword wins.
	CategoryOrder []Category

	PositiveWords []string
	NegativeWords []string
}

// DefaultClassifierRules returns the built-in keyword tables.
func DefaultClassifierRules() ClassifierRules {
	return ClassifierRules{
		CategoryKeywords: map[Category][]string{
			CategoryComplaint: {
				"complaint", "disappointed", "unhappy", "terrible", "awful", "poor",
				"unsatisfied", "frustrated", "upset", "angry", "annoyed", "dissatisfied",
				"problem with", "not working", "does not work", "failed", "failing",
				"issue with", "bad experience", "bad service", "poor quality",
			},
			CategoryProductSupport: {
				"login", "password", "error", "not working", "help", "how to", "does not work",
				"broken", "bug", "technical", "support", "assistance", "problem",
				"troubleshoot", "issue", "fix", "solution",
			},
			CategoryFeatureRequest: {
				"feature", "suggestion", "improve", "enhancement", "add", "missing",
				"should have", "would be nice", "could you add", "please include",
				"consider adding", "new feature", "functionality", "capability",
			},
			CategoryBillingQuestion: {
				"bill", "charge", "payment", "refund", "subscription", "price", "cost",
				"discount", "invoice", "credit card", "transaction", "receipt",
				"cancellation", "renewal", "billing", "charged", "fee", "pricing",
			},
			CategoryGeneralFeedback: {
				"thank", "great", "love", "awesome", "excellent", "amazing", "good",
				"appreciate", "feedback", "enjoyed", "wonderful", "fantastic",
				"satisfied", "helpful", "impressive",
			},
			CategoryUrgentRequest: {
				"urgent", "emergency", "asap", "immediate", "critical", "important",
				"time sensitive", "deadline", "quickly", "rush", "priority", "immediately",
				"as soon as possible", "promptly", "fast", "today",
			},
			CategorySpam: {
				"lottery", "million dollars", "bitcoin", "investment opportunity",
				"inheritance", "claim your", "free money",
				"winner", "jackpot", "casino", "earn money fast", "get rich",
			},
		},
		CategoryOrder: []Category{
			CategoryUrgentRequest,
			CategoryComplaint,
			CategoryBillingQuestion,
			CategoryProductSupport,
			CategoryFeatureRequest,
			CategorySpam,
			CategoryGeneralFeedback,
		},
		PositiveWords: []string{
			"good", "great", "excellent", "wonderful", "amazing", "love", "like",
			"happy", "pleased", "satisfied", "thank", "thanks", "helpful", "appreciate",
			"awesome", "fantastic", "perfect", "best", "impressed",
		},
		NegativeWords: []string{
			"bad", "poor", "terrible", "awful", "horrible", "disappointed", "upset",
			"angry", "unhappy", "not working", "problem", "issue", "broken", "error",
			"failed", "wrong", "worst", "hate", "dislike", "annoyed", "frustrating",
		},
	}
}
