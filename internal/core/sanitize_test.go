package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsURLs(t *testing.T) {
	email := &InboundEmail{
		From:    "customer@example.com",
		Subject: "Links",
		Body:    "See https://example.com/page and http://other.example/x?q=1 for details",
	}

	sanitized := Sanitize(email)
	assert.Equal(t, "See [URL REMOVED] and [URL REMOVED] for details", sanitized.Body)
	// The original is untouched.
	assert.Contains(t, email.Body, "https://example.com/page")
}

func TestSanitizeTruncatesLongBody(t *testing.T) {
	email := &InboundEmail{Body: strings.Repeat("a", 6000)}

	sanitized := Sanitize(email)
	assert.True(t, strings.HasSuffix(sanitized.Body, "... [TRUNCATED]"))
	assert.Len(t, sanitized.Body, 5000+len("... [TRUNCATED]"))
}

func TestSanitizeShortBodyUnchanged(t *testing.T) {
	email := &InboundEmail{Body: "short body, no links"}
	assert.Equal(t, email.Body, Sanitize(email).Body)
}

func TestSanitizeTruncationRespectsUTF8(t *testing.T) {
	// A multi-byte rune straddles the cut point.
	body := strings.Repeat("a", 4999) + strings.Repeat("ä", 10)
	sanitized := Sanitize(&InboundEmail{Body: body})
	assert.True(t, strings.HasSuffix(sanitized.Body, "... [TRUNCATED]"))
	assert.True(t, strings.HasPrefix(sanitized.Body, strings.Repeat("a", 4999)))
	assert.NotContains(t, sanitized.Body, "�")
}
