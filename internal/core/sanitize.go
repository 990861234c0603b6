package core

import (
	"regexp"
	"unicode/utf8"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

const (
	urlPlaceholder   = "[URL REMOVED]"
	maxSanitizedBody = 5000
	truncationMarker = "... [TRUNCATED]"
)

// Sanitize returns a copy of the email with all URLs stripped from the body
// and overlong bodies truncated. Every email that proceeds past risk scoring
// goes through this before any text is handed downstream.
func Sanitize(email *InboundEmail) *InboundEmail {
	sanitized := *email

	body := urlPattern.ReplaceAllString(email.Body, urlPlaceholder)
	if len(body) > maxSanitizedBody {
		cut := body[:maxSanitizedBody]
		// Back off to a valid UTF-8 boundary.
		for !utf8.ValidString(cut) && len(cut) > 0 {
			cut = cut[:len(cut)-1]
		}
		body = cut + truncationMarker
	}
	sanitized.Body = body

	return &sanitized
}
