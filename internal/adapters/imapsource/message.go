package imapsource

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	stdmail "net/mail"
	"strings"

	"github.com/emersion/go-message/charset"
	"github.com/k3a/html2text"
	"github.com/lmarin/mailtriage/internal/core"
)

var headerDecoder = mime.WordDecoder{
	CharsetReader: charset.Reader,
}

// parseMessage turns a raw RFC 822 message into an InboundEmail. Header and
// body decoding failures degrade to whatever could be extracted; only an
// unparseable message envelope is an error.
func parseMessage(id string, raw []byte) (*core.InboundEmail, error) {
	msg, err := stdmail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("could not parse message: %w", err)
	}

	email := &core.InboundEmail{
		ID:         id,
		MessageID:  msg.Header.Get("Message-Id"),
		References: msg.Header.Get("References"),
		InReplyTo:  msg.Header.Get("In-Reply-To"),
		From:       decodeHeader(msg.Header.Get("From")),
		To:         decodeHeader(msg.Header.Get("To")),
		Subject:    decodeHeader(msg.Header.Get("Subject")),
		Date:       msg.Header.Get("Date"),
	}
	email.Body = extractBody(msg)

	return email, nil
}

// decodeHeader decodes RFC 2047 encoded words, falling back to the raw
// value when decoding fails.
func decodeHeader(value string) string {
	decoded, err := headerDecoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// textBodies holds the candidate bodies found while walking the MIME tree.
type textBodies struct {
	plain string
	html  string
}

// extractBody pulls the decoded plain text out of the message. The first
// text/plain part anywhere in the MIME tree wins; a text/html part is
// converted only when no plain part exists. Attachments are skipped.
func extractBody(msg *stdmail.Message) string {
	var found textBodies
	collectBody(msg.Body,
		msg.Header.Get("Content-Type"),
		msg.Header.Get("Content-Transfer-Encoding"),
		"", &found)

	if found.plain != "" {
		return found.plain
	}
	if found.html != "" {
		return html2text.HTML2Text(found.html)
	}
	return ""
}

// collectBody walks one node of the MIME tree, recursing into nested
// multiparts (a multipart/alternative inside a multipart/mixed is routine).
func collectBody(r io.Reader, contentType, encoding, disposition string, out *textBodies) {
	if strings.Contains(disposition, "attachment") {
		return
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// No or malformed Content-Type defaults to plain text.
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary, ok := params["boundary"]
		if !ok {
			return
		}
		mr := multipart.NewReader(r, boundary)
		for out.plain == "" {
			part, err := mr.NextPart()
			if err != nil {
				return
			}
			// multipart.Part decodes quoted-printable itself and strips
			// the header; base64 is still ours to handle.
			collectBody(part,
				part.Header.Get("Content-Type"),
				part.Header.Get("Content-Transfer-Encoding"),
				part.Header.Get("Content-Disposition"), out)
		}
		return
	}

	switch {
	case strings.HasPrefix(mediaType, "text/plain"):
		out.plain = decodeText(r, encoding, params["charset"])
	case strings.HasPrefix(mediaType, "text/html") && out.html == "":
		out.html = decodeText(r, encoding, params["charset"])
	}
}

// decodeText applies the transfer encoding and converts the part's charset
// to UTF-8. Unknown charsets and decode errors degrade to the bytes read so
// far rather than dropping the part.
func decodeText(r io.Reader, encoding, cs string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}

	if cs != "" && !strings.EqualFold(cs, "utf-8") && !strings.EqualFold(cs, "us-ascii") {
		if converted, err := charset.Reader(cs, r); err == nil {
			r = converted
		}
	}

	data, _ := io.ReadAll(r)
	return string(data)
}
