package imapsource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessageSimple(t *testing.T) {
	raw := strings.Join([]string{
		"Message-Id: <abc@example.com>",
		"From: Jane Doe <jane@example.com>",
		"To: support@example.com",
		"Subject: Order question",
		"Date: Mon, 24 Aug 2026 10:00:00 +0000",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"When will my order ship?",
	}, "\r\n")

	email, err := parseMessage("9:42", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "9:42", email.ID)
	assert.Equal(t, "<abc@example.com>", email.MessageID)
	assert.Equal(t, "Jane Doe <jane@example.com>", email.From)
	assert.Equal(t, "Order question", email.Subject)
	assert.Equal(t, "When will my order ship?", strings.TrimSpace(email.Body))
}

func TestParseMessageEncodedSubject(t *testing.T) {
	raw := strings.Join([]string{
		"From: jane@example.com",
		"Subject: =?utf-8?q?P=C3=A4iv=C3=A4n_tarjous?=",
		"",
		"hello",
	}, "\r\n")

	email, err := parseMessage("1:1", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Päivän tarjous", email.Subject)
}

func TestParseMessageMultipartPrefersPlainText(t *testing.T) {
	raw := strings.Join([]string{
		"From: jane@example.com",
		"Subject: hi",
		`Content-Type: multipart/alternative; boundary="BOUNDARY"`,
		"",
		"--BOUNDARY",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html version</p>",
		"--BOUNDARY",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain version",
		"--BOUNDARY--",
		"",
	}, "\r\n")

	email, err := parseMessage("1:2", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "plain version", strings.TrimSpace(email.Body))
}

func TestParseMessageMultipartHTMLFallback(t *testing.T) {
	raw := strings.Join([]string{
		"From: jane@example.com",
		"Subject: hi",
		`Content-Type: multipart/mixed; boundary="BOUNDARY"`,
		"",
		"--BOUNDARY",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>only html here</p>",
		"--BOUNDARY",
		"Content-Type: application/octet-stream",
		`Content-Disposition: attachment; filename="report.pdf"`,
		"",
		"binarydata",
		"--BOUNDARY--",
		"",
	}, "\r\n")

	email, err := parseMessage("1:3", []byte(raw))
	require.NoError(t, err)
	assert.Contains(t, email.Body, "only html here")
	assert.NotContains(t, email.Body, "<p>")
	assert.NotContains(t, email.Body, "binarydata")
}

func TestParseMessageThreadingHeaders(t *testing.T) {
	raw := strings.Join([]string{
		"Message-Id: <c@example.com>",
		"In-Reply-To: <b@example.com>",
		"References: <a@example.com> <b@example.com>",
		"From: jane@example.com",
		"Subject: Re: hi",
		"",
		"following up",
	}, "\r\n")

	email, err := parseMessage("1:4", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "<b@example.com>", email.InReplyTo)
	assert.Equal(t, "<a@example.com> <b@example.com>", email.References)
}

func TestParseMessageQuotedPrintableBody(t *testing.T) {
	raw := strings.Join([]string{
		"From: asiakas@example.fi",
		"Subject: Valitus",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"T=C3=A4m=C3=A4 on kamala tuote, olen todella pettynyt.",
	}, "\r\n")

	email, err := parseMessage("1:6", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "Tämä on kamala tuote, olen todella pettynyt.", strings.TrimSpace(email.Body))
}

func TestParseMessageBase64Part(t *testing.T) {
	raw := strings.Join([]string{
		"From: jane@example.com",
		"Subject: hi",
		`Content-Type: multipart/alternative; boundary="BOUNDARY"`,
		"",
		"--BOUNDARY",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Transfer-Encoding: base64",
		"",
		"SSBhbSB2ZXJ5IGRpc2FwcG9pbnRlZCB3aXRoIHRoaXMgcHJvZHVjdC4=",
		"--BOUNDARY--",
		"",
	}, "\r\n")

	email, err := parseMessage("1:7", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "I am very disappointed with this product.", strings.TrimSpace(email.Body))
}

func TestParseMessageNestedMultipart(t *testing.T) {
	raw := strings.Join([]string{
		"From: jane@example.com",
		"Subject: hi",
		`Content-Type: multipart/mixed; boundary="OUTER"`,
		"",
		"--OUTER",
		`Content-Type: multipart/alternative; boundary="INNER"`,
		"",
		"--INNER",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html version</p>",
		"--INNER",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"nested plain version",
		"--INNER--",
		"--OUTER",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="invoice.pdf"`,
		"",
		"pdfbytes",
		"--OUTER--",
		"",
	}, "\r\n")

	email, err := parseMessage("1:8", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "nested plain version", strings.TrimSpace(email.Body))
}

func TestParseMessageLatin1Charset(t *testing.T) {
	raw := strings.Join([]string{
		"From: jane@example.fi",
		"Subject: tarjous",
		"Content-Type: text/plain; charset=iso-8859-1",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"p=E4iv=E4n tarjous",
	}, "\r\n")

	email, err := parseMessage("1:9", []byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "päivän tarjous", strings.TrimSpace(email.Body))
}

func TestParseMessageGarbage(t *testing.T) {
	_, err := parseMessage("1:5", []byte("not an email at all"))
	assert.Error(t, err)
}
