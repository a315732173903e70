package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPlainTextPrefersTextPart(t *testing.T) {
	raw := []byte("MIME-Version: 1.0\r\n" +
		"From: a@x.com\r\n" +
		"Subject: test\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Hello in plain text\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>Hello in <b>HTML</b></p>\r\n" +
		"--b1--\r\n")

	got := extractPlainText(raw)
	assert.Contains(t, got, "Hello in plain text")
	assert.NotContains(t, got, "<p>")
}

func TestExtractPlainTextConvertsHTMLOnly(t *testing.T) {
	raw := []byte("MIME-Version: 1.0\r\n" +
		"From: a@x.com\r\n" +
		"Subject: test\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><p>How do I <b>join</b>?</p></body></html>\r\n")

	got := extractPlainText(raw)
	assert.Contains(t, got, "How do I")
	assert.Contains(t, got, "join")
	assert.NotContains(t, got, "<b>")
}

func TestExtractPlainTextSimpleMessage(t *testing.T) {
	raw := []byte("From: a@x.com\r\n" +
		"Subject: hi\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Just a simple body.\r\n")

	assert.Contains(t, extractPlainText(raw), "Just a simple body.")
}

func TestExtractPlainTextMalformedFallsBackToRaw(t *testing.T) {
	raw := []byte("this is not a mime message at all")
	assert.Equal(t, string(raw), extractPlainText(raw))
}
