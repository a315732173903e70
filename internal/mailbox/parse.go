package mailbox

import (
	"bytes"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/k3a/html2text"
)

// extractPlainText parses a raw RFC 2822 message and returns its plain
// text body. A text/plain part is preferred; an HTML-only message is
// converted to text. Parse failures fall back to the raw bytes so a
// malformed message still classifies on whatever text it carries.
func extractPlainText(raw []byte) string {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}
	defer mr.Close()

	var textBody, htmlBody string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			if textBody == "" {
				textBody = string(body)
			}
		case strings.HasPrefix(contentType, "text/html"):
			if htmlBody == "" {
				htmlBody = string(body)
			}
		}
	}

	if textBody != "" {
		return textBody
	}
	if htmlBody != "" {
		return html2text.HTML2Text(htmlBody)
	}
	return ""
}
