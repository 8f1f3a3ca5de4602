package mailbox

import (
	"encoding/base64"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"google.golang.org/api/gmail/v1"
)

// extractBody reduces a Gmail payload to plain text. Plain-text parts
// win; otherwise the first HTML part is stripped of markup. Multipart
// containers are walked depth-first.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}
	if text := findPart(payload, "text/plain"); text != "" {
		return strings.TrimSpace(text)
	}
	if html := findPart(payload, "text/html"); html != "" {
		return strings.TrimSpace(stripHTML(html))
	}
	return ""
}

// findPart returns the decoded data of the first part with the given
// MIME type.
func findPart(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
		return decodePartData(part.Body.Data)
	}
	for _, child := range part.Parts {
		if text := findPart(child, mimeType); text != "" {
			return text
		}
	}
	return ""
}

func decodePartData(data string) string {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

// stripHTML extracts readable text from an HTML email body. Script and
// style content is dropped before extraction.
func stripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style").Remove()

	text := doc.Text()
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
