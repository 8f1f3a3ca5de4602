package mailbox

import (
	"encoding/base64"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"google.golang.org/api/gmail/v1"
)

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestExtractBody_PlainTextPart(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/alternative",
		Parts: []*gmail.MessagePart{
			{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<p>hi</p>")}},
			{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("We are hiring a Backend Engineer.")}},
		},
	}

	assert.Equal(t, "We are hiring a Backend Engineer.", extractBody(payload))
}

func TestExtractBody_TopLevelPlainText(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "text/plain",
		Body:     &gmail.MessagePartBody{Data: encode("short note")},
	}
	assert.Equal(t, "short note", extractBody(payload))
}

func TestExtractBody_HTMLOnlyIsStripped(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>
<p>Hello,</p>
<p>Please send <b>John_Doe's</b> resume.</p>
<script>track()</script>
</body></html>`
	payload := &gmail.MessagePart{
		MimeType: "text/html",
		Body:     &gmail.MessagePartBody{Data: encode(html)},
	}

	body := extractBody(payload)
	assert.Contains(t, body, "Please send John_Doe's resume.")
	assert.NotContains(t, body, "track()")
	assert.NotContains(t, body, "color:red")
	assert.NotContains(t, body, "<p>")
}

func TestExtractBody_NestedMultipart(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("nested body")}},
				},
			},
		},
	}
	assert.Equal(t, "nested body", extractBody(payload))
}

func TestExtractBody_Empty(t *testing.T) {
	assert.Empty(t, extractBody(nil))
	assert.Empty(t, extractBody(&gmail.MessagePart{MimeType: "text/plain"}))
}

func TestBuildMIMEMessage(t *testing.T) {
	raw, err := buildMIMEMessage("hr@corp.example", "Application for Engineer - Jane", "body text", nil)
	require.NoError(t, err)

	decoded, err := base64.URLEncoding.DecodeString(raw)
	require.NoError(t, err)
	msg := string(decoded)

	assert.Contains(t, msg, "To: hr@corp.example")
	assert.Contains(t, msg, "Subject:")
	assert.Contains(t, msg, "multipart/mixed")
	assert.Contains(t, msg, "body text")
}

func TestBuildMIMEMessage_WithAttachment(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/resume.pdf"
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 200)), 0o644))

	raw, err := buildMIMEMessage("hr@corp.example", "subj", "body", []string{path, ""})
	require.NoError(t, err)

	decoded, err := base64.URLEncoding.DecodeString(raw)
	require.NoError(t, err)
	msg := string(decoded)

	assert.Contains(t, msg, `attachment; filename="resume.pdf"`)
	assert.Contains(t, msg, "Content-Transfer-Encoding: base64")
}

func TestBuildMIMEMessage_MissingAttachmentFails(t *testing.T) {
	_, err := buildMIMEMessage("a@b.c", "s", "b", []string{"/no/such/file.pdf"})
	assert.Error(t, err)
}

func TestHeaderValue(t *testing.T) {
	payload := &gmail.MessagePart{Headers: []*gmail.MessagePartHeader{
		{Name: "Subject", Value: "Job opening"},
	}}

	assert.Equal(t, "Job opening", headerValue(payload, "Subject", "No Subject"))
	assert.Equal(t, "Unknown", headerValue(payload, "From", "Unknown"))
	assert.Equal(t, "x", headerValue(nil, "Subject", "x"))
}
