package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ExistingPrompt(t *testing.T) {
	prompt, err := Get("extraction.json", "extract-job-info")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.EmailText}}")
	assert.Contains(t, prompt, "job_title")
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Get("extraction.json", "no-such-prompt")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-prompt")
}

func TestGet_MissingFile(t *testing.T) {
	_, err := Get("missing.json", "anything")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("extraction.json", "no-such-prompt")
	})
}

func TestFormat_ReplacesPlaceholders(t *testing.T) {
	template := MustGet("compose.json", "reply-email")
	result := Format(template, map[string]string{
		"Name":         "John Doe",
		"JobTitle":     "Backend Engineer",
		"Company":      "TechCorp",
		"ActionNeeded": "send resume",
	})

	assert.Contains(t, result, "John Doe")
	assert.Contains(t, result, "TechCorp")
	assert.False(t, strings.Contains(result, "{{."))
}
