package rendering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hr-agent/internal/llm"
	"github.com/jonathan/hr-agent/internal/types"
)

type fakeClient struct {
	text string
	err  error
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.text, f.err
}

func (f *fakeClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return f.text, f.err
}

func (f *fakeClient) EmbedTexts(_ context.Context, _ []string) ([][]float32, error) {
	return nil, errors.New("not supported")
}

func (f *fakeClient) Close() error { return nil }

func testProfile() *types.Profile {
	return &types.Profile{
		UserID: "jane_smith",
		Name:   "Jane Smith",
		Email:  "jane@example.com",
		Phone:  "555-0100",
		Skills: []string{"Python", "SQL"},
		Experience: []types.Entry{
			{Text: "3 years backend development"},
			{Fields: map[string]any{"name": "Data Engineer at Initech"}},
		},
		Education: []types.Entry{{Text: "BSc Computer Science"}},
	}
}

func htmlRenderer(t *testing.T, client llm.Client) *Renderer {
	t.Helper()
	r := NewRenderer(t.TempDir(), client)
	r.DisablePDF = true
	return r
}

func TestRenderResume(t *testing.T) {
	r := htmlRenderer(t, nil)
	job := &types.JobInfo{JobTitle: "Backend Engineer", Skills: []string{"Python", "Docker"}}

	path, err := r.RenderResume(context.Background(), testProfile(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join("jane_smith", "resume.html")))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(html)
	assert.Contains(t, content, "Jane Smith")
	assert.Contains(t, content, "Backend Engineer")
	assert.Contains(t, content, "BSc Computer Science")
	assert.Contains(t, content, "Data Engineer at Initech")
	// "Python" overlaps, "Docker" does not.
	assert.Contains(t, content, "Relevant Skills")
	assert.NotContains(t, content, `class="highlight">Docker`)
}

func TestRenderResume_NilProfileFails(t *testing.T) {
	r := htmlRenderer(t, nil)
	_, err := r.RenderResume(context.Background(), nil, &types.JobInfo{})
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
}

func TestRenderResume_EscapesProfileText(t *testing.T) {
	r := htmlRenderer(t, nil)
	p := testProfile()
	p.Name = `Jane <script>alert(1)</script>`

	path, err := r.RenderResume(context.Background(), p, nil)
	require.NoError(t, err)
	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>alert")
}

func TestRenderCoverLetter_ModelBody(t *testing.T) {
	client := &fakeClient{text: "<p>I am thrilled to apply.</p>"}
	r := htmlRenderer(t, client)
	job := &types.JobInfo{JobTitle: "Backend Engineer", Company: "TechCorp"}

	path, err := r.RenderCoverLetter(context.Background(), testProfile(), job)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join("jane_smith", "cover_letter.html")))

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(html)
	assert.Contains(t, content, "I am thrilled to apply.")
	assert.Contains(t, content, "TechCorp")
	assert.Contains(t, content, "Application for")
}

func TestRenderCoverLetter_FallbackBody(t *testing.T) {
	r := htmlRenderer(t, &fakeClient{err: errors.New("quota")})
	job := &types.JobInfo{JobTitle: "Analyst", Company: "FinBank"}

	path, err := r.RenderCoverLetter(context.Background(), testProfile(), job)
	require.NoError(t, err)

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(html)
	assert.Contains(t, content, "Dear Hiring Manager")
	assert.Contains(t, content, "Analyst")
	assert.Contains(t, content, "FinBank")
	assert.Contains(t, content, "BSc Computer Science")
}

func TestRenderCoverLetter_NilClientUsesFallback(t *testing.T) {
	r := htmlRenderer(t, nil)

	path, err := r.RenderCoverLetter(context.Background(), testProfile(), nil)
	require.NoError(t, err)
	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(html), "your company")
}

func TestRelevantSkills(t *testing.T) {
	user := []string{"Python 3", "PostgreSQL"}
	job := []string{"python", "SQL", "Rust"}

	assert.Equal(t, []string{"python", "SQL"}, relevantSkills(user, job))
	assert.Empty(t, relevantSkills(nil, job))
	assert.Empty(t, relevantSkills(user, nil))
}
