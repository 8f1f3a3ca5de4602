package rendering

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/hr-agent/internal/llm"
	"github.com/jonathan/hr-agent/internal/prompts"
	"github.com/jonathan/hr-agent/internal/types"
)

// Renderer writes resume and cover letter documents under
// outputsDir/<user_id>/. PDF output needs a local Chrome; when printing
// fails the HTML document is kept and its path returned instead, so a
// missing browser degrades output quality but never the pipeline.
type Renderer struct {
	outputsDir string
	client     llm.Client

	// DisablePDF skips the headless print entirely and emits HTML.
	// Used by tests and environments without Chrome.
	DisablePDF bool
}

// NewRenderer creates a renderer. client may be nil; cover letter body
// text then always uses the deterministic fallback.
func NewRenderer(outputsDir string, client llm.Client) *Renderer {
	if outputsDir == "" {
		outputsDir = "outputs"
	}
	return &Renderer{outputsDir: outputsDir, client: client}
}

// RenderResume generates the resume document and returns its path.
func (r *Renderer) RenderResume(ctx context.Context, p *types.Profile, job *types.JobInfo) (string, error) {
	if p == nil {
		return "", &RenderError{Message: "no profile to render"}
	}

	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, newResumeData(p, job)); err != nil {
		return "", &TemplateError{Message: "failed to render resume", Cause: err}
	}
	return r.writeDocument(ctx, p.UserID, "resume", buf.Bytes())
}

// RenderCoverLetter generates the cover letter document and returns its
// path. The body text comes from the model when a client is configured,
// with a deterministic letter as fallback.
func (r *Renderer) RenderCoverLetter(ctx context.Context, p *types.Profile, job *types.JobInfo) (string, error) {
	if p == nil {
		return "", &RenderError{Message: "no profile to render"}
	}

	body := r.coverLetterBody(ctx, p, job)

	var buf bytes.Buffer
	if err := coverLetterTemplate.Execute(&buf, newCoverLetterData(p, job, body)); err != nil {
		return "", &TemplateError{Message: "failed to render cover letter", Cause: err}
	}
	return r.writeDocument(ctx, p.UserID, "cover_letter", buf.Bytes())
}

// writeDocument saves the HTML and attempts the PDF print. The HTML
// path is the result whenever printing is unavailable or fails.
func (r *Renderer) writeDocument(ctx context.Context, userID, stem string, html []byte) (string, error) {
	dir := filepath.Join(r.outputsDir, userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &RenderError{Message: "failed to create output directory", Cause: err}
	}

	htmlPath := filepath.Join(dir, stem+".html")
	if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		return "", &RenderError{Message: "failed to write document", Cause: err}
	}

	if r.DisablePDF {
		return htmlPath, nil
	}

	absHTML, err := filepath.Abs(htmlPath)
	if err != nil {
		return htmlPath, nil
	}
	pdfPath := filepath.Join(dir, stem+".pdf")
	if err := printPDF(ctx, absHTML, pdfPath); err != nil {
		log.Printf("pdf generation failed for %s, keeping html: %v", stem, err)
		return htmlPath, nil
	}
	return pdfPath, nil
}

// coverLetterBody produces the letter paragraphs as HTML.
func (r *Renderer) coverLetterBody(ctx context.Context, p *types.Profile, job *types.JobInfo) string {
	if r.client != nil {
		tmpl := prompts.MustGet("compose.json", "cover-letter")
		prompt := prompts.Format(tmpl, map[string]string{
			"Name":       p.Name,
			"Education":  strings.Join(entryStrings(p.Education), ", "),
			"Experience": strings.Join(entryStrings(p.Experience), ", "),
			"Skills":     strings.Join(p.Skills, ", "),
			"JobTitle":   jobTitleOr(job, "Position"),
			"Company":    companyOr(job, "Company"),
			"JobSkills":  jobSkills(job),
		})

		body, err := r.client.GenerateContent(ctx, prompt, llm.TierStandard)
		if err == nil && strings.TrimSpace(body) != "" {
			return body
		}
		if err != nil {
			log.Printf("cover letter generation failed, using fallback: %v", err)
		}
	}

	return fallbackCoverLetterBody(p, job)
}

// fallbackCoverLetterBody is the deterministic letter used when no
// model is available.
func fallbackCoverLetterBody(p *types.Profile, job *types.JobInfo) string {
	background := strings.Join(entryStrings(p.Education), ", ")
	if background == "" {
		background = "relevant field"
	}
	return fmt.Sprintf(`<p>Dear Hiring Manager,</p>
<p>I am writing to express my strong interest in the %s role at %s.</p>
<p>With my background in %s, I believe I would be a valuable addition to your team.</p>
<p>I look forward to discussing how my skills and experience can contribute to your organization's success.</p>`,
		template.HTMLEscapeString(jobTitleOr(job, "position")),
		template.HTMLEscapeString(companyOr(job, "your company")),
		template.HTMLEscapeString(background))
}

func jobTitleOr(job *types.JobInfo, fallback string) string {
	if job != nil && strings.TrimSpace(job.JobTitle) != "" {
		return job.JobTitle
	}
	return fallback
}

func companyOr(job *types.JobInfo, fallback string) string {
	if job != nil && strings.TrimSpace(job.Company) != "" {
		return job.Company
	}
	return fallback
}

func jobSkills(job *types.JobInfo) string {
	if job == nil {
		return ""
	}
	return strings.Join(job.Skills, ", ")
}
