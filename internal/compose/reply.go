// Package compose writes the reply email that carries the generated
// application documents back to the sender.
package compose

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/jonathan/hr-agent/internal/llm"
	"github.com/jonathan/hr-agent/internal/prompts"
	"github.com/jonathan/hr-agent/internal/types"
)

// Composer builds reply subjects and bodies. A nil client always
// produces the deterministic fallback letter.
type Composer struct {
	client llm.Client
}

// NewComposer creates a composer backed by a language-model client.
func NewComposer(client llm.Client) *Composer {
	return &Composer{client: client}
}

// Subject builds the reply subject line.
func Subject(job *types.JobInfo, p *types.Profile) string {
	title := "Position"
	if job != nil && strings.TrimSpace(job.JobTitle) != "" {
		title = job.JobTitle
	}
	name := "Candidate"
	if p != nil && strings.TrimSpace(p.Name) != "" {
		name = p.Name
	}
	return fmt.Sprintf("Application for %s - %s", title, name)
}

// Reply composes the reply body. The letter text is model-written when
// possible, deterministic otherwise; either way the attachment footer
// and signature are appended.
func (c *Composer) Reply(ctx context.Context, p *types.Profile, job *types.JobInfo, resumePath, coverLetterPath string) string {
	body := ""
	if c.client != nil {
		tmpl := prompts.MustGet("compose.json", "reply-email")
		prompt := prompts.Format(tmpl, map[string]string{
			"Name":         profileName(p),
			"JobTitle":     jobField(job, func(j *types.JobInfo) string { return j.JobTitle }, "Position"),
			"Company":      jobField(job, func(j *types.JobInfo) string { return j.Company }, "Company"),
			"ActionNeeded": jobField(job, func(j *types.JobInfo) string { return j.ActionNeeded }, "send resume"),
		})

		generated, err := c.client.GenerateContent(ctx, prompt, llm.TierStandard)
		if err != nil {
			log.Printf("reply generation failed, using fallback: %v", err)
		} else {
			body = strings.TrimSpace(generated)
		}
	}

	if body == "" {
		body = fallbackReplyBody(job)
	}

	return body + attachmentFooter(p, resumePath, coverLetterPath)
}

// fallbackReplyBody is the deterministic letter used when the model is
// unavailable.
func fallbackReplyBody(job *types.JobInfo) string {
	title := jobField(job, func(j *types.JobInfo) string { return j.JobTitle }, "position")
	company := jobField(job, func(j *types.JobInfo) string { return j.Company }, "your company")

	return fmt.Sprintf(`Dear Hiring Team,

Thank you for your interest in my candidacy for the %s role at %s.

I am excited about this opportunity and have attached my resume and cover letter for your review. I believe my background and skills make me a strong fit for this position.

I look forward to hearing from you and discussing how I can contribute to your team.`, title, company)
}

// attachmentFooter lists the attached documents and signs off with the
// candidate's identity.
func attachmentFooter(p *types.Profile, resumePath, coverLetterPath string) string {
	var b strings.Builder
	b.WriteString("\n\nAttachments:\n")
	if resumePath != "" {
		fmt.Fprintf(&b, "- Resume: %s\n", filepath.Base(resumePath))
	}
	if coverLetterPath != "" {
		fmt.Fprintf(&b, "- Cover Letter: %s\n", filepath.Base(coverLetterPath))
	}

	b.WriteString("\nBest regards,\n")
	b.WriteString(profileName(p))
	if p != nil && p.Email != "" {
		b.WriteString("\n")
		b.WriteString(p.Email)
	}
	return b.String()
}

func profileName(p *types.Profile) string {
	if p != nil && strings.TrimSpace(p.Name) != "" {
		return p.Name
	}
	return "Candidate"
}

func jobField(job *types.JobInfo, get func(*types.JobInfo) string, fallback string) string {
	if job != nil {
		if v := strings.TrimSpace(get(job)); v != "" {
			return v
		}
	}
	return fallback
}
