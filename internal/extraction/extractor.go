// Package extraction turns raw recruiting-email text into a structured
// JobInfo record and a classification of what the sender wants.
package extraction

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonathan/hr-agent/internal/llm"
	"github.com/jonathan/hr-agent/internal/prompts"
	"github.com/jonathan/hr-agent/internal/types"
)

// DefaultActionNeeded is assumed when the email does not state one.
const DefaultActionNeeded = "send resume"

// Extractor extracts job information from HR emails. A nil client is
// allowed; every model-dependent step then degrades to its
// deterministic default.
type Extractor struct {
	client llm.Client
}

// NewExtractor creates an extractor backed by a language-model client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// DefaultJobInfo is the deterministic record used when extraction fails.
func DefaultJobInfo() *types.JobInfo {
	return &types.JobInfo{
		JobTitle:     "General Position",
		Skills:       TrendingSkills(DefaultSector),
		ActionNeeded: DefaultActionNeeded,
		RequestKind:  types.KindGeneralPosting,
		Sector:       DefaultSector,
	}
}

// Extract turns raw email text into a JobInfo. Extraction is total: an
// upstream model failure or malformed response is recorded and replaced
// with DefaultJobInfo, so downstream stages always receive a usable
// record. Classification and sector enrichment run on either outcome.
func (e *Extractor) Extract(ctx context.Context, emailText string) *types.JobInfo {
	job, err := e.extractJobInfo(ctx, emailText)
	if err != nil {
		log.Printf("extraction degraded to defaults: %v", err)
		job = DefaultJobInfo()
	}

	cls := e.Classify(ctx, emailText)
	job.RequestKind = cls.Kind
	job.TargetUserID = cls.TargetUserID

	if strings.TrimSpace(job.ActionNeeded) == "" {
		job.ActionNeeded = DefaultActionNeeded
	}

	job.Sector = InferSector(job)
	if len(job.Skills) == 0 {
		job.Skills = TrendingSkills(job.Sector)
	}

	return job
}

// extractJobInfo runs the structured extraction call and validates the
// response before accepting it.
func (e *Extractor) extractJobInfo(ctx context.Context, emailText string) (*types.JobInfo, error) {
	if e.client == nil {
		return nil, &ExtractionError{Message: "no language model client configured"}
	}
	if strings.TrimSpace(emailText) == "" {
		return nil, &ExtractionError{Message: "email text is empty"}
	}

	template := prompts.MustGet("extraction.json", "extract-job-info")
	prompt := prompts.Format(template, map[string]string{"EmailText": emailText})

	responseText, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &ExtractionError{Message: "model call failed", Cause: err}
	}

	responseText = llm.CleanJSONBlock(responseText)
	if err := validateJobInfoJSON(responseText); err != nil {
		return nil, &ExtractionError{Message: "malformed model response", Cause: err}
	}

	var job types.JobInfo
	if err := json.Unmarshal([]byte(responseText), &job); err != nil {
		return nil, &ExtractionError{Message: "failed to parse model response", Cause: err}
	}

	job.Skills = normalizeSkills(job.Skills)
	job.JobTitle = strings.TrimSpace(job.JobTitle)
	job.Company = strings.TrimSpace(job.Company)

	return &job, nil
}

// normalizeSkills trims entries and drops empties, preserving order.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
