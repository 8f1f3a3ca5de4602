// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/hr-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobInfo outputs a human-readable summary of the extracted job record.
func (p *Printer) PrintJobInfo(job *types.JobInfo) {
	if job == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Title:    %s\n", job.JobTitle))
	if job.Company != "" {
		sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	}
	if job.ExperienceLevel != "" {
		sb.WriteString(fmt.Sprintf("Level:    %s\n", job.ExperienceLevel))
	}
	sb.WriteString(fmt.Sprintf("Sector:   %s\n", job.Sector))
	sb.WriteString(fmt.Sprintf("Request:  %s", job.RequestKind))
	if job.TargetUserID != "" {
		sb.WriteString(fmt.Sprintf(" (target: %s)", job.TargetUserID))
	}
	sb.WriteString("\n")

	if len(job.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(job.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", job.Skills[i]))
		}
		if len(job.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(job.Skills)-maxItemsToShow))
		}
	}

	p.printBox("EXTRACTED JOB INFO", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs the candidate ranking with scores.
func (p *Printer) PrintRanking(ranked *types.RankedCandidates) {
	if ranked == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates evaluated: %d\n\n", ranked.TotalEvaluated))

	sb.WriteString(fmt.Sprintf("#1  %s\n", ranked.Best.Name))
	sb.WriteString(fmt.Sprintf("    Score: %s", ranked.Best.Breakdown.OverallMatch))
	sb.WriteString(fmt.Sprintf(" (skills %s, exp %s, edu %s)\n",
		ranked.Best.Breakdown.SkillsMatch,
		ranked.Best.Breakdown.ExperienceMatch,
		ranked.Best.Breakdown.EducationMatch))
	if ranked.Best.Notes != "" {
		notes := ranked.Best.Notes
		if len(notes) > 48 {
			notes = notes[:45] + "..."
		}
		sb.WriteString(fmt.Sprintf("    %s\n", notes))
	}

	for i, c := range ranked.RunnersUp {
		sb.WriteString(fmt.Sprintf("\n#%d  %s\n", i+2, c.Name))
		sb.WriteString(fmt.Sprintf("    Score: %s\n", c.Breakdown.OverallMatch))
	}

	p.printBox("CANDIDATE RANKING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs a short summary of the selected profile.
func (p *Printer) PrintProfile(profile *types.Profile, method string) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:     %s\n", profile.UserID))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", profile.Email))
	if method != "" {
		sb.WriteString(fmt.Sprintf("Method:   %s\n", method))
	}

	if len(profile.Skills) > 0 {
		skills := strings.Join(profile.Skills, ", ")
		if len(skills) > 40 {
			skills = skills[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", skills))
	}

	p.printBox("SELECTED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}
