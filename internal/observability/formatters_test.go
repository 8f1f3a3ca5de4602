package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/hr-agent/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintJobInfo(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	job := &types.JobInfo{
		JobTitle:        "Senior Backend Engineer",
		Company:         "Acme Corp",
		Skills:          []string{"Go", "PostgreSQL", "Kubernetes"},
		ExperienceLevel: "senior",
		RequestKind:     types.KindGeneralPosting,
		Sector:          "technology",
	}

	p.PrintJobInfo(job)
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED JOB INFO")
	assert.Contains(t, output, "Senior Backend Engineer")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "technology")
	assert.Contains(t, output, "Go")
	assert.Contains(t, output, "PostgreSQL")
}

func TestPrintJobInfo_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobInfo(nil)

	assert.Empty(t, buf.String())
}

func TestPrintJobInfo_ManySkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	job := &types.JobInfo{
		JobTitle:    "Engineer",
		Skills:      []string{"a", "b", "c", "d", "e", "f", "g"},
		RequestKind: types.KindGeneralPosting,
		Sector:      "other",
	}

	p.PrintJobInfo(job)
	output := buf.String()

	assert.Contains(t, output, "and 2 more")
}

func TestPrintJobInfo_TargetUser(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	job := &types.JobInfo{
		JobTitle:     "Engineer",
		RequestKind:  types.KindSpecificUser,
		TargetUserID: "jane_smith",
		Sector:       "other",
	}

	p.PrintJobInfo(job)
	output := buf.String()

	assert.Contains(t, output, "specific_user")
	assert.Contains(t, output, "jane_smith")
}

func TestPrintRanking(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	best := types.RankedCandidate{
		UserID: "jane_smith",
		Name:   "Jane Smith",
		Score:  types.MatchScore{SkillsMatch: 0.8, ExperienceMatch: 1.0, EducationMatch: 0.6, Overall: 0.84},
		Notes:  "Strong skill match",
	}
	best.Breakdown = best.Score.Breakdown()

	second := types.RankedCandidate{
		UserID: "john_doe",
		Name:   "John Doe",
		Score:  types.MatchScore{Overall: 0.41},
	}
	second.Breakdown = second.Score.Breakdown()

	p.PrintRanking(&types.RankedCandidates{
		Best:           best,
		RunnersUp:      []types.RankedCandidate{second},
		TotalEvaluated: 2,
	})
	output := buf.String()

	assert.Contains(t, output, "CANDIDATE RANKING")
	assert.Contains(t, output, "Candidates evaluated: 2")
	assert.Contains(t, output, "#1  Jane Smith")
	assert.Contains(t, output, "0.84")
	assert.Contains(t, output, "#2  John Doe")
	assert.Contains(t, output, "0.41")
	assert.Contains(t, output, "Strong skill match")
}

func TestPrintRanking_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRanking(nil)

	assert.Empty(t, buf.String())
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.Profile{
		UserID: "jane_smith",
		Name:   "Jane Smith",
		Email:  "jane@example.com",
		Skills: []string{"Python", "SQL"},
	}

	p.PrintProfile(profile, "candidate_matching")
	output := buf.String()

	assert.Contains(t, output, "SELECTED PROFILE")
	assert.Contains(t, output, "jane_smith")
	assert.Contains(t, output, "jane@example.com")
	assert.Contains(t, output, "candidate_matching")
	assert.Contains(t, output, "Python, SQL")
}

func TestPrintProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfile(nil, "")

	assert.Empty(t, buf.String())
}

func TestPrintBox_LongLinesAreTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))
	output := buf.String()

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
	assert.Contains(t, output, "...")
}
