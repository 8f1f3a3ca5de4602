package extraction

import (
	"strings"

	"github.com/jonathan/hr-agent/internal/types"
)

// DefaultSector is used when no sector keyword matches.
const DefaultSector = "other"

// sectorOrder fixes the evaluation order so inference is deterministic
// when keyword counts tie.
var sectorOrder = []string{"technology", "finance", "healthcare", "marketing", "education"}

var sectorKeywords = map[string][]string{
	"technology": {"software", "developer", "engineer", "data", "cloud", "backend", "frontend", "devops", "machine learning", "ai", "python", "java", "infrastructure"},
	"finance":    {"bank", "finance", "financial", "accounting", "accountant", "trading", "fintech", "audit", "investment"},
	"healthcare": {"health", "medical", "clinical", "nurse", "pharma", "hospital", "patient", "biotech"},
	"marketing":  {"marketing", "seo", "brand", "advertising", "social media", "campaign", "content strategy"},
	"education":  {"teacher", "education", "curriculum", "tutor", "academic", "instructor", "school"},
}

// trendingSkills maps each sector to its current top skills, used to
// backfill job records that arrive without an explicit skills list.
// The lookup is a fixed table so backfilling is reproducible.
var trendingSkills = map[string][]string{
	"technology": {"Python", "Cloud Computing", "Machine Learning", "Kubernetes", "Go"},
	"finance":    {"Financial Modeling", "Excel", "SQL", "Risk Analysis", "Python"},
	"healthcare": {"Patient Care", "Clinical Research", "Medical Terminology", "HIPAA Compliance", "Data Analysis"},
	"marketing":  {"SEO", "Content Strategy", "Google Analytics", "Social Media", "Copywriting"},
	"education":  {"Curriculum Design", "Classroom Management", "Assessment", "EdTech Tools", "Communication"},
	DefaultSector: {"Communication", "Teamwork", "Problem Solving"},
}

// InferSector assigns a coarse industry tag from the job title, company
// and skills text. Ties go to the sector listed first in sectorOrder;
// no match at all yields DefaultSector.
func InferSector(job *types.JobInfo) string {
	if job == nil {
		return DefaultSector
	}

	var sb strings.Builder
	sb.WriteString(job.JobTitle)
	sb.WriteString(" ")
	sb.WriteString(job.Company)
	for _, skill := range job.Skills {
		sb.WriteString(" ")
		sb.WriteString(skill)
	}
	text := strings.ToLower(sb.String())

	bestSector := DefaultSector
	bestHits := 0
	for _, sector := range sectorOrder {
		hits := 0
		for _, keyword := range sectorKeywords[sector] {
			if strings.Contains(text, keyword) {
				hits++
			}
		}
		if hits > bestHits {
			bestHits = hits
			bestSector = sector
		}
	}

	return bestSector
}

// TrendingSkills returns a copy of the trending skill list for a sector,
// falling back to the generic list for unknown sectors.
func TrendingSkills(sector string) []string {
	skills, ok := trendingSkills[strings.ToLower(strings.TrimSpace(sector))]
	if !ok {
		skills = trendingSkills[DefaultSector]
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}
