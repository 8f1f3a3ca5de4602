// Package matching scores how well a candidate profile fits a job
// requirement. Every sub-score is a total function over [0,1]; malformed
// input degrades to a safe default rather than failing the caller.
package matching

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/jonathan/hr-agent/internal/types"
)

// Overall weight split between the three sub-scores.
const (
	skillsWeight     = 0.6
	experienceWeight = 0.3
	educationWeight  = 0.1
)

// Embedder produces one vector per input text. llm.Client satisfies
// this; a nil Embedder selects the substring matching path.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// yearRange is the acceptable experience band for a job level.
type yearRange struct {
	min, max int
}

var levelRequirements = map[string]yearRange{
	types.LevelEntry:        {0, 2},
	types.LevelJunior:       {0, 2},
	types.LevelMid:          {2, 5},
	types.LevelIntermediate: {2, 5},
	types.LevelSenior:       {5, 10},
	types.LevelExpert:       {10, 20},
	types.LevelLead:         {5, 15},
}

// higherEdKeywords grant a single bonus when any of them appears in the
// candidate's education text.
var higherEdKeywords = []string{
	"bachelor", "master", "phd", "doctorate",
	"engineering", "computer science", "technology",
}

// Scorer computes match scores. The zero value scores with substring
// matching only.
type Scorer struct {
	embedder Embedder
}

// NewScorer creates a scorer. embedder may be nil; skills matching then
// uses substring containment exclusively.
func NewScorer(embedder Embedder) *Scorer {
	return &Scorer{embedder: embedder}
}

// Score computes the full weighted match between a job and a profile.
func (s *Scorer) Score(ctx context.Context, job *types.JobInfo, p *types.Profile) types.MatchScore {
	var jobSkills []string
	var level string
	if job != nil {
		jobSkills = job.Skills
		level = job.ExperienceLevel
	}
	var candSkills []string
	var experience, education []types.Entry
	if p != nil {
		candSkills = p.Skills
		experience = p.Experience
		education = p.Education
	}

	score := types.MatchScore{
		SkillsMatch:     s.SkillsMatch(ctx, jobSkills, candSkills),
		ExperienceMatch: ExperienceMatch(level, experience),
		EducationMatch:  EducationMatch(job, education),
	}
	score.Overall = round2(score.SkillsMatch*skillsWeight +
		score.ExperienceMatch*experienceWeight +
		score.EducationMatch*educationWeight)
	return score
}

// SkillsMatch scores how much of the job's skill list the candidate
// covers. The embedding path averages each job skill's best cosine
// similarity against the candidate's skills; any embedding failure
// falls back to substring containment. Either list being empty scores
// zero.
func (s *Scorer) SkillsMatch(ctx context.Context, jobSkills, candidateSkills []string) float64 {
	job := normalizeStrings(jobSkills)
	cand := normalizeStrings(candidateSkills)
	if len(job) == 0 || len(cand) == 0 {
		return 0.0
	}

	if s.embedder != nil {
		if score, err := s.embeddingMatch(ctx, job, cand); err == nil {
			return score
		} else {
			log.Printf("embedding skills match failed, using substring matching: %v", err)
		}
	}

	return substringMatch(job, cand)
}

func (s *Scorer) embeddingMatch(ctx context.Context, job, cand []string) (float64, error) {
	jobVecs, err := s.embedder.EmbedTexts(ctx, job)
	if err != nil {
		return 0, err
	}
	candVecs, err := s.embedder.EmbedTexts(ctx, cand)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for _, jv := range jobVecs {
		best := -1.0
		for _, cv := range candVecs {
			if sim := cosine(jv, cv); sim > best {
				best = sim
			}
		}
		sum += best
	}
	return round2(sum / float64(len(jobVecs))), nil
}

// substringMatch counts job skills that are a substring of, or contain,
// some candidate skill.
func substringMatch(job, cand []string) float64 {
	matches := 0
	for _, js := range job {
		for _, cs := range cand {
			if strings.Contains(cs, js) || strings.Contains(js, cs) {
				matches++
				break
			}
		}
	}
	return round2(float64(matches) / float64(len(job)))
}

// ExperienceMatch scores the candidate's years of experience against
// the job level's expected range. Years come from "<N> year" mentions
// in the entries, with the entry count as a proxy when none appear.
func ExperienceMatch(jobLevel string, experience []types.Entry) float64 {
	level := strings.ToLower(strings.TrimSpace(jobLevel))

	if len(experience) == 0 {
		if level == types.LevelEntry {
			return 0.1
		}
		return 0.0
	}

	years := extractYears(experience)

	if r, ok := levelRequirements[level]; ok {
		switch {
		case years >= r.min && years <= r.max:
			return 1.0
		case years > r.max:
			// Overqualified but still favorable.
			return 0.8
		default:
			return math.Max(0.2, float64(years)/math.Max(float64(r.min), 1)*0.6)
		}
	}

	// No recognized level: score by absolute experience.
	switch {
	case years >= 5:
		return 0.9
	case years >= 2:
		return 0.7
	case years >= 1:
		return 0.5
	default:
		return 0.3
	}
}

// EducationMatch starts from a base score and rewards education text
// mentioning the job's title, company or skills, plus a single bonus
// for higher-education keywords.
func EducationMatch(job *types.JobInfo, education []types.Entry) float64 {
	if len(education) == 0 {
		return 0.3
	}

	text := joinEntries(education)
	score := 0.5

	matches := 0
	for _, keyword := range relevanceKeywords(job) {
		if keyword != "" && strings.Contains(text, keyword) {
			matches++
		}
	}
	if matches > 0 {
		score = math.Min(0.5+float64(matches)*0.1, 1.0)
	}

	for _, keyword := range higherEdKeywords {
		if strings.Contains(text, keyword) {
			score = math.Min(score+0.1, 1.0)
			break
		}
	}

	return round2(score)
}

// relevanceKeywords builds the lowercase keyword set from the job's
// title, company and skill list.
func relevanceKeywords(job *types.JobInfo) []string {
	if job == nil {
		return nil
	}
	var keywords []string
	if t := strings.ToLower(strings.TrimSpace(job.JobTitle)); t != "" {
		keywords = append(keywords, t)
	}
	if c := strings.ToLower(strings.TrimSpace(job.Company)); c != "" {
		keywords = append(keywords, c)
	}
	return append(keywords, normalizeStrings(job.Skills)...)
}

// cosine computes cosine similarity between two vectors. Mismatched or
// zero-length vectors score zero.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
