package types

import "fmt"

// MatchScore is the 3-factor similarity between a JobInfo and a Profile.
// All components are in [0,1]; Overall is the weighted combination
// computed by the scorer. Scores are ephemeral and never persisted.
type MatchScore struct {
	SkillsMatch     float64 `json:"skills_match"`
	ExperienceMatch float64 `json:"experience_match"`
	EducationMatch  float64 `json:"education_match"`
	Overall         float64 `json:"overall"`
}

// Breakdown formats the score components to two decimals for display.
func (s MatchScore) Breakdown() ScoreBreakdown {
	return ScoreBreakdown{
		SkillsMatch:     fmt.Sprintf("%.2f", s.SkillsMatch),
		ExperienceMatch: fmt.Sprintf("%.2f", s.ExperienceMatch),
		EducationMatch:  fmt.Sprintf("%.2f", s.EducationMatch),
		OverallMatch:    fmt.Sprintf("%.2f", s.Overall),
	}
}

// ScoreBreakdown is the human-readable rendering of a MatchScore.
type ScoreBreakdown struct {
	SkillsMatch     string `json:"skills_match"`
	ExperienceMatch string `json:"experience_match"`
	EducationMatch  string `json:"education_match"`
	OverallMatch    string `json:"overall_match"`
}

// RankedCandidate is one scored profile in a ranking result, annotated
// with a display identity. Missing contact fields are filled with
// placeholders so downstream consumers never see empty identity data.
type RankedCandidate struct {
	UserID    string         `json:"user_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Skills    []string       `json:"skills"`
	Score     MatchScore     `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Notes     string         `json:"notes,omitempty"`
}

// RankedCandidates is the output of the candidate ranker: the top
// profile plus up to four runners-up.
type RankedCandidates struct {
	Best           RankedCandidate   `json:"best_candidate"`
	RunnersUp      []RankedCandidate `json:"runners_up,omitempty"`
	TotalEvaluated int               `json:"total_candidates_evaluated"`
}
