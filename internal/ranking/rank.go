// Package ranking orders candidate profiles by how well they match a
// job requirement and reports the winner with a readable breakdown.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hr-agent/internal/matching"
	"github.com/jonathan/hr-agent/internal/types"
)

const maxRunnersUp = 4

// Ranker scores every profile with the matcher and sorts the results.
// Each profile's score is independent, so a Parallelism above one
// bounds concurrent scorer calls without changing the ranking.
type Ranker struct {
	scorer *matching.Scorer

	// Parallelism > 1 scores profiles concurrently. Zero or one keeps
	// scoring sequential.
	Parallelism int
}

// NewRanker creates a sequential ranker on top of the scorer.
func NewRanker(scorer *matching.Scorer) *Ranker {
	return &Ranker{scorer: scorer}
}

// Rank scores each profile against the job and returns the best match
// plus up to four runners-up. The sort is stable: equal overall scores
// keep their input order. An empty profile set fails with
// NoProfilesError, a nil job with NoRequirementsError.
func (r *Ranker) Rank(ctx context.Context, job *types.JobInfo, profiles []*types.Profile) (*types.RankedCandidates, error) {
	if job == nil {
		return nil, &NoRequirementsError{}
	}
	if len(profiles) == 0 {
		return nil, &NoProfilesError{}
	}

	scores := r.scoreAll(ctx, job, profiles)

	candidates := make([]types.RankedCandidate, len(profiles))
	for i, p := range profiles {
		candidates[i] = newCandidate(p, scores[i])
	}

	// Stable: ties keep their enumeration order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score.Overall > candidates[j].Score.Overall
	})

	result := &types.RankedCandidates{
		Best:           candidates[0],
		TotalEvaluated: len(candidates),
	}
	rest := candidates[1:]
	if len(rest) > maxRunnersUp {
		rest = rest[:maxRunnersUp]
	}
	if len(rest) > 0 {
		result.RunnersUp = append([]types.RankedCandidate(nil), rest...)
	}
	return result, nil
}

// scoreAll computes one MatchScore per profile, preserving input order.
func (r *Ranker) scoreAll(ctx context.Context, job *types.JobInfo, profiles []*types.Profile) []types.MatchScore {
	scores := make([]types.MatchScore, len(profiles))

	if r.Parallelism <= 1 {
		for i, p := range profiles {
			scores[i] = r.scorer.Score(ctx, job, p)
		}
		return scores
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Parallelism)
	for i, p := range profiles {
		g.Go(func() error {
			scores[i] = r.scorer.Score(gctx, job, p)
			return nil
		})
	}
	// Scoring is total and the goroutines never return an error.
	_ = g.Wait()
	return scores
}

// newCandidate attaches a display identity to a scored profile.
// Missing contact fields get placeholders derived from the user id so
// ranking output is always presentable.
func newCandidate(p *types.Profile, score types.MatchScore) types.RankedCandidate {
	c := types.RankedCandidate{
		UserID:    p.UserID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		Skills:    append([]string(nil), p.Skills...),
		Score:     score,
		Breakdown: score.Breakdown(),
		Notes:     generateNotes(score),
	}
	if c.Name == "" {
		c.Name = displayNameFromID(p.UserID)
	}
	if c.Email == "" {
		c.Email = fmt.Sprintf("%s@example.com", p.UserID)
	}
	if c.Phone == "" {
		c.Phone = "Not provided"
	}
	return c
}

// generateNotes creates a brief explanation of the score.
func generateNotes(score types.MatchScore) string {
	var parts []string

	if score.SkillsMatch >= 0.7 {
		parts = append(parts, "Strong skill match")
	} else if score.SkillsMatch >= 0.4 {
		parts = append(parts, "Moderate skill match")
	} else if score.SkillsMatch > 0 {
		parts = append(parts, "Weak skill match")
	} else {
		parts = append(parts, "No skill matches")
	}

	if score.ExperienceMatch >= 0.8 {
		parts = append(parts, "Experience fits the level")
	} else if score.ExperienceMatch >= 0.5 {
		parts = append(parts, "Partial experience fit")
	} else {
		parts = append(parts, "Limited experience fit")
	}

	if score.EducationMatch >= 0.6 {
		parts = append(parts, "Relevant education")
	}

	return strings.Join(parts, ". ")
}

func displayNameFromID(userID string) string {
	words := strings.Split(strings.ReplaceAll(userID, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
