// Package routing decides which applicant profile serves an inbound
// request: a named user, the best-ranked candidate, or the configured
// default.
package routing

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/hr-agent/internal/profile"
	"github.com/jonathan/hr-agent/internal/ranking"
	"github.com/jonathan/hr-agent/internal/types"
)

// Selection method tags recorded on the context for observability.
const (
	MethodCandidateMatcher = "candidate_matcher"
	MethodLegacyMatching   = "legacy_matching"
	MethodSpecificUser     = "specific_user_request"
	MethodDefaultUser      = "default_user"
)

// ProfileStore is the subset of the profile store the router needs.
type ProfileStore interface {
	Load(userID string) (*types.Profile, error)
	ListAll() ([]*types.Profile, error)
}

// Ranker orders candidate profiles against a job requirement.
type Ranker interface {
	Rank(ctx context.Context, job *types.JobInfo, profiles []*types.Profile) (*types.RankedCandidates, error)
}

// Router selects a profile based on the extracted request kind.
type Router struct {
	store         ProfileStore
	ranker        Ranker
	defaultUserID string
}

// NewRouter creates a router. defaultUserID serves general postings;
// empty means profile.DefaultUserID.
func NewRouter(store ProfileStore, ranker Ranker, defaultUserID string) *Router {
	if defaultUserID == "" {
		defaultUserID = profile.DefaultUserID
	}
	return &Router{store: store, ranker: ranker, defaultUserID: defaultUserID}
}

// Route attaches the selected profile, user id and selection method to
// the context. Exactly one of three branches runs, keyed by the job's
// request kind; on success the context always carries a profile.
func (r *Router) Route(ctx context.Context, c types.Context) (types.Context, error) {
	job := c.Output.JobInfo
	kind := types.KindGeneralPosting
	if job != nil && job.RequestKind.Valid() {
		kind = job.RequestKind
	}

	switch kind {
	case types.KindFindBestCandidate:
		return r.routeBestCandidate(ctx, c, job)
	case types.KindSpecificUser:
		return r.routeSpecificUser(c, job)
	default:
		return r.routeDefault(c)
	}
}

// routeBestCandidate ranks every stored profile. An empty store is
// fatal; a ranker failure with profiles present falls back to the
// legacy intersection matcher.
func (r *Router) routeBestCandidate(ctx context.Context, c types.Context, job *types.JobInfo) (types.Context, error) {
	profiles, err := r.store.ListAll()
	if err != nil {
		return c, &RoutingError{Kind: string(types.KindFindBestCandidate), Message: "failed to list profiles", Cause: err}
	}
	if len(profiles) == 0 {
		return c, &ranking.NoProfilesError{}
	}

	ranked, err := r.ranker.Rank(ctx, job, profiles)
	if err != nil {
		log.Printf("ranking failed, falling back to legacy matching: %v", err)
		return r.routeLegacy(c, job, profiles)
	}

	// The ranker may have worked on partial projections; reload the
	// winner in full.
	selected, err := r.store.Load(ranked.Best.UserID)
	if err != nil {
		return c, &RoutingError{Kind: string(types.KindFindBestCandidate), Message: "failed to load best candidate", Cause: err}
	}
	return c.WithSelection(selected, selected.UserID, MethodCandidateMatcher, ranked), nil
}

// routeLegacy picks the profile with the largest skill-set
// intersection, defaulting to the configured user on a total tie.
func (r *Router) routeLegacy(c types.Context, job *types.JobInfo, profiles []*types.Profile) (types.Context, error) {
	var jobSkills []string
	if job != nil {
		jobSkills = job.Skills
	}

	bestUserID := legacyBestMatch(jobSkills, profiles)
	if bestUserID == "" {
		bestUserID = r.defaultUserID
	}

	selected, err := r.store.Load(bestUserID)
	if err != nil {
		return c, &RoutingError{Kind: string(types.KindFindBestCandidate), Message: "legacy matching failed", Cause: err}
	}
	return c.WithSelection(selected, selected.UserID, MethodLegacyMatching, nil), nil
}

func (r *Router) routeSpecificUser(c types.Context, job *types.JobInfo) (types.Context, error) {
	userID := ""
	if job != nil {
		userID = strings.TrimSpace(job.TargetUserID)
	}
	if userID == "" {
		return c, &RoutingError{Kind: string(types.KindSpecificUser), Message: "no target user id"}
	}

	selected, err := r.store.Load(userID)
	if err != nil {
		return c, &RoutingError{Kind: string(types.KindSpecificUser), Message: fmt.Sprintf("failed to load profile %q", userID), Cause: err}
	}
	return c.WithSelection(selected, selected.UserID, MethodSpecificUser, nil), nil
}

func (r *Router) routeDefault(c types.Context) (types.Context, error) {
	userID := c.Input.UserID
	if userID == "" || userID == profile.FindBestCandidateID {
		userID = r.defaultUserID
	}

	selected, err := r.store.Load(userID)
	if err != nil {
		return c, &RoutingError{Kind: string(types.KindGeneralPosting), Message: "failed to load default profile", Cause: err}
	}
	return c.WithSelection(selected, selected.UserID, MethodDefaultUser, nil), nil
}

// legacyBestMatch scores profiles by skill-set intersection size and
// returns the argmax, or "" when no profile scores above zero.
func legacyBestMatch(jobSkills []string, profiles []*types.Profile) string {
	required := make(map[string]bool, len(jobSkills))
	for _, s := range jobSkills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			required[s] = true
		}
	}

	best := ""
	bestScore := 0
	for _, p := range profiles {
		score := 0
		for _, s := range p.Skills {
			if required[strings.ToLower(strings.TrimSpace(s))] {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = p.UserID
		}
	}
	return best
}
