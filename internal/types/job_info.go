// Package types defines the shared data model for the HR inbox agent:
// extracted job records, applicant profiles, match scores, and the
// pipeline context threaded between stages.
package types

import "strings"

// RequestKind classifies what the sender of a recruiting email wants.
type RequestKind string

// Request kinds, in routing priority order.
const (
	// KindSpecificUser means the email names a particular applicant.
	KindSpecificUser RequestKind = "specific_user"
	// KindFindBestCandidate means the email asks to pick the best
	// applicant from the stored profiles.
	KindFindBestCandidate RequestKind = "find_best_candidate"
	// KindGeneralPosting is the default for ordinary job postings.
	KindGeneralPosting RequestKind = "general_job_posting"
)

// Valid reports whether k is one of the defined request kinds.
func (k RequestKind) Valid() bool {
	switch k {
	case KindSpecificUser, KindFindBestCandidate, KindGeneralPosting:
		return true
	}
	return false
}

// Experience levels recognized by the scorer. Unrecognized values fall
// through to absolute-year scoring.
const (
	LevelEntry        = "entry"
	LevelJunior       = "junior"
	LevelMid          = "mid"
	LevelIntermediate = "intermediate"
	LevelSenior       = "senior"
	LevelExpert       = "expert"
	LevelLead         = "lead"
)

// JobInfo is the structured requirement record extracted from a
// recruiting email. It is created once per inbound email and is not
// modified after extraction.
type JobInfo struct {
	JobTitle        string      `json:"job_title,omitempty"`
	Company         string      `json:"company,omitempty"`
	Skills          []string    `json:"skills"`
	ExperienceLevel string      `json:"experience_level,omitempty"`
	Deadline        string      `json:"deadline,omitempty"`
	ActionNeeded    string      `json:"action_needed"`
	RequestKind     RequestKind `json:"request_kind"`
	TargetUserID    string      `json:"target_user_id,omitempty"`
	Sector          string      `json:"sector"`
}

// NormalizedLevel returns the lowercased, trimmed experience level.
func (j *JobInfo) NormalizedLevel() string {
	return strings.ToLower(strings.TrimSpace(j.ExperienceLevel))
}
