// Package profile persists applicant records as one JSON file per user
// under a profiles directory. Files stay human-editable; the store only
// guarantees per-user write serialization, not cross-user transactions.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/hr-agent/internal/types"
)

const (
	// FindBestCandidateID is a reserved sentinel meaning "no specific
	// user, pick the best match". It never denotes a stored profile and
	// is skipped by ListAll.
	FindBestCandidateID = "FIND_BEST_CANDIDATE"

	// DefaultUserID is the profile used for general postings when the
	// caller does not name anyone.
	DefaultUserID = "default_user"
)

const lockStripes = 32

// Store reads and writes profile JSON files. Writes to the same user id
// are serialized through a striped lock; writes to different users may
// proceed concurrently.
type Store struct {
	dir      string
	locks    [lockStripes]sync.Mutex
	validate *validator.Validate
}

// NewStore creates the profiles directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "profiles"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StoreError{Message: "failed to create profiles directory", Cause: err}
	}
	return &Store{dir: dir, validate: validator.New()}, nil
}

// Dir returns the directory profiles are stored in.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return &s.locks[h.Sum32()%lockStripes]
}

// Load returns the stored profile for userID, synthesizing and
// persisting a default one when no record exists. A corrupt file is
// logged and replaced in memory by the default, without overwriting the
// file on disk.
func (s *Store) Load(userID string) (*types.Profile, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}

	path := s.pathFor(userID)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		p := DefaultProfile(userID)
		if saveErr := s.Save(userID, p); saveErr != nil {
			log.Printf("could not persist default profile for %s: %v", userID, saveErr)
		}
		return p, nil
	}
	if err != nil {
		return nil, &StoreError{UserID: userID, Message: "failed to read profile", Cause: err}
	}

	var p types.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("profile file for %s is corrupt, using defaults: %v", userID, err)
		return DefaultProfile(userID), nil
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	return &p, nil
}

// Save upserts the profile for userID. UpdatedAt is set to now;
// CreatedAt is preserved when already set.
func (s *Store) Save(userID string, p *types.Profile) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	if p == nil {
		return &StoreError{UserID: userID, Message: "nil profile"}
	}

	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	p.UserID = userID
	p.UpdatedAt = time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &StoreError{UserID: userID, Message: "failed to encode profile", Cause: err}
	}

	tmp := s.pathFor(userID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &StoreError{UserID: userID, Message: "failed to write profile", Cause: err}
	}
	if err := os.Rename(tmp, s.pathFor(userID)); err != nil {
		return &StoreError{UserID: userID, Message: "failed to replace profile file", Cause: err}
	}
	return nil
}

// ListAll enumerates every stored profile, skipping the reserved
// sentinel id. Unreadable entries are logged and skipped. Results are
// sorted by user id so enumeration order is stable.
func (s *Store) ListAll() ([]*types.Profile, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Message: "failed to list profiles directory", Cause: err}
	}

	var profiles []*types.Profile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		userID := strings.TrimSuffix(name, ".json")
		if userID == FindBestCandidateID {
			continue
		}
		p, err := s.Load(userID)
		if err != nil {
			log.Printf("skipping unreadable profile %s: %v", userID, err)
			continue
		}
		profiles = append(profiles, p)
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })
	return profiles, nil
}

// UpdatePaths records generated document locations on the profile.
// Empty arguments leave the corresponding field untouched, so the call
// is a partial update and idempotent.
func (s *Store) UpdatePaths(userID, resumePath, coverLetterPath string) error {
	p, err := s.Load(userID)
	if err != nil {
		return err
	}
	if resumePath != "" {
		p.ResumePath = resumePath
	}
	if coverLetterPath != "" {
		p.CoverLetterPath = coverLetterPath
	}
	return s.Save(userID, p)
}

// AddSkill appends a skill, skipping exact duplicates.
func (s *Store) AddSkill(userID, skill string) error {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return &StoreError{UserID: userID, Message: "empty skill"}
	}
	p, err := s.Load(userID)
	if err != nil {
		return err
	}
	if p.HasSkill(skill) {
		return nil
	}
	p.Skills = append(p.Skills, skill)
	return s.Save(userID, p)
}

// AddExperience appends an experience entry.
func (s *Store) AddExperience(userID string, entry types.Entry) error {
	p, err := s.Load(userID)
	if err != nil {
		return err
	}
	p.Experience = append(p.Experience, entry)
	return s.Save(userID, p)
}

// AddEducation appends an education entry.
func (s *Store) AddEducation(userID string, entry types.Entry) error {
	p, err := s.Load(userID)
	if err != nil {
		return err
	}
	p.Education = append(p.Education, entry)
	return s.Save(userID, p)
}

// Search returns profiles whose name, email or any skill contains the
// query, case-insensitively.
func (s *Store) Search(query string) ([]*types.Profile, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	all, err := s.ListAll()
	if err != nil {
		return nil, err
	}

	var matches []*types.Profile
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Email), query) {
			matches = append(matches, p)
			continue
		}
		for _, skill := range p.Skills {
			if strings.Contains(strings.ToLower(skill), query) {
				matches = append(matches, p)
				break
			}
		}
	}
	return matches, nil
}

// SkillCount pairs a normalized skill name with how many profiles
// mention it.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// Stats aggregates counts across every stored profile.
type Stats struct {
	TotalProfiles       int          `json:"total_profiles"`
	WithSkills          int          `json:"profiles_with_skills"`
	WithExperience      int          `json:"profiles_with_experience"`
	WithEducation       int          `json:"profiles_with_education"`
	TopSkills           []SkillCount `json:"top_skills"`
	AvgSkillsPerProfile float64      `json:"avg_skills_per_profile"`
}

// Stats computes aggregate statistics, including the ten most common
// skills (lowercased, ties broken alphabetically for stable output).
func (s *Store) Stats() (*Stats, error) {
	profiles, err := s.ListAll()
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalProfiles: len(profiles)}
	if len(profiles) == 0 {
		return stats, nil
	}

	counts := make(map[string]int)
	totalSkills := 0
	for _, p := range profiles {
		if len(p.Skills) > 0 {
			stats.WithSkills++
		}
		if len(p.Experience) > 0 {
			stats.WithExperience++
		}
		if len(p.Education) > 0 {
			stats.WithEducation++
		}
		for _, skill := range p.Skills {
			counts[strings.ToLower(strings.TrimSpace(skill))]++
			totalSkills++
		}
	}

	top := make([]SkillCount, 0, len(counts))
	for skill, count := range counts {
		top = append(top, SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Skill < top[j].Skill
	})
	if len(top) > 10 {
		top = top[:10]
	}
	stats.TopSkills = top
	stats.AvgSkillsPerProfile = float64(totalSkills) / float64(len(profiles))
	return stats, nil
}

// Validate returns a list of human-readable problems with the profile.
// An empty list means the profile is acceptable.
func (s *Store) Validate(p *types.Profile) []string {
	if p == nil {
		return []string{"profile is nil"}
	}

	var problems []string
	if err := s.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Tag() {
				case "required":
					problems = append(problems, fmt.Sprintf("missing required field: %s", strings.ToLower(fe.Field())))
				case "email":
					problems = append(problems, "invalid email format")
				default:
					problems = append(problems, fmt.Sprintf("field %s fails %q", strings.ToLower(fe.Field()), fe.Tag()))
				}
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	for i, skill := range p.Skills {
		if strings.TrimSpace(skill) == "" {
			problems = append(problems, fmt.Sprintf("skill %d is blank", i))
		}
	}
	return problems
}

// DefaultProfile synthesizes the record used when a user has no stored
// file yet. The display name is derived from the user id.
func DefaultProfile(userID string) *types.Profile {
	return &types.Profile{
		UserID: userID,
		Name:   DisplayName(userID),
		Email:  fmt.Sprintf("%s@example.com", userID),
		Phone:  "Not provided",
	}
}

// DisplayName title-cases a user id, treating underscores as word
// separators ("john_doe" becomes "John Doe").
func DisplayName(userID string) string {
	words := strings.Split(strings.ReplaceAll(userID, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

func (s *Store) pathFor(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// checkUserID rejects ids that are empty or would escape the profiles
// directory.
func checkUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &StoreError{Message: "empty user id"}
	}
	if strings.ContainsAny(userID, "/\\") || userID == "." || userID == ".." {
		return &StoreError{UserID: userID, Message: "invalid user id"}
	}
	return nil
}
