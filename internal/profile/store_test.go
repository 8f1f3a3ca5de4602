package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hr-agent/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestLoad_SynthesizesAndPersistsDefault(t *testing.T) {
	s := newTestStore(t)

	p, err := s.Load("john_doe")
	require.NoError(t, err)

	assert.Equal(t, "john_doe", p.UserID)
	assert.Equal(t, "John Doe", p.Name)
	assert.Equal(t, "john_doe@example.com", p.Email)
	assert.Equal(t, "Not provided", p.Phone)
	assert.Empty(t, p.Skills)

	// The default was persisted, so the next load reads it back with
	// timestamps set.
	again, err := s.Load("john_doe")
	require.NoError(t, err)
	assert.Equal(t, p.Name, again.Name)
	assert.False(t, again.CreatedAt.IsZero())
	assert.False(t, again.UpdatedAt.Before(again.CreatedAt))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := &types.Profile{
		Name:   "Jane Smith",
		Email:  "jane@corp.example",
		Skills: []string{"Python", "SQL"},
		Experience: []types.Entry{
			{Text: "3 years backend development"},
			{Fields: map[string]any{"title": "Data Engineer", "duration": "2 years"}},
		},
		Education: []types.Entry{{Text: "BSc Computer Science"}},
	}
	require.NoError(t, s.Save("jane_smith", in))

	out, err := s.Load("jane_smith")
	require.NoError(t, err)
	assert.Equal(t, "jane_smith", out.UserID)
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Skills, out.Skills)
	require.Len(t, out.Experience, 2)
	assert.Equal(t, "3 years backend development", out.Experience[0].Text)
	assert.Equal(t, "Data Engineer", out.Experience[1].Fields["title"])
}

func TestSave_PreservesCreatedAt(t *testing.T) {
	s := newTestStore(t)

	p := &types.Profile{Name: "A", Email: "a@example.com"}
	require.NoError(t, s.Save("a", p))
	created := p.CreatedAt
	require.False(t, created.IsZero())

	p.Skills = []string{"Go"}
	require.NoError(t, s.Save("a", p))
	assert.Equal(t, created, p.CreatedAt)
	assert.False(t, p.UpdatedAt.Before(created))
}

func TestLoad_CorruptFileFallsBackToDefault(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{not json"), 0o644))

	p, err := s.Load("broken")
	require.NoError(t, err)
	assert.Equal(t, "Broken", p.Name)

	// The corrupt file is left in place for inspection.
	data, err := os.ReadFile(filepath.Join(s.Dir(), "broken.json"))
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
}

func TestLoad_RejectsPathEscapes(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load("../etc/passwd")
	assert.Error(t, err)
	_, err = s.Load("")
	assert.Error(t, err)
}

func TestListAll_SkipsSentinelAndSorts(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("zoe", &types.Profile{Name: "Zoe", Email: "z@example.com"}))
	require.NoError(t, s.Save("amy", &types.Profile{Name: "Amy", Email: "a@example.com"}))
	require.NoError(t, s.Save(FindBestCandidateID, &types.Profile{Name: "Sentinel", Email: "s@example.com"}))

	all, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "amy", all[0].UserID)
	assert.Equal(t, "zoe", all[1].UserID)
}

func TestUpdatePaths_PartialAndIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.UpdatePaths("bob", "/out/bob_resume.pdf", ""))

	p, err := s.Load("bob")
	require.NoError(t, err)
	assert.Equal(t, "/out/bob_resume.pdf", p.ResumePath)
	assert.Empty(t, p.CoverLetterPath)

	require.NoError(t, s.UpdatePaths("bob", "", "/out/bob_cover.pdf"))
	p, err = s.Load("bob")
	require.NoError(t, err)
	assert.Equal(t, "/out/bob_resume.pdf", p.ResumePath)
	assert.Equal(t, "/out/bob_cover.pdf", p.CoverLetterPath)

	// Repeating the same update changes nothing.
	require.NoError(t, s.UpdatePaths("bob", "/out/bob_resume.pdf", "/out/bob_cover.pdf"))
	p, err = s.Load("bob")
	require.NoError(t, err)
	assert.Equal(t, "/out/bob_resume.pdf", p.ResumePath)
}

func TestAddSkill_DedupesCaseInsensitively(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddSkill("carl", "Python"))
	require.NoError(t, s.AddSkill("carl", "python"))
	require.NoError(t, s.AddSkill("carl", "SQL"))

	p, err := s.Load("carl")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "SQL"}, p.Skills)
}

func TestAddExperienceAndEducation(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddExperience("dana", types.Entry{Text: "2 years at Initech"}))
	require.NoError(t, s.AddEducation("dana", types.Entry{Fields: map[string]any{"degree": "MSc"}}))

	p, err := s.Load("dana")
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	require.Len(t, p.Education, 1)
	assert.Equal(t, "MSc", p.Education[0].Fields["degree"])
}

func TestSearch_MatchesNameEmailAndSkills(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("eve", &types.Profile{Name: "Eve Adams", Email: "eve@example.com", Skills: []string{"Kubernetes"}}))
	require.NoError(t, s.Save("frank", &types.Profile{Name: "Frank", Email: "frank@corp.example", Skills: []string{"Excel"}}))

	byName, err := s.Search("adams")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "eve", byName[0].UserID)

	bySkill, err := s.Search("kuber")
	require.NoError(t, err)
	require.Len(t, bySkill, 1)

	byEmail, err := s.Search("corp.example")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "frank", byEmail[0].UserID)

	none, err := s.Search("nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("g1", &types.Profile{Name: "G1", Email: "g1@example.com", Skills: []string{"Python", "Go"}}))
	require.NoError(t, s.Save("g2", &types.Profile{
		Name: "G2", Email: "g2@example.com",
		Skills:     []string{"python"},
		Experience: []types.Entry{{Text: "1 year"}},
	}))

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProfiles)
	assert.Equal(t, 2, stats.WithSkills)
	assert.Equal(t, 1, stats.WithExperience)
	assert.Equal(t, 0, stats.WithEducation)
	assert.InDelta(t, 1.5, stats.AvgSkillsPerProfile, 1e-9)
	require.NotEmpty(t, stats.TopSkills)
	assert.Equal(t, SkillCount{Skill: "python", Count: 2}, stats.TopSkills[0])
}

func TestStats_EmptyStore(t *testing.T) {
	s := newTestStore(t)
	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalProfiles)
	assert.Empty(t, stats.TopSkills)
}

func TestValidate(t *testing.T) {
	s := newTestStore(t)

	ok := &types.Profile{UserID: "x", Name: "X", Email: "x@example.com"}
	assert.Empty(t, s.Validate(ok))

	missing := &types.Profile{UserID: "x"}
	problems := s.Validate(missing)
	assert.NotEmpty(t, problems)

	badEmail := &types.Profile{UserID: "x", Name: "X", Email: "not-an-email"}
	problems = s.Validate(badEmail)
	require.NotEmpty(t, problems)
	assert.Contains(t, problems, "invalid email format")

	blankSkill := &types.Profile{UserID: "x", Name: "X", Email: "x@example.com", Skills: []string{" "}}
	assert.NotEmpty(t, s.Validate(blankSkill))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "John Doe", DisplayName("john_doe"))
	assert.Equal(t, "Alice", DisplayName("alice"))
	assert.Equal(t, "Mary Jane Watson", DisplayName("mary_jane_watson"))
}
