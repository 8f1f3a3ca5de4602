package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_UnmarshalString(t *testing.T) {
	var e Entry
	require.NoError(t, json.Unmarshal([]byte(`"3 years as backend engineer"`), &e))

	assert.Equal(t, "3 years as backend engineer", e.Text)
	assert.Nil(t, e.Fields)
	assert.Equal(t, "3 years as backend engineer", e.Flatten())
}

func TestEntry_UnmarshalObject(t *testing.T) {
	var e Entry
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Python","level":"advanced"}`), &e))

	assert.Empty(t, e.Text)
	assert.Equal(t, "Python", e.Fields["name"])
	// Display form prefers the name field.
	assert.Equal(t, "Python", e.String())
	// Flattened form keeps the full record for keyword scans.
	assert.Contains(t, e.Flatten(), "advanced")
}

func TestEntry_UnmarshalRejectsOtherShapes(t *testing.T) {
	var e Entry
	err := json.Unmarshal([]byte(`42`), &e)
	assert.Error(t, err)
}

func TestEntry_RoundTrip(t *testing.T) {
	raw := []byte(`["BSc Computer Science",{"degree":"MSc","school":"MIT"}]`)

	var entries []Entry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)

	out, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(out))
}

func TestProfile_JSONShape(t *testing.T) {
	raw := []byte(`{
		"user_id": "john_doe",
		"name": "John Doe",
		"email": "john_doe@example.com",
		"skills": ["Python", "SQL"],
		"experience": ["3 years as backend engineer"],
		"education": [{"degree": "BSc", "field": "Computer Science"}]
	}`)

	var p Profile
	require.NoError(t, json.Unmarshal(raw, &p))

	assert.Equal(t, "john_doe", p.UserID)
	assert.True(t, p.HasSkill("SQL"))
	assert.True(t, p.HasSkill("sql"))
	assert.False(t, p.HasSkill("Rust"))
	require.Len(t, p.Education, 1)
	assert.Contains(t, p.Education[0].Flatten(), "Computer Science")
	assert.True(t, p.CreatedAt.IsZero())
}

func TestProfile_HasSkillIgnoresCase(t *testing.T) {
	p := Profile{Skills: []string{"  Python ", "SQL"}}

	assert.True(t, p.HasSkill("python"))
	assert.True(t, p.HasSkill("sql"))
	assert.True(t, p.HasSkill(" SQL "))
	assert.False(t, p.HasSkill("Go"))
}

func TestRequestKind_Valid(t *testing.T) {
	assert.True(t, KindSpecificUser.Valid())
	assert.True(t, KindFindBestCandidate.Valid())
	assert.True(t, KindGeneralPosting.Valid())
	assert.False(t, RequestKind("resume_request").Valid())
	assert.False(t, RequestKind("").Valid())
}

func TestMatchScore_Breakdown(t *testing.T) {
	s := MatchScore{SkillsMatch: 1, ExperienceMatch: 0.5, EducationMatch: 0.3, Overall: 0.78}
	b := s.Breakdown()

	assert.Equal(t, "1.00", b.SkillsMatch)
	assert.Equal(t, "0.50", b.ExperienceMatch)
	assert.Equal(t, "0.30", b.EducationMatch)
	assert.Equal(t, "0.78", b.OverallMatch)
}

func TestContext_BuilderDoesNotAliasPreviousStage(t *testing.T) {
	base := NewContext(Input{EmailText: "hello", UserID: "john_doe"})

	withJob := base.WithJobInfo(&JobInfo{JobTitle: "Backend Engineer"})
	withReply := withJob.WithReply("subject", "body")

	// Earlier contexts are untouched by later stages.
	assert.Nil(t, base.Output.JobInfo)
	assert.Empty(t, withJob.Output.EmailSubject)
	assert.Equal(t, "Backend Engineer", withReply.Output.JobInfo.JobTitle)
	assert.Equal(t, "subject", withReply.Output.EmailSubject)
}
