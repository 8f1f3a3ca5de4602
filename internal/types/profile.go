package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Entry is a single experience or education record. Stored profiles are
// hand-editable JSON, so an entry may be a plain string or a structured
// object; both shapes round-trip unchanged.
type Entry struct {
	Text   string
	Fields map[string]any
}

// StringEntry wraps a plain string as an Entry.
func StringEntry(s string) Entry {
	return Entry{Text: s}
}

// UnmarshalJSON accepts either a JSON string or a JSON object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Text = s
		e.Fields = nil
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("entry must be a string or an object: %w", err)
	}
	e.Fields = m
	e.Text = ""
	return nil
}

// MarshalJSON writes the entry back in its original shape.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Fields != nil {
		return json.Marshal(e.Fields)
	}
	return json.Marshal(e.Text)
}

// Flatten renders the entry as text: the raw string for string entries,
// or a compact JSON rendering for structured entries. The matcher runs
// its keyword and year-pattern scans over this form.
func (e Entry) Flatten() string {
	if e.Fields == nil {
		return e.Text
	}
	b, err := json.Marshal(e.Fields)
	if err != nil {
		return ""
	}
	return string(b)
}

// String collapses the entry for display: the raw string, the "name"
// field when present, or the JSON rendering.
func (e Entry) String() string {
	if e.Fields != nil {
		if name, ok := e.Fields["name"].(string); ok && name != "" {
			return name
		}
	}
	return e.Flatten()
}

// Profile is a stored applicant record. One JSON file per user_id; the
// file stem is the user_id and must stay human-editable.
type Profile struct {
	UserID          string    `json:"user_id" validate:"required"`
	Name            string    `json:"name" validate:"required"`
	Email           string    `json:"email" validate:"required,email"`
	Phone           string    `json:"phone,omitempty"`
	Skills          []string  `json:"skills"`
	Experience      []Entry   `json:"experience"`
	Education       []Entry   `json:"education"`
	ResumePath      string    `json:"resume_path,omitempty"`
	CoverLetterPath string    `json:"cover_letter_path,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

// HasSkill reports whether the profile lists the skill. Comparison is
// case-insensitive; skill order and casing are preserved for display
// only.
func (p *Profile) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(skill)) {
			return true
		}
	}
	return false
}
