package extraction

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// jobInfoSchema constrains the shape of the extraction response before
// it is unmarshaled. The model output is untrusted; anything that does
// not match degrades to defaults instead of reaching consumers.
const jobInfoSchema = `{
	"type": "object",
	"properties": {
		"job_title": {"type": ["string", "null"]},
		"company": {"type": ["string", "null"]},
		"skills": {
			"type": ["array", "null"],
			"items": {"type": "string"}
		},
		"experience_level": {"type": ["string", "null"]},
		"deadline": {"type": ["string", "null"]},
		"action_needed": {"type": ["string", "null"]}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(jobInfoSchema)

// validateJobInfoJSON checks the raw extraction response against the
// job-info schema.
func validateJobInfoJSON(jsonText string) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(jsonText))
	if err != nil {
		return fmt.Errorf("schema validation could not run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("response does not match job-info schema: %s", strings.Join(msgs, "; "))
}
