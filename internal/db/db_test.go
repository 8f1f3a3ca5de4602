package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaCoversLedgerTables(t *testing.T) {
	assert.Contains(t, Schema, "agent_runs")
	assert.Contains(t, Schema, "run_artifacts")
	assert.Contains(t, Schema, "UNIQUE (run_id, step)")
}

func TestStepNamesAreDistinct(t *testing.T) {
	steps := []string{StepJobInfo, StepSelection, StepResume, StepCoverLetter, StepReply, StepSend}
	seen := make(map[string]bool)
	for _, s := range steps {
		assert.False(t, seen[s], "duplicate step %q", s)
		seen[s] = true
	}
}
