package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run is one ledger row per processed email.
type Run struct {
	ID              uuid.UUID  `json:"id"`
	Sender          string     `json:"sender"`
	Subject         string     `json:"subject"`
	RequestKind     string     `json:"request_kind"`
	SelectedUserID  *string    `json:"selected_user_id,omitempty"`
	SelectionMethod *string    `json:"selection_method,omitempty"`
	Status          string     `json:"status"`
	FailedStage     *string    `json:"failed_stage,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Schema is the DDL for the ledger tables, applied out of band.
const Schema = `
CREATE TABLE IF NOT EXISTS agent_runs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    sender TEXT NOT NULL DEFAULT '',
    subject TEXT NOT NULL DEFAULT '',
    request_kind TEXT NOT NULL DEFAULT '',
    selected_user_id TEXT,
    selection_method TEXT,
    status TEXT NOT NULL DEFAULT 'running',
    failed_stage TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS run_artifacts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    run_id UUID NOT NULL REFERENCES agent_runs(id) ON DELETE CASCADE,
    step TEXT NOT NULL,
    content JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (run_id, step)
);
`

// EnsureSchema creates the ledger tables when they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
