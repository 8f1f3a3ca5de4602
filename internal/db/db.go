// Package db is the optional PostgreSQL ledger of pipeline runs. Each
// processed email becomes one run row with a JSON artifact per stage,
// so operators can audit what the agent extracted, selected and sent.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Artifact step names, one per pipeline stage plus the external send.
const (
	StepJobInfo     = "job_info"
	StepSelection   = "selection"
	StepResume      = "resume"
	StepCoverLetter = "cover_letter"
	StepReply       = "reply"
	StepSend        = "send"
)

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateRun records the start of one pipeline run and returns its id.
func (db *DB) CreateRun(ctx context.Context, sender, subject, requestKind string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO agent_runs (sender, subject, request_kind, status)
		 VALUES ($1, $2, $3, 'running')
		 RETURNING id`,
		sender, subject, requestKind,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run finished. failedStage is empty on success.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status, failedStage string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE agent_runs SET status = $1, failed_stage = NULLIF($2, ''), completed_at = NOW()
		 WHERE id = $3`,
		status, failedStage, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SetSelectedUser records which profile the run ended up serving.
func (db *DB) SetSelectedUser(ctx context.Context, runID uuid.UUID, userID, method string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE agent_runs SET selected_user_id = $1, selection_method = $2 WHERE id = $3`,
		userID, method, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to record selected user: %w", err)
	}
	return nil
}

// SaveArtifact stores a JSON artifact for a run step, replacing any
// earlier artifact for the same step.
func (db *DB) SaveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO run_artifacts (run_id, step, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, step) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, step, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", step, err)
	}
	return nil
}

// GetArtifact retrieves a step's JSON artifact, nil when absent.
func (db *DB) GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM run_artifacts WHERE run_id = $1 AND step = $2`,
		runID, step,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact %s: %w", step, err)
	}
	return content, nil
}

// GetRun retrieves a run by id, nil when absent.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, sender, subject, request_kind, selected_user_id, selection_method,
		        status, failed_stage, created_at, completed_at
		 FROM agent_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Sender, &run.Subject, &run.RequestKind, &run.SelectedUserID,
		&run.SelectionMethod, &run.Status, &run.FailedStage, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent runs, newest first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, sender, subject, request_kind, selected_user_id, selection_method,
		        status, failed_stage, created_at, completed_at
		 FROM agent_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Sender, &run.Subject, &run.RequestKind, &run.SelectedUserID,
			&run.SelectionMethod, &run.Status, &run.FailedStage, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// ListRunSteps returns the steps that have a stored artifact for the
// run, in pipeline order of creation.
func (db *DB) ListRunSteps(ctx context.Context, runID uuid.UUID) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT step FROM run_artifacts WHERE run_id = $1 ORDER BY created_at`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run steps: %w", err)
	}
	defer rows.Close()

	var steps []string
	for rows.Next() {
		var step string
		if err := rows.Scan(&step); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}
