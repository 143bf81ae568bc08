package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Bootstrap Run Ledger
// -----------------------------------------------------------------------------

// CreateBootstrapRun records the start of a bootstrap run and returns its ID
func (db *DB) CreateBootstrapRun(ctx context.Context) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO bootstrap_runs (status) VALUES ('running') RETURNING id`,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create bootstrap run: %w", err)
	}
	return id, nil
}

// CompleteBootstrapRun marks a bootstrap run as completed or aborted
func (db *DB) CompleteBootstrapRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE bootstrap_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID)
	if err != nil {
		return fmt.Errorf("failed to complete bootstrap run: %w", err)
	}
	return nil
}

// RecordBootstrapStep stores the outcome of one step within a run. errMsg is
// empty for successful steps.
func (db *DB) RecordBootstrapStep(ctx context.Context, runID uuid.UUID, step, status, errMsg string, durationMs int64) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO bootstrap_run_steps (run_id, step, status, error_message, duration_ms)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		 ON CONFLICT (run_id, step) DO UPDATE
		 SET status = $3, error_message = NULLIF($4, ''), duration_ms = $5`,
		runID, step, status, errMsg, durationMs)
	if err != nil {
		return fmt.Errorf("failed to record bootstrap step %s: %w", step, err)
	}
	return nil
}
