package pipeline

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// CheckpointStore is an append-only log of sealed step results, keyed
// by run id and step name.
type CheckpointStore interface {
	Get(ctx context.Context, runID, stepName string) (json.RawMessage, bool, error)
	Put(ctx context.Context, runID, stepName string, result json.RawMessage) error
	Clear(ctx context.Context, runID string) error
}

type PostgresCheckpointStore struct {
	db *sql.DB
}

func NewPostgresCheckpointStore(db *sql.DB) *PostgresCheckpointStore {
	return &PostgresCheckpointStore{db: db}
}

func (s *PostgresCheckpointStore) Get(ctx context.Context, runID, stepName string) (json.RawMessage, bool, error) {
	var result []byte
	query := `SELECT result FROM pipeline_checkpoints WHERE run_id = $1 AND step_name = $2`
	err := s.db.QueryRowContext(ctx, query, runID, stepName).Scan(&result)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

func (s *PostgresCheckpointStore) Put(ctx context.Context, runID, stepName string, result json.RawMessage) error {
	// A conflict means the same step was sealed by an earlier delivery
	// of this run; the first result wins.
	query := `INSERT INTO pipeline_checkpoints (run_id, step_name, result) VALUES ($1, $2, $3) ON CONFLICT (run_id, step_name) DO NOTHING`
	_, err := s.db.ExecContext(ctx, query, runID, stepName, []byte(result))
	return err
}

func (s *PostgresCheckpointStore) Clear(ctx context.Context, runID string) error {
	query := `DELETE FROM pipeline_checkpoints WHERE run_id = $1`
	_, err := s.db.ExecContext(ctx, query, runID)
	return err
}

// Runner executes named steps for one run, sealing each result in the
// checkpoint store so a restarted process replays instead of redoing.
type Runner struct {
	runID string
	store CheckpointStore
}

func NewRunner(runID string, store CheckpointStore) *Runner {
	return &Runner{runID: runID, store: store}
}

// Step runs fn unless a checkpoint for (run, name) already exists, in
// which case the sealed value is returned without executing fn. A
// failed fn leaves no checkpoint, so the step re-executes on the next
// delivery; steps after a failure never run.
func Step[T any](ctx context.Context, r *Runner, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	raw, ok, err := r.store.Get(ctx, r.runID, name)
	if err != nil {
		return zero, fmt.Errorf("checkpoint lookup for step %q: %w", name, err)
	}
	if ok {
		var sealed T
		if err := json.Unmarshal(raw, &sealed); err != nil {
			return zero, fmt.Errorf("corrupt checkpoint for step %q: %w", name, err)
		}
		slog.DebugContext(ctx, "step replayed from checkpoint", "run_id", r.runID, "step", name)
		return sealed, nil
	}

	out, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	sealed, err := json.Marshal(out)
	if err != nil {
		return zero, fmt.Errorf("failed to seal result of step %q: %w", name, err)
	}
	if err := r.store.Put(ctx, r.runID, name, sealed); err != nil {
		return zero, fmt.Errorf("failed to checkpoint step %q: %w", name, err)
	}

	slog.InfoContext(ctx, "step completed", "run_id", r.runID, "step", name)
	return out, nil
}
