package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Outcome values recorded for a scan run.
const (
	OutcomeRunning   = "running"
	OutcomeCompleted = "completed"
	OutcomeAborted   = "aborted"
	OutcomeFailed    = "failed"
)

// Run is one recorded scan invocation.
type Run struct {
	ID             string
	Root           string
	ConflictPolicy string
	RenamePolicy   string
	StartedAt      time.Time
	FinishedAt     *time.Time
	Branches       int
	Leaves         int
	Missing        int
	Warnings       int
	RenamesApplied int
	Outcome        string
}

// Store manages scan history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun records the beginning of a scan and returns its journal entry.
func (s *Store) StartRun(ctx context.Context, root, conflictPolicy, renamePolicy string) (*Run, error) {
	run := &Run{
		ID:             uuid.NewString(),
		Root:           root,
		ConflictPolicy: conflictPolicy,
		RenamePolicy:   renamePolicy,
		StartedAt:      time.Now().UTC(),
		Outcome:        OutcomeRunning,
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scan_runs (id, root, conflict_policy, rename_policy, started_at, outcome)
         VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Root,
		run.ConflictPolicy,
		run.RenamePolicy,
		run.StartedAt.Format(time.RFC3339Nano),
		run.Outcome,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun persists the final counts and outcome of a run.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	now := time.Now().UTC()
	run.FinishedAt = &now

	_, err := s.db.ExecContext(
		ctx,
		`UPDATE scan_runs
         SET finished_at = ?, branches = ?, leaves = ?, missing = ?,
             warnings = ?, renames_applied = ?, outcome = ?
         WHERE id = ?`,
		now.Format(time.RFC3339Nano),
		run.Branches,
		run.Leaves,
		run.Missing,
		run.Warnings,
		run.RenamesApplied,
		run.Outcome,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM scan_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetByID fetches a run by identifier, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM scan_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

const runColumns = "id, root, conflict_policy, rename_policy, started_at, finished_at, branches, leaves, missing, warnings, renames_applied, outcome"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Root,
		&run.ConflictPolicy,
		&run.RenamePolicy,
		&startedRaw,
		&finishedRaw,
		&run.Branches,
		&run.Leaves,
		&run.Missing,
		&run.Warnings,
		&run.RenamesApplied,
		&run.Outcome,
	); err != nil {
		return nil, err
	}

	if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := time.Parse(time.RFC3339Nano, finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}
