// Package store keeps a request audit trail: one row per processed
// document. Document contents are never persisted.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/clarify/constants"
)

// ErrNotFound is returned when a job id has no row.
var ErrNotFound = errors.New("job not found")

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id           TEXT PRIMARY KEY,
	filename     TEXT NOT NULL,
	format       TEXT NOT NULL DEFAULT '',
	method       TEXT NOT NULL DEFAULT '',
	confidence   REAL NOT NULL DEFAULT 0,
	pages        INTEGER NOT NULL DEFAULT 0,
	clause_count INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL,
	error        TEXT NOT NULL DEFAULT '',
	started_at   TEXT NOT NULL,
	finished_at  TEXT
);`

// Job is one audit row.
type Job struct {
	ID          uuid.UUID
	Filename    string
	Format      constants.Format
	Method      constants.Method
	Confidence  float32
	Pages       int
	ClauseCount int
	Status      constants.JobStatus
	Error       string
	StartedAt   time.Time
	FinishedAt  *time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite audit log at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Start inserts a RUNNING row for a new request.
func (s *Store) Start(ctx context.Context, id uuid.UUID, filename string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, filename, status, started_at) VALUES (?, ?, ?, ?)`,
		id.String(), filename, string(constants.JobStatusRunning), now())
	return err
}

// FinishExtract records a completed extraction stage.
func (s *Store) FinishExtract(ctx context.Context, id uuid.UUID, format constants.Format, method constants.Method, confidence float32, pages int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET format = ?, method = ?, confidence = ?, pages = ?, status = ?, finished_at = ? WHERE id = ?`,
		string(format), string(method), confidence, pages,
		string(constants.JobStatusExtractOK), now(), id.String())
	return err
}

// FinishAnalysis records the analysis verdict for a request.
func (s *Store) FinishAnalysis(ctx context.Context, id uuid.UUID, clauseCount int, verified bool) error {
	status := constants.JobStatusVerified
	if !verified {
		status = constants.JobStatusUnverified
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET clause_count = ?, status = ?, finished_at = ? WHERE id = ?`,
		clauseCount, string(status), now(), id.String())
	return err
}

// Fail marks a request as terminally failed.
func (s *Store) Fail(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(constants.JobStatusFailed), cause, now(), id.String())
	return err
}

// Get loads one audit row.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, format, method, confidence, pages, clause_count, status, error, started_at, finished_at
		 FROM jobs WHERE id = ?`, id.String())

	var j Job
	var idStr, startedAt string
	var finishedAt sql.NullString
	err := row.Scan(&idStr, &j.Filename, &j.Format, &j.Method, &j.Confidence,
		&j.Pages, &j.ClauseCount, &j.Status, &j.Error, &startedAt, &finishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	if err != nil {
		return Job{}, err
	}
	j.ID, err = uuid.Parse(idStr)
	if err != nil {
		return Job{}, fmt.Errorf("corrupt job id %q: %w", idStr, err)
	}
	if j.StartedAt, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return Job{}, fmt.Errorf("corrupt started_at %q: %w", startedAt, err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return Job{}, fmt.Errorf("corrupt finished_at %q: %w", finishedAt.String, err)
		}
		j.FinishedAt = &t
	}
	return j, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
