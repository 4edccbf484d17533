// Package storage provides SQLite-based persistence for local run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/flappy-arcade/internal/config"
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one finished game as recorded on this machine.
type Run struct {
	ID        string // UUID
	Identity  string
	Score     int
	Frames    int
	Submitted bool // Accepted by the leaderboard service
	CreatedAt time.Time
}

// Stats aggregates the runs of one identity.
type Stats struct {
	Identity   string
	Runs       int
	Best       int
	AvgScore   float64
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			identity TEXT NOT NULL,
			score INTEGER NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			submitted INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_identity ON runs(identity, score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns it with its generated ID.
func (s *Store) SaveRun(identity string, score, frames int) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Identity:  identity,
		Score:     score,
		Frames:    frames,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		"INSERT INTO runs (id, identity, score, frames, created_at) VALUES (?, ?, ?, ?, ?)",
		run.ID, run.Identity, run.Score, run.Frames, run.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot save run: %w", err)
	}
	return run, nil
}

// MarkSubmitted flags a run as accepted by the leaderboard service.
func (s *Store) MarkSubmitted(id string) error {
	res, err := s.db.Exec("UPDATE runs SET submitted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot mark run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storage: run %s not found", id)
	}
	return nil
}

// TopRuns retrieves the best runs across all identities.
// Results are ordered by score descending.
func (s *Store) TopRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, identity, score, frames, submitted, created_at
		 FROM runs
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		limit,
	)
}

// RecentRuns retrieves the latest runs of identity, newest first.
func (s *Store) RecentRuns(identity string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT id, identity, score, frames, submitted, created_at
		 FROM runs
		 WHERE identity = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		identity, limit,
	)
}

// BestScore returns the best score recorded for identity, or 0.
func (s *Store) BestScore(identity string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE identity = ?",
		identity,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// HighScore returns the highest score on this machine.
// Returns 0 if no runs exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM runs").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// IdentityStats retrieves aggregated statistics for identity.
func (s *Store) IdentityStats(identity string) (*Stats, error) {
	stats := &Stats{Identity: identity}

	var lastPlayed sql.NullString
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), MAX(created_at)
		 FROM runs WHERE identity = ?`,
		identity,
	).Scan(&stats.Runs, &stats.Best, &stats.AvgScore, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}

	return stats, nil
}

// ClearRuns deletes every run of identity.
func (s *Store) ClearRuns(identity string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE identity = ?", identity); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Identity, &r.Score, &r.Frames, &r.Submitted, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		// The driver may hand back either a time.Time or the stored text
		switch v := createdAt.(type) {
		case time.Time:
			r.CreatedAt = v
		case string:
			r.CreatedAt = parseTime(v)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

const timeLayout = "2006-01-02 15:04:05.000000"

func parseTime(v string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
