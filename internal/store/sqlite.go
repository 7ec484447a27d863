package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Run is one row of recording history: a summary of a completed run, not
// the per-file measurements (those live in the JSON artifact).
type Run struct {
	ID             int64     `json:"id"`
	Artifact       string    `json:"artifact"`
	Command        string    `json:"command"`
	Files          int       `json:"files"`
	TotalRefCycles int64     `json:"total_ref_cycles"`
	CreatedAt      time.Time `json:"created_at"`
}

// HistoryStore defines the methods for persistent run history.
type HistoryStore interface {
	Close() error
	SaveRun(run Run) error
	RecentRuns(limit int) ([]Run, error)
}

// SQLiteStore implements HistoryStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the history database at path
// and applies migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		artifact TEXT NOT NULL,
		command TEXT NOT NULL,
		files INTEGER NOT NULL,
		total_ref_cycles INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := s.db.Exec(query)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun appends a run summary to the history.
func (s *SQLiteStore) SaveRun(run Run) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := `INSERT INTO runs (artifact, command, files, total_ref_cycles, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query, run.Artifact, run.Command, run.Files, run.TotalRefCycles, createdAt)
	return err
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *SQLiteStore) RecentRuns(limit int) ([]Run, error) {
	query := `SELECT id, artifact, command, files, total_ref_cycles, created_at FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Artifact, &run.Command, &run.Files, &run.TotalRefCycles, &run.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, run)
	}
	return results, rows.Err()
}
