// Package store persists pipeline run results to a SQLite catalog so
// repeated runs over the same raster archive stay queryable: which years
// were processed, per-class pixel counts, and the trajectory histogram.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const catalogFile = "catalog.db"

// Store is the run catalog. Safe for concurrent use.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Run is one recorded pipeline run.
type Run struct {
	RunID       string
	InputDir    string
	StartedAt   time.Time
	FinishedAt  time.Time
	Pixels      int
	ErrorPixels int
}

// Open creates dataDir if needed, opens the catalog database inside it,
// and ensures the schema exists.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, catalogFile))
	if err != nil {
		return nil, err
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// BeginRun records the start of a pipeline run and returns its ID.
func (s *Store) BeginRun(inputDir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.Must(uuid.NewV7()).String()
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, input_dir, started_at) VALUES (?, ?, ?)`,
		runID, inputDir, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", err
	}
	return runID, nil
}

// FinishRun records the run's completion time and pixel totals.
func (s *Store) FinishRun(runID string, pixels, errorPixels int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, pixels = ?, error_pixels = ? WHERE run_id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), pixels, errorPixels, runID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// SaveClassCounts persists one year's per-class pixel counts for a run.
func (s *Store) SaveClassCounts(runID string, year int, counts map[uint8]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for code, pixels := range counts {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO class_counts (run_id, year, class_code, pixels) VALUES (?, ?, ?, ?)`,
			runID, year, int(code), pixels,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveTrajectories persists the trajectory histogram for a run.
func (s *Store) SaveTrajectories(runID string, counts map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for label, pixels := range counts {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO trajectory_counts (run_id, label, pixels) VALUES (?, ?, ?)`,
			runID, label, pixels,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Trajectories returns the stored histogram for a run.
func (s *Store) Trajectories(runID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT label, pixels FROM trajectory_counts WHERE run_id = ?`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var pixels int
		if err := rows.Scan(&label, &pixels); err != nil {
			return nil, err
		}
		counts[label] = pixels
	}
	return counts, rows.Err()
}

// ClassCounts returns the stored per-class counts for one year of a run.
func (s *Store) ClassCounts(runID string, year int) (map[uint8]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT class_code, pixels FROM class_counts WHERE run_id = ? AND year = ?`, runID, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uint8]int)
	for rows.Next() {
		var code, pixels int
		if err := rows.Scan(&code, &pixels); err != nil {
			return nil, err
		}
		counts[uint8(code)] = pixels
	}
	return counts, rows.Err()
}

// Runs lists every recorded run, most recent first.
func (s *Store) Runs() ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		`SELECT run_id, input_dir, started_at, finished_at, pixels, error_pixels
		 FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&r.RunID, &r.InputDir, &started, &finished, &r.Pixels, &r.ErrorPixels); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, started); err == nil {
			r.StartedAt = t
		}
		if finished.Valid {
			if t, err := time.Parse(time.RFC3339Nano, finished.String); err == nil {
				r.FinishedAt = t
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
