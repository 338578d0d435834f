// Package storage provides SQLite-based persistence for simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrRunNotFound is returned when a run ID is unknown.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one recorded simulation.
type Run struct {
	ID               string // UUID, assigned by SaveRun when empty
	SceneID          string
	Fingerprint      string // room content hash, empty for code-built scenes
	RefreshRate      float64
	Steps            int64
	Contacts         int64
	PairChecks       int64
	SimulatedSeconds float64
	WallMillis       int64
	CreatedAt        time.Time
	// Profile holds total time per physics activity. It is stored in
	// profile_samples and only filled by RunByID.
	Profile map[string]time.Duration
}

// SceneSummary aggregates the runs of one scene.
type SceneSummary struct {
	SceneID          string
	Runs             int
	TotalSteps       int64
	SimulatedSeconds float64
	AvgWallMillis    float64
	LastRun          time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

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
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			scene_id TEXT NOT NULL,
			fingerprint TEXT NOT NULL DEFAULT '',
			refresh_rate REAL NOT NULL,
			steps INTEGER NOT NULL DEFAULT 0,
			contacts INTEGER NOT NULL DEFAULT 0,
			pair_checks INTEGER NOT NULL DEFAULT 0,
			simulated_secs REAL NOT NULL DEFAULT 0,
			wall_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scene_id ON runs(scene_id);

		CREATE TABLE IF NOT EXISTS profile_samples (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			activity TEXT NOT NULL,
			total_secs REAL NOT NULL,
			PRIMARY KEY (run_id, activity)
		);
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

// SaveRun records a run together with its profile samples and returns the
// run ID.
func (s *Store) SaveRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return "", fmt.Errorf("storage: invalid run id %q: %w", run.ID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs
		 (id, scene_id, fingerprint, refresh_rate, steps, contacts, pair_checks, simulated_secs, wall_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.SceneID,
		run.Fingerprint,
		run.RefreshRate,
		run.Steps,
		run.Contacts,
		run.PairChecks,
		run.SimulatedSeconds,
		run.WallMillis,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	activities := make([]string, 0, len(run.Profile))
	for a := range run.Profile {
		activities = append(activities, a)
	}
	sort.Strings(activities)
	for _, a := range activities {
		if _, err := tx.Exec(
			"INSERT INTO profile_samples (run_id, activity, total_secs) VALUES (?, ?, ?)",
			run.ID, a, run.Profile[a].Seconds(),
		); err != nil {
			return "", fmt.Errorf("storage: cannot save profile sample %s: %w", a, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return run.ID, nil
}

const runColumns = `id, scene_id, fingerprint, refresh_rate, steps, contacts, pair_checks,
		        simulated_secs, wall_ms, created_at`

// RecentRuns retrieves the most recent runs of every scene.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY created_at DESC, seq DESC
		 LIMIT ?`,
		limit,
	)
}

// RunsForScene retrieves the most recent runs of one scene.
func (s *Store) RunsForScene(sceneID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE scene_id = ?
		 ORDER BY created_at DESC, seq DESC
		 LIMIT ?`,
		sceneID, limit,
	)
}

// RunByID retrieves a single run including its profile.
func (s *Store) RunByID(id string) (*Run, error) {
	runs, err := s.queryRuns(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("storage: run %s: %w", id, ErrRunNotFound)
	}
	run := runs[0]
	if run.Profile, err = s.Profile(id); err != nil {
		return nil, err
	}
	return &run, nil
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
		if err := rows.Scan(
			&r.ID,
			&r.SceneID,
			&r.Fingerprint,
			&r.RefreshRate,
			&r.Steps,
			&r.Contacts,
			&r.PairChecks,
			&r.SimulatedSeconds,
			&r.WallMillis,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// Profile returns the activity totals recorded for a run. Unknown runs
// yield an empty map.
func (s *Store) Profile(runID string) (map[string]time.Duration, error) {
	rows, err := s.db.Query(
		"SELECT activity, total_secs FROM profile_samples WHERE run_id = ?",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query profile: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Duration)
	for rows.Next() {
		var activity string
		var secs float64
		if err := rows.Scan(&activity, &secs); err != nil {
			return nil, fmt.Errorf("storage: cannot scan profile row: %w", err)
		}
		out[activity] = time.Duration(secs * float64(time.Second))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearRuns deletes the runs of one scene, or every run when sceneID is
// empty. It returns the number of runs removed.
func (s *Store) ClearRuns(sceneID string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	where, args := "", []any{}
	if sceneID != "" {
		where, args = " WHERE scene_id = ?", []any{sceneID}
	}

	if _, err := tx.Exec(
		"DELETE FROM profile_samples WHERE run_id IN (SELECT id FROM runs"+where+")", args...,
	); err != nil {
		return 0, fmt.Errorf("storage: cannot clear profile samples: %w", err)
	}
	res, err := tx.Exec("DELETE FROM runs"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count cleared runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit clear: %w", err)
	}
	return n, nil
}

// Summaries aggregates every scene that has recorded runs.
func (s *Store) Summaries() (map[string]*SceneSummary, error) {
	rows, err := s.db.Query(
		`SELECT scene_id, COUNT(*), SUM(steps), SUM(simulated_secs), AVG(wall_ms), MAX(created_at)
		 FROM runs
		 GROUP BY scene_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot summarize runs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*SceneSummary)
	for rows.Next() {
		var sum SceneSummary
		var lastRun any
		if err := rows.Scan(&sum.SceneID, &sum.Runs, &sum.TotalSteps, &sum.SimulatedSeconds, &sum.AvgWallMillis, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan summary row: %w", err)
		}
		sum.LastRun = parseTime(lastRun)
		out[sum.SceneID] = &sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
