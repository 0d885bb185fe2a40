package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB is the ephemeral SQLite cache over the results JSONL. It is rebuilt
// whenever the JSONL hash changes and can be deleted freely.
type DB struct {
	db *sql.DB
}

const resultsDDL = `CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  start_word TEXT,
  end_word TEXT,
  optimal_path_length INTEGER,
  path TEXT,
  steps_taken INTEGER,
  status TEXT,
  reason TEXT,
  model TEXT,
  efficiency REAL,
  backtrack_attempts INTEGER
)`

const metaDDL = `CREATE TABLE IF NOT EXISTS _meta (
  key TEXT PRIMARY KEY,
  value TEXT
)`

// Open opens (or creates) the results cache database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	for _, ddl := range []string{resultsDDL, metaDDL,
		"CREATE INDEX IF NOT EXISTS idx_results_status ON results(status)",
		"CREATE INDEX IF NOT EXISTS idx_results_model ON results(model)"} {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// storedHash retrieves the JSONL hash recorded at the last rebuild.
func (d *DB) storedHash() (string, error) {
	var hash sql.NullString
	err := d.db.QueryRow("SELECT value FROM _meta WHERE key = 'jsonl_hash'").Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash.String, nil
}

// RebuildFromJSONL reloads the cache from the results file when its hash has
// changed since the last rebuild. Returns whether a rebuild happened.
func (d *DB) RebuildFromJSONL(jsonlPath string) (bool, error) {
	hash, err := FileHash(jsonlPath)
	if err != nil {
		return false, err
	}
	stored, err := d.storedHash()
	if err != nil {
		return false, err
	}
	if stored == hash {
		return false, nil
	}

	records, err := ReadAll(jsonlPath)
	if err != nil {
		return false, err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM results"); err != nil {
		return false, fmt.Errorf("clearing results: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO results
  (id, start_word, end_word, optimal_path_length, path, steps_taken, status, reason, model, efficiency, backtrack_attempts)
  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return false, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		pathJSON, err := json.Marshal(r.Path)
		if err != nil {
			return false, fmt.Errorf("encoding path for %s: %w", r.ID, err)
		}
		if _, err := stmt.Exec(r.ID, r.StartWord, r.EndWord, r.OptimalPathLength,
			string(pathJSON), r.StepsTaken, r.Status, r.Reason, r.Model,
			r.Efficiency, r.BacktrackAttempts); err != nil {
			return false, fmt.Errorf("inserting %s: %w", r.ID, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES ('jsonl_hash', ?)`, hash); err != nil {
		return false, fmt.Errorf("storing hash: %w", err)
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES ('last_sync', ?)`,
		time.Now().Format(time.RFC3339)); err != nil {
		return false, fmt.Errorf("storing sync time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing rebuild: %w", err)
	}
	return true, nil
}

// ByStatus returns records matching the given status, ordered by ID.
func (d *DB) ByStatus(status string) ([]Record, error) {
	rows, err := d.db.Query(`SELECT id, start_word, end_word, optimal_path_length, path,
  steps_taken, status, reason, model, efficiency, backtrack_attempts
  FROM results WHERE status = ? ORDER BY id`, status)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// All returns every cached record, ordered by ID.
func (d *DB) All() ([]Record, error) {
	rows, err := d.db.Query(`SELECT id, start_word, end_word, optimal_path_length, path,
  steps_taken, status, reason, model, efficiency, backtrack_attempts
  FROM results ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var pathJSON string
		if err := rows.Scan(&r.ID, &r.StartWord, &r.EndWord, &r.OptimalPathLength,
			&pathJSON, &r.StepsTaken, &r.Status, &r.Reason, &r.Model,
			&r.Efficiency, &r.BacktrackAttempts); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(pathJSON), &r.Path); err != nil {
			return nil, fmt.Errorf("decoding path for %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ModelStats summarizes one model's runs.
type ModelStats struct {
	Model         string  `json:"model"`
	Solved        int     `json:"solved"`
	Failed        int     `json:"failed"`
	Skipped       int     `json:"skipped"`
	AvgSteps      float64 `json:"avg_steps"`
	AvgEfficiency float64 `json:"avg_efficiency"`
}

// StatsByModel aggregates per-model solve statistics.
func (d *DB) StatsByModel() ([]ModelStats, error) {
	rows, err := d.db.Query(`SELECT model,
  SUM(CASE WHEN status = 'solved' THEN 1 ELSE 0 END),
  SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END),
  SUM(CASE WHEN status = 'skipped' THEN 1 ELSE 0 END),
  COALESCE(AVG(CASE WHEN status = 'solved' THEN steps_taken END), 0),
  COALESCE(AVG(CASE WHEN status = 'solved' THEN efficiency END), 0)
  FROM results GROUP BY model ORDER BY model`)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	var stats []ModelStats
	for rows.Next() {
		var s ModelStats
		if err := rows.Scan(&s.Model, &s.Solved, &s.Failed, &s.Skipped,
			&s.AvgSteps, &s.AvgEfficiency); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
