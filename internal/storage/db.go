package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cptspacemanspiff/abat/internal/collector"
)

const schema = `
CREATE TABLE IF NOT EXISTS battery_samples (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	session_id TEXT NOT NULL,
	variant TEXT NOT NULL,
	current_capacity INTEGER NOT NULL,
	max_capacity INTEGER NOT NULL,
	design_capacity INTEGER NOT NULL,
	charge_pct INTEGER NOT NULL,
	health_pct INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_battery_ts ON battery_samples(timestamp);
`

const sampleColumns = "timestamp, session_id, variant, current_capacity, max_capacity, design_capacity, charge_pct, health_pct"

// DB wraps a SQLite database of battery samples.
type DB struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path, creating
// its directory if needed.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// InsertBatterySample inserts a battery sample.
func (d *DB) InsertBatterySample(s collector.BatterySample) error {
	_, err := d.db.Exec(
		"INSERT INTO battery_samples ("+sampleColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		s.Timestamp, s.SessionID, s.Variant, s.CurrentCapacity, s.MaxCapacity, s.DesignCapacity, s.ChargePct, s.HealthPct,
	)
	if err != nil {
		return fmt.Errorf("insert battery sample: %w", err)
	}
	return nil
}

// LatestBatterySample returns the most recent battery sample, or nil if
// there is none.
func (d *DB) LatestBatterySample() (*collector.BatterySample, error) {
	row := d.db.QueryRow("SELECT " + sampleColumns + " FROM battery_samples ORDER BY timestamp DESC, id DESC LIMIT 1")
	s, err := scanSample(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// BatterySamplesInRange returns battery samples within the given time range,
// inclusive, oldest first.
func (d *DB) BatterySamplesInRange(from, to int64) ([]collector.BatterySample, error) {
	rows, err := d.db.Query(
		"SELECT "+sampleColumns+" FROM battery_samples WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp, id",
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var samples []collector.BatterySample
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSample(r rowScanner) (collector.BatterySample, error) {
	var s collector.BatterySample
	err := r.Scan(&s.Timestamp, &s.SessionID, &s.Variant, &s.CurrentCapacity, &s.MaxCapacity, &s.DesignCapacity, &s.ChargePct, &s.HealthPct)
	return s, err
}
