package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Abel5173/pulsecode/pulse"
)

// SQLite is the default durable backend: a single local database file,
// one row per session record.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLite, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS pulse_sessions (
    mode        TEXT NOT NULL,
    session_key TEXT NOT NULL,
    record      TEXT NOT NULL,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (mode, session_key)
);`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) Save(ctx context.Context, snap pulse.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s/%s: %w", snap.Mode, snap.Key, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO pulse_sessions (mode, session_key, record, updated_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (mode, session_key)
DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP;`,
		string(snap.Mode), snap.Key, string(data))
	if err != nil {
		return fmt.Errorf("save session %s/%s: %w", snap.Mode, snap.Key, err)
	}
	return nil
}

func (s *SQLite) LoadAll(ctx context.Context) ([]pulse.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM pulse_sessions ORDER BY mode, session_key;`)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	defer rows.Close()

	var out []pulse.Snapshot
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		var snap pulse.Snapshot
		if err := json.Unmarshal([]byte(record), &snap); err != nil {
			return nil, fmt.Errorf("decode session record: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, mode pulse.Mode, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM pulse_sessions WHERE mode = ? AND session_key = ?;`,
		string(mode), key)
	if err != nil {
		return fmt.Errorf("delete session %s/%s: %w", mode, key, err)
	}
	return nil
}
