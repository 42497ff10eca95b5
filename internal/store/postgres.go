package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Abel5173/pulsecode/pulse"
)

// Postgres is the shared-database backend for deployments where the
// bot runs next to the wider stats stack.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS pulse_sessions (
    mode        TEXT NOT NULL,
    session_key TEXT NOT NULL,
    record      JSONB NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (mode, session_key)
);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (s *Postgres) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Postgres) Save(ctx context.Context, snap pulse.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s/%s: %w", snap.Mode, snap.Key, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO pulse_sessions (mode, session_key, record, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (mode, session_key)
DO UPDATE SET record = EXCLUDED.record, updated_at = now();`,
		string(snap.Mode), snap.Key, string(data))
	if err != nil {
		return fmt.Errorf("save session %s/%s: %w", snap.Mode, snap.Key, err)
	}
	return nil
}

func (s *Postgres) LoadAll(ctx context.Context) ([]pulse.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT record FROM pulse_sessions ORDER BY mode, session_key;`)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	defer rows.Close()

	var out []pulse.Snapshot
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		var snap pulse.Snapshot
		if err := json.Unmarshal(record, &snap); err != nil {
			return nil, fmt.Errorf("decode session record: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *Postgres) Delete(ctx context.Context, mode pulse.Mode, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM pulse_sessions WHERE mode = $1 AND session_key = $2;`,
		string(mode), key)
	if err != nil {
		return fmt.Errorf("delete session %s/%s: %w", mode, key, err)
	}
	return nil
}
