package ratings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite persists ratings in a local database file, usually the same
// file the session store uses.
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS pulse_ratings (
    player_id  TEXT PRIMARY KEY,
    rating     INTEGER NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
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

func (s *SQLite) Get(ctx context.Context, playerID string) (int, error) {
	var rating int
	err := s.db.QueryRowContext(ctx,
		`SELECT rating FROM pulse_ratings WHERE player_id = ?;`, playerID).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultRating, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get rating %s: %w", playerID, err)
	}
	return rating, nil
}

func (s *SQLite) ApplyResult(ctx context.Context, playerID string, won bool) (int, error) {
	current, err := s.Get(ctx, playerID)
	if err != nil {
		return 0, err
	}
	next := adjust(current, won)
	_, err = s.db.ExecContext(ctx, `
INSERT INTO pulse_ratings (player_id, rating, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (player_id)
DO UPDATE SET rating = excluded.rating, updated_at = CURRENT_TIMESTAMP;`,
		playerID, next)
	if err != nil {
		return 0, fmt.Errorf("update rating %s: %w", playerID, err)
	}
	return next, nil
}
