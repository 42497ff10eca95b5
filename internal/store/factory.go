package store

import (
	"fmt"
	"os"
	"strings"
)

const defaultDBPath = "data/pulsecode.db"

// NewFromEnv selects the backend from PULSE_STORE: "sqlite" (default),
// "postgres" (DATABASE_URL), "redis" (REDIS_URL) or "memory".
// Returns the store and the mode label for startup logging.
func NewFromEnv() (Store, string, error) {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("PULSE_STORE")))
	switch backend {
	case "", "sqlite":
		path := strings.TrimSpace(os.Getenv("PULSE_DB_PATH"))
		if path == "" {
			path = defaultDBPath
		}
		s, err := NewSQLite(path)
		if err != nil {
			return nil, "", err
		}
		return s, "sqlite:" + path, nil
	case "postgres":
		dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
		if dsn == "" {
			return nil, "", fmt.Errorf("PULSE_STORE=postgres requires DATABASE_URL")
		}
		s, err := NewPostgres(dsn)
		if err != nil {
			return nil, "", err
		}
		return s, "postgres", nil
	case "redis":
		url := strings.TrimSpace(os.Getenv("REDIS_URL"))
		if url == "" {
			return nil, "", fmt.Errorf("PULSE_STORE=redis requires REDIS_URL")
		}
		s, err := NewRedis(url)
		if err != nil {
			return nil, "", err
		}
		return s, "redis", nil
	case "memory":
		return NewMemory(), "memory", nil
	default:
		return nil, "", fmt.Errorf("unknown PULSE_STORE backend %q", backend)
	}
}
