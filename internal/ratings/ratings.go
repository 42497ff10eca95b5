// Package ratings reads and updates the persisted per-player skill
// rating used to pick AI difficulty. The real rating formula belongs
// to the surrounding stats subsystem; this package applies a fixed
// step so sessions resolved here still move the number.
package ratings

import (
	"context"
	"sync"
)

const (
	// DefaultRating is assumed for players never seen before.
	DefaultRating = 1000
	ratingStep    = 25
)

// Service is the skill-rating collaborator.
type Service interface {
	// Get returns the player's rating, DefaultRating if unknown.
	Get(ctx context.Context, playerID string) (int, error)
	// ApplyResult moves the rating after a resolved session: up for a
	// win, down for a loss (floored at 0). Returns the new rating.
	ApplyResult(ctx context.Context, playerID string, won bool) (int, error)
	Close() error
}

func adjust(rating int, won bool) int {
	if won {
		return rating + ratingStep
	}
	if rating < ratingStep {
		return 0
	}
	return rating - ratingStep
}

// Memory is an in-process Service for tests.
type Memory struct {
	mu      sync.Mutex
	ratings map[string]int
}

func NewMemory() *Memory {
	return &Memory{ratings: make(map[string]int)}
}

func (m *Memory) Get(_ context.Context, playerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.ratings[playerID]; ok {
		return r, nil
	}
	return DefaultRating, nil
}

func (m *Memory) ApplyResult(_ context.Context, playerID string, won bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ratings[playerID]
	if !ok {
		r = DefaultRating
	}
	r = adjust(r, won)
	m.ratings[playerID] = r
	return r, nil
}

func (m *Memory) Close() error { return nil }
