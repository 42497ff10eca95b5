// Package manager owns the live sessions: one keyed registry per mode,
// write-through persistence to the durable store, and the glue that
// lets the computer opponent take its turns.
package manager

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Abel5173/pulsecode/internal/store"
	"github.com/Abel5173/pulsecode/pulse"
)

var (
	ErrSessionNotFound = errors.New("no active session for this chat")
	ErrSessionExists   = errors.New("a session is already running in this chat")
	ErrWrongMode       = errors.New("session exists under a different mode")
)

// entry serializes all operations on one session. Different keys stay
// independent; the transport already delivers per-chat actions one at
// a time, this guard keeps that true even if it does not.
type entry struct {
	mu sync.Mutex
	s  pulse.Session
}

// Manager holds every live session of one mode, keyed by chat id.
// At most one active session exists per key.
type Manager struct {
	mode  pulse.Mode
	mu    sync.RWMutex
	byKey map[string]*entry

	store store.Store
	log   zerolog.Logger
}

func newManager(mode pulse.Mode, st store.Store, log zerolog.Logger) *Manager {
	return &Manager{
		mode:  mode,
		byKey: make(map[string]*entry),
		store: st,
		log:   log.With().Str("mode", string(mode)).Logger(),
	}
}

// lookup returns the entry for key, or nil.
func (m *Manager) lookup(key string) *entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byKey[key]
}

// place registers a fresh session under its key. A live active session
// under the same key wins; a finished or cancelled leftover is evicted.
func (m *Manager) place(s pulse.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old := m.byKey[s.Key()]; old != nil {
		old.mu.Lock()
		active := old.s.Active()
		old.mu.Unlock()
		if active {
			return ErrSessionExists
		}
	}
	m.byKey[s.Key()] = &entry{s: s}
	return nil
}

// adopt installs a recovered session without the exists check.
func (m *Manager) adopt(s pulse.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byKey[s.Key()] = &entry{s: s}
}

func (m *Manager) remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byKey, key)
}

// Count reports the number of tracked sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byKey)
}

// persist writes the session through to durable storage. Failures are
// logged, not surfaced: in-memory state stays authoritative and the
// next mutation rewrites the full record anyway.
func (m *Manager) persist(ctx context.Context, s pulse.Session) {
	if err := m.store.Save(ctx, s.Snapshot()); err != nil {
		m.log.Warn().Err(err).Str("key", s.Key()).Msg("session save failed")
	}
}

// withSession runs fn while holding the session's lock, persisting
// afterwards when fn reports a mutation.
func (m *Manager) withSession(ctx context.Context, key string, fn func(pulse.Session) (bool, error)) error {
	e := m.lookup(key)
	if e == nil {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	mutated, err := fn(e.s)
	if mutated {
		m.persist(ctx, e.s)
	}
	return err
}

// end removes the session from memory and durable storage.
func (m *Manager) end(ctx context.Context, key string) error {
	e := m.lookup(key)
	if e == nil {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	e.s.Cancel()
	e.mu.Unlock()
	m.remove(key)
	if err := m.store.Delete(ctx, m.mode, key); err != nil {
		m.log.Warn().Err(err).Str("key", key).Msg("session delete failed")
		return err
	}
	m.log.Info().Str("key", key).Msg("session ended")
	return nil
}
