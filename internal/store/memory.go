package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Abel5173/pulsecode/pulse"
)

// Memory is a map-backed Store for tests and durability-off setups.
// It still round-trips records through JSON so it exercises the same
// encoding path as the durable backends.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func memKey(mode pulse.Mode, key string) string {
	return string(mode) + "/" + key
}

func (m *Memory) Save(_ context.Context, snap pulse.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %s/%s: %w", snap.Mode, snap.Key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[memKey(snap.Mode, snap.Key)] = data
	return nil
}

func (m *Memory) LoadAll(_ context.Context) ([]pulse.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]pulse.Snapshot, 0, len(m.records))
	for k, data := range m.records {
		var snap pulse.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", k, err)
		}
		out = append(out, snap)
	}
	return out, nil
}

func (m *Memory) Delete(_ context.Context, mode pulse.Mode, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, memKey(mode, key))
	return nil
}

func (m *Memory) Close() error { return nil }

// Len reports the number of stored records, for tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
