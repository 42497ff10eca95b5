// Package store persists session snapshots so active games survive a
// process restart. Records are JSON-encoded snapshots keyed by
// (mode, session key); no binary framing.
package store

import (
	"context"

	"github.com/Abel5173/pulsecode/pulse"
)

// Store is the durable storage collaborator.
type Store interface {
	// Save writes the full snapshot under (snap.Mode, snap.Key),
	// replacing any previous record.
	Save(ctx context.Context, snap pulse.Snapshot) error
	// LoadAll returns every saved snapshot, for startup recovery.
	LoadAll(ctx context.Context) ([]pulse.Snapshot, error)
	// Delete removes the record for (mode, key). Deleting a missing
	// record is not an error.
	Delete(ctx context.Context, mode pulse.Mode, key string) error
	Close() error
}
