package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"masarif/internal/core"
)

// ErrPersistence marks a durable-store write failure. The in-memory ledger
// still reflects the mutation when this is returned; only durability across
// a restart is at risk.
var ErrPersistence = errors.New("ledger persistence failed")

// Store is the durable storage collaborator. Save always receives the whole
// ledger: persistence is a full-overwrite snapshot, never a delta, so the
// stored representation is self-consistent between operations.
type Store interface {
	Load(ctx context.Context) ([]core.Entry, error)
	Save(ctx context.Context, entries []core.Entry) error
}

// Ledger is the ordered collection of normalized entries. Entries are
// appended at the end and removed by id; insertion order is the iteration
// order everywhere else. Ids grow monotonically and are never reused, even
// after deletion.
type Ledger struct {
	mu      sync.Mutex
	store   Store
	entries []core.Entry
	nextID  int64
}

// Open loads the persisted snapshot and seeds the id sequence from the
// highest stored id.
func Open(ctx context.Context, store Store) (*Ledger, error) {
	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	var maxID int64
	for _, e := range entries {
		if e.ID > maxID {
			maxID = e.ID
		}
	}

	slog.InfoContext(ctx, "Ledger loaded", "entries", len(entries), "next_id", maxID+1)

	return &Ledger{
		store:   store,
		entries: entries,
		nextID:  maxID + 1,
	}, nil
}

// Append assigns the next id, adds the entry at the end, and persists the
// full snapshot synchronously. On a store failure the stored entry is still
// returned together with an ErrPersistence-wrapped error.
func (l *Ledger) Append(ctx context.Context, e core.Entry) (core.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.ID = l.nextID
	l.nextID++
	l.entries = append(l.entries, e)

	if err := l.persist(ctx); err != nil {
		return e, err
	}

	slog.InfoContext(ctx, "Entry appended",
		"id", e.ID,
		"name", e.Name,
		"category", e.Category,
		"amount_daily", e.AmountDaily)

	return e, nil
}

// Remove deletes the entry with the given id and persists the snapshot.
// An absent id is a no-op, not an error, and triggers no write.
func (l *Ledger) Remove(ctx context.Context, id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i, e := range l.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	l.entries = append(l.entries[:idx], l.entries[idx+1:]...)

	if err := l.persist(ctx); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Entry removed", "id", id, "remaining", len(l.entries))
	return nil
}

// All returns a copy of the current entries in insertion order.
func (l *Ledger) All() []core.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) persist(ctx context.Context) error {
	snapshot := make([]core.Entry, len(l.entries))
	copy(snapshot, l.entries)

	if err := l.store.Save(ctx, snapshot); err != nil {
		slog.ErrorContext(ctx, "Ledger persistence failed", "error", err, "entries", len(snapshot))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
