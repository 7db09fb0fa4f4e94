package ledger

import (
	"context"
	"errors"
	"testing"

	"masarif/internal/core"
)

type fakeStore struct {
	entries []core.Entry
	saves   int
	saveErr error
	loadErr error
}

func (s *fakeStore) Load(_ context.Context) ([]core.Entry, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]core.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *fakeStore) Save(_ context.Context, entries []core.Entry) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.entries = make([]core.Entry, len(entries))
	copy(s.entries, entries)
	return nil
}

func entry(name, category string, daily float64) core.Entry {
	return core.Entry{
		Name:        name,
		Category:    category,
		AmountDaily: daily,
		Currency:    "SAR",
		Frequency:   core.Daily,
		Date:        core.NewDate(2025, 1, 1),
	}
}

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	l, err := Open(ctx, store)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	first, err := l.Append(ctx, entry("Rent", "Housing", 50))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	second, err := l.Append(ctx, entry("Food", "Groceries", 20))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1,2 got %d,%d", first.ID, second.ID)
	}
	if store.saves != 2 {
		t.Fatalf("expected a snapshot per mutation, got %d", store.saves)
	}
}

func TestIDsNeverReusedAfterRemove(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, &fakeStore{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	a, _ := l.Append(ctx, entry("A", "c", 1))
	b, _ := l.Append(ctx, entry("B", "c", 2))
	if err := l.Remove(ctx, b.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	c, _ := l.Append(ctx, entry("C", "c", 3))
	if c.ID <= b.ID {
		t.Fatalf("id %d reused after removing %d", c.ID, b.ID)
	}
	_ = a
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	l, _ := Open(ctx, store)

	a, _ := l.Append(ctx, entry("A", "c", 1))
	b, _ := l.Append(ctx, entry("B", "c", 2))

	if err := l.Remove(ctx, a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	for _, e := range l.All() {
		if e.ID == a.ID {
			t.Fatalf("removed id %d still present", a.ID)
		}
	}

	// Removing an absent id is a no-op and does not persist.
	savesBefore := store.saves
	if err := l.Remove(ctx, 9999); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if store.saves != savesBefore {
		t.Fatalf("no-op remove must not write a snapshot")
	}
	if got := l.All(); len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("ledger changed by no-op remove: %+v", got)
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	ctx := context.Background()
	l, _ := Open(ctx, &fakeStore{})

	names := []string{"first", "second", "third"}
	for _, n := range names {
		if _, err := l.Append(ctx, entry(n, "c", 1)); err != nil {
			t.Fatalf("append %s: %v", n, err)
		}
	}
	got := l.All()
	for i, n := range names {
		if got[i].Name != n {
			t.Fatalf("position %d: expected %q, got %q", i, n, got[i].Name)
		}
	}
}

func TestOpenSeedsIDSequenceFromSnapshot(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{entries: []core.Entry{
		{ID: 3, Name: "old", Category: "c", AmountDaily: 1},
		{ID: 7, Name: "newer", Category: "c", AmountDaily: 2},
	}}
	l, err := Open(ctx, store)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	e, _ := l.Append(ctx, entry("next", "c", 1))
	if e.ID != 8 {
		t.Fatalf("expected id 8 after max persisted id 7, got %d", e.ID)
	}
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{saveErr: errors.New("disk full")}
	l, _ := Open(ctx, store)

	e, err := l.Append(ctx, entry("A", "c", 1))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	// The entry is still visible for the current session.
	got := l.All()
	if len(got) != 1 || got[0].ID != e.ID {
		t.Fatalf("in-memory state must stay authoritative, got %+v", got)
	}
}

func TestOpenPropagatesLoadError(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("corrupt file")}
	if _, err := Open(context.Background(), store); err == nil {
		t.Fatalf("expected load error")
	}
}
