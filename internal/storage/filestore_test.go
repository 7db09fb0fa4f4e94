package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"masarif/internal/core"
)

func sampleEntries() []core.Entry {
	return []core.Entry{
		{
			ID: 1, Name: "Rent", Category: "Housing", AmountDaily: 50,
			Currency: "SAR", Frequency: core.Monthly, Date: core.NewDate(2025, 1, 1),
		},
		{
			ID: 2, Name: "Ads", Category: "Marketing", Notes: "campaign", AmountDaily: 370.37,
			Currency: "SAR", Frequency: core.Daily, Date: core.NewDate(2025, 1, 2),
			Notification: "immediate", ScheduleDate: core.NewDate(2025, 2, 1),
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	want := sampleEntries()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name ||
			got[i].AmountDaily != want[i].AmountDaily ||
			got[i].Date.String() != want[i].Date.String() ||
			got[i].ScheduleDate.String() != want[i].ScheduleDate.String() {
			t.Fatalf("entry %d mismatch: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestFileStoreMissingFileIsEmptyLedger(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty ledger, got %+v", got)
	}
}

func TestFileStoreSaveOverwritesSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.json")
	store, _ := NewFileStore(path)

	if err := store.Save(ctx, sampleEntries()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("snapshot must be fully overwritten, got %+v", got)
	}

	// No stray temp file should remain after a successful save.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, _ := NewFileStore(path)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
