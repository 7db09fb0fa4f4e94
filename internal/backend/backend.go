package backend

import (
	"context"

	"masarif/internal/ledger"
)

// Type selects which durable store holds the ledger snapshot.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	FileBackend   Type = "file"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, FileBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a store.
type Config struct {
	Type           Type
	SQLiteDBPath   string
	LedgerFilePath string
}

// CleanupFunc releases store resources on shutdown.
type CleanupFunc func() error

// Result carries the created store and its optional cleanup.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Factory creates ledger stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}
