package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"masarif/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the ledger as a full snapshot in a single table.
// Save rewrites the whole table inside one transaction, so readers never
// observe a partially written ledger.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements ledger.Store. Entries come back in id order, which equals
// insertion order because the ledger only ever appends.
func (s *SQLiteStore) Load(ctx context.Context) ([]core.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, notes, amount_daily, currency, frequency,
		       entry_date, notification, schedule_date
		FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		var (
			e                      core.Entry
			entryDate, scheduleRaw string
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Notes, &e.AmountDaily,
			&e.Currency, &e.Frequency, &entryDate, &e.Notification, &scheduleRaw); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if e.Date, err = core.ParseDate(entryDate); err != nil {
			return nil, fmt.Errorf("entry %d: parse date %q: %w", e.ID, entryDate, err)
		}
		if scheduleRaw != "" {
			if e.ScheduleDate, err = core.ParseDate(scheduleRaw); err != nil {
				return nil, fmt.Errorf("entry %d: parse schedule date %q: %w", e.ID, scheduleRaw, err)
			}
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// Save implements ledger.Store with full-overwrite semantics: the table is
// emptied and rewritten in one transaction per mutation.
func (s *SQLiteStore) Save(ctx context.Context, entries []core.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, name, category, notes, amount_daily, currency,
		                     frequency, entry_date, notification, schedule_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.ID, e.Name, e.Category, e.Notes,
			e.AmountDaily, e.Currency, string(e.Frequency), e.Date.String(),
			string(e.Notification), e.ScheduleDate.String()); err != nil {
			return fmt.Errorf("insert entry %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Ledger snapshot written to SQLite", "entries", len(entries))
	return nil
}
