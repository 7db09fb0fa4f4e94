package services

import (
	"context"
	"log/slog"

	"masarif/internal/core"
	"masarif/internal/ledger"
	"masarif/internal/notify"
)

// RateSource provides the rate snapshot used to normalize new entries.
type RateSource interface {
	Snapshot() core.RateTable
	Base() string
}

// ReminderPublisher emits reminder events to the messaging collaborator.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, msg *notify.ReminderMessage) error
}

// EntryService orchestrates entry creation: normalization against the
// current rate snapshot, ledger append with synchronous persistence, and the
// optional reminder event. A nil publisher disables reminders.
type EntryService struct {
	ledger    *ledger.Ledger
	rates     RateSource
	publisher ReminderPublisher
	recipient string
	policy    core.ConversionPolicy
}

func NewEntryService(l *ledger.Ledger, rates RateSource, publisher ReminderPublisher, recipient string) *EntryService {
	return &EntryService{
		ledger:    l,
		rates:     rates,
		publisher: publisher,
		recipient: recipient,
		policy:    core.FailOpen,
	}
}

// Create validates and normalizes the draft, appends it to the ledger, and
// publishes a reminder when the notification mode asks for one. A
// persistence failure still returns the stored entry (the in-memory ledger
// keeps it for this session) together with the error, and the reminder is
// still emitted: the source behavior notified right after the local write.
func (s *EntryService) Create(ctx context.Context, d core.Draft) (core.Entry, error) {
	normalizer := core.Normalizer{
		Base:   s.rates.Base(),
		Rates:  s.rates.Snapshot(),
		Policy: s.policy,
	}

	entry, err := normalizer.Entry(d)
	if err != nil {
		return core.Entry{}, err
	}

	stored, persistErr := s.ledger.Append(ctx, entry)

	if stored.Notification.Immediate() {
		s.publishReminder(ctx, stored)
	}

	return stored, persistErr
}

// Delete removes an entry by id; absent ids are a no-op.
func (s *EntryService) Delete(ctx context.Context, id int64) error {
	return s.ledger.Remove(ctx, id)
}

// Entries returns the current ledger contents in insertion order.
func (s *EntryService) Entries() []core.Entry {
	return s.ledger.All()
}

func (s *EntryService) publishReminder(ctx context.Context, e core.Entry) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Reminder publisher not available, skipping reminder", "entry_id", e.ID)
		return
	}

	msg := notify.NewReminderMessage(e, s.recipient)
	if err := s.publisher.PublishReminder(ctx, msg); err != nil {
		// A dead broker never fails the create; the entry is already stored.
		slog.ErrorContext(ctx, "Failed to publish reminder", "entry_id", e.ID, "error", err)
	}
}
