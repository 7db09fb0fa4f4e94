package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	Daily   Frequency = "daily"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
	OneTime Frequency = "one-time"
)

type (
	// Frequency is the payment cadence as submitted by the user. It is kept
	// on the stored entry for display only; the daily amount is already
	// normalized at creation time.
	Frequency string

	// NotificationMode carries the reminder policy chosen on submission.
	NotificationMode string

	Date struct {
		time.Time
	}

	// Draft is a raw submission before normalization. It is validated and
	// then converted into an Entry exactly once; drafts are never persisted.
	Draft struct {
		Name         string
		Category     string
		Notes        string
		Amount       float64
		Currency     string
		Frequency    Frequency
		Date         Date
		Notification NotificationMode
		ScheduleDate Date
	}

	// Entry is the canonical persisted record. AmountDaily is the result of
	// normalization at creation time and is never recomputed, so later rate
	// refreshes cannot retroactively change it.
	Entry struct {
		ID           int64            `json:"id"`
		Name         string           `json:"name"`
		Category     string           `json:"category"`
		Notes        string           `json:"notes,omitempty"`
		AmountDaily  float64          `json:"amount_daily"`
		Currency     string           `json:"currency"`
		Frequency    Frequency        `json:"frequency"`
		Date         Date             `json:"date"`
		Notification NotificationMode `json:"notification,omitempty"`
		ScheduleDate Date             `json:"schedule_date,omitempty"`
	}
)

var (
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrUnknownCurrency = errors.New("unknown currency")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// IsEmpty returns true for the zero date (optional dates are allowed to be empty).
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string, or "" when empty.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a YYYY-MM-DD string; "" and null decode to the empty date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Immediate reports whether the mode asks for an immediate reminder. The
// match is a substring test so localized values like "immediate (whatsapp)"
// still trigger.
func (m NotificationMode) Immediate() bool {
	return strings.Contains(strings.ToLower(string(m)), "immediate")
}

// Validate rejects malformed drafts before normalization. No partial entry
// is ever created from an invalid draft.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if len(d.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if strings.TrimSpace(d.Category) == "" {
		return ErrEmptyCategory
	}
	if len(d.Category) > 200 {
		return errors.New("category too long (max 200 characters)")
	}
	if d.Amount <= 0 || math.IsNaN(d.Amount) || math.IsInf(d.Amount, 0) {
		return ErrInvalidAmount
	}
	if d.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
