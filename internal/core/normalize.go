package core

const (
	// FailOpen treats an unknown currency as already being in the base
	// currency, keeping the engine usable when the rate source is down.
	FailOpen ConversionPolicy = iota
	// FailClosed rejects drafts whose currency has no known rate.
	FailClosed
)

const (
	daysPerMonth = 30
	daysPerYear  = 365
)

type (
	// RateTable maps a currency code to its rate relative to the base
	// currency (units of that currency per one base unit). A missing code
	// means the amount is treated as already expressed in the base currency.
	RateTable map[string]float64

	ConversionPolicy int

	// Normalizer converts a raw (amount, currency, frequency) triple into a
	// canonical daily amount in the base currency. It holds a snapshot of
	// the rate table, so entries created through it keep the rates in force
	// at creation time.
	Normalizer struct {
		Base   string
		Rates  RateTable
		Policy ConversionPolicy
	}
)

// DailyAmount normalizes amount to a base-currency daily cost. Currency
// conversion happens before the frequency division; no intermediate rounding
// is applied. Under FailClosed an unknown currency yields ErrUnknownCurrency.
func (n Normalizer) DailyAmount(amount float64, currency string, freq Frequency) (float64, error) {
	if currency != n.Base {
		rate, ok := n.Rates[currency]
		switch {
		case ok && rate > 0:
			amount = amount / rate
		case n.Policy == FailClosed:
			return 0, ErrUnknownCurrency
		}
		// FailOpen: no rate means the amount passes through unchanged.
	}

	switch freq {
	case Monthly:
		return amount / daysPerMonth, nil
	case Yearly:
		return amount / daysPerYear, nil
	default:
		// Daily, OneTime, and unrecognized tags all keep the full amount.
		return amount, nil
	}
}

// Entry builds the canonical entry for a validated draft. The assigned ID is
// left zero; the ledger owns the id sequence.
func (n Normalizer) Entry(d Draft) (Entry, error) {
	if err := d.Validate(); err != nil {
		return Entry{}, err
	}
	daily, err := n.DailyAmount(d.Amount, d.Currency, d.Frequency)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:         d.Name,
		Category:     d.Category,
		Notes:        d.Notes,
		AmountDaily:  daily,
		Currency:     n.Base,
		Frequency:    d.Frequency,
		Date:         d.Date,
		Notification: d.Notification,
		ScheduleDate: d.ScheduleDate,
	}, nil
}
