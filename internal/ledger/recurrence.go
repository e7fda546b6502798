package ledger

import (
	"fmt"
	"time"

	"github.com/Veraticus/ledger-flow/internal/model"
)

// expand turns one submission into the transactions to store. Without
// settings it yields the draft itself. Open-ended plans repeat the full
// amount lookahead times; fixed-count plans split the amount evenly across
// Count installments and number their titles.
func expand(draft model.Transaction, settings *model.RecurrenceSettings, newID func() string, lookahead int) ([]model.Transaction, error) {
	if settings == nil {
		draft.ID = newID()
		draft.Date = draft.Date.UTC()
		draft.Recurrence = nil
		return []model.Transaction{draft}, nil
	}

	if !settings.Frequency.Valid() {
		return nil, invalid("unknown frequency %q", settings.Frequency)
	}

	iterations := lookahead
	amount := draft.Amount
	if !settings.IsInfinite {
		if settings.Count < 2 {
			return nil, invalid("installment count must be at least 2, got %d", settings.Count)
		}
		iterations = settings.Count
		amount = draft.Amount / float64(iterations)
	}

	parentID := newID()
	out := make([]model.Transaction, 0, iterations)
	for i := 0; i < iterations; i++ {
		txn := draft
		txn.ID = newID()
		txn.Amount = amount
		txn.Date = stepDate(draft.Date, settings.Frequency, i).UTC()
		txn.Recurrence = &model.Recurrence{
			Frequency:  settings.Frequency,
			IsInfinite: settings.IsInfinite,
			Current:    i + 1,
			ParentID:   parentID,
		}
		if !settings.IsInfinite {
			txn.Recurrence.Total = iterations
			txn.Title = fmt.Sprintf("%s (%d/%d)", draft.Title, i+1, iterations)
		}
		out = append(out, txn)
	}

	return out, nil
}

// stepDate returns the date of the n-th instance (n = 0 is start). Month and
// year steps are calendar-aware and always measured from start, so a plan
// anchored on the 31st lands on the last day of shorter months without
// drifting afterwards.
func stepDate(start time.Time, f model.Frequency, n int) time.Time {
	switch f {
	case model.FrequencyMonthly:
		return addMonths(start, n)
	case model.FrequencySemiannual:
		return addMonths(start, 6*n)
	case model.FrequencyYearly:
		return addMonths(start, 12*n)
	default:
		return start.AddDate(0, 0, n*model.LookupFrequency(f).Days)
	}
}

// addMonths adds months to t, clamping the day to the end of the target month.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	target := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
