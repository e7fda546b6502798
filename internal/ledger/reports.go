package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Veraticus/ledger-flow/internal/model"
)

// Period selects the calendar window of a report.
type Period string

// Report periods.
const (
	PeriodMonth     Period = "month"
	PeriodFortnight Period = "fortnight"
	PeriodSemester  Period = "semester"
	PeriodYear      Period = "year"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodMonth, PeriodFortnight, PeriodSemester, PeriodYear:
		return p, nil
	}
	return "", invalid("unknown report period %q", s)
}

// Totals aggregates income and expense over a window.
type Totals struct {
	Income  float64 `json:"totalIncome"`
	Expense float64 `json:"totalExpense"`
	Balance float64 `json:"totalBalance"`
}

func (t *Totals) add(txn model.Transaction) {
	switch txn.Type {
	case model.TypeIncome:
		t.Income += txn.Amount
	case model.TypeExpense:
		t.Expense += txn.Amount
	}
	t.Balance = t.Income - t.Expense
}

// DailyPoint is the income and expense booked on one calendar day.
type DailyPoint struct {
	Day     time.Time `json:"day"`
	Income  float64   `json:"income"`
	Expense float64   `json:"expense"`
}

// PeriodReport is the content of the reports screen for one window.
type PeriodReport struct {
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Period Period       `json:"period"`
	Points []DailyPoint `json:"points"`
	Totals Totals       `json:"totals"`
}

// CategoryTotal is the expense spent on one category.
type CategoryTotal struct {
	Category model.CategoryItem `json:"category"`
	Amount   float64            `json:"amount"`
}

// PeriodRange returns the half-open window [start, end) of the period that
// contains anchor, in anchor's location. Fortnights split a month after the
// 15th; semesters split a year after June.
func PeriodRange(anchor time.Time, period Period) (start, end time.Time, err error) {
	y, m, d := anchor.Date()
	loc := anchor.Location()

	switch period {
	case PeriodMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	case PeriodFortnight:
		if d <= 15 {
			start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
			end = time.Date(y, m, 16, 0, 0, 0, 0, loc)
		} else {
			start = time.Date(y, m, 16, 0, 0, 0, 0, loc)
			end = time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
		}
	case PeriodSemester:
		first := time.January
		if m > time.June {
			first = time.July
		}
		start = time.Date(y, first, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 6, 0)
	case PeriodYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		end = start.AddDate(1, 0, 0)
	default:
		return time.Time{}, time.Time{}, invalid("unknown report period %q", period)
	}
	return start, end, nil
}

// ShiftPeriod moves anchor by steps whole periods (negative goes back).
func ShiftPeriod(anchor time.Time, period Period, steps int) time.Time {
	switch period {
	case PeriodFortnight:
		start, _, _ := PeriodRange(anchor, period)
		for ; steps > 0; steps-- {
			_, start, _ = PeriodRange(start, period)
		}
		for ; steps < 0; steps++ {
			start, _, _ = PeriodRange(start.AddDate(0, 0, -1), period)
		}
		return start
	case PeriodSemester:
		return addMonths(anchor, 6*steps)
	case PeriodYear:
		return addMonths(anchor, 12*steps)
	default:
		return addMonths(anchor, steps)
	}
}

// Summary totals income and expense dated within [from, to). A zero bound is
// open. Transactions of type transfer carry no direction and are ignored;
// transfer legs count as the income and expense they are.
func (s *Store) Summary(ctx context.Context, from, to time.Time) (Totals, error) {
	txns, err := s.GetTransactions(ctx)
	if err != nil {
		return Totals{}, err
	}

	var totals Totals
	for _, t := range txns {
		if inRange(t.Date, from, to) {
			totals.add(t)
		}
	}
	return totals, nil
}

// Report builds the totals and the per-day series for the period containing anchor.
func (s *Store) Report(ctx context.Context, anchor time.Time, period Period) (PeriodReport, error) {
	start, end, err := PeriodRange(anchor, period)
	if err != nil {
		return PeriodReport{}, err
	}
	txns, err := s.GetTransactions(ctx)
	if err != nil {
		return PeriodReport{}, err
	}

	report := PeriodReport{Start: start, End: end, Period: period, Points: []DailyPoint{}}
	byDay := make(map[time.Time]*DailyPoint)
	for _, t := range txns {
		if !inRange(t.Date, start, end) {
			continue
		}
		report.Totals.add(t)

		y, m, d := t.Date.In(start.Location()).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, start.Location())
		point, ok := byDay[day]
		if !ok {
			point = &DailyPoint{Day: day}
			byDay[day] = point
		}
		switch t.Type {
		case model.TypeIncome:
			point.Income += t.Amount
		case model.TypeExpense:
			point.Expense += t.Amount
		}
	}

	for _, p := range byDay {
		report.Points = append(report.Points, *p)
	}
	sort.Slice(report.Points, func(i, j int) bool {
		return report.Points[i].Day.Before(report.Points[j].Day)
	})
	return report, nil
}

// ExpensesByCategory sums expenses dated within [from, to) per category,
// largest first. Categories that no longer exist are reported under their id.
func (s *Store) ExpensesByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error) {
	s.mu.RLock()
	txns, err := s.transactions(ctx)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	cats, err := s.categories(ctx)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	for _, t := range txns {
		if t.Type == model.TypeExpense && inRange(t.Date, from, to) {
			sums[t.Category] += t.Amount
		}
	}

	out := make([]CategoryTotal, 0, len(sums))
	for id, amount := range sums {
		cat, ok := findCategory(cats, id)
		if !ok {
			cat = model.CategoryItem{ID: id, Label: id, Type: model.CategoryTypeExpense}
		}
		out = append(out, CategoryTotal{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category.ID < out[j].Category.ID
	})
	return out, nil
}

// Label renders a human name for the period containing anchor.
func (p Period) Label(anchor time.Time) string {
	switch p {
	case PeriodFortnight:
		if anchor.Day() <= 15 {
			return fmt.Sprintf("1-15 %s", anchor.Format("Jan 2006"))
		}
		return fmt.Sprintf("16-%d %s", daysIn(anchor), anchor.Format("Jan 2006"))
	case PeriodSemester:
		if anchor.Month() <= time.June {
			return fmt.Sprintf("H1 %d", anchor.Year())
		}
		return fmt.Sprintf("H2 %d", anchor.Year())
	case PeriodYear:
		return fmt.Sprintf("%d", anchor.Year())
	default:
		return anchor.Format("January 2006")
	}
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}
