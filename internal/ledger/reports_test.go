package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/Veraticus/ledger-flow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodRange(t *testing.T) {
	tests := []struct {
		anchor    time.Time
		wantStart time.Time
		wantEnd   time.Time
		period    ledger.Period
	}{
		{
			period:    ledger.PeriodMonth,
			anchor:    time.Date(2024, time.February, 10, 15, 0, 0, 0, time.UTC),
			wantStart: testutil.Day(2024, time.February, 1),
			wantEnd:   testutil.Day(2024, time.March, 1),
		},
		{
			period:    ledger.PeriodMonth,
			anchor:    testutil.Day(2024, time.December, 31),
			wantStart: testutil.Day(2024, time.December, 1),
			wantEnd:   testutil.Day(2025, time.January, 1),
		},
		{
			period:    ledger.PeriodFortnight,
			anchor:    testutil.Day(2024, time.April, 15),
			wantStart: testutil.Day(2024, time.April, 1),
			wantEnd:   testutil.Day(2024, time.April, 16),
		},
		{
			period:    ledger.PeriodFortnight,
			anchor:    testutil.Day(2024, time.April, 16),
			wantStart: testutil.Day(2024, time.April, 16),
			wantEnd:   testutil.Day(2024, time.May, 1),
		},
		{
			period:    ledger.PeriodSemester,
			anchor:    testutil.Day(2024, time.June, 30),
			wantStart: testutil.Day(2024, time.January, 1),
			wantEnd:   testutil.Day(2024, time.July, 1),
		},
		{
			period:    ledger.PeriodSemester,
			anchor:    testutil.Day(2024, time.July, 1),
			wantStart: testutil.Day(2024, time.July, 1),
			wantEnd:   testutil.Day(2025, time.January, 1),
		},
		{
			period:    ledger.PeriodYear,
			anchor:    testutil.Day(2024, time.August, 8),
			wantStart: testutil.Day(2024, time.January, 1),
			wantEnd:   testutil.Day(2025, time.January, 1),
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.period)+" "+tt.anchor.Format(time.DateOnly), func(t *testing.T) {
			start, end, err := ledger.PeriodRange(tt.anchor, tt.period)
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), "start %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %s", end)
		})
	}

	_, _, err := ledger.PeriodRange(testutil.Now, "decade")
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestShiftPeriod(t *testing.T) {
	anchor := testutil.Day(2024, time.January, 31)

	assert.True(t, testutil.Day(2024, time.February, 29).Equal(ledger.ShiftPeriod(anchor, ledger.PeriodMonth, 1)))
	assert.True(t, testutil.Day(2023, time.December, 31).Equal(ledger.ShiftPeriod(anchor, ledger.PeriodMonth, -1)))
	assert.True(t, testutil.Day(2024, time.July, 31).Equal(ledger.ShiftPeriod(anchor, ledger.PeriodSemester, 1)))
	assert.True(t, testutil.Day(2023, time.January, 31).Equal(ledger.ShiftPeriod(anchor, ledger.PeriodYear, -1)))
	assert.True(t, testutil.Day(2024, time.February, 1).Equal(ledger.ShiftPeriod(anchor, ledger.PeriodFortnight, 1)))
	assert.True(t, testutil.Day(2024, time.January, 1).Equal(ledger.ShiftPeriod(anchor, ledger.PeriodFortnight, -1)))
	assert.True(t, testutil.Day(2023, time.December, 16).Equal(ledger.ShiftPeriod(anchor, ledger.PeriodFortnight, -2)))
}

func TestParsePeriod(t *testing.T) {
	p, err := ledger.ParsePeriod("semester")
	require.NoError(t, err)
	assert.Equal(t, ledger.PeriodSemester, p)

	_, err = ledger.ParsePeriod("week")
	assert.ErrorIs(t, err, ledger.ErrValidation)
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "March 2024", ledger.PeriodMonth.Label(testutil.Now))
	assert.Equal(t, "1-15 Mar 2024", ledger.PeriodFortnight.Label(testutil.Now))
	assert.Equal(t, "16-29 Feb 2024", ledger.PeriodFortnight.Label(testutil.Day(2024, time.February, 20)))
	assert.Equal(t, "H1 2024", ledger.PeriodSemester.Label(testutil.Now))
	assert.Equal(t, "2024", ledger.PeriodYear.Label(testutil.Now))
}

func reportLedger(t *testing.T) (*ledger.Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	l := testutil.RegisteredLedger(t)

	for _, draft := range []model.Transaction{
		testutil.Income("Salary", 3000, time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)),
		testutil.Expense("Groceries", 200, time.Date(2024, time.March, 1, 18, 0, 0, 0, time.UTC), "food"),
		testutil.Expense("Dinner", 50, testutil.Day(2024, time.March, 5), "food"),
		testutil.Expense("Bus pass", 80, testutil.Day(2024, time.March, 3), "transport"),
		testutil.Expense("Laptop", 1500, testutil.Day(2024, time.January, 20), "shopping"),
		testutil.Income("Old salary", 2800, testutil.Day(2023, time.December, 1)),
	} {
		_, err := l.AddTransaction(ctx, draft, nil)
		require.NoError(t, err)
	}
	return l, ctx
}

func TestSummary(t *testing.T) {
	l, ctx := reportLedger(t)

	all, err := l.Summary(ctx, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.InDelta(t, 5800, all.Income, 1e-9)
	assert.InDelta(t, 1830, all.Expense, 1e-9)
	assert.InDelta(t, 3970, all.Balance, 1e-9)

	march, err := l.Summary(ctx, testutil.Day(2024, time.March, 1), testutil.Day(2024, time.April, 1))
	require.NoError(t, err)
	assert.InDelta(t, 3000, march.Income, 1e-9)
	assert.InDelta(t, 330, march.Expense, 1e-9)
	assert.InDelta(t, 2670, march.Balance, 1e-9)
}

func TestReport(t *testing.T) {
	l, ctx := reportLedger(t)

	report, err := l.Report(ctx, testutil.Now, ledger.PeriodMonth)
	require.NoError(t, err)
	assert.InDelta(t, 3000, report.Totals.Income, 1e-9)
	assert.InDelta(t, 330, report.Totals.Expense, 1e-9)

	require.Len(t, report.Points, 3)
	assert.True(t, testutil.Day(2024, time.March, 1).Equal(report.Points[0].Day))
	assert.InDelta(t, 3000, report.Points[0].Income, 1e-9)
	assert.InDelta(t, 200, report.Points[0].Expense, 1e-9)
	assert.True(t, testutil.Day(2024, time.March, 3).Equal(report.Points[1].Day))
	assert.True(t, testutil.Day(2024, time.March, 5).Equal(report.Points[2].Day))

	semester, err := l.Report(ctx, testutil.Now, ledger.PeriodSemester)
	require.NoError(t, err)
	assert.InDelta(t, 1830, semester.Totals.Expense, 1e-9)
	assert.Len(t, semester.Points, 4)

	empty, err := l.Report(ctx, testutil.Day(2030, time.May, 1), ledger.PeriodYear)
	require.NoError(t, err)
	assert.Empty(t, empty.Points)
	assert.Zero(t, empty.Totals)
}

func TestExpensesByCategory(t *testing.T) {
	l, ctx := reportLedger(t)

	totals, err := l.ExpensesByCategory(ctx, testutil.Day(2024, time.March, 1), testutil.Day(2024, time.April, 1))
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "food", totals[0].Category.ID)
	assert.Equal(t, "Food", totals[0].Category.Label)
	assert.InDelta(t, 250, totals[0].Amount, 1e-9)
	assert.Equal(t, "transport", totals[1].Category.ID)
	assert.InDelta(t, 80, totals[1].Amount, 1e-9)
}
