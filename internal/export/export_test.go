package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func fixture() []Row {
	txns := []model.Transaction{
		{
			ID: "1", Title: "Lunch", Amount: 12.5, Type: model.TypeExpense, Category: "food",
			AccountID: "acc1", Date: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID: "2", Title: "TV (2/3)", Amount: 100, Type: model.TypeExpense, Category: "gone",
			AccountID: "acc1", Date: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			Recurrence: &model.Recurrence{Frequency: model.FrequencyMonthly, Current: 2, Total: 3, ParentID: "p"},
		},
		{
			ID: "3", Title: "Salary", Amount: 3000, Type: model.TypeIncome, Category: "salary",
			AccountID: "bank", Date: time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}
	accounts := []model.Account{{ID: "acc1", Name: "Wallet"}}
	return BuildRows(txns, accounts, model.DefaultCategories())
}

func TestBuildRows(t *testing.T) {
	rows := fixture()
	require.Len(t, rows, 3)

	assert.Equal(t, "2024-03-10", rows[0].Date)
	assert.Equal(t, "gone", rows[0].Category, "unknown category ids are kept")
	assert.Equal(t, "monthly 2/3", rows[0].Recurrence)
	assert.InDelta(t, -100, rows[0].Signed, 1e-9)

	assert.Equal(t, "Food", rows[1].Category)
	assert.Equal(t, "Wallet", rows[1].Account)
	assert.Empty(t, rows[1].Recurrence)

	assert.Equal(t, "bank", rows[2].Account)
	assert.InDelta(t, 3000, rows[2].Signed, 1e-9)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fixture()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, headers, records[0])
	assert.Equal(t, []string{"2024-03-01", "Lunch", "expense", "Food", "Wallet", "12.50", "-12.50", ""}, records[2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, fixture()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, headers, rows[0])
	assert.Equal(t, "Salary", rows[3][1])

	amount, err := f.GetCellValue(SheetName, "F4")
	require.NoError(t, err)
	assert.Equal(t, "3000", amount)
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Date,Title,Type,Category,Account,Amount,Signed Amount,Recurrence\n", buf.String())
}
