package ledger_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/Veraticus/ledger-flow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populated(t *testing.T) (*ledger.Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	l := testutil.RegisteredLedger(t)

	bank, err := l.AddAccount(ctx, model.Account{Name: "Bank", Type: model.AccountBank, Color: "#0ea5e9"})
	require.NoError(t, err)
	pets, err := l.AddCategory(ctx, model.CategoryItem{Label: "Pets", Type: model.CategoryTypeExpense})
	require.NoError(t, err)
	_, err = l.AddTransaction(ctx, testutil.Income("Salary", 3000, testutil.Day(2024, time.March, 1)), nil)
	require.NoError(t, err)
	_, err = l.AddTransaction(ctx, testutil.Expense("Vet", 120, testutil.Day(2024, time.March, 3), pets.ID),
		&model.RecurrenceSettings{Frequency: model.FrequencyMonthly, Count: 2})
	require.NoError(t, err)
	_, err = l.AddTransfer(ctx, model.TransferRequest{
		FromAccountID: model.DefaultAccountID, ToAccountID: bank.ID, Amount: 500, Date: testutil.Now, Title: "save",
	})
	require.NoError(t, err)
	_, err = l.SetBudget(ctx, model.Budget{Name: "Pets", Limit: 100, CategoryIDs: []string{pets.ID}, IsLocked: true})
	require.NoError(t, err)

	return l, ctx
}

func TestExportData(t *testing.T) {
	l, ctx := populated(t)

	data, err := l.ExportData(ctx)
	require.NoError(t, err)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &payload))
	for _, key := range []string{"transactions", "accounts", "budgets", "categories", "user", "timestamp"} {
		assert.Contains(t, payload, key)
	}

	var decoded model.BackupPayload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, testutil.Now.Equal(decoded.Timestamp))
	assert.Len(t, decoded.Transactions, 5)
	assert.Equal(t, "tester", decoded.User.Username)
}

func TestExportImportRoundTrip(t *testing.T) {
	source, ctx := populated(t)
	data, err := source.ExportData(ctx)
	require.NoError(t, err)

	target := testutil.NewLedger(t)
	calls := 0
	target.Subscribe(func() { calls++ })

	ok, err := target.ImportData(ctx, data)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, calls)

	wantTxns, err := source.GetTransactions(ctx)
	require.NoError(t, err)
	gotTxns, err := target.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantTxns, gotTxns)

	wantAccounts, err := source.GetAccounts(ctx)
	require.NoError(t, err)
	gotAccounts, err := target.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantAccounts, gotAccounts)

	wantBudgets, err := source.GetBudgets(ctx)
	require.NoError(t, err)
	gotBudgets, err := target.GetBudgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantBudgets, gotBudgets)

	wantCats, err := source.GetCategories(ctx)
	require.NoError(t, err)
	gotCats, err := target.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantCats, gotCats)

	wantUser, err := source.GetUser(ctx)
	require.NoError(t, err)
	gotUser, err := target.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, wantUser, gotUser)

	loggedIn, err := target.Login(ctx, testutil.TestPIN)
	require.NoError(t, err)
	assert.True(t, loggedIn)
}

func TestImportData_Rejects(t *testing.T) {
	tests := map[string]string{
		"not json":             `{"user":`,
		"missing user":         `{"transactions":[]}`,
		"null user":            `{"user":null,"transactions":[]}`,
		"missing transactions": `{"user":{"username":"x","pin":"12345678"}}`,
		"wrong shape":          `{"user":{"username":"x"},"transactions":{"id":"1"}}`,
		"array":                `[]`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			l, ctx := populated(t)
			before, err := l.ExportData(ctx)
			require.NoError(t, err)

			calls := 0
			l.Subscribe(func() { calls++ })

			ok, err := l.ImportData(ctx, []byte(payload))
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, 1, calls, "rejected imports do not notify")

			after, err := l.ExportData(ctx)
			require.NoError(t, err)
			assert.JSONEq(t, string(before), string(after))
		})
	}
}

func TestImportData_MissingOptionalCollections(t *testing.T) {
	l, ctx := populated(t)

	ok, err := l.ImportData(ctx, []byte(`{"user":{"username":"min","pin":"12345678"},"transactions":[]}`))
	require.NoError(t, err)
	require.True(t, ok)

	accounts, err := l.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	budgets, err := l.GetBudgets(ctx)
	require.NoError(t, err)
	assert.Empty(t, budgets)
	cats, err := l.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategories(), cats)
	txns, err := l.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)

	user, err := l.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "min", user.Username)
}

func TestImportData_KeepsReservedCategories(t *testing.T) {
	wallet := `{"id":"acc1","name":"Wallet","type":"wallet","color":"#000000","balance":0}`
	bank := `{"id":"bank","name":"Bank","type":"bank","color":"#000000","balance":0}`
	tests := map[string]struct {
		categories string
		want       []string
	}{
		"absent":      {categories: "", want: nil},
		"empty":       {categories: `,"categories":[]`, want: []string{model.CategoryTransfer, model.CategoryOther}},
		"custom only": {categories: `,"categories":[{"id":"pets","label":"Pets","color":"#111111","type":"expense"}]`, want: []string{"pets", model.CategoryTransfer, model.CategoryOther}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			l, ctx := populated(t)
			payload := `{"user":{"username":"min","pin":"12345678"},"transactions":[],"accounts":[` +
				wallet + `,` + bank + `]` + tc.categories + `}`

			ok, err := l.ImportData(ctx, []byte(payload))
			require.NoError(t, err)
			require.True(t, ok)

			if tc.want != nil {
				cats, err := l.GetCategories(ctx)
				require.NoError(t, err)
				ids := make([]string, 0, len(cats))
				for _, c := range cats {
					ids = append(ids, c.ID)
				}
				assert.Equal(t, tc.want, ids)
			}

			created, err := l.AddTransaction(ctx, testutil.Expense("Snack", 3, testutil.Day(2024, time.March, 2), ""), nil)
			require.NoError(t, err)
			require.Len(t, created, 1)
			assert.Equal(t, model.CategoryOther, created[0].Category)

			_, err = l.AddTransfer(ctx, model.TransferRequest{
				FromAccountID: model.DefaultAccountID,
				ToAccountID:   "bank",
				Amount:        10,
				Date:          testutil.Day(2024, time.March, 2),
				Title:         "move",
			})
			require.NoError(t, err)
		})
	}
}
