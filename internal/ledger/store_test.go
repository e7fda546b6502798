package ledger_test

import (
	"context"
	"testing"

	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/Veraticus/ledger-flow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresRecordStore(t *testing.T) {
	_, err := ledger.New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNew_SeedsCategoriesOnce(t *testing.T) {
	ctx := context.Background()
	records := testutil.NewRecordStore(t)

	first, err := ledger.New(ctx, records, ledger.WithIDGenerator(testutil.SequentialIDs("a")))
	require.NoError(t, err)
	_, err = first.AddCategory(ctx, model.CategoryItem{Label: "Pets", Type: model.CategoryTypeExpense})
	require.NoError(t, err)

	second, err := ledger.New(ctx, records)
	require.NoError(t, err)
	cats, err := second.GetCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(model.DefaultCategories())+1)
}

func TestNew_CorruptedRecord(t *testing.T) {
	ctx := context.Background()
	records := testutil.NewRecordStore(t)
	require.NoError(t, records.Put(ctx, map[string][]byte{
		ledger.KeyCategories: []byte(`{"not":"a list"}`),
	}))

	l, err := ledger.New(ctx, records)
	require.NoError(t, err)

	_, err = l.GetCategories(ctx)
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
}

func TestStorageFailuresAreDistinguishable(t *testing.T) {
	ctx := context.Background()
	records := testutil.NewRecordStore(t)
	l, err := ledger.New(ctx, records)
	require.NoError(t, err)

	require.NoError(t, records.Close())

	_, err = l.GetTransactions(ctx)
	require.Error(t, err)
	assert.True(t, common.IsStorageUnavailable(err))
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	l := testutil.RegisteredLedger(t)

	calls := 0
	unsubscribe := l.Subscribe(func() { calls++ })
	assert.Equal(t, 1, calls, "subscribe delivers current state immediately")

	_, err := l.AddTransaction(ctx, testutil.Expense("Rent", 900, testutil.Now, "housing"),
		&model.RecurrenceSettings{Frequency: model.FrequencyMonthly, IsInfinite: true})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "one notification per call regardless of generated instances")

	_, err = l.AddTransaction(ctx, testutil.Expense("", 10, testutil.Now, "food"), nil)
	require.Error(t, err)
	assert.Equal(t, 2, calls, "failed mutations do not notify")

	unsubscribe()
	unsubscribe()

	_, err = l.AddTransaction(ctx, testutil.Expense("Lunch", 10, testutil.Now, "food"), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestSubscribe_RegistrationOrder(t *testing.T) {
	ctx := context.Background()
	l := testutil.RegisteredLedger(t)

	var order []string
	l.Subscribe(func() { order = append(order, "a") })
	l.Subscribe(func() { order = append(order, "b") })
	order = nil

	_, err := l.AddAccount(ctx, model.Account{Name: "Bank", Type: model.AccountBank})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestSubscribe_ListenerCanRead(t *testing.T) {
	ctx := context.Background()
	l := testutil.RegisteredLedger(t)

	var seen int
	l.Subscribe(func() {
		txns, err := l.GetTransactions(ctx)
		require.NoError(t, err)
		seen = len(txns)
	})

	_, err := l.AddTransaction(ctx, testutil.Income("Salary", 3000, testutil.Now), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestSnapshotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	l := testutil.RegisteredLedger(t)

	accounts, err := l.GetAccounts(ctx)
	require.NoError(t, err)
	accounts[0].Name = "mutated"

	again, err := l.GetAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Wallet", again[0].Name)
}
