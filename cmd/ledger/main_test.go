package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPIN = "12345678"

// cliEnv points the command tree at a fresh database under a temporary home.
func cliEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	dbPath := filepath.Join(home, "ledger.db")
	t.Setenv("HOME", home)
	t.Setenv("LEDGER_DATABASE_PATH", dbPath)
	t.Setenv("LEDGER_SECURITY_PIN_COST", "4")
	t.Setenv("LEDGER_LOGGING_LEVEL", "error")
	return home
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, "", args...)
	require.NoError(t, err, "ledger %s", strings.Join(args, " "))
	return out
}

func registered(t *testing.T) string {
	t.Helper()
	home := cliEnv(t)
	mustExecute(t, "register", "tester", "--pin", testPIN)
	return home
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	tests := []struct {
		path []string
	}{
		{[]string{"register"}},
		{[]string{"login"}},
		{[]string{"profile", "show"}},
		{[]string{"profile", "update"}},
		{[]string{"accounts", "list"}},
		{[]string{"accounts", "add"}},
		{[]string{"accounts", "show"}},
		{[]string{"categories", "list"}},
		{[]string{"categories", "add"}},
		{[]string{"categories", "delete"}},
		{[]string{"tx", "list"}},
		{[]string{"tx", "add"}},
		{[]string{"tx", "transfer"}},
		{[]string{"tx", "delete"}},
		{[]string{"budgets", "list"}},
		{[]string{"budgets", "set"}},
		{[]string{"budgets", "delete"}},
		{[]string{"budgets", "lock"}},
		{[]string{"budgets", "unlock"}},
		{[]string{"budgets", "alerts"}},
		{[]string{"report", "summary"}},
		{[]string{"report", "period"}},
		{[]string{"report", "categories"}},
		{[]string{"backup", "export"}},
		{[]string{"backup", "import"}},
		{[]string{"export", "csv"}},
		{[]string{"export", "xlsx"}},
		{[]string{"import", "ofx"}},
		{[]string{"dashboard"}},
		{[]string{"migrate"}},
		{[]string{"version"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.path, " "), func(t *testing.T) {
			cmd, rest, err := root.Find(tt.path)
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, tt.path[len(tt.path)-1], cmd.Name())
		})
	}
}

func TestAddTxCmd_Flags(t *testing.T) {
	cmd := addTxCmd()

	tests := []struct {
		name     string
		defValue string
	}{
		{"type", "expense"},
		{"account", "acc1"},
		{"category", ""},
		{"repeat", ""},
		{"count", "0"},
		{"infinite", "false"},
	}
	for _, tt := range tests {
		flag := cmd.Flag(tt.name)
		require.NotNil(t, flag, "flag %s should exist", tt.name)
		assert.Equal(t, tt.defValue, flag.DefValue)
	}
}

func TestVersion(t *testing.T) {
	cliEnv(t)
	out := mustExecute(t, "version")
	assert.Contains(t, out, "ledger version dev")
}

func TestPINGate(t *testing.T) {
	t.Run("no profile", func(t *testing.T) {
		cliEnv(t)
		_, err := execute(t, "", "accounts", "list", "--pin", testPIN)
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrNotRegistered)
	})

	t.Run("wrong pin", func(t *testing.T) {
		registered(t)
		_, err := execute(t, "", "accounts", "list", "--pin", "87654321")
		assert.ErrorIs(t, err, common.ErrWrongPIN)
	})

	t.Run("prompted pin", func(t *testing.T) {
		registered(t)
		out, err := execute(t, testPIN+"\n", "login")
		require.NoError(t, err)
		assert.Contains(t, out, "Welcome back")
		assert.Contains(t, out, "tester")
	})

	t.Run("register twice", func(t *testing.T) {
		registered(t)
		_, err := execute(t, "", "register", "other", "--pin", testPIN)
		assert.ErrorContains(t, err, "already registered")
	})
}

func TestRegister_SeedsWallet(t *testing.T) {
	registered(t)

	out := mustExecute(t, "accounts", "list", "--pin", testPIN)
	assert.Contains(t, out, "acc1")
	assert.Contains(t, out, "Wallet")
	assert.Contains(t, out, "Net worth")
}

func TestTransactionsAndReports(t *testing.T) {
	registered(t)

	mustExecute(t, "tx", "add", "Salary", "3000", "--type", "income", "--category", "salary", "--date", "2024-03-01", "--pin", testPIN)
	mustExecute(t, "tx", "add", "Groceries", "54.20", "--category", "Food", "--date", "2024-03-05", "--pin", testPIN)
	out := mustExecute(t, "tx", "add", "Laptop", "1200", "--repeat", "monthly", "--count", "3", "--category", "shopping", "--date", "2024-03-10", "--pin", testPIN)
	assert.Contains(t, out, "Recorded 3 instances of Laptop")

	out = mustExecute(t, "tx", "list", "--limit", "0", "--pin", testPIN)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "Laptop (1/3)")
	assert.Contains(t, out, "Laptop (3/3)")

	out = mustExecute(t, "report", "summary", "--from", "2024-03-01", "--to", "2024-03-31", "--pin", testPIN)
	assert.Contains(t, out, "3,000.00")
	assert.Contains(t, out, "454.20")

	out = mustExecute(t, "report", "period", "--date", "2024-03-15", "--pin", testPIN)
	assert.Contains(t, out, "March 2024")
	assert.Contains(t, out, "2024-03-05")

	out = mustExecute(t, "report", "period", "--period", "semester", "--date", "2024-03-15", "--offset", "1", "--pin", testPIN)
	assert.Contains(t, out, "H2 2024")
	assert.Contains(t, out, "No activity")

	out = mustExecute(t, "report", "categories", "--from", "2024-03-01", "--to", "2024-03-31", "--pin", testPIN)
	assert.Contains(t, out, "Shopping")
	assert.Contains(t, out, "Food")
	assert.Less(t, strings.Index(out, "Shopping"), strings.Index(out, "Food"))
}

func TestTxAdd_UnknownAccountSuggests(t *testing.T) {
	registered(t)

	_, err := execute(t, "", "tx", "add", "Coffee", "3", "--account", "walet", "--pin", testPIN)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, err.Error(), "did you mean")
	assert.Contains(t, err.Error(), "Wallet")
}

func TestTxAdd_CountWithoutRepeat(t *testing.T) {
	registered(t)

	_, err := execute(t, "", "tx", "add", "Coffee", "3", "--count", "2", "--pin", testPIN)
	assert.ErrorContains(t, err, "--repeat")
}

func TestTransferAndBudgets(t *testing.T) {
	registered(t)

	out := mustExecute(t, "accounts", "add", "Savings", "--pin", testPIN)
	assert.Contains(t, out, `Created account "Savings"`)

	out = mustExecute(t, "tx", "transfer", "100", "--from", "acc1", "--to", "savings", "--pin", testPIN)
	assert.Contains(t, out, "Transferred 100.00")

	out = mustExecute(t, "accounts", "show", "Savings", "--pin", testPIN)
	assert.Contains(t, out, "+100.00")
	assert.Contains(t, out, "Received: Transfer")

	today := time.Now().Format(dateLayout)
	mustExecute(t, "budgets", "set", "Eating out", "50", "--categories", "food", "--pin", testPIN)
	mustExecute(t, "tx", "add", "Dinner", "54.20", "--category", "food", "--date", today, "--pin", testPIN)

	out = mustExecute(t, "budgets", "alerts", "--pin", testPIN)
	assert.Contains(t, out, "Eating out is over by 4.20")

	out = mustExecute(t, "budgets", "list", "--pin", testPIN)
	assert.Contains(t, out, "Eating out")
	assert.Contains(t, out, "monthly")
}

func TestCategoriesDelete(t *testing.T) {
	registered(t)

	_, err := execute(t, "", "categories", "delete", "food", "--pin", testPIN)
	assert.ErrorContains(t, err, "built-in")

	out := mustExecute(t, "categories", "add", "Pets", "--pin", testPIN)
	assert.Contains(t, out, `Created category "Pets"`)

	out = mustExecute(t, "categories", "delete", "Pets", "--pin", testPIN)
	assert.Contains(t, out, "Deleted category custom_")

	out = mustExecute(t, "categories", "list", "--pin", testPIN)
	assert.NotContains(t, out, "Pets")
}

func TestBackupRoundTrip(t *testing.T) {
	home := registered(t)
	backup := filepath.Join(home, "backup.json")

	mustExecute(t, "tx", "add", "Rent", "950", "--category", "housing", "--date", "2024-03-01", "--pin", testPIN)
	mustExecute(t, "backup", "export", backup, "--pin", testPIN)

	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user"`)
	assert.Contains(t, string(data), `"Rent"`)

	// restore into a second, empty database without a PIN
	t.Setenv("LEDGER_DATABASE_PATH", filepath.Join(home, "restored.db"))
	out := mustExecute(t, "backup", "import", backup)
	assert.Contains(t, out, "Backup restored")

	out = mustExecute(t, "tx", "list", "--pin", testPIN)
	assert.Contains(t, out, "Rent")

	_, err = execute(t, "not json", "backup", "import", "-", "--pin", testPIN)
	assert.ErrorContains(t, err, "backup rejected")

	// stdin holds the payload, so the PIN has to come from the flag
	_, err = execute(t, `{"user":{"username":"x"},"transactions":[]}`, "backup", "import")
	assert.ErrorContains(t, err, "--pin")
	out = mustExecute(t, "tx", "list", "--pin", testPIN)
	assert.Contains(t, out, "Rent")

	snapshots, err := filepath.Glob(filepath.Join(home, "restored.db.import-*.bak"))
	require.NoError(t, err)
	assert.Len(t, snapshots, 1)
}

func TestExportCSV(t *testing.T) {
	registered(t)
	mustExecute(t, "tx", "add", "Groceries", "54.20", "--category", "food", "--date", "2024-03-05", "--pin", testPIN)

	out := mustExecute(t, "export", "csv", "--pin", testPIN)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Title,Type,Category,Account,Amount,Signed Amount,Recurrence", lines[0])
	assert.Equal(t, "2024-03-05,Groceries,expense,Food,Wallet,54.20,-54.20,", lines[1])
}

func TestMigrateStatus(t *testing.T) {
	registered(t)

	out := mustExecute(t, "migrate", "--status")
	assert.Contains(t, out, "Current version: 2")
	assert.Contains(t, out, "Latest version: 2")
	assert.Contains(t, out, "finance_flow_user")
}

func TestDateBounds(t *testing.T) {
	start, end, err := dateBounds("2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), end)

	start, end, err = dateBounds("", "")
	require.NoError(t, err)
	assert.True(t, start.IsZero())
	assert.True(t, end.IsZero())

	_, _, err = dateBounds("03/01/2024", "")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), got)
}
