// Package testutil provides helpers shared by the ledger tests: an isolated
// in-memory record store, a deterministic ledger, and fixture builders.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// TestPIN is the PIN used by RegisteredLedger.
const TestPIN = "12345678"

// Now is the instant returned by the default test clock.
var Now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

// NewRecordStore creates a migrated in-memory SQLite record store that is
// closed when the test ends.
func NewRecordStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// FixedClock returns a clock frozen at at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// NewLedger creates a ledger over a fresh record store with a frozen clock,
// sequential ids, a silent logger and the cheapest bcrypt cost. Extra options
// are applied last.
func NewLedger(t *testing.T, opts ...ledger.Option) *ledger.Store {
	t.Helper()

	defaults := []ledger.Option{
		ledger.WithClock(FixedClock(Now)),
		ledger.WithIDGenerator(SequentialIDs("id")),
		ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		ledger.WithPINCost(bcrypt.MinCost),
	}

	l, err := ledger.New(context.Background(), NewRecordStore(t), append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	return l
}

// RegisteredLedger is NewLedger with a profile registered under TestPIN.
func RegisteredLedger(t *testing.T, opts ...ledger.Option) *ledger.Store {
	t.Helper()

	l := NewLedger(t, opts...)
	if err := l.RegisterUser(context.Background(), "tester", TestPIN); err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}
	return l
}
