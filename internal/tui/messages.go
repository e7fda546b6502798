package tui

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// Source is the slice of the ledger the dashboard reads.
type Source interface {
	Subscribe(fn func()) func()
	GetUser(ctx context.Context) (*model.UserProfile, error)
	GetAccounts(ctx context.Context) ([]model.Account, error)
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	BudgetProgress(ctx context.Context) ([]model.BudgetAlert, error)
	Report(ctx context.Context, anchor time.Time, period ledger.Period) (ledger.PeriodReport, error)
	ExpensesByCategory(ctx context.Context, from, to time.Time) ([]ledger.CategoryTotal, error)
}

// snapshot is everything one frame renders.
type snapshot struct {
	user         *model.UserProfile
	report       ledger.PeriodReport
	accounts     []model.Account
	transactions []model.Transaction
	budgets      []model.BudgetAlert
	categories   []ledger.CategoryTotal
	netWorth     float64
}

type snapshotMsg struct {
	err  error
	snap snapshot
}

// changedMsg reports that the ledger was mutated.
type changedMsg struct{}

func loadSnapshot(ctx context.Context, src Source, anchor time.Time, period ledger.Period) tea.Cmd {
	return func() tea.Msg {
		snap, err := readSnapshot(ctx, src, anchor, period)
		return snapshotMsg{snap: snap, err: err}
	}
}

func readSnapshot(ctx context.Context, src Source, anchor time.Time, period ledger.Period) (snapshot, error) {
	var snap snapshot
	var err error

	if snap.user, err = src.GetUser(ctx); err != nil {
		return snap, err
	}
	if snap.accounts, err = src.GetAccounts(ctx); err != nil {
		return snap, err
	}
	for _, a := range snap.accounts {
		snap.netWorth += a.Balance
	}
	if snap.report, err = src.Report(ctx, anchor, period); err != nil {
		return snap, err
	}
	if snap.budgets, err = src.BudgetProgress(ctx); err != nil {
		return snap, err
	}
	if snap.categories, err = src.ExpensesByCategory(ctx, snap.report.Start, snap.report.End); err != nil {
		return snap, err
	}

	txns, err := src.GetTransactions(ctx)
	if err != nil {
		return snap, err
	}
	snap.transactions = slices.DeleteFunc(txns, func(t model.Transaction) bool {
		return t.Date.Before(snap.report.Start) || !t.Date.Before(snap.report.End)
	})
	slices.SortStableFunc(snap.transactions, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return snap, nil
}

// watch subscribes to src and returns a channel that receives a value after
// every mutation. Bursts collapse into one pending signal. The stop function
// unsubscribes and closes the channel so a pending waitForChange returns.
func watch(src Source) (<-chan struct{}, func()) {
	changes := make(chan struct{}, 1)

	var (
		mu     sync.Mutex
		closed bool
	)
	unsubscribe := src.Subscribe(func() {
		// A notification already in flight may arrive after stop.
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	// Subscribe fires once immediately; the first load covers it.
	select {
	case <-changes:
	default:
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			unsubscribe()
			mu.Lock()
			closed = true
			close(changes)
			mu.Unlock()
		})
	}
	return changes, stop
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}
