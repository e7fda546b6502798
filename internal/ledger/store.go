// Package ledger is the system of record for the local finance data: the
// profile, accounts, categories, transactions and budgets.
//
// Every read decodes a fresh snapshot from the record store, so callers may
// mutate returned values freely. Every successful mutation notifies the
// subscribers exactly once, synchronously and in registration order, after
// the write has completed.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/Veraticus/ledger-flow/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Record keys. They match the names the browser build used for its storage.
const (
	KeyUser         = "finance_flow_user"
	KeyAccounts     = "finance_flow_accounts"
	KeyTransactions = "finance_flow_transactions"
	KeyCategories   = "finance_flow_categories"
	KeyBudgets      = "finance_flow_budgets"
)

// DefaultLookahead is the number of instances materialized for open-ended recurrences.
const DefaultLookahead = 24

// errSkipNotify lets a mutation finish successfully without notifying subscribers.
var errSkipNotify = errors.New("no change")

type listener struct {
	fn func()
	id int
}

// Store is the ledger. Construct one per process with New and share it.
type Store struct {
	records   service.RecordStore
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
	listeners []listener
	nextID    int
	lookahead int
	pinCost   int
	mu        sync.RWMutex
	listenMu  sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for budget months and export timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how entity ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithLogger sets the logger used for mutation and failure logs.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLookahead sets how many instances an open-ended recurrence materializes.
func WithLookahead(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.lookahead = n
		}
	}
}

// WithPINCost sets the bcrypt cost used when hashing PINs.
func WithPINCost(cost int) Option {
	return func(s *Store) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.pinCost = cost
		}
	}
}

// New creates a ledger over records, seeding the built-in categories on first run.
func New(ctx context.Context, records service.RecordStore, opts ...Option) (*Store, error) {
	if records == nil {
		return nil, fmt.Errorf("record store is required")
	}

	s := &Store{
		records:   records,
		now:       time.Now,
		newID:     uuid.NewString,
		logger:    slog.Default(),
		lookahead: DefaultLookahead,
		pinCost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.seedCategories(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) seedCategories(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok, err := s.records.Get(ctx, KeyCategories)
	if err != nil {
		return storageErr("read categories", err)
	}
	if ok {
		return nil
	}

	defaults := model.DefaultCategories()
	if err := s.write(ctx, map[string]any{KeyCategories: defaults}); err != nil {
		return err
	}
	s.logger.Info("seeded default categories", "count", len(defaults))
	return nil
}

// Subscribe registers fn and invokes it once immediately. The returned
// function removes fn; calling it more than once is harmless.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.listenMu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.listenMu.Unlock()

	fn()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenMu.Lock()
			defer s.listenMu.Unlock()
			s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
		})
	}
}

func (s *Store) notify() {
	s.listenMu.Lock()
	snapshot := slices.Clone(s.listeners)
	s.listenMu.Unlock()

	for _, l := range snapshot {
		l.fn()
	}
}

// mutate runs fn under the write lock and notifies subscribers once it succeeds.
// Listeners run after the lock is released so they can read the store.
func (s *Store) mutate(op string, fn func() error) error {
	s.mu.Lock()
	err := fn()
	s.mu.Unlock()

	if errors.Is(err, errSkipNotify) {
		return nil
	}
	if err != nil {
		s.logger.Debug("ledger mutation failed", "op", op, "error", err)
		return err
	}

	s.logger.Debug("ledger mutated", "op", op)
	s.notify()
	return nil
}

// load decodes the record under key into dst. It reports false when the record is absent.
func (s *Store) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.records.Get(ctx, key)
	if err != nil {
		return false, storageErr("read "+key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %w", common.ErrDatabaseCorrupted, key, err)
	}
	return true, nil
}

// write encodes and persists every value in one atomic Put.
func (s *Store) write(ctx context.Context, values map[string]any) error {
	records := make(map[string][]byte, len(values))
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		records[key] = raw
	}
	if err := s.records.Put(ctx, records); err != nil {
		return storageErr("write records", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	if common.IsStorageUnavailable(err) {
		return err
	}
	return common.StorageError(op, err)
}

func (s *Store) user(ctx context.Context) (*model.UserProfile, error) {
	var user *model.UserProfile
	if _, err := s.load(ctx, KeyUser, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) accounts(ctx context.Context) ([]model.Account, error) {
	accounts := []model.Account{}
	if _, err := s.load(ctx, KeyAccounts, &accounts); err != nil {
		return nil, err
	}
	return nonNil(accounts), nil
}

func (s *Store) transactions(ctx context.Context) ([]model.Transaction, error) {
	txns := []model.Transaction{}
	if _, err := s.load(ctx, KeyTransactions, &txns); err != nil {
		return nil, err
	}
	return nonNil(txns), nil
}

func (s *Store) categories(ctx context.Context) ([]model.CategoryItem, error) {
	cats := []model.CategoryItem{}
	if _, err := s.load(ctx, KeyCategories, &cats); err != nil {
		return nil, err
	}
	return nonNil(cats), nil
}

func (s *Store) budgets(ctx context.Context) ([]model.Budget, error) {
	budgets := []model.Budget{}
	if _, err := s.load(ctx, KeyBudgets, &budgets); err != nil {
		return nil, err
	}
	return nonNil(budgets), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
