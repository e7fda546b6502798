package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/ledger-flow/internal/model"
)

// backupEnvelope mirrors model.BackupPayload with pointers so absent keys
// can be told apart from empty ones.
type backupEnvelope struct {
	User         *model.UserProfile    `json:"user"`
	Transactions *[]model.Transaction  `json:"transactions"`
	Accounts     *[]model.Account      `json:"accounts"`
	Budgets      *[]model.Budget       `json:"budgets"`
	Categories   *[]model.CategoryItem `json:"categories"`
}

// ExportData serializes the whole dataset as a backup payload.
func (s *Store) ExportData(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	payload, err := s.snapshot(ctx)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

func (s *Store) snapshot(ctx context.Context) (model.BackupPayload, error) {
	user, err := s.user(ctx)
	if err != nil {
		return model.BackupPayload{}, err
	}
	txns, err := s.transactions(ctx)
	if err != nil {
		return model.BackupPayload{}, err
	}
	accounts, err := s.accounts(ctx)
	if err != nil {
		return model.BackupPayload{}, err
	}
	budgets, err := s.budgets(ctx)
	if err != nil {
		return model.BackupPayload{}, err
	}
	cats, err := s.categories(ctx)
	if err != nil {
		return model.BackupPayload{}, err
	}

	return model.BackupPayload{
		Timestamp:    s.now().UTC(),
		User:         user,
		Transactions: txns,
		Accounts:     accounts,
		Budgets:      budgets,
		Categories:   cats,
	}, nil
}

// ImportData replaces every collection with the contents of a backup
// payload. It reports false, leaving the stored data untouched, when the
// payload cannot be parsed or lacks the user or transactions key. Missing
// accounts, budgets and categories become empty collections. The returned
// error is reserved for storage failures.
func (s *Store) ImportData(ctx context.Context, data []byte) (bool, error) {
	var env backupEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("rejected backup", "reason", "malformed payload", "error", err)
		return false, nil
	}
	if env.User == nil || env.Transactions == nil {
		s.logger.Warn("rejected backup", "reason", "missing user or transactions")
		return false, nil
	}

	accounts := []model.Account{}
	if env.Accounts != nil {
		accounts = nonNil(*env.Accounts)
	}
	budgets := []model.Budget{}
	if env.Budgets != nil {
		budgets = nonNil(*env.Budgets)
	}
	cats := model.DefaultCategories()
	if env.Categories != nil {
		cats = withReservedCategories(nonNil(*env.Categories))
	}
	txns := nonNil(*env.Transactions)

	err := s.mutate("import backup", func() error {
		return s.write(ctx, map[string]any{
			KeyUser:         env.User,
			KeyTransactions: txns,
			KeyAccounts:     accounts,
			KeyBudgets:      budgets,
			KeyCategories:   cats,
		})
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("imported backup",
		"transactions", len(txns),
		"accounts", len(accounts),
		"budgets", len(budgets),
		"categories", len(cats))
	return true, nil
}

// withReservedCategories appends the built-in "other" and "transfer"
// categories when cats lacks them, since new transactions and transfers
// fall back to those ids.
func withReservedCategories(cats []model.CategoryItem) []model.CategoryItem {
	for _, def := range model.DefaultCategories() {
		if def.ID != model.CategoryOther && def.ID != model.CategoryTransfer {
			continue
		}
		if _, ok := findCategory(cats, def.ID); !ok {
			cats = append(cats, def)
		}
	}
	return cats
}
