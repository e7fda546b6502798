package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/Veraticus/ledger-flow/internal/model"
)

// GetAccounts returns every account with its balance recomputed from the full
// transaction set. The cost is accounts × transactions, which is fine at
// personal-finance scale.
func (s *Store) GetAccounts(ctx context.Context) ([]model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts, err := s.accounts(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.transactions(ctx)
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		accounts[i].Balance = balanceOf(accounts[i].ID, txns)
	}
	return accounts, nil
}

// GetAccount returns one account with its derived balance.
func (s *Store) GetAccount(ctx context.Context, id string) (model.Account, error) {
	accounts, err := s.GetAccounts(ctx)
	if err != nil {
		return model.Account{}, err
	}
	for _, acc := range accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return model.Account{}, fmt.Errorf("account %q: %w", id, common.ErrNotFound)
}

// AddAccount stores a new account under a fresh id and returns it.
func (s *Store) AddAccount(ctx context.Context, acc model.Account) (model.Account, error) {
	if err := requireText(acc.Name, "account name"); err != nil {
		return model.Account{}, err
	}
	if acc.Type == "" {
		acc.Type = model.AccountOther
	}
	if !acc.Type.Valid() {
		return model.Account{}, invalid("unknown account type %q", acc.Type)
	}

	acc.ID = s.newID()
	acc.Name = strings.TrimSpace(acc.Name)
	acc.Balance = 0

	err := s.mutate("add account", func() error {
		accounts, err := s.accounts(ctx)
		if err != nil {
			return err
		}
		return s.write(ctx, map[string]any{KeyAccounts: append(accounts, acc)})
	})
	if err != nil {
		return model.Account{}, err
	}
	return acc, nil
}

// balanceOf sums income minus expense over the transactions owned by accountID.
func balanceOf(accountID string, txns []model.Transaction) float64 {
	var balance float64
	for _, t := range txns {
		if t.AccountID == accountID {
			balance += t.SignedAmount()
		}
	}
	return balance
}

func hasAccount(accounts []model.Account, id string) bool {
	for _, acc := range accounts {
		if acc.ID == id {
			return true
		}
	}
	return false
}
