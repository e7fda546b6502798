package ledger

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/Veraticus/ledger-flow/internal/model"
)

// Title prefixes of the two transfer legs.
const (
	TransferSentPrefix     = "Sent: "
	TransferReceivedPrefix = "Received: "
)

// GetTransactions returns the full collection in stored order (newest
// submissions first). Callers sort as they need.
func (s *Store) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions(ctx)
}

// AccountTransactions returns the transactions of one account, newest first.
// An empty typ returns every type.
func (s *Store) AccountTransactions(ctx context.Context, accountID string, typ model.TransactionType) ([]model.Transaction, error) {
	txns, err := s.GetTransactions(ctx)
	if err != nil {
		return nil, err
	}

	filtered := slices.DeleteFunc(txns, func(t model.Transaction) bool {
		return t.AccountID != accountID || (typ != "" && t.Type != typ)
	})
	sortNewestFirst(filtered)
	return filtered, nil
}

// AddTransaction stores draft, expanding it into a series when settings is
// non-nil. All generated instances are written at once and subscribers are
// notified once. The stored transactions are returned.
func (s *Store) AddTransaction(ctx context.Context, draft model.Transaction, settings *model.RecurrenceSettings) ([]model.Transaction, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	draft.Title = strings.TrimSpace(draft.Title)

	var created []model.Transaction
	err := s.mutate("add transaction", func() error {
		accounts, err := s.accounts(ctx)
		if err != nil {
			return err
		}
		if !hasAccount(accounts, draft.AccountID) {
			return invalid("unknown account %q", draft.AccountID)
		}

		if draft.Type != model.TypeTransfer {
			cats, err := s.categories(ctx)
			if err != nil {
				return err
			}
			if draft.Category == "" {
				draft.Category = model.CategoryOther
			}
			if _, ok := findCategory(cats, draft.Category); !ok {
				return invalid("unknown category %q", draft.Category)
			}
		}

		generated, err := expand(draft, settings, s.newID, s.lookahead)
		if err != nil {
			return err
		}

		current, err := s.transactions(ctx)
		if err != nil {
			return err
		}
		if err := s.write(ctx, map[string]any{KeyTransactions: append(generated, current...)}); err != nil {
			return err
		}
		created = generated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddTransfer appends the expense leg on the source account and the income
// leg on the destination account in one write. Both legs share a TransferID.
func (s *Store) AddTransfer(ctx context.Context, req model.TransferRequest) ([]model.Transaction, error) {
	if err := requireText(req.Title, "title"); err != nil {
		return nil, err
	}
	if err := requirePositive(req.Amount, "amount"); err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, invalid("date is required")
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, invalid("source and destination accounts must differ")
	}

	title := strings.TrimSpace(req.Title)
	var legs []model.Transaction
	err := s.mutate("add transfer", func() error {
		accounts, err := s.accounts(ctx)
		if err != nil {
			return err
		}
		for _, id := range []string{req.FromAccountID, req.ToAccountID} {
			if !hasAccount(accounts, id) {
				return invalid("unknown account %q", id)
			}
		}

		transferID := s.newID()
		date := req.Date.UTC()
		legs = []model.Transaction{
			{
				ID:                   s.newID(),
				Title:                TransferSentPrefix + title,
				Amount:               req.Amount,
				Date:                 date,
				Type:                 model.TypeExpense,
				Category:             model.CategoryTransfer,
				AccountID:            req.FromAccountID,
				DestinationAccountID: req.ToAccountID,
				TransferID:           transferID,
			},
			{
				ID:         s.newID(),
				Title:      TransferReceivedPrefix + title,
				Amount:     req.Amount,
				Date:       date,
				Type:       model.TypeIncome,
				Category:   model.CategoryTransfer,
				AccountID:  req.ToAccountID,
				TransferID: transferID,
			},
		}

		current, err := s.transactions(ctx)
		if err != nil {
			return err
		}
		return s.write(ctx, map[string]any{KeyTransactions: append(slices.Clone(legs), current...)})
	})
	if err != nil {
		return nil, err
	}
	return legs, nil
}

// DeleteTransaction removes the single transaction with id. Recurrence
// siblings and transfer legs are left alone.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.mutate("delete transaction", func() error {
		txns, err := s.transactions(ctx)
		if err != nil {
			return err
		}
		txns = slices.DeleteFunc(txns, func(t model.Transaction) bool { return t.ID == id })
		return s.write(ctx, map[string]any{KeyTransactions: txns})
	})
}

// DeleteTransfer removes both legs of the transfer identified by transferID.
func (s *Store) DeleteTransfer(ctx context.Context, transferID string) error {
	if err := requireText(transferID, "transfer id"); err != nil {
		return err
	}

	return s.mutate("delete transfer", func() error {
		txns, err := s.transactions(ctx)
		if err != nil {
			return err
		}
		txns = slices.DeleteFunc(txns, func(t model.Transaction) bool { return t.TransferID == transferID })
		return s.write(ctx, map[string]any{KeyTransactions: txns})
	})
}

// ImportStatement appends externally parsed transactions to accountID in one
// write. Drafts whose ExternalID is already stored are skipped; drafts with
// unknown or missing categories fall back to "other". It returns how many
// transactions were added.
func (s *Store) ImportStatement(ctx context.Context, accountID string, drafts []model.Transaction) (int, error) {
	for i, d := range drafts {
		d.AccountID = accountID
		if err := validateDraft(d); err != nil {
			return 0, invalid("statement row %d: %v", i, err)
		}
		if d.Type == model.TypeTransfer {
			return 0, invalid("statement row %d: transfers cannot be imported", i)
		}
	}

	added := 0
	err := s.mutate("import statement", func() error {
		accounts, err := s.accounts(ctx)
		if err != nil {
			return err
		}
		if !hasAccount(accounts, accountID) {
			return invalid("unknown account %q", accountID)
		}
		cats, err := s.categories(ctx)
		if err != nil {
			return err
		}
		current, err := s.transactions(ctx)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(current))
		for _, t := range current {
			if t.ExternalID != "" {
				seen[t.ExternalID] = true
			}
		}

		fresh := make([]model.Transaction, 0, len(drafts))
		for _, d := range drafts {
			if d.ExternalID != "" && seen[d.ExternalID] {
				continue
			}
			if _, ok := findCategory(cats, d.Category); !ok {
				d.Category = model.CategoryOther
			}
			d.ID = s.newID()
			d.AccountID = accountID
			d.Date = d.Date.UTC()
			d.Title = strings.TrimSpace(d.Title)
			d.Recurrence = nil
			fresh = append(fresh, d)
			if d.ExternalID != "" {
				seen[d.ExternalID] = true
			}
		}

		added = len(fresh)
		s.logger.Info("imported statement",
			"account", accountID,
			"added", added,
			"skipped", len(drafts)-added)
		return s.write(ctx, map[string]any{KeyTransactions: append(fresh, current...)})
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func validateDraft(t model.Transaction) error {
	if err := requireText(t.Title, "title"); err != nil {
		return err
	}
	if err := requirePositive(t.Amount, "amount"); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return invalid("unknown transaction type %q", t.Type)
	}
	if err := requireText(t.AccountID, "account"); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return invalid("date is required")
	}
	return nil
}

func sortNewestFirst(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
}
