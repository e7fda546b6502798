package ledger

import (
	"context"
	"slices"
	"strings"

	"github.com/Veraticus/ledger-flow/internal/model"
)

// GetCategories returns every category, built-in ones first in seed order.
func (s *Store) GetCategories(ctx context.Context) ([]model.CategoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories(ctx)
}

// AddCategory stores a custom category under a fresh id and returns it.
func (s *Store) AddCategory(ctx context.Context, item model.CategoryItem) (model.CategoryItem, error) {
	if err := requireText(item.Label, "label"); err != nil {
		return model.CategoryItem{}, err
	}
	if !item.Type.Valid() {
		return model.CategoryItem{}, invalid("unknown category type %q", item.Type)
	}

	item.ID = "custom_" + s.newID()
	item.Label = strings.TrimSpace(item.Label)
	item.IsCustom = true

	err := s.mutate("add category", func() error {
		cats, err := s.categories(ctx)
		if err != nil {
			return err
		}
		return s.write(ctx, map[string]any{KeyCategories: append(cats, item)})
	})
	if err != nil {
		return model.CategoryItem{}, err
	}
	return item, nil
}

// DeleteCategory removes a custom category. Transactions that referenced it
// move to the "other" category and budgets stop aggregating it.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if model.IsBuiltinCategory(id) {
		return ErrBuiltinCategory
	}

	return s.mutate("delete category", func() error {
		cats, err := s.categories(ctx)
		if err != nil {
			return err
		}
		txns, err := s.transactions(ctx)
		if err != nil {
			return err
		}
		budgets, err := s.budgets(ctx)
		if err != nil {
			return err
		}

		cats = slices.DeleteFunc(cats, func(c model.CategoryItem) bool { return c.ID == id })

		reassigned := 0
		for i := range txns {
			if txns[i].Category == id {
				txns[i].Category = model.CategoryOther
				reassigned++
			}
		}
		for i := range budgets {
			budgets[i].CategoryIDs = slices.DeleteFunc(budgets[i].CategoryIDs, func(c string) bool { return c == id })
		}

		if reassigned > 0 {
			s.logger.Info("reassigned transactions from deleted category",
				"category", id,
				"count", reassigned)
		}

		return s.write(ctx, map[string]any{
			KeyCategories:   cats,
			KeyTransactions: txns,
			KeyBudgets:      budgets,
		})
	})
}

func findCategory(cats []model.CategoryItem, id string) (model.CategoryItem, bool) {
	for _, c := range cats {
		if c.ID == id {
			return c, true
		}
	}
	return model.CategoryItem{}, false
}
