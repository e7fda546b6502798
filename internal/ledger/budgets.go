package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/Veraticus/ledger-flow/internal/model"
)

// GetBudgets returns every budget in stored order.
func (s *Store) GetBudgets(ctx context.Context) ([]model.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budgets(ctx)
}

// SetBudget inserts budget, or replaces the stored budget with the same id.
// A budget without an id gets a fresh one. The stored value is returned.
func (s *Store) SetBudget(ctx context.Context, budget model.Budget) (model.Budget, error) {
	if err := requireText(budget.Name, "name"); err != nil {
		return model.Budget{}, err
	}
	if err := requirePositive(budget.Limit, "limit"); err != nil {
		return model.Budget{}, err
	}
	if len(budget.CategoryIDs) == 0 {
		return model.Budget{}, invalid("at least one category is required")
	}
	switch budget.Period {
	case "":
		budget.Period = model.BudgetPeriodMonthly
	case model.BudgetPeriodMonthly, model.BudgetPeriodYearly:
	default:
		return model.Budget{}, invalid("unknown budget period %q", budget.Period)
	}
	budget.Name = strings.TrimSpace(budget.Name)
	ids := slices.Clone(budget.CategoryIDs)
	slices.Sort(ids)
	budget.CategoryIDs = slices.Compact(ids)

	err := s.mutate("set budget", func() error {
		cats, err := s.categories(ctx)
		if err != nil {
			return err
		}
		for _, id := range budget.CategoryIDs {
			if _, ok := findCategory(cats, id); !ok {
				return invalid("unknown category %q", id)
			}
		}

		budgets, err := s.budgets(ctx)
		if err != nil {
			return err
		}
		if budget.ID == "" {
			budget.ID = s.newID()
		}
		if i := slices.IndexFunc(budgets, func(b model.Budget) bool { return b.ID == budget.ID }); i >= 0 {
			budgets[i] = budget
		} else {
			budgets = append(budgets, budget)
		}
		return s.write(ctx, map[string]any{KeyBudgets: budgets})
	})
	if err != nil {
		return model.Budget{}, err
	}
	return budget, nil
}

// SetBudgetLock toggles the lock flag of one budget.
func (s *Store) SetBudgetLock(ctx context.Context, id string, locked bool) error {
	return s.mutate("lock budget", func() error {
		budgets, err := s.budgets(ctx)
		if err != nil {
			return err
		}
		i := slices.IndexFunc(budgets, func(b model.Budget) bool { return b.ID == id })
		if i < 0 {
			return fmt.Errorf("budget %s: %w", id, common.ErrNotFound)
		}
		budgets[i].IsLocked = locked
		return s.write(ctx, map[string]any{KeyBudgets: budgets})
	})
}

// DeleteBudget removes the budget with id. Locked budgets are refused with
// ErrBudgetLocked and nothing changes.
func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	return s.mutate("delete budget", func() error {
		budgets, err := s.budgets(ctx)
		if err != nil {
			return err
		}
		if i := slices.IndexFunc(budgets, func(b model.Budget) bool { return b.ID == id }); i >= 0 && budgets[i].IsLocked {
			return fmt.Errorf("budget %q: %w", budgets[i].Name, ErrBudgetLocked)
		}
		budgets = slices.DeleteFunc(budgets, func(b model.Budget) bool { return b.ID == id })
		return s.write(ctx, map[string]any{KeyBudgets: budgets})
	})
}

// BudgetProgress returns every budget with its spend for the current
// calendar month, in stored order.
func (s *Store) BudgetProgress(ctx context.Context) ([]model.BudgetAlert, error) {
	s.mu.RLock()
	budgets, err := s.budgets(ctx)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	txns, err := s.transactions(ctx)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	now := s.now()
	progress := make([]model.BudgetAlert, 0, len(budgets))
	for _, b := range budgets {
		progress = append(progress, model.BudgetAlert{
			Budget: b,
			Spent:  spentInMonth(b, txns, now),
		})
	}
	return progress, nil
}

// GetBudgetAlerts returns the budgets whose current-month spend is strictly
// above their limit. Every budget is measured over the calendar month of the
// clock, whatever its period.
func (s *Store) GetBudgetAlerts(ctx context.Context) ([]model.BudgetAlert, error) {
	progress, err := s.BudgetProgress(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(progress, func(a model.BudgetAlert) bool { return !a.Exceeded() }), nil
}

func spentInMonth(b model.Budget, txns []model.Transaction, now time.Time) float64 {
	year, month, _ := now.Date()
	var spent float64
	for _, t := range txns {
		if t.Type != model.TypeExpense || !b.Includes(t.Category) {
			continue
		}
		ty, tm, _ := t.Date.In(now.Location()).Date()
		if ty == year && tm == month {
			spent += t.Amount
		}
	}
	return spent
}
