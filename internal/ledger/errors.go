package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Ledger errors.
var (
	// ErrValidation wraps every rejected write. The message names the field.
	ErrValidation = errors.New("validation failed")
	// ErrBudgetLocked is returned when deleting a locked budget.
	ErrBudgetLocked = errors.New("budget is locked")
	// ErrBuiltinCategory is returned when deleting a seeded category.
	ErrBuiltinCategory = errors.New("built-in categories cannot be deleted")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func requireText(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return invalid("%s is required", field)
	}
	return nil
}

func requirePositive(amount float64, field string) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return invalid("%s must be a positive number, got %v", field, amount)
	}
	return nil
}
