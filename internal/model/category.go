package model

// CategoryType constrains which transaction types may use a category.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
	// CategoryTypeBoth represents categories usable by either direction (e.g., transfers).
	CategoryTypeBoth CategoryType = "both"
)

// Valid reports whether c is a known category type.
func (c CategoryType) Valid() bool {
	switch c {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeBoth:
		return true
	}
	return false
}

// Built-in category ids the ledger relies on.
const (
	CategoryTransfer = "transfer"
	CategoryOther    = "other"
)

// CategoryItem is a classification tag for transactions.
type CategoryItem struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	IconName string       `json:"iconName,omitempty"`
	Color    string       `json:"color"`
	Type     CategoryType `json:"type"`
	IsCustom bool         `json:"isCustom,omitempty"`
}

// Allows reports whether a transaction of type t may reference this category.
func (c CategoryItem) Allows(t TransactionType) bool {
	switch c.Type {
	case CategoryTypeBoth:
		return true
	case CategoryTypeIncome:
		return t == TypeIncome
	case CategoryTypeExpense:
		return t == TypeExpense
	}
	return false
}

// DefaultCategories returns a fresh copy of the built-in category list.
func DefaultCategories() []CategoryItem {
	defaults := []CategoryItem{
		{ID: "food", Label: "Food", Color: "#ea580c", Type: CategoryTypeExpense},
		{ID: "shopping", Label: "Shopping", Color: "#2563eb", Type: CategoryTypeExpense},
		{ID: "transport", Label: "Transport", Color: "#ca8a04", Type: CategoryTypeExpense},
		{ID: "housing", Label: "Housing", Color: "#4f46e5", Type: CategoryTypeExpense},
		{ID: "utilities", Label: "Utilities", Color: "#9333ea", Type: CategoryTypeExpense},
		{ID: "health", Label: "Health", Color: "#dc2626", Type: CategoryTypeExpense},
		{ID: "education", Label: "Education", Color: "#db2777", Type: CategoryTypeExpense},

		{ID: "salary", Label: "Salary", Color: "#059669", Type: CategoryTypeIncome},
		{ID: "freelance", Label: "Freelance", Color: "#0d9488", Type: CategoryTypeIncome},
		{ID: "investment_return", Label: "Investment Returns", Color: "#16a34a", Type: CategoryTypeIncome},

		{ID: CategoryTransfer, Label: "Transfer", Color: "#4b5563", Type: CategoryTypeBoth},
		{ID: CategoryOther, Label: "Other", Color: "#4b5563", Type: CategoryTypeBoth},
	}
	for i := range defaults {
		defaults[i].IconName = defaults[i].ID
	}
	return defaults
}

// IsBuiltinCategory reports whether id names one of the seeded categories.
func IsBuiltinCategory(id string) bool {
	for _, c := range DefaultCategories() {
		if c.ID == id {
			return true
		}
	}
	return false
}
