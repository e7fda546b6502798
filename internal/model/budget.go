package model

// BudgetPeriod is the planning horizon of a budget.
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Budget is a spending ceiling over a set of categories.
type Budget struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Period      BudgetPeriod `json:"period"`
	CategoryIDs []string     `json:"categoryIds"`
	Limit       float64      `json:"limit"`
	IsLocked    bool         `json:"isLocked"`
}

// Includes reports whether the budget aggregates categoryID.
func (b Budget) Includes(categoryID string) bool {
	for _, id := range b.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// BudgetAlert pairs a budget with its computed current-month spend.
type BudgetAlert struct {
	Budget Budget  `json:"budget"`
	Spent  float64 `json:"spent"`
}

// Exceeded reports whether spend is strictly above the limit.
func (a BudgetAlert) Exceeded() bool {
	return a.Spent > a.Budget.Limit
}

// Remaining is the unspent part of the limit, negative when over.
func (a BudgetAlert) Remaining() float64 {
	return a.Budget.Limit - a.Spent
}
