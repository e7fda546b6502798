package testutil

import (
	"time"

	"github.com/Veraticus/ledger-flow/internal/model"
)

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Expense builds an expense draft on the default wallet.
func Expense(title string, amount float64, date time.Time, category string) model.Transaction {
	return model.Transaction{
		Title:     title,
		Amount:    amount,
		Date:      date,
		Type:      model.TypeExpense,
		Category:  category,
		AccountID: model.DefaultAccountID,
	}
}

// Income builds an income draft on the default wallet.
func Income(title string, amount float64, date time.Time) model.Transaction {
	return model.Transaction{
		Title:     title,
		Amount:    amount,
		Date:      date,
		Type:      model.TypeIncome,
		Category:  "salary",
		AccountID: model.DefaultAccountID,
	}
}

// OnAccount returns a copy of t booked on accountID.
func OnAccount(t model.Transaction, accountID string) model.Transaction {
	t.AccountID = accountID
	return t
}
