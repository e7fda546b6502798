package model

import "time"

// TransactionType indicates which way money moves for a transaction.
type TransactionType string

const (
	// TypeIncome adds the amount to the owning account.
	TypeIncome TransactionType = "income"
	// TypeExpense subtracts the amount from the owning account.
	TypeExpense TransactionType = "expense"
	// TypeTransfer is informational only and never affects a balance.
	// Stored transfers are represented as an expense/income leg pair.
	TypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Recurrence links a transaction to the submission that generated it.
type Recurrence struct {
	Frequency  Frequency `json:"frequency"`
	ParentID   string    `json:"parentId,omitempty"`
	Current    int       `json:"current,omitempty"`
	Total      int       `json:"total,omitempty"` // zero for open-ended plans
	IsInfinite bool      `json:"isInfinite"`
}

// RecurrenceSettings describes how a single submission expands into a series.
type RecurrenceSettings struct {
	Frequency  Frequency
	Count      int // installments; ignored when IsInfinite
	IsInfinite bool
}

// Transaction is the atomic ledger entry. Amount is always a positive
// magnitude; the sign is implied by Type.
type Transaction struct {
	Date                 time.Time       `json:"date"`
	Recurrence           *Recurrence     `json:"recurrence,omitempty"`
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	Type                 TransactionType `json:"type"`
	Category             string          `json:"category"`
	AccountID            string          `json:"accountId"`
	DestinationAccountID string          `json:"destinationAccountId,omitempty"`
	TransferID           string          `json:"transferId,omitempty"`
	ExternalID           string          `json:"externalId,omitempty"` // statement id for imported rows
	Amount               float64         `json:"amount"`
}

// SignedAmount returns the effect of the transaction on its account balance.
func (t Transaction) SignedAmount() float64 {
	switch t.Type {
	case TypeIncome:
		return t.Amount
	case TypeExpense:
		return -t.Amount
	default:
		return 0
	}
}

// TransferRequest moves Amount from one account to another.
type TransferRequest struct {
	Date          time.Time
	FromAccountID string
	ToAccountID   string
	Title         string
	Amount        float64
}
