package model

// AccountType classifies a money container.
type AccountType string

// Account types.
const (
	AccountWallet     AccountType = "wallet"
	AccountBank       AccountType = "bank"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

// Valid reports whether a is a known account type.
func (a AccountType) Valid() bool {
	switch a {
	case AccountWallet, AccountBank, AccountInvestment, AccountOther:
		return true
	}
	return false
}

// Account is a named money container. Balance is derived from transactions
// on every read; the persisted value carries no meaning.
type Account struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     AccountType `json:"type"`
	Color    string      `json:"color"`
	IconName string      `json:"iconName,omitempty"`
	Balance  float64     `json:"balance"`
}

// DefaultAccountID is the id of the wallet seeded at registration.
const DefaultAccountID = "acc1"

// DefaultAccount returns the wallet created for a fresh installation.
func DefaultAccount() Account {
	return Account{
		ID:    DefaultAccountID,
		Name:  "Wallet",
		Type:  AccountWallet,
		Color: "#6366f1",
	}
}
