package types

import "math/big"

// Account holds the spendable balance for an address. Tips move value
// between accounts inside the same staged transaction that updates the
// earnings counters.
type Account struct {
	Balance *big.Int `json:"balance"`
}

// EnsureAccount normalises a possibly-nil account into a usable one.
func EnsureAccount(acc *Account) *Account {
	if acc == nil {
		return &Account{Balance: big.NewInt(0)}
	}
	if acc.Balance == nil {
		acc.Balance = big.NewInt(0)
	}
	return acc
}
