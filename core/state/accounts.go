package state

import (
	"fmt"
	"math/big"

	"decentraspace/core/types"
)

func accountStorageKey(addr [20]byte) []byte {
	return prefixedKey(accountPrefix, addr[:])
}

type storedAccount struct {
	Balance *big.Int
}

// AccountGet loads the account for addr. Unknown addresses yield a fresh
// zero-balance account.
func (m *Manager) AccountGet(addr [20]byte) (*types.Account, error) {
	stored := new(storedAccount)
	ok, err := m.load(accountStorageKey(addr), stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{Balance: big.NewInt(0)}, nil
	}
	account := &types.Account{Balance: big.NewInt(0)}
	if stored.Balance != nil {
		account.Balance = new(big.Int).Set(stored.Balance)
	}
	return account, nil
}

// AccountPut stores the account for addr.
func (m *Manager) AccountPut(addr [20]byte, account *types.Account) error {
	if account == nil {
		return fmt.Errorf("state: nil account record")
	}
	balance := big.NewInt(0)
	if account.Balance != nil {
		balance = new(big.Int).Set(account.Balance)
	}
	if balance.Sign() < 0 {
		return fmt.Errorf("state: negative balance for account")
	}
	return m.store(accountStorageKey(addr), &storedAccount{Balance: balance})
}
