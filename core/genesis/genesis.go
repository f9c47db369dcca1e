package genesis

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"sort"

	"decentraspace/crypto"
)

// Genesis describes the initial account balances for a fresh data
// directory. Amounts are decimal strings in the smallest currency unit.
type Genesis struct {
	NetworkName string            `json:"networkName,omitempty"`
	Alloc       map[string]string `json:"alloc"`
}

// Allocation is one decoded genesis balance entry.
type Allocation struct {
	Address crypto.Address
	Balance *big.Int
}

// Load reads and validates a genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("genesis: read %s: %w", path, err)
	}
	g := new(Genesis)
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("genesis: parse %s: %w", path, err)
	}
	if _, err := g.Allocations(); err != nil {
		return nil, err
	}
	return g, nil
}

// Allocations decodes the alloc map into addresses and balances, sorted by
// address string so application order is deterministic.
func (g *Genesis) Allocations() ([]Allocation, error) {
	if g == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(g.Alloc))
	for addr := range g.Alloc {
		keys = append(keys, addr)
	}
	sort.Strings(keys)
	out := make([]Allocation, 0, len(keys))
	for _, key := range keys {
		addr, err := crypto.DecodeAddress(key)
		if err != nil {
			return nil, fmt.Errorf("genesis: invalid address %q: %w", key, err)
		}
		balance, ok := new(big.Int).SetString(g.Alloc[key], 10)
		if !ok || balance.Sign() < 0 {
			return nil, fmt.Errorf("genesis: invalid balance %q for %s", g.Alloc[key], key)
		}
		out = append(out, Allocation{Address: addr, Balance: balance})
	}
	return out, nil
}
