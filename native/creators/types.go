package creators

import "math/big"

// Creator is the profile record for a registered address. The address is
// the primary key; there is no separate generated id.
type Creator struct {
	Address       [20]byte `json:"address"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	TotalEarnings *big.Int `json:"totalEarnings"`
	ContentCount  uint64   `json:"contentCount"`
	LiveRoomCount uint64   `json:"liveRoomCount"`
	CreatedAt     int64    `json:"createdAt"`
}

// Clone returns a deep copy of the creator record.
func (c *Creator) Clone() *Creator {
	if c == nil {
		return nil
	}
	clone := *c
	if c.TotalEarnings != nil {
		clone.TotalEarnings = new(big.Int).Set(c.TotalEarnings)
	}
	return &clone
}

// Zero returns an empty creator record for the supplied address. Lookups on
// unregistered addresses return this instead of failing; callers must use
// the registration check to tell the two cases apart.
func Zero(addr [20]byte) *Creator {
	return &Creator{Address: addr, TotalEarnings: big.NewInt(0)}
}
