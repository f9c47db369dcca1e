package content

import "math/big"

// Content is an immutable published record referencing off-chain media by
// its content-addressed identifier. Only the view and tip counters change
// after creation.
type Content struct {
	ID           string   `json:"id"`
	Creator      [20]byte `json:"creator"`
	Title        string   `json:"title"`
	CID          string   `json:"cid"`
	Timestamp    int64    `json:"timestamp"`
	TipsReceived *big.Int `json:"tipsReceived"`
	Views        uint64   `json:"views"`
}

// Clone returns a deep copy of the content record.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	clone := *c
	if c.TipsReceived != nil {
		clone.TipsReceived = new(big.Int).Set(c.TipsReceived)
	}
	return &clone
}
