package tipping

import "math/big"

// Path identifies which entry point routed a tip.
type Path string

const (
	// PathCreator is a direct tip to a creator address.
	PathCreator Path = "creator"
	// PathContent is a tip routed through a content id.
	PathContent Path = "content"
	// PathRoom is a tip routed through a live-room id.
	PathRoom Path = "room"
)

// Receipt summarises a settled tip for callers and event payloads.
type Receipt struct {
	Path     Path     `json:"path"`
	TargetID string   `json:"targetId,omitempty"`
	Creator  [20]byte `json:"creator"`
	From     [20]byte `json:"from"`
	Amount   *big.Int `json:"amount"`
	TippedAt int64    `json:"tippedAt"`
}

// Clone returns a deep copy of the receipt.
func (r *Receipt) Clone() *Receipt {
	if r == nil {
		return nil
	}
	clone := *r
	if r.Amount != nil {
		clone.Amount = new(big.Int).Set(r.Amount)
	}
	return &clone
}
