package tipping

import (
	"decentraspace/core/events"
	"decentraspace/core/types"
	"decentraspace/native/creators"
)

// EventTypeTipSent is emitted once per settled tip, whichever path routed it.
const EventTypeTipSent = "space.tip.sent"

// SentEvent returns the structured payload for a settled tip.
func SentEvent(r *Receipt) events.Event {
	attrs := map[string]string{
		"path":    string(r.Path),
		"creator": creators.HexAddr(r.Creator),
		"from":    creators.HexAddr(r.From),
		"amount":  r.Amount.String(),
	}
	if r.TargetID != "" {
		attrs["targetId"] = r.TargetID
	}
	return creators.WrapEvent(&types.Event{
		Type:       EventTypeTipSent,
		Attributes: attrs,
	})
}
