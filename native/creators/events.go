package creators

import (
	"encoding/hex"

	"decentraspace/core/events"
	"decentraspace/core/types"
)

const (
	// EventTypeRegistered is emitted when an address registers as a creator.
	EventTypeRegistered = "space.creator.registered"
	// EventTypeUpdated is emitted when a creator rewrites their profile.
	EventTypeUpdated = "space.creator.updated"
)

type eventEnvelope struct {
	evt *types.Event
}

func (e eventEnvelope) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e eventEnvelope) Event() *types.Event { return e.evt }

// WrapEvent converts a raw event payload into the emitter-friendly envelope.
func WrapEvent(evt *types.Event) events.Event { return eventEnvelope{evt: evt} }

// HexAddr renders a raw address payload for event attributes.
func HexAddr(addr [20]byte) string {
	return "0x" + hex.EncodeToString(addr[:])
}

// RegisteredEvent returns the structured payload for a new registration.
func RegisteredEvent(creator *Creator) events.Event {
	return WrapEvent(&types.Event{
		Type: EventTypeRegistered,
		Attributes: map[string]string{
			"creator": HexAddr(creator.Address),
			"name":    creator.Name,
		},
	})
}

// UpdatedEvent returns the structured payload for a profile rewrite.
func UpdatedEvent(creator *Creator) events.Event {
	return WrapEvent(&types.Event{
		Type: EventTypeUpdated,
		Attributes: map[string]string{
			"creator": HexAddr(creator.Address),
			"name":    creator.Name,
		},
	})
}
