package rooms

import (
	"strconv"

	"decentraspace/core/events"
	"decentraspace/core/types"
	"decentraspace/native/creators"
)

const (
	// EventTypeCreated is emitted when a creator opens a live room.
	EventTypeCreated = "space.room.created"
	// EventTypeStatus is emitted when the owner flips the live flag.
	EventTypeStatus = "space.room.status"
	// EventTypeJoined is emitted when a participant joins a live room.
	EventTypeJoined = "space.room.joined"
	// EventTypeLeft is emitted when a participant leaves a room.
	EventTypeLeft = "space.room.left"
)

// CreatedEvent returns the structured payload for a room opening.
func CreatedEvent(r *Room) events.Event {
	return creators.WrapEvent(&types.Event{
		Type: EventTypeCreated,
		Attributes: map[string]string{
			"id":      r.ID,
			"creator": creators.HexAddr(r.Creator),
			"title":   r.Title,
		},
	})
}

// StatusEvent returns the structured payload for a live-flag change.
func StatusEvent(r *Room) events.Event {
	return creators.WrapEvent(&types.Event{
		Type: EventTypeStatus,
		Attributes: map[string]string{
			"id":     r.ID,
			"isLive": strconv.FormatBool(r.IsLive),
		},
	})
}

// JoinedEvent returns the structured payload for a join.
func JoinedEvent(r *Room, participant [20]byte) events.Event {
	return creators.WrapEvent(&types.Event{
		Type: EventTypeJoined,
		Attributes: map[string]string{
			"id":           r.ID,
			"participant":  creators.HexAddr(participant),
			"participants": strconv.FormatUint(r.ParticipantCount, 10),
		},
	})
}

// LeftEvent returns the structured payload for a leave.
func LeftEvent(r *Room, participant [20]byte) events.Event {
	return creators.WrapEvent(&types.Event{
		Type: EventTypeLeft,
		Attributes: map[string]string{
			"id":           r.ID,
			"participant":  creators.HexAddr(participant),
			"participants": strconv.FormatUint(r.ParticipantCount, 10),
		},
	})
}
