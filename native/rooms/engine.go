package rooms

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"decentraspace/core/events"
	"decentraspace/native/creators"
)

var (
	// ErrNotFound rejects references to room ids that were never allocated.
	ErrNotFound = errors.New("rooms engine: room not found")
	// ErrUnauthorized rejects owner-gated actions from a different caller.
	ErrUnauthorized = errors.New("rooms engine: caller does not own room")
	// ErrRoomNotLive rejects joins on an ended room.
	ErrRoomNotLive = errors.New("rooms engine: room not live")
	// ErrInvalidInput rejects empty or oversized fields.
	ErrInvalidInput = errors.New("rooms engine: invalid input")

	errNilState = errors.New("rooms engine: state not configured")
)

// Default field limits, overridable through SetLimits.
const (
	DefaultMaxTitleLength       = 80
	DefaultMaxDescriptionLength = 500
	DefaultMaxLinkLength        = 200
)

// IDPrefix is the prefix of every allocated room id.
const IDPrefix = "room_"

type engineState interface {
	CreatorGet(addr [20]byte) (*creators.Creator, bool, error)
	CreatorPut(creator *creators.Creator) error
	RoomGet(id string) (*Room, bool, error)
	RoomPut(room *Room) error
	RoomCounterNext() (uint64, error)
	RoomIndexAppend(id string) error
	RoomIndex() ([]string, error)
	CreatorRoomAppend(addr [20]byte, id string) error
	CreatorRooms(addr [20]byte) ([]string, error)
}

// Engine models the live-room lifecycle: Live at creation, Ended only by
// explicit owner action, presence tracked as a raw counter.
type Engine struct {
	state    engineState
	emitter  events.Emitter
	nowFn    func() int64
	maxTitle int
	maxDesc  int
	maxLink  int
}

// NewEngine constructs a room engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
		maxTitle: DefaultMaxTitleLength,
		maxDesc:  DefaultMaxDescriptionLength,
		maxLink:  DefaultMaxLinkLength,
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used for deterministic testing.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetLimits overrides the maximum accepted field lengths.
func (e *Engine) SetLimits(maxTitle, maxDescription, maxLink int) {
	if maxTitle > 0 {
		e.maxTitle = maxTitle
	}
	if maxDescription > 0 {
		e.maxDesc = maxDescription
	}
	if maxLink > 0 {
		e.maxLink = maxLink
	}
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || evt == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) load(id string) (*Room, error) {
	room, ok, err := e.state.RoomGet(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !ok || room == nil {
		return nil, ErrNotFound
	}
	return room, nil
}

// Create allocates the next sequential room id for a registered creator.
// Rooms start live with an empty participant count.
func (e *Engine) Create(caller [20]byte, title, description, huddleLink string) (*Room, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	cleanTitle := strings.TrimSpace(title)
	if cleanTitle == "" || len(cleanTitle) > e.maxTitle {
		return nil, ErrInvalidInput
	}
	cleanDesc := strings.TrimSpace(description)
	if cleanDesc == "" || len(cleanDesc) > e.maxDesc {
		return nil, ErrInvalidInput
	}
	cleanLink := strings.TrimSpace(huddleLink)
	if cleanLink == "" || len(cleanLink) > e.maxLink {
		return nil, ErrInvalidInput
	}
	owner, ok, err := e.state.CreatorGet(caller)
	if err != nil {
		return nil, err
	}
	if !ok || owner == nil {
		return nil, creators.ErrNotRegistered
	}
	seq, err := e.state.RoomCounterNext()
	if err != nil {
		return nil, err
	}
	room := &Room{
		ID:          fmt.Sprintf("%s%d", IDPrefix, seq),
		Creator:     caller,
		Title:       cleanTitle,
		Description: cleanDesc,
		HuddleLink:  cleanLink,
		CreatedAt:   e.now(),
		IsLive:      true,
	}
	if err := e.state.RoomPut(room); err != nil {
		return nil, err
	}
	if err := e.state.RoomIndexAppend(room.ID); err != nil {
		return nil, err
	}
	if err := e.state.CreatorRoomAppend(caller, room.ID); err != nil {
		return nil, err
	}
	owner.LiveRoomCount++
	if err := e.state.CreatorPut(owner); err != nil {
		return nil, err
	}
	e.emit(CreatedEvent(room))
	return room.Clone(), nil
}

// SetStatus flips the live flag. Only the owner may call it. Setting an
// ended room back to live is permitted; nothing in this model guards the
// terminal state, matching the reference behaviour.
func (e *Engine) SetStatus(caller [20]byte, id string, isLive bool) (*Room, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	room, err := e.load(id)
	if err != nil {
		return nil, err
	}
	if room.Creator != caller {
		return nil, ErrUnauthorized
	}
	room.IsLive = isLive
	if err := e.state.RoomPut(room); err != nil {
		return nil, err
	}
	e.emit(StatusEvent(room))
	return room.Clone(), nil
}

// Join increments the participant count of a live room. Repeat joins from
// the same address are not deduplicated.
func (e *Engine) Join(caller [20]byte, id string) (*Room, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	room, err := e.load(id)
	if err != nil {
		return nil, err
	}
	if !room.IsLive {
		return nil, ErrRoomNotLive
	}
	room.ParticipantCount++
	if err := e.state.RoomPut(room); err != nil {
		return nil, err
	}
	e.emit(JoinedEvent(room, caller))
	return room.Clone(), nil
}

// Leave decrements the participant count, clamped at zero. A leave on an
// empty room succeeds without changing state.
func (e *Engine) Leave(caller [20]byte, id string) (*Room, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	room, err := e.load(id)
	if err != nil {
		return nil, err
	}
	if room.ParticipantCount > 0 {
		room.ParticipantCount--
		if err := e.state.RoomPut(room); err != nil {
			return nil, err
		}
		e.emit(LeftEvent(room, caller))
	}
	return room.Clone(), nil
}

// Get returns the record for id or ErrNotFound.
func (e *Engine) Get(id string) (*Room, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	room, err := e.load(id)
	if err != nil {
		return nil, err
	}
	return room.Clone(), nil
}

// ByCreator returns the room ids created by addr in creation order.
func (e *Engine) ByCreator(addr [20]byte) ([]string, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.state.CreatorRooms(addr)
}

// Active returns the ids of rooms that are currently live, most recently
// created first.
func (e *Engine) Active() ([]string, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	index, err := e.state.RoomIndex()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(index))
	for i := len(index) - 1; i >= 0; i-- {
		room, ok, err := e.state.RoomGet(index[i])
		if err != nil {
			return nil, err
		}
		if ok && room != nil && room.IsLive {
			out = append(out, room.ID)
		}
	}
	return out, nil
}
