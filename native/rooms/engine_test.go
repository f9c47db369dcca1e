package rooms

import (
	"errors"
	"math/big"
	"testing"

	"decentraspace/native/creators"
)

type mockState struct {
	creators   map[[20]byte]*creators.Creator
	rooms      map[string]*Room
	counter    uint64
	index      []string
	perCreator map[[20]byte][]string
}

func newMockState() *mockState {
	return &mockState{
		creators:   make(map[[20]byte]*creators.Creator),
		rooms:      make(map[string]*Room),
		perCreator: make(map[[20]byte][]string),
	}
}

func (m *mockState) CreatorGet(addr [20]byte) (*creators.Creator, bool, error) {
	creator, ok := m.creators[addr]
	if !ok {
		return nil, false, nil
	}
	return creator.Clone(), true, nil
}

func (m *mockState) CreatorPut(creator *creators.Creator) error {
	m.creators[creator.Address] = creator.Clone()
	return nil
}

func (m *mockState) RoomGet(id string) (*Room, bool, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, false, nil
	}
	return room.Clone(), true, nil
}

func (m *mockState) RoomPut(room *Room) error {
	m.rooms[room.ID] = room.Clone()
	return nil
}

func (m *mockState) RoomCounterNext() (uint64, error) {
	m.counter++
	return m.counter, nil
}

func (m *mockState) RoomIndexAppend(id string) error {
	m.index = append(m.index, id)
	return nil
}

func (m *mockState) RoomIndex() ([]string, error) {
	out := make([]string, len(m.index))
	copy(out, m.index)
	return out, nil
}

func (m *mockState) CreatorRoomAppend(addr [20]byte, id string) error {
	m.perCreator[addr] = append(m.perCreator[addr], id)
	return nil
}

func (m *mockState) CreatorRooms(addr [20]byte) ([]string, error) {
	list := m.perCreator[addr]
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

func (m *mockState) seedCreator(addr [20]byte) {
	m.creators[addr] = &creators.Creator{
		Address:       addr,
		Name:          "Host",
		Description:   "Bio",
		TotalEarnings: big.NewInt(0),
		CreatedAt:     1_700_000_000,
	}
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func newTestEngine(state *mockState) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return 1_700_000_200 })
	return engine
}

func TestCreateStartsLive(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	alice := addr(0x01)
	state.seedCreator(alice)

	room, err := engine.Create(alice, "AMA", "Ask anything", "https://huddle.example/ama")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if room.ID != "room_1" {
		t.Fatalf("expected room_1, got %q", room.ID)
	}
	if !room.IsLive {
		t.Fatalf("new room must start live")
	}
	if room.ParticipantCount != 0 {
		t.Fatalf("new room must start empty, got %d", room.ParticipantCount)
	}
	if state.creators[alice].LiveRoomCount != 1 {
		t.Fatalf("creator room count not advanced: %d", state.creators[alice].LiveRoomCount)
	}
}

func TestCreateRequiresRegisteredCreator(t *testing.T) {
	engine := newTestEngine(newMockState())
	if _, err := engine.Create(addr(0x02), "AMA", "Ask", "link"); !errors.Is(err, creators.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestCreateValidatesFields(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	alice := addr(0x01)
	state.seedCreator(alice)

	if _, err := engine.Create(alice, "", "Ask", "link"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty title, got %v", err)
	}
	if _, err := engine.Create(alice, "AMA", "", "link"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty description, got %v", err)
	}
	if _, err := engine.Create(alice, "AMA", "Ask", " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank link, got %v", err)
	}
	if state.counter != 0 {
		t.Fatalf("rejected create consumed an id: %d", state.counter)
	}
}

func TestSetStatusOwnerOnly(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	alice := addr(0x01)
	bob := addr(0x02)
	state.seedCreator(alice)

	room, err := engine.Create(alice, "AMA", "Ask", "link")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.SetStatus(bob, room.ID, false); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	ended, err := engine.SetStatus(alice, room.ID, false)
	if err != nil {
		t.Fatalf("owner end failed: %v", err)
	}
	if ended.IsLive {
		t.Fatalf("room should be ended")
	}
	// Nothing guards the terminal state; the owner may flip it back.
	revived, err := engine.SetStatus(alice, room.ID, true)
	if err != nil {
		t.Fatalf("revive failed: %v", err)
	}
	if !revived.IsLive {
		t.Fatalf("room should be live again")
	}
}

func TestJoinRequiresLiveRoom(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	alice := addr(0x01)
	state.seedCreator(alice)

	room, err := engine.Create(alice, "AMA", "Ask", "link")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.Join(addr(0x02), room.ID); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	// Repeat joins from the same address are not deduplicated.
	joined, err := engine.Join(addr(0x02), room.ID)
	if err != nil {
		t.Fatalf("second join failed: %v", err)
	}
	if joined.ParticipantCount != 2 {
		t.Fatalf("expected 2 participants, got %d", joined.ParticipantCount)
	}

	if _, err := engine.SetStatus(alice, room.ID, false); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if _, err := engine.Join(addr(0x03), room.ID); !errors.Is(err, ErrRoomNotLive) {
		t.Fatalf("expected ErrRoomNotLive, got %v", err)
	}
	if _, err := engine.Join(addr(0x03), "room_99"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaveClampsAtZero(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	alice := addr(0x01)
	state.seedCreator(alice)

	room, err := engine.Create(alice, "AMA", "Ask", "link")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	left, err := engine.Leave(addr(0x02), room.ID)
	if err != nil {
		t.Fatalf("leave on empty room must succeed: %v", err)
	}
	if left.ParticipantCount != 0 {
		t.Fatalf("participant count went below zero: %d", left.ParticipantCount)
	}

	if _, err := engine.Join(addr(0x02), room.ID); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	left, err = engine.Leave(addr(0x02), room.ID)
	if err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if left.ParticipantCount != 0 {
		t.Fatalf("expected empty room after leave, got %d", left.ParticipantCount)
	}
}

func TestActiveFiltersEndedRooms(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	alice := addr(0x01)
	state.seedCreator(alice)

	first, err := engine.Create(alice, "One", "Desc", "link1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := engine.Create(alice, "Two", "Desc", "link2")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := engine.SetStatus(alice, first.ID, false); err != nil {
		t.Fatalf("end failed: %v", err)
	}

	active, err := engine.Active()
	if err != nil {
		t.Fatalf("active failed: %v", err)
	}
	if len(active) != 1 || active[0] != second.ID {
		t.Fatalf("expected only %s active, got %v", second.ID, active)
	}

	mine, err := engine.ByCreator(alice)
	if err != nil {
		t.Fatalf("byCreator failed: %v", err)
	}
	if len(mine) != 2 || mine[0] != first.ID || mine[1] != second.ID {
		t.Fatalf("expected creation order, got %v", mine)
	}
}
