package state

import (
	"fmt"
	"math/big"

	"decentraspace/native/rooms"
)

func roomStorageKey(id string) []byte {
	return prefixedKey(roomRecordPrefix, []byte(id))
}

func creatorRoomsKey(addr [20]byte) []byte {
	return prefixedKey(creatorRoomPrefix, addr[:])
}

type storedRoom struct {
	ID               string
	Creator          [20]byte
	Title            string
	Description      string
	HuddleLink       string
	CreatedAt        *big.Int
	ParticipantCount uint64
	IsLive           bool
}

func newStoredRoom(r *rooms.Room) *storedRoom {
	return &storedRoom{
		ID:               r.ID,
		Creator:          r.Creator,
		Title:            r.Title,
		Description:      r.Description,
		HuddleLink:       r.HuddleLink,
		CreatedAt:        big.NewInt(r.CreatedAt),
		ParticipantCount: r.ParticipantCount,
		IsLive:           r.IsLive,
	}
}

func (s *storedRoom) toRoom() (*rooms.Room, error) {
	if s == nil {
		return nil, fmt.Errorf("state: nil room storage record")
	}
	out := &rooms.Room{
		ID:               s.ID,
		Creator:          s.Creator,
		Title:            s.Title,
		Description:      s.Description,
		HuddleLink:       s.HuddleLink,
		ParticipantCount: s.ParticipantCount,
		IsLive:           s.IsLive,
	}
	if s.CreatedAt != nil {
		out.CreatedAt = s.CreatedAt.Int64()
	}
	return out, nil
}

// RoomGet loads the record stored under id.
func (m *Manager) RoomGet(id string) (*rooms.Room, bool, error) {
	stored := new(storedRoom)
	ok, err := m.load(roomStorageKey(id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	room, err := stored.toRoom()
	if err != nil {
		return nil, false, err
	}
	return room, true, nil
}

// RoomPut stores a room record under its id.
func (m *Manager) RoomPut(room *rooms.Room) error {
	if room == nil {
		return fmt.Errorf("state: nil room record")
	}
	return m.store(roomStorageKey(room.ID), newStoredRoom(room))
}

// RoomIndex returns every allocated room id in creation order.
func (m *Manager) RoomIndex() ([]string, error) {
	return m.loadStringList(roomIndexKey)
}

// RoomIndexAppend records a freshly created id in the global list.
func (m *Manager) RoomIndexAppend(id string) error {
	return m.appendStringList(roomIndexKey, id)
}

// CreatorRooms returns the ids created by addr in creation order.
func (m *Manager) CreatorRooms(addr [20]byte) ([]string, error) {
	return m.loadStringList(creatorRoomsKey(addr))
}

// CreatorRoomAppend records a freshly created id for its owner.
func (m *Manager) CreatorRoomAppend(addr [20]byte, id string) error {
	return m.appendStringList(creatorRoomsKey(addr), id)
}
