package state

import (
	"fmt"
	"math/big"

	"decentraspace/native/creators"
)

func creatorStorageKey(addr [20]byte) []byte {
	return prefixedKey(creatorRecordPrefix, addr[:])
}

type storedCreator struct {
	Address       [20]byte
	Name          string
	Description   string
	TotalEarnings *big.Int
	ContentCount  uint64
	LiveRoomCount uint64
	CreatedAt     *big.Int
}

func newStoredCreator(c *creators.Creator) *storedCreator {
	earnings := big.NewInt(0)
	if c.TotalEarnings != nil {
		earnings = new(big.Int).Set(c.TotalEarnings)
	}
	return &storedCreator{
		Address:       c.Address,
		Name:          c.Name,
		Description:   c.Description,
		TotalEarnings: earnings,
		ContentCount:  c.ContentCount,
		LiveRoomCount: c.LiveRoomCount,
		CreatedAt:     big.NewInt(c.CreatedAt),
	}
}

func (s *storedCreator) toCreator() (*creators.Creator, error) {
	if s == nil {
		return nil, fmt.Errorf("state: nil creator storage record")
	}
	out := &creators.Creator{
		Address:       s.Address,
		Name:          s.Name,
		Description:   s.Description,
		TotalEarnings: big.NewInt(0),
		ContentCount:  s.ContentCount,
		LiveRoomCount: s.LiveRoomCount,
	}
	if s.TotalEarnings != nil {
		out.TotalEarnings = new(big.Int).Set(s.TotalEarnings)
	}
	if s.CreatedAt != nil {
		out.CreatedAt = s.CreatedAt.Int64()
	}
	return out, nil
}

// CreatorGet loads the profile record for addr.
func (m *Manager) CreatorGet(addr [20]byte) (*creators.Creator, bool, error) {
	stored := new(storedCreator)
	ok, err := m.load(creatorStorageKey(addr), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	creator, err := stored.toCreator()
	if err != nil {
		return nil, false, err
	}
	return creator, true, nil
}

// CreatorPut stores the profile record for a creator.
func (m *Manager) CreatorPut(creator *creators.Creator) error {
	if creator == nil {
		return fmt.Errorf("state: nil creator record")
	}
	return m.store(creatorStorageKey(creator.Address), newStoredCreator(creator))
}

// CreatorIndex returns all registered addresses in registration order.
func (m *Manager) CreatorIndex() ([][20]byte, error) {
	var index [][20]byte
	ok, err := m.load(creatorIndexKey, &index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return [][20]byte{}, nil
	}
	return index, nil
}

// CreatorIndexAppend records a newly registered address.
func (m *Manager) CreatorIndexAppend(addr [20]byte) error {
	index, err := m.CreatorIndex()
	if err != nil {
		return err
	}
	return m.store(creatorIndexKey, append(index, addr))
}

// CreatorCount returns the number of registered creators.
func (m *Manager) CreatorCount() (uint64, error) {
	index, err := m.CreatorIndex()
	if err != nil {
		return 0, err
	}
	return uint64(len(index)), nil
}
