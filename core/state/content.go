package state

import (
	"fmt"
	"math/big"

	"decentraspace/native/content"
)

func contentStorageKey(id string) []byte {
	return prefixedKey(contentRecordPrefix, []byte(id))
}

func creatorContentsKey(addr [20]byte) []byte {
	return prefixedKey(creatorContentPrefix, addr[:])
}

type storedContent struct {
	ID           string
	Creator      [20]byte
	Title        string
	CID          string
	Timestamp    *big.Int
	TipsReceived *big.Int
	Views        uint64
}

func newStoredContent(c *content.Content) *storedContent {
	tips := big.NewInt(0)
	if c.TipsReceived != nil {
		tips = new(big.Int).Set(c.TipsReceived)
	}
	return &storedContent{
		ID:           c.ID,
		Creator:      c.Creator,
		Title:        c.Title,
		CID:          c.CID,
		Timestamp:    big.NewInt(c.Timestamp),
		TipsReceived: tips,
		Views:        c.Views,
	}
}

func (s *storedContent) toContent() (*content.Content, error) {
	if s == nil {
		return nil, fmt.Errorf("state: nil content storage record")
	}
	out := &content.Content{
		ID:           s.ID,
		Creator:      s.Creator,
		Title:        s.Title,
		CID:          s.CID,
		TipsReceived: big.NewInt(0),
		Views:        s.Views,
	}
	if s.Timestamp != nil {
		out.Timestamp = s.Timestamp.Int64()
	}
	if s.TipsReceived != nil {
		out.TipsReceived = new(big.Int).Set(s.TipsReceived)
	}
	return out, nil
}

// ContentGet loads the record stored under id.
func (m *Manager) ContentGet(id string) (*content.Content, bool, error) {
	stored := new(storedContent)
	ok, err := m.load(contentStorageKey(id), stored)
	if err != nil || !ok {
		return nil, false, err
	}
	record, err := stored.toContent()
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// ContentPut stores a content record under its id.
func (m *Manager) ContentPut(record *content.Content) error {
	if record == nil {
		return fmt.Errorf("state: nil content record")
	}
	return m.store(contentStorageKey(record.ID), newStoredContent(record))
}

// ContentIndex returns every allocated content id in publication order.
func (m *Manager) ContentIndex() ([]string, error) {
	return m.loadStringList(contentIndexKey)
}

// ContentIndexAppend records a freshly published id in the global list.
func (m *Manager) ContentIndexAppend(id string) error {
	return m.appendStringList(contentIndexKey, id)
}

// CreatorContents returns the ids published by addr in publication order.
func (m *Manager) CreatorContents(addr [20]byte) ([]string, error) {
	return m.loadStringList(creatorContentsKey(addr))
}

// CreatorContentAppend records a freshly published id for its owner.
func (m *Manager) CreatorContentAppend(addr [20]byte, id string) error {
	return m.appendStringList(creatorContentsKey(addr), id)
}
