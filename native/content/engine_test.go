package content

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"decentraspace/native/creators"
)

type mockState struct {
	creators    map[[20]byte]*creators.Creator
	contents    map[string]*Content
	counter     uint64
	index       []string
	perCreator  map[[20]byte][]string
}

func newMockState() *mockState {
	return &mockState{
		creators:   make(map[[20]byte]*creators.Creator),
		contents:   make(map[string]*Content),
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

func (m *mockState) ContentGet(id string) (*Content, bool, error) {
	record, ok := m.contents[id]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) ContentPut(record *Content) error {
	m.contents[record.ID] = record.Clone()
	return nil
}

func (m *mockState) ContentCounterNext() (uint64, error) {
	m.counter++
	return m.counter, nil
}

func (m *mockState) ContentIndexAppend(id string) error {
	m.index = append(m.index, id)
	return nil
}

func (m *mockState) ContentIndex() ([]string, error) {
	out := make([]string, len(m.index))
	copy(out, m.index)
	return out, nil
}

func (m *mockState) CreatorContentAppend(addr [20]byte, id string) error {
	m.perCreator[addr] = append(m.perCreator[addr], id)
	return nil
}

func (m *mockState) CreatorContents(addr [20]byte) ([]string, error) {
	list := m.perCreator[addr]
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

func (m *mockState) seedCreator(addr [20]byte) {
	m.creators[addr] = &creators.Creator{
		Address:       addr,
		Name:          "Creator",
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
	engine.SetNowFunc(func() int64 { return 1_700_000_100 })
	return engine
}

func TestPublishAllocatesSequentialIDs(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)

	alice := addr(0x01)
	state.seedCreator(alice)

	first, err := engine.Publish(alice, "Clip", "QmAbc")
	if err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if first.ID != "content_1" {
		t.Fatalf("expected content_1, got %q", first.ID)
	}
	second, err := engine.Publish(alice, "Clip Two", "QmDef")
	if err != nil {
		t.Fatalf("second publish failed: %v", err)
	}
	if second.ID != "content_2" {
		t.Fatalf("expected content_2, got %q", second.ID)
	}
	if first.Views != 0 || first.TipsReceived.Sign() != 0 {
		t.Fatalf("new content must start with zero counters: %+v", first)
	}
	if first.Timestamp != 1_700_000_100 {
		t.Fatalf("unexpected publish timestamp: %d", first.Timestamp)
	}
	if state.creators[alice].ContentCount != 2 {
		t.Fatalf("creator content count not advanced: %d", state.creators[alice].ContentCount)
	}
}

func TestPublishRequiresRegisteredCreator(t *testing.T) {
	engine := newTestEngine(newMockState())
	if _, err := engine.Publish(addr(0x02), "Clip", "QmAbc"); !errors.Is(err, creators.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestPublishValidatesFields(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	alice := addr(0x01)
	state.seedCreator(alice)

	if _, err := engine.Publish(alice, "", "QmAbc"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty title, got %v", err)
	}
	if _, err := engine.Publish(alice, "Clip", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank cid, got %v", err)
	}
	if _, err := engine.Publish(alice, strings.Repeat("t", DefaultMaxTitleLength+1), "QmAbc"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized title, got %v", err)
	}
	if state.counter != 0 {
		t.Fatalf("rejected publish consumed an id: %d", state.counter)
	}
}

func TestViewCountsEveryCaller(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	alice := addr(0x01)
	state.seedCreator(alice)

	record, err := engine.Publish(alice, "Clip", "QmAbc")
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := engine.View(addr(0x02), record.ID); err != nil {
		t.Fatalf("view failed: %v", err)
	}
	// The owner viewing their own content counts too.
	viewed, err := engine.View(alice, record.ID)
	if err != nil {
		t.Fatalf("owner view failed: %v", err)
	}
	if viewed.Views != 2 {
		t.Fatalf("expected 2 views, got %d", viewed.Views)
	}
}

func TestViewUnknownContentFails(t *testing.T) {
	engine := newTestEngine(newMockState())
	if _, err := engine.View(addr(0x01), "content_99"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUnknownContentFails(t *testing.T) {
	engine := newTestEngine(newMockState())
	if _, err := engine.Get("content_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLatestNewestFirstAndByCreatorInOrder(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	alice := addr(0x01)
	bob := addr(0x02)
	state.seedCreator(alice)
	state.seedCreator(bob)

	if _, err := engine.Publish(alice, "One", "Qm1"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := engine.Publish(bob, "Two", "Qm2"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := engine.Publish(alice, "Three", "Qm3"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	latest, err := engine.Latest()
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	want := []string{"content_3", "content_2", "content_1"}
	for i, id := range want {
		if latest[i] != id {
			t.Fatalf("latest[%d]: want %s got %s", i, id, latest[i])
		}
	}

	mine, err := engine.ByCreator(alice)
	if err != nil {
		t.Fatalf("byCreator failed: %v", err)
	}
	if len(mine) != 2 || mine[0] != "content_1" || mine[1] != "content_3" {
		t.Fatalf("expected publication order for alice, got %v", mine)
	}
}
