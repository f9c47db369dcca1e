package tipping

import (
	"errors"
	"math/big"
	"testing"

	"decentraspace/core/types"
	"decentraspace/native/content"
	"decentraspace/native/creators"
	"decentraspace/native/rooms"
)

type mockState struct {
	creators map[[20]byte]*creators.Creator
	contents map[string]*content.Content
	rooms    map[string]*rooms.Room
	accounts map[[20]byte]*types.Account
	total    *big.Int
}

func newMockState() *mockState {
	return &mockState{
		creators: make(map[[20]byte]*creators.Creator),
		contents: make(map[string]*content.Content),
		rooms:    make(map[string]*rooms.Room),
		accounts: make(map[[20]byte]*types.Account),
		total:    big.NewInt(0),
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

func (m *mockState) ContentGet(id string) (*content.Content, bool, error) {
	record, ok := m.contents[id]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (m *mockState) ContentPut(record *content.Content) error {
	m.contents[record.ID] = record.Clone()
	return nil
}

func (m *mockState) RoomGet(id string) (*rooms.Room, bool, error) {
	room, ok := m.rooms[id]
	if !ok {
		return nil, false, nil
	}
	return room.Clone(), true, nil
}

func (m *mockState) AccountGet(addr [20]byte) (*types.Account, error) {
	if account, ok := m.accounts[addr]; ok {
		return &types.Account{Balance: new(big.Int).Set(account.Balance)}, nil
	}
	return &types.Account{Balance: big.NewInt(0)}, nil
}

func (m *mockState) AccountPut(addr [20]byte, account *types.Account) error {
	m.accounts[addr] = &types.Account{Balance: new(big.Int).Set(account.Balance)}
	return nil
}

func (m *mockState) TotalTips() (*big.Int, error) {
	return new(big.Int).Set(m.total), nil
}

func (m *mockState) SetTotalTips(total *big.Int) error {
	m.total = new(big.Int).Set(total)
	return nil
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

func (m *mockState) setBalance(addr [20]byte, amount int64) {
	m.accounts[addr] = &types.Account{Balance: big.NewInt(amount)}
}

func (m *mockState) balance(addr [20]byte) *big.Int {
	if account, ok := m.accounts[addr]; ok {
		return new(big.Int).Set(account.Balance)
	}
	return big.NewInt(0)
}

func sumBalances(state *mockState, addrs ...[20]byte) *big.Int {
	total := big.NewInt(0)
	for _, addr := range addrs {
		total = new(big.Int).Add(total, state.balance(addr))
	}
	return total
}

func addr(last byte) [20]byte {
	var out [20]byte
	out[19] = last
	return out
}

func newTestEngine(state *mockState) *Engine {
	engine := NewEngine()
	engine.SetState(state)
	engine.SetNowFunc(func() int64 { return 1_700_000_300 })
	return engine
}

func TestTipCreatorMovesValueAndAccrues(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	fan := addr(0x01)
	creator := addr(0x02)
	state.seedCreator(creator)
	state.setBalance(fan, 10_000)

	initialTotal := sumBalances(state, fan, creator)

	receipt, err := engine.TipCreator(fan, creator, big.NewInt(250))
	if err != nil {
		t.Fatalf("tip failed: %v", err)
	}
	if receipt.Path != PathCreator {
		t.Fatalf("unexpected path: %s", receipt.Path)
	}
	if state.balance(fan).Cmp(big.NewInt(9_750)) != 0 {
		t.Fatalf("fan balance not debited: %s", state.balance(fan))
	}
	if state.balance(creator).Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("creator balance not credited: %s", state.balance(creator))
	}
	if initialTotal.Cmp(sumBalances(state, fan, creator)) != 0 {
		t.Fatalf("tip created or destroyed value")
	}
	if state.creators[creator].TotalEarnings.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("earnings not accrued: %s", state.creators[creator].TotalEarnings)
	}
	if state.total.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("platform total not advanced: %s", state.total)
	}
}

func TestTipCreatorGuards(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	fan := addr(0x01)
	creator := addr(0x02)
	state.seedCreator(creator)
	state.seedCreator(fan)
	state.setBalance(fan, 100)

	if _, err := engine.TipCreator(fan, creator, big.NewInt(0)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := engine.TipCreator(fan, creator, nil); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for nil, got %v", err)
	}
	if _, err := engine.TipCreator(fan, fan, big.NewInt(10)); !errors.Is(err, ErrSelfTip) {
		t.Fatalf("expected ErrSelfTip, got %v", err)
	}
	if _, err := engine.TipCreator(fan, addr(0x09), big.NewInt(10)); !errors.Is(err, creators.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
	if _, err := engine.TipCreator(fan, creator, big.NewInt(1_000)); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed for insufficient balance, got %v", err)
	}
	if state.balance(fan).Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("failed tips must not move value: %s", state.balance(fan))
	}
	if state.total.Sign() != 0 {
		t.Fatalf("failed tips must not advance the platform total: %s", state.total)
	}
}

func TestTipContentResolvesOwnerAndBumpsRecord(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	fan := addr(0x01)
	creator := addr(0x02)
	state.seedCreator(creator)
	state.setBalance(fan, 1_000)
	state.contents["content_1"] = &content.Content{
		ID:           "content_1",
		Creator:      creator,
		Title:        "Clip",
		CID:          "QmAbc",
		TipsReceived: big.NewInt(0),
	}

	receipt, err := engine.TipContent(fan, "content_1", big.NewInt(40))
	if err != nil {
		t.Fatalf("tip failed: %v", err)
	}
	if receipt.Path != PathContent || receipt.TargetID != "content_1" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if receipt.Creator != creator {
		t.Fatalf("receipt must name the resolved owner")
	}
	if state.contents["content_1"].TipsReceived.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("content tip counter not advanced: %s", state.contents["content_1"].TipsReceived)
	}
	if state.creators[creator].TotalEarnings.Cmp(big.NewInt(40)) != 0 {
		t.Fatalf("earnings not accrued: %s", state.creators[creator].TotalEarnings)
	}

	if _, err := engine.TipContent(creator, "content_1", big.NewInt(5)); !errors.Is(err, ErrSelfTip) {
		t.Fatalf("expected ErrSelfTip for owner tipping own content, got %v", err)
	}
	if _, err := engine.TipContent(fan, "content_99", big.NewInt(5)); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTipRoomResolvesOwner(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	fan := addr(0x01)
	creator := addr(0x02)
	state.seedCreator(creator)
	state.setBalance(fan, 1_000)
	state.rooms["room_1"] = &rooms.Room{
		ID:      "room_1",
		Creator: creator,
		Title:   "AMA",
		IsLive:  false,
	}

	// Tipping an ended room is still allowed; only joins require liveness.
	receipt, err := engine.TipRoom(fan, "room_1", big.NewInt(60))
	if err != nil {
		t.Fatalf("tip failed: %v", err)
	}
	if receipt.Path != PathRoom || receipt.TargetID != "room_1" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
	if state.balance(creator).Cmp(big.NewInt(60)) != 0 {
		t.Fatalf("owner not credited: %s", state.balance(creator))
	}

	if _, err := engine.TipRoom(creator, "room_1", big.NewInt(5)); !errors.Is(err, ErrSelfTip) {
		t.Fatalf("expected ErrSelfTip for owner tipping own room, got %v", err)
	}
	if _, err := engine.TipRoom(fan, "room_99", big.NewInt(5)); !errors.Is(err, rooms.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTipsAccumulateAcrossPaths(t *testing.T) {
	state := newMockState()
	engine := newTestEngine(state)
	fan := addr(0x01)
	creator := addr(0x02)
	state.seedCreator(creator)
	state.setBalance(fan, 1_000)
	state.contents["content_1"] = &content.Content{ID: "content_1", Creator: creator, TipsReceived: big.NewInt(0)}
	state.rooms["room_1"] = &rooms.Room{ID: "room_1", Creator: creator, IsLive: true}

	if _, err := engine.TipCreator(fan, creator, big.NewInt(100)); err != nil {
		t.Fatalf("tip creator failed: %v", err)
	}
	if _, err := engine.TipContent(fan, "content_1", big.NewInt(30)); err != nil {
		t.Fatalf("tip content failed: %v", err)
	}
	if _, err := engine.TipRoom(fan, "room_1", big.NewInt(20)); err != nil {
		t.Fatalf("tip room failed: %v", err)
	}

	if state.creators[creator].TotalEarnings.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("earnings mismatch: %s", state.creators[creator].TotalEarnings)
	}
	if state.total.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("platform total mismatch: %s", state.total)
	}
	if state.balance(fan).Cmp(big.NewInt(850)) != 0 {
		t.Fatalf("fan balance mismatch: %s", state.balance(fan))
	}
}
