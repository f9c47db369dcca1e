package tipping

import (
	"errors"
	"math/big"
	"strings"
	"time"

	"decentraspace/core/events"
	"decentraspace/core/types"
	"decentraspace/native/content"
	"decentraspace/native/creators"
	"decentraspace/native/rooms"
)

var (
	// ErrSelfTip rejects tips whose target resolves to the caller.
	ErrSelfTip = errors.New("tipping engine: cannot tip yourself")
	// ErrInvalidAmount rejects zero or negative attached values.
	ErrInvalidAmount = errors.New("tipping engine: amount must be positive")
	// ErrTransferFailed signals that the value movement could not settle,
	// typically because the attached value exceeds the caller's balance.
	ErrTransferFailed = errors.New("tipping engine: transfer failed")

	errNilState = errors.New("tipping engine: state not configured")
)

type engineState interface {
	CreatorGet(addr [20]byte) (*creators.Creator, bool, error)
	CreatorPut(creator *creators.Creator) error
	ContentGet(id string) (*content.Content, bool, error)
	ContentPut(record *content.Content) error
	RoomGet(id string) (*rooms.Room, bool, error)
	AccountGet(addr [20]byte) (*types.Account, error)
	AccountPut(addr [20]byte, account *types.Account) error
	TotalTips() (*big.Int, error)
	SetTotalTips(total *big.Int) error
}

// Engine is the only component that moves value. Every tip debits the
// caller, credits the target creator, and advances the creator's earnings
// plus the platform total inside one staged transaction; the ledger layer
// commits or discards all of it together.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine constructs a tipping engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
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

// settle performs the shared tail of every tipping path: move the value,
// credit the creator's earnings, and advance the platform total.
func (e *Engine) settle(from [20]byte, target *creators.Creator, amount *big.Int) error {
	fromAccount, err := e.state.AccountGet(from)
	if err != nil {
		return err
	}
	fromAccount = types.EnsureAccount(fromAccount)
	if fromAccount.Balance.Cmp(amount) < 0 {
		return ErrTransferFailed
	}
	fromAccount.Balance = new(big.Int).Sub(fromAccount.Balance, amount)
	targetAccount, err := e.state.AccountGet(target.Address)
	if err != nil {
		return err
	}
	targetAccount = types.EnsureAccount(targetAccount)
	targetAccount.Balance = new(big.Int).Add(targetAccount.Balance, amount)
	if err := e.state.AccountPut(from, fromAccount); err != nil {
		return err
	}
	if err := e.state.AccountPut(target.Address, targetAccount); err != nil {
		return err
	}
	if target.TotalEarnings == nil {
		target.TotalEarnings = big.NewInt(0)
	}
	target.TotalEarnings = new(big.Int).Add(target.TotalEarnings, amount)
	if err := e.state.CreatorPut(target); err != nil {
		return err
	}
	total, err := e.state.TotalTips()
	if err != nil {
		return err
	}
	return e.state.SetTotalTips(new(big.Int).Add(total, amount))
}

func validAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// TipCreator transfers the attached amount directly to a registered creator.
func (e *Engine) TipCreator(from [20]byte, target [20]byte, amount *big.Int) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	if from == target {
		return nil, ErrSelfTip
	}
	creator, ok, err := e.state.CreatorGet(target)
	if err != nil {
		return nil, err
	}
	if !ok || creator == nil {
		return nil, creators.ErrNotRegistered
	}
	if err := e.settle(from, creator, amount); err != nil {
		return nil, err
	}
	receipt := &Receipt{
		Path:     PathCreator,
		Creator:  target,
		From:     from,
		Amount:   new(big.Int).Set(amount),
		TippedAt: e.now(),
	}
	e.emit(SentEvent(receipt))
	return receipt, nil
}

// TipContent resolves the content's owner and tips them, advancing the
// content's own tip counter as well.
func (e *Engine) TipContent(from [20]byte, contentID string, amount *big.Int) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	record, ok, err := e.state.ContentGet(strings.TrimSpace(contentID))
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, content.ErrNotFound
	}
	if record.Creator == from {
		return nil, ErrSelfTip
	}
	creator, ok, err := e.state.CreatorGet(record.Creator)
	if err != nil {
		return nil, err
	}
	if !ok || creator == nil {
		return nil, creators.ErrNotRegistered
	}
	if err := e.settle(from, creator, amount); err != nil {
		return nil, err
	}
	if record.TipsReceived == nil {
		record.TipsReceived = big.NewInt(0)
	}
	record.TipsReceived = new(big.Int).Add(record.TipsReceived, amount)
	if err := e.state.ContentPut(record); err != nil {
		return nil, err
	}
	receipt := &Receipt{
		Path:     PathContent,
		TargetID: record.ID,
		Creator:  record.Creator,
		From:     from,
		Amount:   new(big.Int).Set(amount),
		TippedAt: e.now(),
	}
	e.emit(SentEvent(receipt))
	return receipt, nil
}

// TipRoom resolves the room's owner and tips them.
func (e *Engine) TipRoom(from [20]byte, roomID string, amount *big.Int) (*Receipt, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	if err := validAmount(amount); err != nil {
		return nil, err
	}
	room, ok, err := e.state.RoomGet(strings.TrimSpace(roomID))
	if err != nil {
		return nil, err
	}
	if !ok || room == nil {
		return nil, rooms.ErrNotFound
	}
	if room.Creator == from {
		return nil, ErrSelfTip
	}
	creator, ok, err := e.state.CreatorGet(room.Creator)
	if err != nil {
		return nil, err
	}
	if !ok || creator == nil {
		return nil, creators.ErrNotRegistered
	}
	if err := e.settle(from, creator, amount); err != nil {
		return nil, err
	}
	receipt := &Receipt{
		Path:     PathRoom,
		TargetID: room.ID,
		Creator:  room.Creator,
		From:     from,
		Amount:   new(big.Int).Set(amount),
		TippedAt: e.now(),
	}
	e.emit(SentEvent(receipt))
	return receipt, nil
}
