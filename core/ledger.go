package core

import (
	"math"
	"math/big"
	"sync"

	"decentraspace/core/events"
	"decentraspace/core/genesis"
	"decentraspace/core/state"
	"decentraspace/crypto"
	"decentraspace/native/content"
	"decentraspace/native/creators"
	"decentraspace/native/rooms"
	"decentraspace/native/tipping"
	"decentraspace/observability/metrics"
	"decentraspace/storage"
)

// PlatformStats aggregates the global monotonic counters.
type PlatformStats struct {
	CreatorsCount   uint64   `json:"creatorsCount"`
	ContentCount    uint64   `json:"contentCount"`
	LiveRoomsCount  uint64   `json:"liveRoomsCount"`
	TotalTipsAmount *big.Int `json:"totalTipsAmount"`
}

// Limits carries the configured maximum field lengths.
type Limits struct {
	MaxName        int
	MaxDescription int
	MaxTitle       int
	MaxCID         int
	MaxLink        int
}

// Ledger is the transaction boundary around all mutable state. Every
// mutating call runs under one mutex against a staged overlay: the engine
// computes all effects into the overlay, and only a fully successful call
// commits. Failures discard the overlay and the buffered events, so no
// partial write or announcement ever escapes. This stands in for the
// serialized, atomically-reverting execution environment of the reference
// contract.
type Ledger struct {
	mu      sync.Mutex
	db      storage.Database
	emitter events.Emitter
	nowFn   func() int64
	limits  Limits
}

// Option customises a Ledger at construction time.
type Option func(*Ledger)

// WithEmitter routes committed events to emitter.
func WithEmitter(emitter events.Emitter) Option {
	return func(l *Ledger) {
		if emitter != nil {
			l.emitter = emitter
		}
	}
}

// WithNowFunc overrides the time source for deterministic testing.
func WithNowFunc(now func() int64) Option {
	return func(l *Ledger) {
		if now != nil {
			l.nowFn = now
		}
	}
}

// WithLimits overrides the maximum accepted field lengths.
func WithLimits(limits Limits) Option {
	return func(l *Ledger) {
		l.limits = limits
	}
}

// NewLedger constructs a ledger over db.
func NewLedger(db storage.Database, opts ...Option) *Ledger {
	l := &Ledger{
		db:      db,
		emitter: events.NoopEmitter{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type txEngines struct {
	creators *creators.Engine
	content  *content.Engine
	rooms    *rooms.Engine
	tipping  *tipping.Engine
}

func (l *Ledger) engines(m *state.Manager, sink events.Emitter) *txEngines {
	e := &txEngines{
		creators: creators.NewEngine(),
		content:  content.NewEngine(),
		rooms:    rooms.NewEngine(),
		tipping:  tipping.NewEngine(),
	}
	e.creators.SetState(m)
	e.content.SetState(m)
	e.rooms.SetState(m)
	e.tipping.SetState(m)
	e.creators.SetEmitter(sink)
	e.content.SetEmitter(sink)
	e.rooms.SetEmitter(sink)
	e.tipping.SetEmitter(sink)
	if l.nowFn != nil {
		e.creators.SetNowFunc(l.nowFn)
		e.content.SetNowFunc(l.nowFn)
		e.rooms.SetNowFunc(l.nowFn)
		e.tipping.SetNowFunc(l.nowFn)
	}
	e.creators.SetLimits(l.limits.MaxName, l.limits.MaxDescription)
	e.content.SetLimits(l.limits.MaxTitle, l.limits.MaxCID)
	e.rooms.SetLimits(l.limits.MaxTitle, l.limits.MaxDescription, l.limits.MaxLink)
	return e
}

// withTransaction serializes a mutating call: effects are staged into an
// overlay and committed only when fn succeeds.
func (l *Ledger) withTransaction(op string, fn func(e *txEngines) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	overlay := storage.NewOverlay(l.db)
	buf := events.NewBuffer()
	if err := fn(l.engines(state.NewManager(overlay), buf)); err != nil {
		metrics.Ledger().ObserveRejected(op)
		return err
	}
	if err := overlay.Commit(); err != nil {
		metrics.Ledger().ObserveRejected(op)
		return err
	}
	buf.FlushTo(l.emitter)
	metrics.Ledger().ObserveApplied(op)
	return nil
}

// withView serializes a read-only call against the committed state.
func (l *Ledger) withView(fn func(e *txEngines, m *state.Manager) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := state.NewManager(l.db)
	return fn(l.engines(m, events.NoopEmitter{}), m)
}

// --- Creator registry ---

// RegisterCreator creates a profile for the caller address.
func (l *Ledger) RegisterCreator(caller crypto.Address, name, description string) (*creators.Creator, error) {
	var out *creators.Creator
	err := l.withTransaction("creator_register", func(e *txEngines) error {
		created, err := e.creators.Register(caller.Raw(), name, description)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	return out, err
}

// UpdateCreator rewrites the caller's profile fields.
func (l *Ledger) UpdateCreator(caller crypto.Address, name, description string) (*creators.Creator, error) {
	var out *creators.Creator
	err := l.withTransaction("creator_update", func(e *txEngines) error {
		updated, err := e.creators.Update(caller.Raw(), name, description)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	return out, err
}

// GetCreator returns the profile for addr; unregistered addresses yield a
// zero-valued record and registered=false, never an error.
func (l *Ledger) GetCreator(addr crypto.Address) (*creators.Creator, bool, error) {
	var (
		out        *creators.Creator
		registered bool
	)
	err := l.withView(func(e *txEngines, _ *state.Manager) error {
		creator, ok, err := e.creators.Get(addr.Raw())
		if err != nil {
			return err
		}
		out, registered = creator, ok
		return nil
	})
	return out, registered, err
}

// IsCreatorRegistered is the reliable existence check for a creator.
func (l *Ledger) IsCreatorRegistered(addr crypto.Address) (bool, error) {
	var out bool
	err := l.withView(func(e *txEngines, _ *state.Manager) error {
		ok, err := e.creators.IsRegistered(addr.Raw())
		out = ok
		return err
	})
	return out, err
}

// FeaturedCreators lists all creators, most recently registered first.
func (l *Ledger) FeaturedCreators() ([]crypto.Address, error) {
	var out []crypto.Address
	err := l.withView(func(e *txEngines, _ *state.Manager) error {
		raw, err := e.creators.Featured()
		if err != nil {
			return err
		}
		out = make([]crypto.Address, 0, len(raw))
		for _, addr := range raw {
			out = append(out, crypto.AddressFromRaw(addr))
		}
		return nil
	})
	return out, err
}

// --- Content registry ---

// UploadContent publishes an immutable content record for the caller.
func (l *Ledger) UploadContent(caller crypto.Address, title, cid string) (*content.Content, error) {
	var out *content.Content
	err := l.withTransaction("content_upload", func(e *txEngines) error {
		record, err := e.content.Publish(caller.Raw(), title, cid)
		if err != nil {
			return err
		}
		out = record
		return nil
	})
	return out, err
}

// ViewContent increments the view counter of an existing content item.
func (l *Ledger) ViewContent(caller crypto.Address, id string) (*content.Content, error) {
	var out *content.Content
	err := l.withTransaction("content_view", func(e *txEngines) error {
		record, err := e.content.View(caller.Raw(), id)
		if err != nil {
			return err
		}
		out = record
		return nil
	})
	return out, err
}

// GetContent returns the record for id or content.ErrNotFound.
func (l *Ledger) GetContent(id string) (*content.Content, error) {
	var out *content.Content
	err := l.withView(func(e *txEngines, _ *state.Manager) error {
		record, err := e.content.Get(id)
		if err != nil {
			return err
		}
		out = record
		return nil
	})
	return out, err
}

// CreatorContents lists the ids published by addr in publication order.
func (l *Ledger) CreatorContents(addr crypto.Address) ([]string, error) {
	var out []string
	err := l.withView(func(e *txEngines, _ *state.Manager) error {
		ids, err := e.content.ByCreator(addr.Raw())
		out = ids
		return err
	})
	return out, err
}

// LatestContent lists all content ids, most recently published first.
func (l *Ledger) LatestContent() ([]string, error) {
	var out []string
	err := l.withView(func(e *txEngines, _ *state.Manager) error {
		ids, err := e.content.Latest()
		out = ids
		return err
	})
	return out, err
}

// --- Live rooms ---

// CreateLiveRoom opens a live room owned by the caller.
func (l *Ledger) CreateLiveRoom(caller crypto.Address, title, description, huddleLink string) (*rooms.Room, error) {
	var out *rooms.Room
	err := l.withTransaction("room_create", func(e *txEngines) error {
		room, err := e.rooms.Create(caller.Raw(), title, description, huddleLink)
		if err != nil {
			return err
		}
		out = room
		return nil
	})
	return out, err
}

// UpdateLiveRoomStatus flips the live flag; owner only.
func (l *Ledger) UpdateLiveRoomStatus(caller crypto.Address, id string, isLive bool) (*rooms.Room, error) {
	var out *rooms.Room
	err := l.withTransaction("room_setStatus", func(e *txEngines) error {
		room, err := e.rooms.SetStatus(caller.Raw(), id, isLive)
		if err != nil {
			return err
		}
		out = room
		return nil
	})
	return out, err
}

// JoinLiveRoom increments presence on a live room.
func (l *Ledger) JoinLiveRoom(caller crypto.Address, id string) (*rooms.Room, error) {
	var out *rooms.Room
	err := l.withTransaction("room_join", func(e *txEngines) error {
		room, err := e.rooms.Join(caller.Raw(), id)
		if err != nil {
			return err
		}
		out = room
		return nil
	})
	return out, err
}

// LeaveLiveRoom decrements presence, clamped at zero.
func (l *Ledger) LeaveLiveRoom(caller crypto.Address, id string) (*rooms.Room, error) {
	var out *rooms.Room
	err := l.withTransaction("room_leave", func(e *txEngines) error {
		room, err := e.rooms.Leave(caller.Raw(), id)
		if err != nil {
			return err
		}
		out = room
		return nil
	})
	return out, err
}

// GetLiveRoom returns the record for id or rooms.ErrNotFound.
func (l *Ledger) GetLiveRoom(id string) (*rooms.Room, error) {
	var out *rooms.Room
	err := l.withView(func(e *txEngines, _ *state.Manager) error {
		room, err := e.rooms.Get(id)
		if err != nil {
			return err
		}
		out = room
		return nil
	})
	return out, err
}

// CreatorLiveRooms lists the room ids created by addr in creation order.
func (l *Ledger) CreatorLiveRooms(addr crypto.Address) ([]string, error) {
	var out []string
	err := l.withView(func(e *txEngines, _ *state.Manager) error {
		ids, err := e.rooms.ByCreator(addr.Raw())
		out = ids
		return err
	})
	return out, err
}

// ActiveLiveRooms lists live rooms, most recently created first.
func (l *Ledger) ActiveLiveRooms() ([]string, error) {
	var out []string
	err := l.withView(func(e *txEngines, _ *state.Manager) error {
		ids, err := e.rooms.Active()
		out = ids
		return err
	})
	return out, err
}

// --- Tipping ---

// tipVolume converts a tip amount for the float64 counter, clamping values
// beyond float64 range so the metric never receives +Inf.
func tipVolume(amount *big.Int) float64 {
	if amount == nil || amount.Sign() <= 0 {
		return 0
	}
	v, _ := new(big.Float).SetInt(amount).Float64()
	if math.IsInf(v, 0) {
		return math.MaxFloat64
	}
	return v
}

func (l *Ledger) observeTip(receipt *tipping.Receipt) {
	if receipt != nil {
		metrics.Ledger().ObserveTip(string(receipt.Path), tipVolume(receipt.Amount))
	}
}

// TipCreator transfers amount from the caller to a registered creator.
func (l *Ledger) TipCreator(caller crypto.Address, target crypto.Address, amount *big.Int) (*tipping.Receipt, error) {
	var out *tipping.Receipt
	err := l.withTransaction("tip_creator", func(e *txEngines) error {
		receipt, err := e.tipping.TipCreator(caller.Raw(), target.Raw(), amount)
		if err != nil {
			return err
		}
		out = receipt
		return nil
	})
	if err == nil {
		l.observeTip(out)
	}
	return out, err
}

// TipContent tips the owner of a content item, crediting the item's own
// tip counter as well.
func (l *Ledger) TipContent(caller crypto.Address, id string, amount *big.Int) (*tipping.Receipt, error) {
	var out *tipping.Receipt
	err := l.withTransaction("tip_content", func(e *txEngines) error {
		receipt, err := e.tipping.TipContent(caller.Raw(), id, amount)
		if err != nil {
			return err
		}
		out = receipt
		return nil
	})
	if err == nil {
		l.observeTip(out)
	}
	return out, err
}

// TipLiveRoom tips the owner of a live room.
func (l *Ledger) TipLiveRoom(caller crypto.Address, id string, amount *big.Int) (*tipping.Receipt, error) {
	var out *tipping.Receipt
	err := l.withTransaction("tip_room", func(e *txEngines) error {
		receipt, err := e.tipping.TipRoom(caller.Raw(), id, amount)
		if err != nil {
			return err
		}
		out = receipt
		return nil
	})
	if err == nil {
		l.observeTip(out)
	}
	return out, err
}

// --- Aggregation & accounts ---

// GetPlatformStats derives the global counters from committed state.
func (l *Ledger) GetPlatformStats() (*PlatformStats, error) {
	var out *PlatformStats
	err := l.withView(func(_ *txEngines, m *state.Manager) error {
		creatorsCount, err := m.CreatorCount()
		if err != nil {
			return err
		}
		contentCount, err := m.ContentCounter()
		if err != nil {
			return err
		}
		roomCount, err := m.RoomCounter()
		if err != nil {
			return err
		}
		totalTips, err := m.TotalTips()
		if err != nil {
			return err
		}
		out = &PlatformStats{
			CreatorsCount:   creatorsCount,
			ContentCount:    contentCount,
			LiveRoomsCount:  roomCount,
			TotalTipsAmount: totalTips,
		}
		return nil
	})
	return out, err
}

// GetBalance returns the spendable balance of addr.
func (l *Ledger) GetBalance(addr crypto.Address) (*big.Int, error) {
	var out *big.Int
	err := l.withView(func(_ *txEngines, m *state.Manager) error {
		account, err := m.AccountGet(addr.Raw())
		if err != nil {
			return err
		}
		out = account.Balance
		return nil
	})
	return out, err
}

// InitGenesis credits the initial allocations exactly once per data
// directory.
func (l *Ledger) InitGenesis(g *genesis.Genesis) error {
	if g == nil {
		return nil
	}
	allocations, err := g.Allocations()
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	overlay := storage.NewOverlay(l.db)
	m := state.NewManager(overlay)
	applied, err := m.GenesisApplied()
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	for _, alloc := range allocations {
		account, err := m.AccountGet(alloc.Address.Raw())
		if err != nil {
			return err
		}
		account.Balance = new(big.Int).Set(alloc.Balance)
		if err := m.AccountPut(alloc.Address.Raw(), account); err != nil {
			return err
		}
	}
	if err := m.MarkGenesisApplied(); err != nil {
		return err
	}
	return overlay.Commit()
}
