package content

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"decentraspace/core/events"
	"decentraspace/native/creators"
)

var (
	// ErrNotFound rejects references to content ids that were never allocated.
	ErrNotFound = errors.New("content engine: content not found")
	// ErrInvalidInput rejects empty or oversized fields.
	ErrInvalidInput = errors.New("content engine: invalid input")

	errNilState = errors.New("content engine: state not configured")
)

// Default field limits, overridable through SetLimits.
const (
	DefaultMaxTitleLength = 80
	DefaultMaxCIDLength   = 200
)

// IDPrefix is the prefix of every allocated content id.
const IDPrefix = "content_"

type engineState interface {
	CreatorGet(addr [20]byte) (*creators.Creator, bool, error)
	CreatorPut(creator *creators.Creator) error
	ContentGet(id string) (*Content, bool, error)
	ContentPut(content *Content) error
	ContentCounterNext() (uint64, error)
	ContentIndexAppend(id string) error
	ContentIndex() ([]string, error)
	CreatorContentAppend(addr [20]byte, id string) error
	CreatorContents(addr [20]byte) ([]string, error)
}

// Engine wires the content registry business logic with persistence and
// event emission.
type Engine struct {
	state    engineState
	emitter  events.Emitter
	nowFn    func() int64
	maxTitle int
	maxCID   int
}

// NewEngine constructs a content engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
		maxTitle: DefaultMaxTitleLength,
		maxCID:   DefaultMaxCIDLength,
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
func (e *Engine) SetLimits(maxTitle, maxCID int) {
	if maxTitle > 0 {
		e.maxTitle = maxTitle
	}
	if maxCID > 0 {
		e.maxCID = maxCID
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

// Publish allocates the next sequential content id and stores an immutable
// record owned by the caller. The caller must already be a registered
// creator; their content count advances in the same transaction.
func (e *Engine) Publish(caller [20]byte, title, cid string) (*Content, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	cleanTitle := strings.TrimSpace(title)
	if cleanTitle == "" || len(cleanTitle) > e.maxTitle {
		return nil, ErrInvalidInput
	}
	cleanCID := strings.TrimSpace(cid)
	if cleanCID == "" || len(cleanCID) > e.maxCID {
		return nil, ErrInvalidInput
	}
	owner, ok, err := e.state.CreatorGet(caller)
	if err != nil {
		return nil, err
	}
	if !ok || owner == nil {
		return nil, creators.ErrNotRegistered
	}
	seq, err := e.state.ContentCounterNext()
	if err != nil {
		return nil, err
	}
	record := &Content{
		ID:           fmt.Sprintf("%s%d", IDPrefix, seq),
		Creator:      caller,
		Title:        cleanTitle,
		CID:          cleanCID,
		Timestamp:    e.now(),
		TipsReceived: big.NewInt(0),
	}
	if err := e.state.ContentPut(record); err != nil {
		return nil, err
	}
	if err := e.state.ContentIndexAppend(record.ID); err != nil {
		return nil, err
	}
	if err := e.state.CreatorContentAppend(caller, record.ID); err != nil {
		return nil, err
	}
	owner.ContentCount++
	if err := e.state.CreatorPut(owner); err != nil {
		return nil, err
	}
	e.emit(PublishedEvent(record))
	return record.Clone(), nil
}

// View increments the view counter. Any caller counts, the owner included;
// there is no self-view guard in this model.
func (e *Engine) View(caller [20]byte, id string) (*Content, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.ContentGet(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	record.Views++
	if err := e.state.ContentPut(record); err != nil {
		return nil, err
	}
	e.emit(ViewedEvent(record, caller))
	return record.Clone(), nil
}

// Get returns the record for id or ErrNotFound. Unlike creator lookups
// there is no zero-value fallback here; the asymmetry is intentional.
func (e *Engine) Get(id string) (*Content, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	record, ok, err := e.state.ContentGet(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !ok || record == nil {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}

// ByCreator returns the ids published by addr in publication order.
func (e *Engine) ByCreator(addr [20]byte) ([]string, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	return e.state.CreatorContents(addr)
}

// Latest returns all content ids, most recently published first. Callers
// needing a bounded page slice the result themselves.
func (e *Engine) Latest() ([]string, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	index, err := e.state.ContentIndex()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(index))
	for i := len(index) - 1; i >= 0; i-- {
		out = append(out, index[i])
	}
	return out, nil
}
