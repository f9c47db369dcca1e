package creators

import (
	"errors"
	"math/big"
	"strings"
	"time"

	"decentraspace/core/events"
)

var (
	// ErrAlreadyRegistered rejects a second registration for the same address.
	ErrAlreadyRegistered = errors.New("creators engine: address already registered")
	// ErrNotRegistered rejects a creator-gated action from an unregistered address.
	ErrNotRegistered = errors.New("creators engine: address not registered")
	// ErrInvalidInput rejects empty or oversized profile fields.
	ErrInvalidInput = errors.New("creators engine: invalid input")

	errNilState = errors.New("creators engine: state not configured")
)

// Default field limits, overridable through SetLimits.
const (
	DefaultMaxNameLength        = 80
	DefaultMaxDescriptionLength = 500
)

type engineState interface {
	CreatorGet(addr [20]byte) (*Creator, bool, error)
	CreatorPut(creator *Creator) error
	CreatorIndexAppend(addr [20]byte) error
	CreatorIndex() ([][20]byte, error)
}

// Engine wires creator registry business logic with persistence and event
// emission.
type Engine struct {
	state   engineState
	emitter events.Emitter
	nowFn   func() int64
	maxName int
	maxDesc int
}

// NewEngine constructs a creator registry engine with default dependencies.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn: func() int64 {
			return time.Now().Unix()
		},
		maxName: DefaultMaxNameLength,
		maxDesc: DefaultMaxDescriptionLength,
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
func (e *Engine) SetLimits(maxName, maxDescription int) {
	if maxName > 0 {
		e.maxName = maxName
	}
	if maxDescription > 0 {
		e.maxDesc = maxDescription
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

func sanitizeField(value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || len(trimmed) > max {
		return "", ErrInvalidInput
	}
	return trimmed, nil
}

// Register creates the profile record for a previously unknown address.
func (e *Engine) Register(caller [20]byte, name, description string) (*Creator, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	cleanName, err := sanitizeField(name, e.maxName)
	if err != nil {
		return nil, err
	}
	cleanDesc, err := sanitizeField(description, e.maxDesc)
	if err != nil {
		return nil, err
	}
	if _, ok, err := e.state.CreatorGet(caller); err != nil {
		return nil, err
	} else if ok {
		return nil, ErrAlreadyRegistered
	}
	creator := &Creator{
		Address:       caller,
		Name:          cleanName,
		Description:   cleanDesc,
		TotalEarnings: big.NewInt(0),
		CreatedAt:     e.now(),
	}
	if err := e.state.CreatorPut(creator); err != nil {
		return nil, err
	}
	if err := e.state.CreatorIndexAppend(caller); err != nil {
		return nil, err
	}
	e.emit(RegisteredEvent(creator))
	return creator.Clone(), nil
}

// Update overwrites the mutable profile fields of an existing creator.
// Counters and the registration timestamp are untouched.
func (e *Engine) Update(caller [20]byte, name, description string) (*Creator, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	cleanName, err := sanitizeField(name, e.maxName)
	if err != nil {
		return nil, err
	}
	cleanDesc, err := sanitizeField(description, e.maxDesc)
	if err != nil {
		return nil, err
	}
	creator, ok, err := e.state.CreatorGet(caller)
	if err != nil {
		return nil, err
	}
	if !ok || creator == nil {
		return nil, ErrNotRegistered
	}
	creator.Name = cleanName
	creator.Description = cleanDesc
	if err := e.state.CreatorPut(creator); err != nil {
		return nil, err
	}
	e.emit(UpdatedEvent(creator))
	return creator.Clone(), nil
}

// Get returns the profile for addr. Unknown addresses yield a zero-valued
// record and registered=false rather than an error; this mirrors the
// mapping-read behaviour of the reference contract and is deliberately
// asymmetric with content/room lookups, which do fail on unknown ids.
func (e *Engine) Get(addr [20]byte) (*Creator, bool, error) {
	if e == nil || e.state == nil {
		return nil, false, errNilState
	}
	creator, ok, err := e.state.CreatorGet(addr)
	if err != nil {
		return nil, false, err
	}
	if !ok || creator == nil {
		return Zero(addr), false, nil
	}
	return creator.Clone(), true, nil
}

// IsRegistered is the only reliable existence check for a creator.
func (e *Engine) IsRegistered(addr [20]byte) (bool, error) {
	if e == nil || e.state == nil {
		return false, errNilState
	}
	_, ok, err := e.state.CreatorGet(addr)
	return ok, err
}

// Featured returns all registered creator addresses, most recently
// registered first.
func (e *Engine) Featured() ([][20]byte, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	index, err := e.state.CreatorIndex()
	if err != nil {
		return nil, err
	}
	out := make([][20]byte, 0, len(index))
	for i := len(index) - 1; i >= 0; i-- {
		out = append(out, index[i])
	}
	return out, nil
}
