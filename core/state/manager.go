package state

import (
	"errors"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"decentraspace/storage"
)

// Manager reads and writes ledger records against a key-value database.
// Records are RLP encoded under keccak-hashed keys. Run against a
// storage.Overlay it becomes the staging area of a transaction; run
// against the raw database it serves reads.
type Manager struct {
	db storage.Database
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

var (
	creatorRecordPrefix  = []byte("creator:")
	creatorIndexKey      = ethcrypto.Keccak256([]byte("creator-index"))
	contentRecordPrefix  = []byte("content:")
	contentIndexKey      = ethcrypto.Keccak256([]byte("content-index"))
	creatorContentPrefix = []byte("creator-contents:")
	roomRecordPrefix     = []byte("room:")
	roomIndexKey         = ethcrypto.Keccak256([]byte("room-index"))
	creatorRoomPrefix    = []byte("creator-rooms:")
	accountPrefix        = []byte("account:")
	contentCounterKey    = ethcrypto.Keccak256([]byte("content-counter"))
	roomCounterKey       = ethcrypto.Keccak256([]byte("room-counter"))
	totalTipsKey         = ethcrypto.Keccak256([]byte("total-tips"))
	genesisAppliedKey    = ethcrypto.Keccak256([]byte("genesis-applied"))
)

func prefixedKey(prefix []byte, suffix []byte) []byte {
	buf := make([]byte, len(prefix)+len(suffix))
	copy(buf, prefix)
	copy(buf[len(prefix):], suffix)
	return ethcrypto.Keccak256(buf)
}

// load fetches and decodes a record, reporting absence without error.
func (m *Manager) load(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Manager) store(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.db.Put(key, encoded)
}

func (m *Manager) loadCounter(key []byte) (uint64, error) {
	var value uint64
	ok, err := m.load(key, &value)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return value, nil
}

func (m *Manager) nextCounter(key []byte) (uint64, error) {
	current, err := m.loadCounter(key)
	if err != nil {
		return 0, err
	}
	next := current + 1
	if err := m.store(key, next); err != nil {
		return 0, err
	}
	return next, nil
}

func (m *Manager) loadBigInt(key []byte) (*big.Int, error) {
	value := new(big.Int)
	ok, err := m.load(key, value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return value, nil
}

func (m *Manager) loadStringList(key []byte) ([]string, error) {
	var list []string
	ok, err := m.load(key, &list)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}
	return list, nil
}

func (m *Manager) appendStringList(key []byte, value string) error {
	list, err := m.loadStringList(key)
	if err != nil {
		return err
	}
	return m.store(key, append(list, value))
}

// ContentCounter returns the high-water mark of allocated content ids.
func (m *Manager) ContentCounter() (uint64, error) {
	return m.loadCounter(contentCounterKey)
}

// ContentCounterNext allocates the next sequential content number.
func (m *Manager) ContentCounterNext() (uint64, error) {
	return m.nextCounter(contentCounterKey)
}

// RoomCounter returns the high-water mark of allocated room ids.
func (m *Manager) RoomCounter() (uint64, error) {
	return m.loadCounter(roomCounterKey)
}

// RoomCounterNext allocates the next sequential room number.
func (m *Manager) RoomCounterNext() (uint64, error) {
	return m.nextCounter(roomCounterKey)
}

// TotalTips returns the cumulative tipped value across all paths.
func (m *Manager) TotalTips() (*big.Int, error) {
	return m.loadBigInt(totalTipsKey)
}

// SetTotalTips overwrites the cumulative tipped value.
func (m *Manager) SetTotalTips(total *big.Int) error {
	if total == nil || total.Sign() < 0 {
		return errors.New("state: total tips must be non-negative")
	}
	return m.store(totalTipsKey, total)
}

// GenesisApplied reports whether initial allocations have been written.
func (m *Manager) GenesisApplied() (bool, error) {
	var flag bool
	ok, err := m.load(genesisAppliedKey, &flag)
	if err != nil {
		return false, err
	}
	return ok && flag, nil
}

// MarkGenesisApplied records that initial allocations were written.
func (m *Manager) MarkGenesisApplied() error {
	return m.store(genesisAppliedKey, true)
}
