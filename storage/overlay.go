package storage

// Overlay buffers writes on top of a base database. Reads fall through to
// the base for keys that have not been staged. Nothing reaches the base
// until Commit; discarding the overlay discards every staged write, which
// is how the ledger models transaction rollback.
type Overlay struct {
	base   Database
	staged map[string][]byte
}

// NewOverlay wraps base with an empty staging area.
func NewOverlay(base Database) *Overlay {
	return &Overlay{
		base:   base,
		staged: make(map[string][]byte),
	}
}

func (o *Overlay) Put(key []byte, value []byte) error {
	buf := make([]byte, len(value))
	copy(buf, value)
	o.staged[string(key)] = buf
	return nil
}

func (o *Overlay) Get(key []byte) ([]byte, error) {
	if value, ok := o.staged[string(key)]; ok {
		buf := make([]byte, len(value))
		copy(buf, value)
		return buf, nil
	}
	return o.base.Get(key)
}

func (o *Overlay) Has(key []byte) (bool, error) {
	if _, ok := o.staged[string(key)]; ok {
		return true, nil
	}
	return o.base.Has(key)
}

// PutBatch stages every entry, keeping nested overlays atomic as well.
func (o *Overlay) PutBatch(entries map[string][]byte) error {
	for key, value := range entries {
		buf := make([]byte, len(value))
		copy(buf, value)
		o.staged[key] = buf
	}
	return nil
}

// Close satisfies the Database interface; the base stays open.
func (o *Overlay) Close() {}

// Dirty reports whether any write has been staged.
func (o *Overlay) Dirty() bool { return len(o.staged) > 0 }

// Commit flushes the staging area to the base in one atomic batch. A failed
// commit leaves the base untouched and keeps the staged writes in place.
func (o *Overlay) Commit() error {
	if len(o.staged) == 0 {
		return nil
	}
	if err := o.base.PutBatch(o.staged); err != nil {
		return err
	}
	o.staged = make(map[string][]byte)
	return nil
}

// Discard drops all staged writes without touching the base.
func (o *Overlay) Discard() {
	o.staged = make(map[string][]byte)
}
