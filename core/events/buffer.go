package events

// Buffer collects events emitted while a transaction is being applied.
// The ledger flushes the buffer to the real emitter only after the staged
// state commits, so an aborted call never announces anything.
type Buffer struct {
	pending []Event
}

// NewBuffer returns an empty event buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Emit implements the Emitter interface.
func (b *Buffer) Emit(evt Event) {
	if evt == nil {
		return
	}
	b.pending = append(b.pending, evt)
}

// FlushTo forwards every buffered event to sink in emission order and
// clears the buffer. A nil sink simply drops the events.
func (b *Buffer) FlushTo(sink Emitter) {
	if sink != nil {
		for _, evt := range b.pending {
			sink.Emit(evt)
		}
	}
	b.pending = nil
}

// Discard drops all buffered events.
func (b *Buffer) Discard() {
	b.pending = nil
}

// Pending returns the number of buffered events.
func (b *Buffer) Pending() int { return len(b.pending) }
