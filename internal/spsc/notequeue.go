package spsc

import "sync/atomic"

// noteOnBit flags a slot as a note-on; the low seven bits carry the note.
const noteOnBit = 0x80

// DefaultNoteQueueSize is the ring capacity used when none is given.
const DefaultNoteQueueSize = 64

// NoteQueue is a bounded wait-free ring carrying note-on and note-off events
// from a UI or input goroutine to the audio goroutine. Each event packs into
// one byte, stored in an atomic slot so a racing drain never observes a
// half-written event.
//
// One slot is sacrificed to distinguish full from empty, so a queue of size
// n holds n-1 events. When the ring is full the newest event is dropped.
type NoteQueue struct {
	slots []atomic.Uint32
	head  atomic.Uint32 // next slot to read, consumer-advanced
	tail  atomic.Uint32 // next slot to write, producer-advanced
}

// NewNoteQueue creates a ring with the given slot count. Sizes below two
// could never hold an event and are raised to the default.
func NewNoteQueue(size int) *NoteQueue {
	if size < 2 {
		size = DefaultNoteQueueSize
	}
	return &NoteQueue{slots: make([]atomic.Uint32, size)}
}

// Cap returns the number of events the queue can hold.
func (q *NoteQueue) Cap() int { return len(q.slots) - 1 }

// PushNoteOn enqueues a note-on event. It reports false, dropping the event,
// when the ring is full.
func (q *NoteQueue) PushNoteOn(note uint8) bool {
	return q.push(uint32(note&0x7f) | noteOnBit)
}

// PushNoteOff enqueues a note-off event. It reports false when the ring is
// full.
func (q *NoteQueue) PushNoteOff(note uint8) bool {
	return q.push(uint32(note & 0x7f))
}

func (q *NoteQueue) push(encoded uint32) bool {
	tail := q.tail.Load()
	next := (tail + 1) % uint32(len(q.slots))
	if next == q.head.Load() {
		return false
	}
	// Publish the payload before advancing tail; the consumer only reads
	// slots strictly behind tail.
	q.slots[tail].Store(encoded)
	q.tail.Store(next)
	return true
}

// Drain delivers every pending event to fn in FIFO order. Consumer side
// only; fn runs on the caller's goroutine.
func (q *NoteQueue) Drain(fn func(note uint8, on bool)) {
	head := q.head.Load()
	tail := q.tail.Load()
	for head != tail {
		encoded := q.slots[head].Load()
		fn(uint8(encoded&0x7f), encoded&noteOnBit != 0)
		head = (head + 1) % uint32(len(q.slots))
		q.head.Store(head)
	}
}
