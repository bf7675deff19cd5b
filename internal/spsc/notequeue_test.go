package spsc

import (
	"sync"
	"testing"
)

type noteEvent struct {
	note uint8
	on   bool
}

func drainAll(q *NoteQueue) []noteEvent {
	var got []noteEvent
	q.Drain(func(note uint8, on bool) {
		got = append(got, noteEvent{note, on})
	})
	return got
}

func TestNoteQueuePushDrainOrder(t *testing.T) {
	q := NewNoteQueue(8)
	q.PushNoteOn(60)
	q.PushNoteOn(64)
	q.PushNoteOff(60)
	q.PushNoteOff(64)

	want := []noteEvent{{60, true}, {64, true}, {60, false}, {64, false}}
	got := drainAll(q)
	if len(got) != len(want) {
		t.Fatalf("drained %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNoteQueueDrainOnEmptyDoesNotCall(t *testing.T) {
	q := NewNoteQueue(8)
	q.Drain(func(note uint8, on bool) {
		t.Fatalf("callback fired on empty queue with note %d", note)
	})
}

func TestNoteQueueFullDropsNewest(t *testing.T) {
	q := NewNoteQueue(4)
	if q.Cap() != 3 {
		t.Fatalf("Cap() = %d, want 3", q.Cap())
	}
	for i := uint8(0); i < 3; i++ {
		if !q.PushNoteOn(i) {
			t.Fatalf("push %d rejected before capacity", i)
		}
	}
	if q.PushNoteOn(99) {
		t.Fatal("push accepted on full queue")
	}

	got := drainAll(q)
	if len(got) != 3 {
		t.Fatalf("drained %d events, want 3", len(got))
	}
	for i, ev := range got {
		if ev.note != uint8(i) || !ev.on {
			t.Fatalf("event %d = %+v, dropped event leaked in", i, ev)
		}
	}
}

func TestNoteQueueWrapsAround(t *testing.T) {
	q := NewNoteQueue(4)
	// Cycle the ring enough times to wrap the indices repeatedly.
	for round := 0; round < 10; round++ {
		note := uint8(round * 3 % 128)
		q.PushNoteOn(note)
		q.PushNoteOff(note)
		got := drainAll(q)
		if len(got) != 2 {
			t.Fatalf("round %d drained %d events, want 2", round, len(got))
		}
		if got[0] != (noteEvent{note, true}) || got[1] != (noteEvent{note, false}) {
			t.Fatalf("round %d got %+v", round, got)
		}
	}
}

func TestNoteQueueEncodesNoteRangeEdges(t *testing.T) {
	q := NewNoteQueue(8)
	q.PushNoteOn(127)
	q.PushNoteOff(127)
	q.PushNoteOn(0)
	q.PushNoteOff(0)

	want := []noteEvent{{127, true}, {127, false}, {0, true}, {0, false}}
	got := drainAll(q)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNoteQueueTinySizeRaisedToDefault(t *testing.T) {
	q := NewNoteQueue(1)
	if q.Cap() != DefaultNoteQueueSize-1 {
		t.Fatalf("Cap() = %d, want %d", q.Cap(), DefaultNoteQueueSize-1)
	}
}

func TestNoteQueueConcurrentProducerConsumer(t *testing.T) {
	q := NewNoteQueue(64)
	const total = 10000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			note := uint8(i % 128)
			for !q.PushNoteOn(note) {
				// Ring full, consumer will catch up.
			}
		}
	}()

	received := 0
	expect := uint8(0)
	for received < total {
		q.Drain(func(note uint8, on bool) {
			if !on {
				t.Errorf("event %d: got note off, want note on", received)
			}
			if note != expect {
				t.Errorf("event %d: note = %d, want %d", received, note, expect)
			}
			expect = (expect + 1) % 128
			received++
		})
	}
	wg.Wait()
}

func BenchmarkNoteQueuePushDrain(b *testing.B) {
	q := NewNoteQueue(64)
	for i := 0; i < b.N; i++ {
		q.PushNoteOn(60)
		q.PushNoteOff(60)
		q.Drain(func(uint8, bool) {})
	}
}
