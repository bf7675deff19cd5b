// Package midiin forwards note events from a hardware MIDI input to the
// synthesizer. It listens on the first available input port and reduces the
// raw byte stream to note-on and note-off callbacks.
package midiin

import (
	"context"
	"fmt"
	"log"

	"gitlab.com/gomidi/rtmididrv"
)

// Handler receives note events. Callbacks run on the MIDI driver's thread,
// so they must be cheap and thread-safe; pushing into a lock-free queue fits.
type Handler interface {
	NoteOn(note, velocity uint8)
	NoteOff(note uint8)
}

// Listen opens the first MIDI input port and delivers its note events to h
// until ctx is cancelled. It returns an error if no port can be opened; once
// listening, it blocks until cancellation.
func Listen(ctx context.Context, h Handler) error {
	drv, err := rtmididrv.New()
	if err != nil {
		return fmt.Errorf("initialize MIDI driver: %w", err)
	}
	defer func() {
		if err := drv.Close(); err != nil {
			log.Printf("close MIDI driver: %v", err)
		}
	}()

	ins, err := drv.Ins()
	if err != nil {
		return fmt.Errorf("list MIDI inputs: %w", err)
	}
	if len(ins) == 0 {
		return fmt.Errorf("no MIDI input ports found")
	}
	in := ins[0]
	if err := in.Open(); err != nil {
		return fmt.Errorf("open MIDI input %v: %w", in, err)
	}
	defer func() {
		if err := in.Close(); err != nil {
			log.Printf("close MIDI input: %v", err)
		}
	}()
	log.Printf("listening on MIDI input %v", in)

	if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
		Decode(data, h)
	}); err != nil {
		return fmt.Errorf("set MIDI listener: %w", err)
	}
	defer func() {
		if err := in.StopListening(); err != nil {
			log.Printf("stop MIDI listening: %v", err)
		}
	}()

	<-ctx.Done()
	return ctx.Err()
}

// Decode reduces one raw MIDI message to note events on h. A note-on with
// velocity zero counts as a note-off, as running MIDI hardware commonly
// sends it. Other message types are ignored.
func Decode(data []byte, h Handler) {
	if len(data) < 3 {
		return
	}
	status, note, velocity := data[0]>>4, data[1]&0x7f, data[2]&0x7f
	switch {
	case status == 0x9 && velocity > 0:
		h.NoteOn(note, velocity)
	case status == 0x8, status == 0x9:
		h.NoteOff(note)
	}
}
