package synth

// TimedEvent schedules a note change at an absolute sample frame.
type TimedEvent struct {
	// Frame is the sample offset from the start of the render at which the
	// event takes effect.
	Frame int
	// On is true for note-on, false for note-off.
	On       bool
	Note     uint8
	Velocity uint8
}

// ProcessEvents renders into dst while applying events at their frame
// offsets. Events must be sorted by Frame; events whose frame falls outside
// dst are clamped to its edges.
func (e *Engine) ProcessEvents(dst []float32, events []TimedEvent) {
	pos := 0
	for _, ev := range events {
		frame := min(max(ev.Frame, 0), len(dst))
		if frame > pos {
			e.Process(dst[pos:frame])
			pos = frame
		}
		if ev.On {
			e.NoteOn(ev.Note, ev.Velocity)
		} else {
			e.NoteOff(ev.Note)
		}
	}
	if pos < len(dst) {
		e.Process(dst[pos:])
	}
}
