// Package synth ties an oscillator and an envelope into a monophonic voice.
package synth

import (
	"math"

	"github.com/dsshimel/monosynth/internal/envelope"
	"github.com/dsshimel/monosynth/internal/osc"
)

// noNote marks the engine as holding no note.
const noNote = -1

// NoteToFreq converts a MIDI note number to its equal-tempered frequency in
// Hz, with A4 (note 69) at 440Hz.
func NoteToFreq(note uint8) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

// Engine is a single synthesizer voice. It is not safe for concurrent use;
// the audio goroutine owns it and control changes arrive through the caller.
type Engine struct {
	oscillator *osc.Oscillator
	env        *envelope.ADSR
	gain       float64

	// currentNote is the note sounding (or releasing), noNote when none.
	currentNote int
}

// New creates an engine at the given sample rate with unity gain.
func New(sampleRate float64) *Engine {
	return &Engine{
		oscillator:  osc.New(sampleRate),
		env:         envelope.New(sampleRate),
		gain:        1,
		currentNote: noNote,
	}
}

// SetSampleRate reconfigures the engine for a new sample rate. Existing
// stage times and the current frequency are preserved.
func (e *Engine) SetSampleRate(sampleRate float64) {
	e.oscillator.SetSampleRate(sampleRate)
	e.env.SetSampleRate(sampleRate)
}

// SetGain sets the output gain multiplier, clamped to [0,1].
func (e *Engine) SetGain(gain float64) { e.gain = min(max(gain, 0), 1) }

// SetWaveform selects the oscillator waveform.
func (e *Engine) SetWaveform(w osc.Waveform) { e.oscillator.SetWaveform(w) }

// SetAttack sets the envelope attack time in seconds.
func (e *Engine) SetAttack(seconds float64) { e.env.SetAttack(seconds) }

// SetDecay sets the envelope decay time in seconds.
func (e *Engine) SetDecay(seconds float64) { e.env.SetDecay(seconds) }

// SetSustain sets the envelope sustain level.
func (e *Engine) SetSustain(level float64) { e.env.SetSustain(level) }

// SetRelease sets the envelope release time in seconds.
func (e *Engine) SetRelease(seconds float64) { e.env.SetRelease(seconds) }

// CurrentNote returns the sounding note and whether one is held.
func (e *Engine) CurrentNote() (uint8, bool) {
	if e.currentNote == noNote {
		return 0, false
	}
	return uint8(e.currentNote), true
}

// IsActive reports whether the voice is producing sound.
func (e *Engine) IsActive() bool { return e.env.IsActive() }

// NoteOn starts (or retriggers onto) the given note. The oscillator phase is
// reset so every onset starts from the same point in the cycle. Velocity is
// accepted for interface symmetry but does not affect the sound.
func (e *Engine) NoteOn(note, velocity uint8) {
	_ = velocity
	e.currentNote = int(note)
	e.oscillator.SetFrequency(NoteToFreq(note))
	e.oscillator.Reset()
	e.env.NoteOn()
}

// NoteOff releases the voice, but only if note matches the note currently
// held. A release for a note that was already superseded is ignored, which
// keeps overlapping legato playing from cutting the newer note short.
func (e *Engine) NoteOff(note uint8) {
	if e.currentNote != int(note) {
		return
	}
	e.env.NoteOff()
	e.currentNote = noNote
}

// Tick renders one sample. While the envelope is idle the voice outputs
// silence without advancing the oscillator.
func (e *Engine) Tick() float64 {
	if !e.env.IsActive() {
		return 0
	}
	return e.oscillator.Tick() * e.env.Tick() * e.gain
}

// Process renders len(dst) samples into dst. It never allocates.
func (e *Engine) Process(dst []float32) {
	for i := range dst {
		dst[i] = float32(e.Tick())
	}
}
