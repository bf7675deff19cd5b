// Package osc implements a phase-accumulator oscillator with PolyBLEP
// anti-aliasing. PolyBLEP (polynomial band-limited step) applies a small
// correction around waveform discontinuities, suppressing aliasing in the
// square, saw and triangle waves without oversampling.
package osc

import "math"

const twoPi = math.Pi * 2

// Waveform selects the generated wave shape. It is a closed set; dispatch is
// a switch on the hot per-sample path, not an interface.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Square
	Saw
)

var waveformNames = [...]string{"Sine", "Triangle", "Square", "Saw"}

// Name returns the display name for the waveform.
func (w Waveform) Name() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return "Unknown"
	}
	return waveformNames[w]
}

// FromIndex maps an integer index to a Waveform. Out-of-range indices clamp
// to the nearest valid variant rather than erroring; hosts bind waveform
// selection to an integer parameter and may hand us anything.
func FromIndex(index int) Waveform {
	if index < 0 {
		return Sine
	}
	if index >= len(waveformNames) {
		return Waveform(len(waveformNames) - 1)
	}
	return Waveform(index)
}

// Oscillator generates one band-limited sample per Tick. The phase lives in
// [0,1) and advances by frequency/sampleRate each sample.
type Oscillator struct {
	phase      float64
	phaseDelta float64
	sampleRate float64
	frequency  float64
	waveform   Waveform

	// Running state of the leaky integrator used for the PolyBLEP triangle.
	triIntegrator float64
}

// New creates an oscillator at the given sample rate, producing a 440 Hz sine.
func New(sampleRate float64) *Oscillator {
	o := &Oscillator{
		sampleRate: sampleRate,
		frequency:  440,
		waveform:   Sine,
	}
	o.updatePhaseDelta()
	return o
}

// SetSampleRate sets the output sample rate in Hz. Must be positive; the rate
// is always host-supplied.
func (o *Oscillator) SetSampleRate(sampleRate float64) {
	o.sampleRate = sampleRate
	o.updatePhaseDelta()
}

// SetFrequency sets the oscillation frequency in Hz.
func (o *Oscillator) SetFrequency(frequency float64) {
	o.frequency = frequency
	o.updatePhaseDelta()
}

// SetWaveform selects the wave shape.
func (o *Oscillator) SetWaveform(w Waveform) {
	o.waveform = w
}

// Waveform returns the current wave shape.
func (o *Oscillator) Waveform() Waveform {
	return o.waveform
}

// Reset zeroes the phase and the triangle integrator. Called on note-on so
// retriggers start from the same point in the cycle regardless of frequency.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.triIntegrator = 0
}

// Tick generates the next sample and advances the phase. The sample is
// computed from the current phase, so the first tick after Reset corresponds
// to phase exactly 0.
func (o *Oscillator) Tick() float64 {
	dt := o.phaseDelta
	var sample float64
	switch o.waveform {
	case Sine:
		sample = math.Sin(twoPi * o.phase)
	case Saw:
		sample = sawBLEP(o.phase, dt)
	case Square:
		sample = squareBLEP(o.phase, dt)
	case Triangle:
		// Integrate a PolyBLEP square to get a band-limited triangle with
		// rounded peaks. The (1-dt) leak keeps DC from accumulating; the
		// result settles within a few cycles after a Reset or frequency
		// change, which callers tolerate.
		sq := squareBLEP(o.phase, dt)
		o.triIntegrator = dt*sq + (1-dt)*o.triIntegrator
		sample = o.triIntegrator * 4
	}

	o.phase += dt
	if o.phase >= 1 {
		o.phase -= 1
	}
	return sample
}

func (o *Oscillator) updatePhaseDelta() {
	o.phaseDelta = o.frequency / o.sampleRate
}

// sawBLEP is a naive ramp from -1 to +1 with the PolyBLEP correction applied
// at the phase 1->0 wrap discontinuity.
func sawBLEP(phase, dt float64) float64 {
	return 2*phase - 1 - polyBLEP(phase, dt)
}

// squareBLEP is a naive half-and-half square with corrections at both the
// rising edge (phase 0) and the falling edge (phase 0.5).
func squareBLEP(phase, dt float64) float64 {
	sample := -1.0
	if phase < 0.5 {
		sample = 1.0
	}
	sample += polyBLEP(phase, dt)
	sample -= polyBLEP(math.Mod(phase+0.5, 1), dt)
	return sample
}

// polyBLEP is the second-order residual applied within one sample of a
// discontinuity at t=0. For 0 <= t < dt the edge just passed; for
// 1-dt < t < 1 it is about to arrive; elsewhere the correction is zero.
func polyBLEP(t, dt float64) float64 {
	if t < dt {
		t /= dt
		return 2*t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + 2*t + 1
	}
	return 0
}
