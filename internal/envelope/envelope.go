// Package envelope implements a linear ADSR envelope generator. It produces a
// gain multiplier in [0,1] that shapes a note's amplitude over time:
// Idle -> Attack -> Decay -> Sustain -> Release -> Idle.
package envelope

// minStageSeconds is the floor applied to every time parameter. It keeps the
// per-sample rates finite and every stage at least one sample long.
const minStageSeconds = 0.001

// Stage identifies the envelope's current state.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageSustain
	StageRelease
)

// ADSR is the envelope state machine. Stage transitions happen inside Tick;
// levels never leave [0,1].
type ADSR struct {
	stage      Stage
	level      float64
	sampleRate float64

	// Times in seconds; sustain is a level, not a time.
	attack  float64
	decay   float64
	sustain float64
	release float64

	// Per-sample increments derived from the times and the sample rate.
	attackRate  float64
	decayRate   float64
	releaseRate float64
}

// New creates an idle envelope with the given sample rate and the defaults
// 10ms attack, 100ms decay, 0.7 sustain, 300ms release.
func New(sampleRate float64) *ADSR {
	e := &ADSR{
		sampleRate: sampleRate,
		attack:     0.01,
		decay:      0.1,
		sustain:    0.7,
		release:    0.3,
	}
	e.recalculateRates()
	return e
}

// SetSampleRate sets the sample rate and re-derives all stage rates.
func (e *ADSR) SetSampleRate(sampleRate float64) {
	e.sampleRate = sampleRate
	e.recalculateRates()
}

// SetAttack sets the attack time in seconds, floored to 1ms.
func (e *ADSR) SetAttack(seconds float64) {
	e.attack = max(seconds, minStageSeconds)
	e.attackRate = 1 / (e.attack * e.sampleRate)
}

// SetDecay sets the decay time in seconds, floored to 1ms.
func (e *ADSR) SetDecay(seconds float64) {
	e.decay = max(seconds, minStageSeconds)
	e.decayRate = (1 - e.sustain) / (e.decay * e.sampleRate)
}

// SetSustain sets the sustain level, clamped to [0,1]. The decay rate is
// re-derived so an in-flight decay still lands exactly on the new level.
func (e *ADSR) SetSustain(level float64) {
	e.sustain = min(max(level, 0), 1)
	e.decayRate = (1 - e.sustain) / (e.decay * e.sampleRate)
}

// SetRelease sets the release time in seconds, floored to 1ms.
func (e *ADSR) SetRelease(seconds float64) {
	e.release = max(seconds, minStageSeconds)
	e.releaseRate = e.sustain / (e.release * e.sampleRate)
}

// NoteOn enters Attack. The level is deliberately not reset to zero: a
// retrigger while already sounding ramps up from the current level, which
// avoids an audible click at the cost of a shorter-than-configured ramp.
func (e *ADSR) NoteOn() {
	e.stage = StageAttack
}

// NoteOff enters Release. The release rate is recomputed from the current
// level so reaching zero always takes the configured release time no matter
// where in the envelope the note was let go. A no-op when already idle.
func (e *ADSR) NoteOff() {
	if e.stage == StageIdle {
		return
	}
	e.stage = StageRelease
	e.releaseRate = e.level / (e.release * e.sampleRate)
}

// IsActive reports whether the envelope is producing non-idle output.
func (e *ADSR) IsActive() bool {
	return e.stage != StageIdle
}

// CurrentStage returns the envelope's stage.
func (e *ADSR) CurrentStage() Stage {
	return e.stage
}

// Tick produces the next envelope value and advances the state machine.
func (e *ADSR) Tick() float64 {
	switch e.stage {
	case StageIdle:
		return 0
	case StageAttack:
		e.level += e.attackRate
		if e.level >= 1 {
			e.level = 1
			e.stage = StageDecay
		}
	case StageDecay:
		e.level -= e.decayRate
		if e.level <= e.sustain {
			e.level = e.sustain
			e.stage = StageSustain
		}
	case StageSustain:
		// Hold.
	case StageRelease:
		e.level -= e.releaseRate
		if e.level <= 0 {
			e.level = 0
			e.stage = StageIdle
		}
	}
	return e.level
}

func (e *ADSR) recalculateRates() {
	e.attackRate = 1 / (e.attack * e.sampleRate)
	e.decayRate = (1 - e.sustain) / (e.decay * e.sampleRate)
	e.releaseRate = e.sustain / (e.release * e.sampleRate)
}
