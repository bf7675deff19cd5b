package monosynth

import (
	"math"
	"sync/atomic"

	"github.com/dsshimel/monosynth/internal/osc"
)

// Waveform selects the oscillator shape.
type Waveform = osc.Waveform

const (
	Sine     = osc.Sine
	Triangle = osc.Triangle
	Square   = osc.Square
	Saw      = osc.Saw
)

// ParamSpec describes one user-facing parameter for UI frontends.
type ParamSpec struct {
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64
}

// ParamSpecs returns the parameter metadata in display order. The waveform
// selector is separate; see osc.Waveform.
func ParamSpecs() []ParamSpec {
	return []ParamSpec{
		{Name: "Gain", Unit: "", Min: 0, Max: 1, Default: 0.8},
		{Name: "Attack", Unit: "s", Min: 0.001, Max: 2, Default: 0.01},
		{Name: "Decay", Unit: "s", Min: 0.001, Max: 2, Default: 0.1},
		{Name: "Sustain", Unit: "", Min: 0, Max: 1, Default: 0.7},
		{Name: "Release", Unit: "s", Min: 0.001, Max: 5, Default: 0.3},
	}
}

// Params holds the live control values. Setters may be called from any
// goroutine; the audio goroutine reads them at the start of each block.
// Floats are stored as their bit patterns so reads and writes are lock-free.
type Params struct {
	gain     atomic.Uint64
	attack   atomic.Uint64
	decay    atomic.Uint64
	sustain  atomic.Uint64
	release  atomic.Uint64
	waveform atomic.Int32
}

// NewParams returns parameters at their defaults.
func NewParams() *Params {
	p := &Params{}
	specs := ParamSpecs()
	p.SetGain(specs[0].Default)
	p.SetAttack(specs[1].Default)
	p.SetDecay(specs[2].Default)
	p.SetSustain(specs[3].Default)
	p.SetRelease(specs[4].Default)
	p.SetWaveform(osc.Sine)
	return p
}

func clampSpec(v float64, spec ParamSpec) float64 {
	return math.Min(math.Max(v, spec.Min), spec.Max)
}

func (p *Params) SetGain(v float64) {
	p.gain.Store(math.Float64bits(clampSpec(v, ParamSpecs()[0])))
}

func (p *Params) Gain() float64 { return math.Float64frombits(p.gain.Load()) }

func (p *Params) SetAttack(v float64) {
	p.attack.Store(math.Float64bits(clampSpec(v, ParamSpecs()[1])))
}

func (p *Params) Attack() float64 { return math.Float64frombits(p.attack.Load()) }

func (p *Params) SetDecay(v float64) {
	p.decay.Store(math.Float64bits(clampSpec(v, ParamSpecs()[2])))
}

func (p *Params) Decay() float64 { return math.Float64frombits(p.decay.Load()) }

func (p *Params) SetSustain(v float64) {
	p.sustain.Store(math.Float64bits(clampSpec(v, ParamSpecs()[3])))
}

func (p *Params) Sustain() float64 { return math.Float64frombits(p.sustain.Load()) }

func (p *Params) SetRelease(v float64) {
	p.release.Store(math.Float64bits(clampSpec(v, ParamSpecs()[4])))
}

func (p *Params) Release() float64 { return math.Float64frombits(p.release.Load()) }

func (p *Params) SetWaveform(w osc.Waveform) { p.waveform.Store(int32(w)) }

// SetWaveformIndex selects the waveform by integer index, clamping
// out-of-range values the way hosts expect from an integer parameter.
func (p *Params) SetWaveformIndex(index int) {
	p.waveform.Store(int32(osc.FromIndex(index)))
}

func (p *Params) Waveform() osc.Waveform {
	return osc.FromIndex(int(p.waveform.Load()))
}
