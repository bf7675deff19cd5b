// Package monosynth is a monophonic subtractive-style synthesizer voice:
// a band-limited oscillator shaped by a linear ADSR envelope, driven by
// note-on and note-off events. The Player renders audio on whatever
// goroutine the audio backend calls from; note events and parameter changes
// may arrive from any other goroutine without locking the audio path.
package monosynth

import (
	"errors"
	"sync"

	"github.com/dsshimel/monosynth/internal/audio"
	"github.com/dsshimel/monosynth/internal/osc"
	"github.com/dsshimel/monosynth/internal/spsc"
	"github.com/dsshimel/monosynth/internal/synth"
)

// DefaultVisBufferSize is the visualization frame length in samples.
const DefaultVisBufferSize = 2048

type PlayerOption func(*playerConfig)

type playerConfig struct {
	visBufferSize int
	noteQueueSize int
	waveform      osc.Waveform
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		visBufferSize: DefaultVisBufferSize,
		noteQueueSize: spsc.DefaultNoteQueueSize,
		waveform:      osc.Sine,
	}
}

// WithVisBufferSize sets the visualization frame length in samples.
func WithVisBufferSize(size int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.visBufferSize = size
	}
}

// WithNoteQueueSize sets the note event ring size. A ring of size n holds
// n-1 pending events.
func WithNoteQueueSize(size int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.noteQueueSize = size
	}
}

// WithWaveform sets the initial oscillator waveform.
func WithWaveform(w Waveform) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.waveform = w
	}
}

// Player is the live synthesizer voice. It implements audio.SampleSource:
// each Process call applies pending parameter changes, drains queued note
// events, renders the block, and feeds the visualization tap.
type Player struct {
	sampleRate int
	engine     *synth.Engine
	params     *Params
	notes      *spsc.NoteQueue
	vis        *spsc.VisBuffer

	mu     sync.Mutex
	output *audio.Output
}

// NewPlayer creates a stopped player at the given sample rate.
func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.visBufferSize <= 0 {
		return nil, errors.New("vis buffer size must be positive")
	}
	params := NewParams()
	params.SetWaveform(cfg.waveform)
	return &Player{
		sampleRate: sampleRate,
		engine:     synth.New(float64(sampleRate)),
		params:     params,
		notes:      spsc.NewNoteQueue(cfg.noteQueueSize),
		vis:        spsc.NewVisBuffer(cfg.visBufferSize),
	}, nil
}

// SampleRate returns the player's sample rate.
func (p *Player) SampleRate() int { return p.sampleRate }

// Params returns the live parameter set. Setters take effect at the start of
// the next rendered block.
func (p *Player) Params() *Params { return p.params }

// NoteOn queues a note-on. It reports false if the event ring was full and
// the event dropped.
func (p *Player) NoteOn(note uint8) bool {
	return p.notes.PushNoteOn(note)
}

// NoteOff queues a note-off for the given note.
func (p *Player) NoteOff(note uint8) bool {
	return p.notes.PushNoteOff(note)
}

// Process renders one block. Audio goroutine only.
func (p *Player) Process(dst []float32) {
	e := p.engine
	e.SetGain(p.params.Gain())
	e.SetWaveform(p.params.Waveform())
	e.SetAttack(p.params.Attack())
	e.SetDecay(p.params.Decay())
	e.SetSustain(p.params.Sustain())
	e.SetRelease(p.params.Release())

	p.notes.Drain(func(note uint8, on bool) {
		if on {
			e.NoteOn(note, 127)
		} else {
			e.NoteOff(note)
		}
	})

	e.Process(dst)
	p.vis.PushSlice(dst)
}

// VisFrame returns the most recent completed visualization frame. The slice
// is borrowed from the tap; copy it if it must outlive the next frame. A
// frame of zeros is returned before anything has played.
func (p *Player) VisFrame() []float32 {
	return p.vis.ReadFront()
}

// VisFrameSize returns the visualization frame length in samples.
func (p *Player) VisFrameSize() int { return p.vis.Size() }

// Start opens the host audio device and begins streaming. Frontends that
// bring their own audio backend (an ebiten game, for instance) can skip
// Start and feed Process themselves.
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.output != nil {
		return errors.New("already started")
	}
	out, err := audio.NewOutput(p.sampleRate, p)
	if err != nil {
		return err
	}
	p.output = out
	return nil
}

// Stop closes the audio device opened by Start. A no-op when not started.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.output == nil {
		return nil
	}
	err := p.output.Close()
	p.output = nil
	return err
}
