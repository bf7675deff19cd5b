package monosynth

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"

	"github.com/dsshimel/monosynth/internal/synth"
)

// NoteEvent schedules a note change for offline rendering. Time is in
// seconds from the start of the render.
type NoteEvent struct {
	Time     float64
	On       bool
	Note     uint8
	Velocity uint8
}

// RenderNotes renders a note sequence to mono float32 samples. Parameters
// are taken from params, or the defaults when params is nil. Events are
// applied sample-accurately and may be given in any order.
func RenderNotes(sampleRate int, seconds float64, events []NoteEvent, params *Params) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	if seconds < 0 {
		return nil, errors.New("seconds must not be negative")
	}
	if params == nil {
		params = NewParams()
	}

	e := synth.New(float64(sampleRate))
	e.SetGain(params.Gain())
	e.SetWaveform(params.Waveform())
	e.SetAttack(params.Attack())
	e.SetDecay(params.Decay())
	e.SetSustain(params.Sustain())
	e.SetRelease(params.Release())

	timed := make([]synth.TimedEvent, len(events))
	for i, ev := range events {
		timed[i] = synth.TimedEvent{
			Frame:    int(ev.Time * float64(sampleRate)),
			On:       ev.On,
			Note:     ev.Note,
			Velocity: ev.Velocity,
		}
	}
	sort.SliceStable(timed, func(i, j int) bool { return timed[i].Frame < timed[j].Frame })

	out := make([]float32, int(float64(sampleRate)*seconds))
	e.ProcessEvents(out, timed)
	return out, nil
}

// EncodeWAVFloat32LE encodes samples as a 32-bit float little-endian WAV
// file body.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
