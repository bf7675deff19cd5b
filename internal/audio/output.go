package audio

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Output plays a SampleSource through oto directly, without an ebiten game
// loop. Use it from the terminal frontend.
type Output struct {
	ctx    *oto.Context
	player *oto.Player
	reader *StreamReader
}

// NewOutput opens the host audio device at the given sample rate and starts
// streaming from source.
func NewOutput(sampleRate int, source SampleSource) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	reader := NewStreamReader(source)
	player := ctx.NewPlayer(reader)
	// Keep the device buffer short so note events feel immediate.
	player.SetBufferSize(sampleRate * 8 / 20) // 50ms of stereo float32 frames
	player.Play()

	return &Output{ctx: ctx, player: player, reader: reader}, nil
}

// Close stops playback and releases the device player.
func (o *Output) Close() error {
	if err := o.player.Close(); err != nil {
		return err
	}
	// Give the device a moment to drain before the process exits.
	time.Sleep(20 * time.Millisecond)
	return o.reader.Close()
}
