// Command monosynth is a terminal synthesizer. The computer keyboard plays
// notes piano-style, a spectrum analyzer and oscilloscope draw the output,
// and a hardware MIDI keyboard can drive the voice with -midi.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/dsshimel/monosynth"
	"github.com/dsshimel/monosynth/internal/midiin"
)

func main() {
	sampleRate := flag.Int("rate", 48000, "sample rate in Hz")
	useMIDI := flag.Bool("midi", false, "listen on the first hardware MIDI input")
	wave := flag.Int("wave", 0, "initial waveform (0=sine 1=triangle 2=square 3=saw)")
	renderPath := flag.String("render", "", "render a demo phrase to a WAV file and exit")
	flag.Parse()

	if *renderPath != "" {
		if err := renderDemo(*renderPath, *sampleRate, *wave); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	if err := run(*sampleRate, *useMIDI, *wave); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// renderDemo writes a short arpeggio so the voice can be auditioned without
// an audio device.
func renderDemo(path string, sampleRate, wave int) error {
	params := monosynth.NewParams()
	params.SetWaveform(monosynth.Waveform(wave))

	var events []monosynth.NoteEvent
	for i, note := range []uint8{57, 60, 64, 69, 64, 60, 57} {
		at := float64(i) * 0.25
		events = append(events,
			monosynth.NoteEvent{Time: at, On: true, Note: note, Velocity: 100},
			monosynth.NoteEvent{Time: at + 0.2, On: false, Note: note},
		)
	}
	samples, err := monosynth.RenderNotes(sampleRate, 2.2, events, params)
	if err != nil {
		return err
	}
	return os.WriteFile(path, monosynth.EncodeWAVFloat32LE(samples, sampleRate, 1), 0o644)
}

// midiHandler feeds hardware note events into the player's event queue.
type midiHandler struct {
	player *monosynth.Player
}

func (h midiHandler) NoteOn(note, velocity uint8) { h.player.NoteOn(note) }
func (h midiHandler) NoteOff(note uint8)          { h.player.NoteOff(note) }

func run(sampleRate int, useMIDI bool, wave int) error {
	player, err := monosynth.NewPlayer(sampleRate,
		monosynth.WithWaveform(monosynth.Waveform(wave)))
	if err != nil {
		return err
	}
	if err := player.Start(); err != nil {
		return err
	}
	defer player.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// The TUI owns the terminal; keep MIDI driver logging off it.
	log.SetOutput(io.Discard)

	if useMIDI {
		g.Go(func() error {
			err := midiin.Listen(ctx, midiHandler{player})
			if err == context.Canceled {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		defer cancel()
		prog := tea.NewProgram(newModel(player), tea.WithAltScreen())
		go func() {
			<-ctx.Done()
			prog.Quit()
		}()
		_, err := prog.Run()
		return err
	})

	return g.Wait()
}
