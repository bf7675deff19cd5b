package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dsshimel/monosynth"
	"github.com/dsshimel/monosynth/internal/fft"
)

const fftSize = 1024

// model is the bubbletea state for the terminal synth.
type model struct {
	player *monosynth.Player

	width  int
	height int
	octave int
	// selected parameter row, indexing monosynth.ParamSpecs()
	selected int
	// lastNote is the note the keyboard is holding, -1 when none.
	lastNote int

	showHelp bool

	// Scratch lives behind a pointer so View, which runs on a value copy,
	// still reuses the same buffers frame to frame.
	vis *visScratch
}

// visScratch holds the reused analysis buffers. The vis frame is copied in
// before analysis so the audio goroutine can keep writing behind it.
type visScratch struct {
	visCopy  []float32
	fftBuf   []complex128
	spectrum []float64
	specBins []float64
}

func newModel(player *monosynth.Player) model {
	return model{
		player:   player,
		octave:   4,
		lastNote: -1,
		width:    100,
		height:   30,
		vis: &visScratch{
			visCopy:  make([]float32, player.VisFrameSize()),
			fftBuf:   make([]complex128, fftSize),
			spectrum: make([]float64, fftSize/2),
		},
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	// ~30fps is plenty for terminal bars.
	return tea.Tick(33*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, tickCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	params := m.player.Params()
	switch key := msg.String(); key {
	case "ctrl+c", "esc":
		m.releaseNote()
		return m, tea.Quit

	case "f1", "?":
		m.showHelp = !m.showHelp

	case " ", ".":
		m.releaseNote()

	case "up":
		if m.selected > 0 {
			m.selected--
		}
	case "down":
		if m.selected < len(monosynth.ParamSpecs())-1 {
			m.selected++
		}
	case "left":
		m.adjustParam(-1)
	case "right":
		m.adjustParam(+1)

	case "[":
		params.SetWaveform(prevWaveform(params.Waveform()))
	case "]":
		params.SetWaveform(nextWaveform(params.Waveform()))

	case "*", "+":
		if m.octave < 8 {
			m.octave++
		}
	case "/", "-":
		if m.octave > 0 {
			m.octave--
		}

	default:
		if n := keyToNote(key, m.octave); n >= 0 && n <= 127 {
			m.player.NoteOn(uint8(n))
			m.lastNote = n
		}
	}
	return m, nil
}

func (m *model) releaseNote() {
	if m.lastNote >= 0 {
		m.player.NoteOff(uint8(m.lastNote))
		m.lastNote = -1
	}
}

// adjustParam nudges the selected parameter by a fraction of its range.
func (m *model) adjustParam(direction float64) {
	specs := monosynth.ParamSpecs()
	spec := specs[m.selected]
	step := (spec.Max - spec.Min) / 50
	params := m.player.Params()
	switch m.selected {
	case 0:
		params.SetGain(params.Gain() + direction*step)
	case 1:
		params.SetAttack(params.Attack() + direction*step)
	case 2:
		params.SetDecay(params.Decay() + direction*step)
	case 3:
		params.SetSustain(params.Sustain() + direction*step)
	case 4:
		params.SetRelease(params.Release() + direction*step)
	}
}

func prevWaveform(w monosynth.Waveform) monosynth.Waveform {
	if w == monosynth.Sine {
		return monosynth.Saw
	}
	return w - 1
}

func nextWaveform(w monosynth.Waveform) monosynth.Waveform {
	if w == monosynth.Saw {
		return monosynth.Sine
	}
	return w + 1
}

// keyToNote maps a piano-style key layout to a MIDI note.
// Lower row: z s x d c v g b h n j m, upper row: q 2 w 3 e r 5 t 6 y 7 u.
func keyToNote(key string, octave int) int {
	notes := map[string]int{
		"z": 0, "s": 1, "x": 2, "d": 3, "c": 4, "v": 5,
		"g": 6, "b": 7, "h": 8, "n": 9, "j": 10, "m": 11,
		"q": 12, "2": 13, "w": 14, "3": 15, "e": 16, "r": 17,
		"5": 18, "t": 19, "6": 20, "y": 21, "7": 22, "u": 23,
		"i": 24, "9": 25, "o": 26, "0": 27, "p": 28,
	}
	n, ok := notes[key]
	if !ok {
		return -1
	}
	return octave*12 + n + 12
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	scopeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func (m model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.paramsView())
	b.WriteString("\n")
	b.WriteString(m.spectrumView())
	b.WriteString("\n")
	b.WriteString(m.scopeView())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(" [zsxdcv..]Play [space]Release [arrows]Params [brackets]Wave [*/]Oct [?]Help [esc]Quit"))
	return b.String()
}

func (m model) headerView() string {
	note := "--"
	if m.lastNote >= 0 {
		note = noteName(m.lastNote)
	}
	wave := m.player.Params().Waveform().Name()
	return titleStyle.Render("MONOSYNTH") +
		fmt.Sprintf(" │ %d Hz │ wave:%s │ oct:%d │ note:%s", m.player.SampleRate(), wave, m.octave, note)
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteName(n int) string {
	return fmt.Sprintf("%s%d", noteNames[n%12], n/12-1)
}

func (m model) paramsView() string {
	specs := monosynth.ParamSpecs()
	params := m.player.Params()
	values := []float64{params.Gain(), params.Attack(), params.Decay(), params.Sustain(), params.Release()}

	var b strings.Builder
	for i, spec := range specs {
		cursor := "  "
		style := dimStyle
		if i == m.selected {
			cursor = "> "
			style = cursorStyle
		}
		frac := (values[i] - spec.Min) / (spec.Max - spec.Min)
		b.WriteString(style.Render(fmt.Sprintf("%s%-8s %s %6.3f%s", cursor, spec.Name, slider(frac, 24), values[i], spec.Unit)))
		b.WriteString("\n")
	}
	return b.String()
}

func slider(frac float64, width int) string {
	filled := int(math.Round(frac * float64(width)))
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func (m model) spectrumView() string {
	v := m.vis
	frame := m.player.VisFrame()
	copy(v.visCopy, frame)
	fft.Window(v.fftBuf, v.visCopy[len(v.visCopy)-fftSize:])
	fft.Transform(v.fftBuf)
	fft.Magnitudes(v.spectrum, v.fftBuf)

	numBars := m.width - 4
	numBars = min(max(numBars, 16), 120)
	if len(v.specBins) != numBars {
		v.specBins = make([]float64, numBars)
	}

	barHeight := 8
	for i := 0; i < numBars; i++ {
		start, end := fft.BarRange(i, numBars, len(v.spectrum))
		peak := -80.0
		for bin := start; bin < end; bin++ {
			peak = math.Max(peak, v.spectrum[bin])
		}
		// Map [-80, 0] dB onto bar height with a little decay smoothing.
		h := (peak + 80) / 80 * float64(barHeight)
		v.specBins[i] = math.Max(h, v.specBins[i]*0.7)
	}

	var b strings.Builder
	for row := barHeight; row > 0; row-- {
		b.WriteString("  ")
		line := make([]byte, numBars)
		for i := range line {
			if v.specBins[i] >= float64(row) {
				line[i] = '#'
			} else {
				line[i] = ' '
			}
		}
		b.WriteString(barStyle.Render(string(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) scopeView() string {
	frame := m.player.VisFrame()
	width := min(max(m.width-4, 16), 120)
	const rows = 7

	grid := make([][]byte, rows)
	for r := range grid {
		grid[r] = blankRow(width)
	}
	step := len(frame) / width
	if step < 1 {
		step = 1
	}
	for x := 0; x < width; x++ {
		s := float64(frame[(x*step)%len(frame)])
		r := int((1 - (s+1)/2) * float64(rows-1))
		r = min(max(r, 0), rows-1)
		grid[r][x] = '*'
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString("  ")
		b.WriteString(scopeStyle.Render(string(row)))
		b.WriteString("\n")
	}
	return b.String()
}

func blankRow(n int) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = ' '
	}
	return s
}

func (m model) helpView() string {
	help := `
  MONOSYNTH

  NOTE INPUT (piano keyboard)
    Z S X D C V G B H N J M   lower octave
    Q 2 W 3 E R 5 T 6 Y 7 U   upper octave
    space or .                release held note
    * /                       octave up / down

  PARAMETERS
    up/down                   select parameter
    left/right                adjust value
    [ ]                       previous / next waveform

  Run with -midi to play from the first hardware MIDI input.

                                   [?] close help
`
	return dimStyle.Render(help)
}
