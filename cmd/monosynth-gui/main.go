// Command monosynth-gui is a desktop synthesizer window. The computer
// keyboard plays notes piano-style, sliders set the gain and envelope, and
// the output feeds an oscilloscope and spectrum analyzer.
package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/dsshimel/monosynth"
	intaudio "github.com/dsshimel/monosynth/internal/audio"
	"github.com/dsshimel/monosynth/internal/fft"
)

const (
	windowW      = 900
	windowH      = 620
	uiSampleRate = 48000
	fftSize      = 2048

	textScale = 2
	charW     = 7 * textScale
	lineH     = 14 * textScale
)

var (
	bgColor       = color.RGBA{192, 192, 192, 255}
	panelColor    = color.RGBA{192, 192, 192, 255}
	borderColor   = color.RGBA{128, 128, 128, 255}
	bevelLight    = color.RGBA{255, 255, 255, 255}
	bevelDarker   = color.RGBA{64, 64, 64, 255}
	sunkenBgColor = color.RGBA{24, 24, 32, 255}
	sliderFill    = color.RGBA{0, 0, 128, 255}
	waveColor     = color.RGBA{80, 200, 255, 220}
)

// keyMap is a piano-style layout across two rows of the keyboard, in
// semitones above the base octave's C.
var keyMap = map[ebiten.Key]int{
	ebiten.KeyZ: 0, ebiten.KeyS: 1, ebiten.KeyX: 2, ebiten.KeyD: 3,
	ebiten.KeyC: 4, ebiten.KeyV: 5, ebiten.KeyG: 6, ebiten.KeyB: 7,
	ebiten.KeyH: 8, ebiten.KeyN: 9, ebiten.KeyJ: 10, ebiten.KeyM: 11,
	ebiten.KeyQ: 12, ebiten.Key2: 13, ebiten.KeyW: 14, ebiten.Key3: 15,
	ebiten.KeyE: 16, ebiten.KeyR: 17, ebiten.Key5: 18, ebiten.KeyT: 19,
	ebiten.Key6: 20, ebiten.KeyY: 21, ebiten.Key7: 22, ebiten.KeyU: 23,
	ebiten.KeyI: 24,
}

type game struct {
	player *monosynth.Player
	audio  *intaudio.Player

	octave int
	// heldKey is the key currently sounding, so its release sends the
	// matching note off even after the octave changes.
	heldKey  ebiten.Key
	heldNote int

	dragSlider int // index into ParamSpecs, -1 when not dragging

	// Analysis scratch.
	visCopy  []float32
	fftBuf   []complex128
	spectrum []float64
	specBins []float64
	wavePeak float64

	textCache map[string]*ebiten.Image
}

func newGame() (*game, error) {
	player, err := monosynth.NewPlayer(uiSampleRate,
		monosynth.WithVisBufferSize(4096))
	if err != nil {
		return nil, err
	}
	backend, err := intaudio.NewPlayer(uiSampleRate, player)
	if err != nil {
		return nil, err
	}
	backend.Play()

	return &game{
		player:     player,
		audio:      backend,
		octave:     4,
		heldNote:   -1,
		dragSlider: -1,
		visCopy:    make([]float32, player.VisFrameSize()),
		fftBuf:     make([]complex128, fftSize),
		spectrum:   make([]float64, fftSize/2),
		textCache:  make(map[string]*ebiten.Image, 256),
	}, nil
}

func (g *game) Close() { _ = g.audio.Stop() }

func (g *game) Update() error {
	g.handleKeyboard()
	g.handleMouse()
	return nil
}

func (g *game) handleKeyboard() {
	for key, semitone := range keyMap {
		if inpututil.IsKeyJustPressed(key) {
			note := g.octave*12 + semitone + 12
			if note >= 0 && note <= 127 {
				g.player.NoteOn(uint8(note))
				g.heldKey = key
				g.heldNote = note
			}
		}
	}
	if g.heldNote >= 0 && inpututil.IsKeyJustReleased(g.heldKey) {
		g.player.NoteOff(uint8(g.heldNote))
		g.heldNote = -1
	}

	params := g.player.Params()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		params.SetWaveform(nextWaveform(params.Waveform()))
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		params.SetWaveform(prevWaveform(params.Waveform()))
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		if g.octave < 8 {
			g.octave++
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		if g.octave > 0 {
			g.octave--
		}
	}
}

func nextWaveform(w monosynth.Waveform) monosynth.Waveform {
	if w == monosynth.Saw {
		return monosynth.Sine
	}
	return w + 1
}

func prevWaveform(w monosynth.Waveform) monosynth.Waveform {
	if w == monosynth.Sine {
		return monosynth.Saw
	}
	return w - 1
}

type uiLayout struct {
	header   image.Rectangle
	sliders  []image.Rectangle
	wave     image.Rectangle
	scope    image.Rectangle
	spectrum image.Rectangle
}

func (g *game) layoutRects() uiLayout {
	specs := monosynth.ParamSpecs()
	l := uiLayout{
		header: image.Rect(12, 8, windowW-12, 48),
		wave:   image.Rect(12, 56, 200, 96),
	}
	y := 104
	for range specs {
		l.sliders = append(l.sliders, image.Rect(12, y, 340, y+32))
		y += 40
	}
	l.scope = image.Rect(352, 56, windowW-12, 300)
	l.spectrum = image.Rect(12, 312, windowW-12, windowH-12)
	return l
}

func (g *game) handleMouse() {
	l := g.layoutRects()
	mx, my := ebiten.CursorPosition()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if image.Pt(mx, my).In(l.wave) {
			params := g.player.Params()
			params.SetWaveform(nextWaveform(params.Waveform()))
			return
		}
		for i, rect := range l.sliders {
			if image.Pt(mx, my).In(rect) {
				g.dragSlider = i
			}
		}
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragSlider = -1
	}
	if g.dragSlider >= 0 {
		g.setParamFromMouse(g.dragSlider, mx, l.sliders[g.dragSlider])
	}
}

func (g *game) setParamFromMouse(idx, mx int, rect image.Rectangle) {
	spec := monosynth.ParamSpecs()[idx]
	frac := float64(mx-rect.Min.X-4) / float64(rect.Dx()-8)
	frac = math.Min(math.Max(frac, 0), 1)
	v := spec.Min + frac*(spec.Max-spec.Min)

	params := g.player.Params()
	switch idx {
	case 0:
		params.SetGain(v)
	case 1:
		params.SetAttack(v)
	case 2:
		params.SetDecay(v)
	case 3:
		params.SetSustain(v)
	case 4:
		params.SetRelease(v)
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := g.layoutRects()

	g.drawPanel(screen, l.header)
	note := "--"
	if g.heldNote >= 0 {
		note = noteName(g.heldNote)
	}
	g.drawText(screen, fmt.Sprintf("MONOSYNTH  oct:%d  note:%s  (arrows: octave, [ ]: wave)", g.octave, note),
		l.header.Min.X+8, l.header.Min.Y+6)

	g.drawButton(screen, l.wave, "Wave: "+g.player.Params().Waveform().Name())

	specs := monosynth.ParamSpecs()
	params := g.player.Params()
	values := []float64{params.Gain(), params.Attack(), params.Decay(), params.Sustain(), params.Release()}
	for i, rect := range l.sliders {
		g.drawSlider(screen, rect, specs[i], values[i])
	}

	g.drawDarkPanel(screen, l.scope)
	g.drawScope(screen, l.scope)
	g.drawDarkPanel(screen, l.spectrum)
	g.drawSpectrumBars(screen, l.spectrum)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	return windowW, windowH
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteName(n int) string {
	return fmt.Sprintf("%s%d", noteNames[n%12], n/12-1)
}

func (g *game) drawSlider(screen *ebiten.Image, rect image.Rectangle, spec monosynth.ParamSpec, value float64) {
	g.drawSunkenPanel(screen, rect)
	frac := (value - spec.Min) / (spec.Max - spec.Min)
	fillW := int(frac * float64(rect.Dx()-8))
	ebitenutil.DrawRect(screen, float64(rect.Min.X+4), float64(rect.Min.Y+4),
		float64(fillW), float64(rect.Dy()-8), sliderFill)
	label := fmt.Sprintf("%-7s %6.3f%s", spec.Name, value, spec.Unit)
	g.drawText(screen, label, rect.Min.X+8, rect.Min.Y+2)
}

func (g *game) drawScope(dst *ebiten.Image, rect image.Rectangle) {
	frame := g.player.VisFrame()
	copy(g.visCopy, frame)
	samples := g.visCopy

	width := rect.Dx() - 4
	height := rect.Dy() - 4
	if len(samples) < 2 || width < 2 || height < 4 {
		return
	}
	midY := rect.Min.Y + 2 + height/2
	ebitenutil.DrawRect(dst, float64(rect.Min.X+2), float64(midY), float64(width), 1, color.RGBA{40, 44, 58, 100})

	// Auto-gain: track peak with fast attack, slow release.
	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(float64(s)))
	}
	if peak < 0.01 {
		peak = 0.01
	}
	if peak > g.wavePeak {
		g.wavePeak = g.wavePeak*0.3 + peak*0.7
	} else {
		g.wavePeak = g.wavePeak*0.995 + peak*0.005
	}
	if g.wavePeak < 0.01 {
		g.wavePeak = 0.01
	}
	gain := float64(height/2-2) / g.wavePeak

	// Zero-crossing trigger stabilizes the trace.
	trigger := findZeroCrossing(samples, len(samples)/4)
	visible := len(samples) - trigger
	if visible < 2 {
		visible = 2
	}

	prevX := rect.Min.X + 2
	prevY := midY - int(float64(samples[trigger])*gain)
	for px := 1; px < width; px++ {
		si := trigger + px*visible/width
		if si >= len(samples) {
			si = len(samples) - 1
		}
		y := midY - int(float64(samples[si])*gain)
		x := rect.Min.X + 2 + px
		ebitenutil.DrawLine(dst, float64(prevX), float64(prevY), float64(x), float64(y), waveColor)
		prevX = x
		prevY = y
	}
}

func findZeroCrossing(samples []float32, searchLen int) int {
	if searchLen > len(samples)-2 {
		searchLen = len(samples) - 2
	}
	for i := 1; i < searchLen; i++ {
		if samples[i-1] <= 0 && samples[i] > 0 {
			return i
		}
	}
	return 0
}

func (g *game) drawSpectrumBars(dst *ebiten.Image, rect image.Rectangle) {
	frame := g.player.VisFrame()
	copy(g.visCopy, frame)
	if len(g.visCopy) < fftSize {
		return
	}
	fft.Window(g.fftBuf, g.visCopy[len(g.visCopy)-fftSize:])
	fft.Transform(g.fftBuf)
	fft.Magnitudes(g.spectrum, g.fftBuf)

	width := rect.Dx() - 4
	height := rect.Dy() - 4
	numBars := width / 3
	numBars = min(max(numBars, 16), 256)
	if len(g.specBins) != numBars {
		g.specBins = make([]float64, numBars)
	}

	// Only show up to ~18kHz.
	maxBin := len(g.spectrum) * 18000 / (uiSampleRate / 2)
	if maxBin > len(g.spectrum) {
		maxBin = len(g.spectrum)
	}

	for i := 0; i < numBars; i++ {
		start, end := fft.BarRange(i, numBars, maxBin)
		sum := 0.0
		for b := start; b < end; b++ {
			sum += g.spectrum[b]
		}
		norm := (sum/float64(end-start) + 80) / 80
		norm = math.Min(math.Max(norm, 0), 1)

		// Smooth: fast attack, slower decay.
		prev := g.specBins[i]
		if norm > prev {
			g.specBins[i] = prev*0.3 + norm*0.7
		} else {
			g.specBins[i] = prev*0.85 + norm*0.15
		}
	}

	barW := float64(width) / float64(numBars)
	for i := 0; i < numBars; i++ {
		v := g.specBins[i]
		barH := math.Max(v*float64(height-4), 1)
		x := float64(rect.Min.X+2) + float64(i)*barW
		y := float64(rect.Min.Y+2) + float64(height-2) - barH
		r, gr, b := spectrumColor(v)
		ebitenutil.DrawRect(dst, x+1, y, barW-1, barH, color.RGBA{r, gr, b, 220})
	}
}

// spectrumColor fades blue at the bottom through green to orange at the top.
func spectrumColor(v float64) (uint8, uint8, uint8) {
	if v < 0.33 {
		t := v / 0.33
		return uint8(30 + 20*t), uint8(80 + 120*t), uint8(200 + 55*t)
	}
	if v < 0.66 {
		t := (v - 0.33) / 0.33
		return uint8(50 + 140*t), uint8(200 + 30*t), uint8(255 - 100*t)
	}
	t := (v - 0.66) / 0.34
	return uint8(190 + 65*t), uint8(230 - 100*t), uint8(155 - 100*t)
}

func (g *game) drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), panelColor)
	drawBorder(screen, rect)
}

func (g *game) drawSunkenPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), sunkenBgColor)
	drawSunkenBorder(screen, rect)
}

func (g *game) drawDarkPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), color.RGBA{0, 0, 0, 255})
	drawSunkenBorder(screen, rect)
}

func (g *game) drawButton(screen *ebiten.Image, rect image.Rectangle, label string) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), panelColor)
	drawBorder(screen, rect)
	labelW := len([]rune(label)) * charW
	x := rect.Min.X + (rect.Dx()-labelW)/2
	y := rect.Min.Y + (rect.Dy()-lineH)/2
	g.drawText(screen, label, x, y)
}

// drawBorder draws a raised 3D bevel (highlight top/left, shadow bottom/right).
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+h-2, w-3, 1, borderColor)
	ebitenutil.DrawRect(screen, x+w-2, y+1, 1, h-3, borderColor)
}

// drawSunkenBorder draws a sunken 3D bevel (shadow top/left, highlight bottom/right).
func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelLight)
	ebitenutil.DrawRect(screen, x+1, y+1, w-3, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+2, 1, h-4, bevelDarker)
}

func (g *game) drawText(screen *ebiten.Image, msg string, x int, y int) {
	if msg == "" {
		return
	}
	img := g.textCache[msg]
	if img == nil {
		w := max(1, len([]rune(msg))*7)
		img = ebiten.NewImage(w, 14)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(g.textCache) > 3000 {
			g.textCache = make(map[string]*ebiten.Image, 256)
		}
		g.textCache[msg] = img
	}
	opS := &ebiten.DrawImageOptions{}
	opS.GeoM.Scale(textScale, textScale)
	opS.GeoM.Translate(float64(x+2), float64(y+2))
	opS.ColorScale.Scale(0, 0, 0, 1)
	screen.DrawImage(img, opS)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}

func main() {
	g, err := newGame()
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("monosynth")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
