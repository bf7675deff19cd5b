package osc

import (
	"math"
	"testing"
)

func TestFromIndexClamps(t *testing.T) {
	cases := []struct {
		index int
		want  Waveform
	}{
		{0, Sine},
		{1, Triangle},
		{2, Square},
		{3, Saw},
		{4, Saw},
		{99, Saw},
		{-1, Sine},
	}
	for _, tc := range cases {
		if got := FromIndex(tc.index); got != tc.want {
			t.Errorf("FromIndex(%d) = %v, want %v", tc.index, got, tc.want)
		}
	}
}

func TestWaveformNames(t *testing.T) {
	want := []string{"Sine", "Triangle", "Square", "Saw"}
	for i, name := range want {
		if got := Waveform(i).Name(); got != name {
			t.Errorf("Waveform(%d).Name() = %q, want %q", i, got, name)
		}
	}
}

func TestSineQuadraturePoints(t *testing.T) {
	// One cycle per second sampled at 4 Hz hits phase 0, 0.25, 0.5, 0.75.
	o := New(4)
	o.SetFrequency(1)
	want := []float64{0, 1, 0, -1}
	for i, w := range want {
		got := o.Tick()
		if math.Abs(got-w) > 1e-5 {
			t.Fatalf("sample %d = %v, want %v", i, got, w)
		}
	}
}

func TestWaveformsStayBounded(t *testing.T) {
	const sampleRate = 44100
	for _, w := range []Waveform{Sine, Triangle, Square, Saw} {
		t.Run(w.Name(), func(t *testing.T) {
			o := New(sampleRate)
			o.SetFrequency(440)
			o.SetWaveform(w)
			for i := 0; i < sampleRate; i++ {
				s := o.Tick()
				if s < -1.05 || s > 1.05 {
					t.Fatalf("sample %d out of range: %v", i, s)
				}
			}
		})
	}
}

func TestZeroCrossingRateMatchesFrequency(t *testing.T) {
	const (
		sampleRate = 44100
		frequency  = 100
	)
	for _, w := range []Waveform{Sine, Triangle, Square, Saw} {
		t.Run(w.Name(), func(t *testing.T) {
			o := New(sampleRate)
			o.SetFrequency(frequency)
			o.SetWaveform(w)
			crossings := 0
			prev := o.Tick()
			for i := 1; i < sampleRate; i++ {
				s := o.Tick()
				if (prev < 0 && s >= 0) || (prev >= 0 && s < 0) {
					crossings++
				}
				prev = s
			}
			// Two sign changes per cycle. Allow slack for the triangle's
			// integrator settling and for edge samples landing on zero.
			want := 2 * frequency
			if crossings < want-6 || crossings > want+6 {
				t.Fatalf("zero crossings = %d, want about %d", crossings, want)
			}
		})
	}
}

func TestWaveformsHaveNoDCOffset(t *testing.T) {
	const sampleRate = 44100
	for _, w := range []Waveform{Sine, Triangle, Square, Saw} {
		t.Run(w.Name(), func(t *testing.T) {
			o := New(sampleRate)
			o.SetFrequency(441) // divides the rate evenly: whole cycles only
			o.SetWaveform(w)
			var sum float64
			for i := 0; i < sampleRate; i++ {
				sum += o.Tick()
			}
			mean := sum / sampleRate
			if math.Abs(mean) > 0.02 {
				t.Fatalf("DC offset = %v, want about 0", mean)
			}
		})
	}
}

func TestResetRestartsCycleExactly(t *testing.T) {
	o := New(48000)
	o.SetFrequency(440)
	o.SetWaveform(Triangle)

	first := make([]float64, 64)
	for i := range first {
		first[i] = o.Tick()
	}
	// Run somewhere into the cycle, then reset.
	for i := 0; i < 1000; i++ {
		o.Tick()
	}
	o.Reset()
	for i := range first {
		if got := o.Tick(); got != first[i] {
			t.Fatalf("sample %d after Reset = %v, want %v", i, got, first[i])
		}
	}
}

func TestPolyBLEPResidual(t *testing.T) {
	const dt = 0.01
	if got := polyBLEP(0.5, dt); got != 0 {
		t.Fatalf("residual away from edge = %v, want 0", got)
	}
	// At t=0 the residual is -1: it cancels half the naive step.
	if got := polyBLEP(0, dt); math.Abs(got+1) > 1e-12 {
		t.Fatalf("residual at edge = %v, want -1", got)
	}
	// Just before the wrap it approaches +1.
	if got := polyBLEP(1-1e-9, dt); math.Abs(got-1) > 1e-6 {
		t.Fatalf("residual before wrap = %v, want about 1", got)
	}
	// The correction is continuous: tiny steps either side of the edge stay small.
	if got := polyBLEP(dt*0.999, dt); math.Abs(got) > 0.01 {
		t.Fatalf("residual at end of correction window = %v, want about 0", got)
	}
}

func BenchmarkTick(b *testing.B) {
	for _, w := range []Waveform{Sine, Triangle, Square, Saw} {
		b.Run(w.Name(), func(b *testing.B) {
			o := New(48000)
			o.SetFrequency(440)
			o.SetWaveform(w)
			var sink float64
			for i := 0; i < b.N; i++ {
				sink += o.Tick()
			}
			_ = sink
		})
	}
}
