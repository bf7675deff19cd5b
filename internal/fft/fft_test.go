package fft

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestTransformSinglePureTone(t *testing.T) {
	const n = 1024
	const bin = 32
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Sin(2*math.Pi*float64(bin)*float64(i)/n), 0)
	}
	Transform(x)

	peak := 0
	var peakMag float64
	for i := 0; i < n/2; i++ {
		if m := cmplx.Abs(x[i]); m > peakMag {
			peakMag = m
			peak = i
		}
	}
	if peak != bin {
		t.Fatalf("peak at bin %d, want %d", peak, bin)
	}
	// A unit sine concentrates n/2 of magnitude in its bin.
	if math.Abs(peakMag-n/2) > 1 {
		t.Fatalf("peak magnitude = %v, want about %v", peakMag, float64(n)/2)
	}
}

func TestTransformDCOnly(t *testing.T) {
	x := make([]complex128, 8)
	for i := range x {
		x[i] = 1
	}
	Transform(x)
	if math.Abs(cmplx.Abs(x[0])-8) > 1e-9 {
		t.Fatalf("DC bin = %v, want 8", cmplx.Abs(x[0]))
	}
	for i := 1; i < 8; i++ {
		if cmplx.Abs(x[i]) > 1e-9 {
			t.Fatalf("bin %d = %v for constant input, want 0", i, cmplx.Abs(x[i]))
		}
	}
}

func TestWindowTapersToZeroAtEdges(t *testing.T) {
	samples := make([]float32, 256)
	for i := range samples {
		samples[i] = 1
	}
	dst := make([]complex128, 256)
	Window(dst, samples)

	if real(dst[0]) > 1e-9 || real(dst[255]) > 1e-9 {
		t.Fatalf("window edges = %v, %v, want 0", real(dst[0]), real(dst[255]))
	}
	mid := real(dst[128])
	if math.Abs(mid-1) > 0.01 {
		t.Fatalf("window center = %v, want about 1", mid)
	}
}

func TestMagnitudesFlooredForSilence(t *testing.T) {
	x := make([]complex128, 64)
	dst := make([]float64, 32)
	Magnitudes(dst, x)
	for i, db := range dst {
		if db != dBFloor {
			t.Fatalf("dst[%d] = %v for silence, want %v", i, db, dBFloor)
		}
	}
}

func TestMagnitudesFullScaleToneNearZeroDB(t *testing.T) {
	const n = 256
	const bin = 16
	x := make([]complex128, n)
	for i := range x {
		x[i] = complex(math.Sin(2*math.Pi*float64(bin)*float64(i)/n), 0)
	}
	Transform(x)
	dst := make([]float64, n/2)
	Magnitudes(dst, x)
	if math.Abs(dst[bin]) > 0.5 {
		t.Fatalf("full-scale tone bin = %v dB, want about 0", dst[bin])
	}
}

func TestBarRangeCoversSpectrumMonotonically(t *testing.T) {
	const numBars, maxBin = 32, 512
	prevStart := 0
	for i := 0; i < numBars; i++ {
		start, end := BarRange(i, numBars, maxBin)
		if end <= start {
			t.Fatalf("bar %d: empty range [%d, %d)", i, start, end)
		}
		if start < prevStart {
			t.Fatalf("bar %d: start %d before previous start %d", i, start, prevStart)
		}
		if end > maxBin {
			t.Fatalf("bar %d: end %d past maxBin %d", i, end, maxBin)
		}
		prevStart = start
	}
	_, lastEnd := BarRange(numBars-1, numBars, maxBin)
	if lastEnd != maxBin {
		t.Fatalf("last bar ends at %d, want %d", lastEnd, maxBin)
	}
}
