// Package fft provides the small spectrum toolkit the visualizer frontends
// share: a radix-2 transform, a Hann window, and dB magnitude with
// log-frequency bar mapping.
package fft

import (
	"math"
	"math/cmplx"
)

// dBFloor is the silence floor for Magnitudes output.
const dBFloor = -80.0

// Transform runs an in-place iterative Cooley-Tukey FFT. len(x) must be a
// power of two.
func Transform(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}
	// Bit-reversal permutation.
	bits := 0
	for m := n; m > 1; m >>= 1 {
		bits++
	}
	for i := 0; i < n; i++ {
		j := 0
		for b := 0; b < bits; b++ {
			if i&(1<<b) != 0 {
				j |= 1 << (bits - 1 - b)
			}
		}
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		wn := -2.0 * math.Pi / float64(size)
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				t := cmplx.Rect(1, wn*float64(k)) * x[start+k+half]
				x[start+k+half] = x[start+k] - t
				x[start+k] = x[start+k] + t
			}
		}
	}
}

// Window applies a Hann window to samples and writes the result into dst as
// complex values, ready for Transform. len(dst) must equal len(samples).
func Window(dst []complex128, samples []float32) {
	n := len(samples)
	for i := 0; i < n; i++ {
		w := 0.5 * (1.0 - math.Cos(2.0*math.Pi*float64(i)/float64(n-1)))
		dst[i] = complex(float64(samples[i])*w, 0)
	}
}

// Magnitudes converts the first len(x)/2 transform bins to dB, normalized by
// the transform length and floored at -80dB. dst must hold len(x)/2 values.
func Magnitudes(dst []float64, x []complex128) {
	half := len(x) / 2
	norm := 2.0 / float64(len(x))
	for i := 0; i < half; i++ {
		mag := cmplx.Abs(x[i]) * norm
		db := dBFloor
		if mag > 0 {
			db = math.Max(20*math.Log10(mag), dBFloor)
		}
		dst[i] = db
	}
}

// BarRange returns the [start, end) transform bins for display bar i of
// numBars, mapped on a log-frequency scale from bin 1 (skipping DC) up to
// maxBin. The range is never empty.
func BarRange(i, numBars, maxBin int) (int, int) {
	logMin := math.Log(1)
	logMax := math.Log(float64(maxBin))
	frac0 := float64(i) / float64(numBars)
	frac1 := float64(i+1) / float64(numBars)
	start := int(math.Exp(logMin + frac0*(logMax-logMin)))
	end := int(math.Exp(logMin + frac1*(logMax-logMin)))
	if i == numBars-1 {
		end = maxBin
	}
	if end <= start {
		end = start + 1
	}
	if end > maxBin {
		end = maxBin
	}
	if start >= end {
		start = end - 1
	}
	return start, end
}
