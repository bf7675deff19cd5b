// Package spsc holds the wait-free single-producer single-consumer
// primitives that bridge the audio goroutine and the UI: a double-buffered
// sample tap and a bounded note event ring. Neither side ever blocks and the
// producer paths do not allocate.
package spsc

import "sync/atomic"

// VisBuffer is a double-buffered sample tap. The audio goroutine pushes
// every rendered sample into the back buffer; whenever the back buffer
// fills, the two buffers swap roles with a single atomic store. The UI reads
// whichever buffer was most recently published.
//
// Exactly one goroutine may call Push and exactly one may call ReadFront.
// The reader sees a consistent, completely written frame, at most one frame
// stale.
type VisBuffer struct {
	buffers [2][]float32
	// cursor indexes the next write in the back buffer. Writer-owned.
	cursor int
	// front is the index of the published buffer. The store in Push is the
	// release that makes the finished frame visible to the reader.
	front atomic.Uint32
}

// NewVisBuffer creates a tap whose frames hold size samples. Both buffers
// start zeroed, so a read before the first fill returns silence.
func NewVisBuffer(size int) *VisBuffer {
	v := &VisBuffer{}
	v.buffers[0] = make([]float32, size)
	v.buffers[1] = make([]float32, size)
	return v
}

// Size returns the frame length in samples.
func (v *VisBuffer) Size() int { return len(v.buffers[0]) }

// Push appends one sample to the back buffer, publishing the frame when it
// fills. Producer side only.
func (v *VisBuffer) Push(sample float32) {
	back := 1 - v.front.Load()
	buf := v.buffers[back]
	buf[v.cursor] = sample
	v.cursor++
	if v.cursor >= len(buf) {
		v.cursor = 0
		v.front.Store(back)
	}
}

// PushSlice appends a block of samples, one Push per sample.
func (v *VisBuffer) PushSlice(samples []float32) {
	for _, s := range samples {
		v.Push(s)
	}
}

// ReadFront returns the most recently published frame. The slice is borrowed
// from the tap and stays valid until the writer wraps twice; a reader that
// needs the data beyond the next frame must copy it. Consumer side only.
func (v *VisBuffer) ReadFront() []float32 {
	return v.buffers[v.front.Load()]
}
