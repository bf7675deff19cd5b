package spsc

import "testing"

func TestVisBufferReadsZerosBeforeFirstFill(t *testing.T) {
	v := NewVisBuffer(8)
	front := v.ReadFront()
	if len(front) != 8 {
		t.Fatalf("len(ReadFront()) = %d, want 8", len(front))
	}
	for i, s := range front {
		if s != 0 {
			t.Fatalf("front[%d] = %v before any push, want 0", i, s)
		}
	}
}

func TestVisBufferPartialFillDoesNotPublish(t *testing.T) {
	v := NewVisBuffer(4)
	v.Push(1)
	v.Push(2)
	v.Push(3)
	for i, s := range v.ReadFront() {
		if s != 0 {
			t.Fatalf("front[%d] = %v after partial fill, want 0", i, s)
		}
	}
}

func TestVisBufferPublishesOnExactFill(t *testing.T) {
	v := NewVisBuffer(4)
	for i := 0; i < 4; i++ {
		v.Push(float32(i + 1))
	}
	want := []float32{1, 2, 3, 4}
	front := v.ReadFront()
	for i := range want {
		if front[i] != want[i] {
			t.Fatalf("front[%d] = %v, want %v", i, front[i], want[i])
		}
	}
}

func TestVisBufferAlternatesAcrossFills(t *testing.T) {
	v := NewVisBuffer(2)
	v.PushSlice([]float32{1, 2})
	v.PushSlice([]float32{3, 4})
	front := v.ReadFront()
	if front[0] != 3 || front[1] != 4 {
		t.Fatalf("second fill front = %v, want [3 4]", front)
	}
	v.PushSlice([]float32{5, 6})
	front = v.ReadFront()
	if front[0] != 5 || front[1] != 6 {
		t.Fatalf("third fill front = %v, want [5 6]", front)
	}
}

func TestVisBufferFrontStableDuringNextPartialFill(t *testing.T) {
	v := NewVisBuffer(3)
	v.PushSlice([]float32{1, 2, 3})
	v.Push(9)
	v.Push(9)
	front := v.ReadFront()
	if front[0] != 1 || front[1] != 2 || front[2] != 3 {
		t.Fatalf("front = %v during next partial fill, want [1 2 3]", front)
	}
}

func TestVisBufferCrossGoroutineHandoff(t *testing.T) {
	const size = 64
	v := NewVisBuffer(size)

	// Writer and reader run on separate goroutines but take turns, so the
	// reader always inspects a frame the writer has finished with.
	filled := make(chan float32)
	read := make(chan struct{})
	go func() {
		for frame := float32(1); frame <= 100; frame++ {
			for i := 0; i < size; i++ {
				v.Push(frame)
			}
			filled <- frame
			<-read
		}
		close(filled)
	}()

	for frame := range filled {
		front := v.ReadFront()
		for i, s := range front {
			if s != frame {
				t.Fatalf("front[%d] = %v after frame %v published, want %v", i, s, frame, frame)
			}
		}
		read <- struct{}{}
	}
}

func BenchmarkVisBufferPush(b *testing.B) {
	v := NewVisBuffer(2048)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Push(0.5)
	}
}
