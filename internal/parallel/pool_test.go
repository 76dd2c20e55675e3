package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
)

func TestPool_Create(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
}

func TestPool_CreateZeroWorkers(t *testing.T) {
	pool := NewPool(0)
	defer pool.Close()

	if want := runtime.GOMAXPROCS(0); pool.Workers() != want {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), want)
	}
}

func TestPool_ForVisitsEveryIndexOnce(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		grain int
	}{
		{"empty", 0, 8},
		{"single chunk", 5, 8},
		{"exact chunks", 64, 8},
		{"ragged tail", 1001, 16},
		{"default grain", 500, 0},
		{"grain of one", 37, 1},
	}

	pool := NewPool(4)
	defer pool.Close()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			pool.For(tt.n, tt.grain, func(i int) {
				atomic.AddInt32(&hits[i], 1)
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d visited %d times, want 1", i, h)
				}
			}
		})
	}
}

func TestPool_ForIsBarrier(t *testing.T) {
	pool := NewPool(8)
	defer pool.Close()

	out := make([]int, 4096)
	pool.For(len(out), 32, func(i int) {
		out[i] = i * 2
	})
	// No synchronization beyond For itself: every slot must be visible now.
	for i, v := range out {
		if v != i*2 {
			t.Fatalf("out[%d] = %d, want %d", i, v, i*2)
		}
	}
}

func TestPool_ForAfterCloseRunsInline(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close() // idempotent

	var count atomic.Int64
	pool.For(300, 10, func(int) { count.Add(1) })
	if count.Load() != 300 {
		t.Errorf("count = %d, want 300", count.Load())
	}
}
