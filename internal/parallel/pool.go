// Package parallel runs node-indexed loops across a fixed set of worker goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultGrain is the number of consecutive indices handed to a worker at once.
const DefaultGrain = 64

// Pool is a fixed pool of goroutines that executes index ranges.
//
// Each For call is a barrier: it returns only after every index has been
// processed. Workers only ever see disjoint index ranges, so callers that
// write exclusively to the slot of the index they were given need no locking.
//
// Thread safety: For may be called from several goroutines at once, but
// Close must not run concurrently with For.
type Pool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
	running atomic.Bool
	once    sync.Once
}

// NewPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		jobs:    make(chan func(), workers*4),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		job()
	}
}

// For calls fn(i) for every i in [0, n), splitting the range into chunks of
// grain indices. It blocks until all calls have returned. A grain of 0 or
// less selects DefaultGrain. When the pool has been closed, or the range fits
// in a single chunk, the loop runs on the calling goroutine.
func (p *Pool) For(n, grain int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if grain <= 0 {
		grain = DefaultGrain
	}
	if n <= grain || p.workers == 1 || !p.running.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	var done sync.WaitGroup
	for start := 0; start < n; start += grain {
		end := min(start+grain, n)
		done.Add(1)
		p.jobs <- func() {
			defer done.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}
	}
	done.Wait()
}

// Close stops the workers after queued work has drained.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.running.Store(false)
		close(p.jobs)
		p.wg.Wait()
	})
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

