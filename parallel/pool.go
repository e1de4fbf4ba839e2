// Package parallel runs independent jobs on a fixed number of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type Pool struct {
	wg    sync.WaitGroup
	work  chan func()
	close func()
}

// Start spawns numWorkers goroutines; values below 1 mean GOMAXPROCS. A
// single worker runs jobs inline on the submitting goroutine.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{close: func() {}}
	if numWorkers == 1 {
		return pool
	}

	work := make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range work {
				f()
			}
		})
	}

	pool.work = work
	pool.close = sync.OnceFunc(func() { close(work) })
	return pool
}

// Do queues f, blocking while all workers are busy. It must not be called
// after Wait.
func (p *Pool) Do(f func()) {
	if p.work == nil {
		f()
		return
	}
	p.work <- f
}

// Wait stops accepting jobs and returns once every queued job finished.
func (p *Pool) Wait() {
	p.close()
	p.wg.Wait()
}
