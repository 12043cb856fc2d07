// Package pool provides the shared worker pool that executes render tasks
// off the interactive goroutine.
package pool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs submitted jobs on a fixed set of worker goroutines.
//
// Each worker owns a queue and steals from the others when idle, so a few
// slow renders (large tiles, high zoom) do not starve the rest.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// New creates a pool with the given number of workers and starts them.
// If workers is 0 or negative, GOMAXPROCS is used.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}

	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(myQueue)
			return

		case job := <-myQueue:
			if job != nil {
				job()
			}

		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
			} else {
				select {
				case <-p.done:
					p.drain(myQueue)
					return
				case job := <-myQueue:
					if job != nil {
						job()
					}
				}
			}
		}
	}
}

// drain executes all jobs still queued, so that every submitted task reaches
// its completion signal even during shutdown.
func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case job := <-queue:
			if job != nil {
				job()
			}
		default:
			return
		}
	}
}

// steal takes a job from another worker's queue, or returns nil.
func (p *Pool) steal(myID int) func() {
	for i := 0; i < p.workers; i++ {
		if i == myID {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
		}
	}
	return nil
}

// Submit queues a single job on the worker with the shortest queue. When
// every queue is full the job is spilled to its own goroutine instead of
// blocking the caller. Submit reports whether the job was accepted; a
// closed pool rejects all jobs.
func (p *Pool) Submit(job func()) bool {
	if job == nil || !p.running.Load() {
		return false
	}

	minLen := len(p.queues[0])
	minIdx := 0
	for i := 1; i < p.workers; i++ {
		if qLen := len(p.queues[i]); qLen < minLen {
			minLen = qLen
			minIdx = i
		}
	}

	select {
	case <-p.done:
		return false
	case p.queues[minIdx] <- job:
		return true
	default:
	}

	go job()
	return true
}

// Close stops accepting work, runs all queued jobs and waits for the
// workers to exit. Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()

	// A Submit that raced the shutdown may have enqueued after the worker
	// drained; sweep the queues once more so no accepted job is stranded.
	for _, q := range p.queues {
		p.drain(q)
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
