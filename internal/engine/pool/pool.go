// Package pool implements the bounded worker pool that runs shell tasks.
package pool

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is an opaque unit of work. Completion reporting is the caller's
// business; the pool only guarantees every pushed task runs exactly once.
type Task func()

// Pool is a fixed-size worker pool with an unbounded FIFO queue. Workers
// pick tasks in submission order but run them concurrently, so completion
// order is unspecified.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Task
	closed bool
	g      errgroup.Group
}

// New starts a pool with the given number of workers. A count below one is
// raised to one.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	for range workers {
		p.g.Go(p.work)
	}
	return p
}

// Push enqueues a task. If the pool is already closed the task runs on the
// calling goroutine so that its completion is never lost.
func (p *Pool) Push(t Task) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		t()
		return
	}
	p.queue = append(p.queue, t)
	p.mu.Unlock()
	p.cond.Signal()
}

// Close drains the queue and joins the workers. Tasks already queued still
// run to completion.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
	return p.g.Wait()
}

func (p *Pool) work() error {
	for {
		p.mu.Lock()
		for !p.closed && len(p.queue) == 0 {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return nil
		}
		t := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()
		t()
	}
}
