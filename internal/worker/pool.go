package worker

import (
	"context"
	"sync"
)

// Job is one unit of batch work.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a finished job leaves behind.
type Result interface {
	GetError() error
}

// Pool runs submitted jobs across a fixed set of worker goroutines.
// Create it with NewPool, call Start, Submit the jobs, then finish with
// exactly one call to Wait or Shutdown.
type Pool struct {
	size   int
	queue  chan Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	results []Result
}

// NewPool sizes a pool; anything below one worker is raised to one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		size:   size,
		queue:  make(chan Job, size*2), // headroom so Submit rarely blocks
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.drain()
	}
}

// drain runs jobs off the queue until the queue closes or the pool shuts
// down. Results never block a worker; they are collected under the lock.
func (p *Pool) drain() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.queue:
			if !ok {
				return
			}
			res := job.Execute(p.ctx)
			p.mu.Lock()
			p.results = append(p.results, res)
			p.mu.Unlock()
		}
	}
}

// Submit queues one job. After Shutdown it is a no-op.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.queue <- job:
	}
}

// Wait closes the queue, lets the workers finish everything submitted and
// returns the results in completion order.
func (p *Pool) Wait() []Result {
	close(p.queue)
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.results
}

// Shutdown stops the pool without draining the queue. Jobs already
// executing observe the cancellation through their context; Shutdown
// returns once they have.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
