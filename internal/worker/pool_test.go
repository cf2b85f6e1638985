package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type stubResult struct {
	err error
}

func (r *stubResult) GetError() error { return r.err }

// stubJob counts its executions and optionally fails.
type stubJob struct {
	fail bool
	runs *int32
}

func (j *stubJob) Execute(ctx context.Context) Result {
	if j.runs != nil {
		atomic.AddInt32(j.runs, 1)
	}
	if j.fail {
		return &stubResult{err: errors.New("job failed")}
	}
	return &stubResult{}
}

func TestNewPool_ClampsSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		if p := NewPool(size); p.size != 1 {
			t.Errorf("NewPool(%d): expected 1 worker, got %d", size, p.size)
		}
	}
	if p := NewPool(4); p.size != 4 {
		t.Errorf("Expected 4 workers, got %d", p.size)
	}
}

func TestPool_RunsEverySubmittedJob(t *testing.T) {
	pool := NewPool(3)
	pool.Start()

	var runs int32
	const jobs = 12
	for i := 0; i < jobs; i++ {
		pool.Submit(&stubJob{runs: &runs})
	}

	results := pool.Wait()
	if len(results) != jobs {
		t.Errorf("Expected %d results, got %d", jobs, len(results))
	}
	if got := atomic.LoadInt32(&runs); got != jobs {
		t.Errorf("Expected %d executions, got %d", jobs, got)
	}
}

// gateJob records how many copies of itself run at once.
type gateJob struct {
	active *int32
	peak   *int32
	mu     *sync.Mutex
}

func (j *gateJob) Execute(ctx context.Context) Result {
	now := atomic.AddInt32(j.active, 1)
	j.mu.Lock()
	if now > *j.peak {
		*j.peak = now
	}
	j.mu.Unlock()

	time.Sleep(10 * time.Millisecond)
	atomic.AddInt32(j.active, -1)
	return &stubResult{}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 5
	pool := NewPool(workers)
	pool.Start()

	var active, peak int32
	var mu sync.Mutex
	const jobs = 30
	for i := 0; i < jobs; i++ {
		pool.Submit(&gateJob{active: &active, peak: &peak, mu: &mu})
	}

	results := pool.Wait()
	if len(results) != jobs {
		t.Fatalf("Expected %d results, got %d", jobs, len(results))
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > workers {
		t.Errorf("Peak concurrency %d exceeded %d workers", peak, workers)
	}
}

func TestPool_ReportsJobErrors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&stubJob{fail: true})
	pool.Submit(&stubJob{})
	pool.Submit(&stubJob{fail: true})

	failed := 0
	for _, res := range pool.Wait() {
		if res.GetError() != nil {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("Expected 2 failed results, got %d", failed)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	// Must return promptly instead of blocking on a dead queue
	done := make(chan struct{})
	go func() {
		pool.Submit(&stubJob{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after Shutdown")
	}
}

// sleepJob blocks until cancelled or its duration elapses.
type sleepJob struct {
	started chan struct{}
	d       time.Duration
}

func (j *sleepJob) Execute(ctx context.Context) Result {
	close(j.started)
	select {
	case <-time.After(j.d):
		return &stubResult{}
	case <-ctx.Done():
		return &stubResult{err: ctx.Err()}
	}
}

func TestPool_ShutdownCancelsInFlightJobs(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	job := &sleepJob{started: make(chan struct{}), d: 5 * time.Second}
	pool.Submit(job)
	<-job.started

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not cancel the running job")
	}
}
