package worker

import (
	"context"
	"fmt"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type indexedJob struct {
	index int
	job   Job
}

// skippedResult stands in for a job that never ran
type skippedResult struct {
	err error
}

func (r *skippedResult) GetError() error {
	return fmt.Errorf("job not run: %w", r.err)
}

// Pool manages a pool of workers that execute jobs concurrently.
// Results are returned in submission order.
type Pool struct {
	workers    int
	jobQueue   chan indexedJob
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	queueMu sync.RWMutex // guards closed; held for reading while sending
	closed  bool

	resultsMu sync.Mutex
	results   []Result
}

// NewPool creates a new worker pool with the specified number of workers.
// Cancelling ctx stops workers from picking up further jobs.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan indexedJob, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker drains the queue; once the pool is cancelled remaining jobs are skipped
func (p *Pool) worker() {
	defer p.wg.Done()

	for ij := range p.jobQueue {
		var result Result
		if err := p.ctx.Err(); err != nil {
			result = &skippedResult{err: err}
		} else {
			result = ij.job.Execute(p.ctx)
		}
		p.store(ij.index, result)
	}
}

// Submit queues a job and reports whether it was accepted.
// It never blocks past cancellation or shutdown.
func (p *Pool) Submit(job Job) bool {
	p.queueMu.RLock()
	defer p.queueMu.RUnlock()

	if p.closed || p.ctx.Err() != nil {
		return false
	}

	idx := p.reserve()

	select {
	case <-p.ctx.Done():
		p.store(idx, &skippedResult{err: p.ctx.Err()})
		return false
	case p.jobQueue <- indexedJob{index: idx, job: job}:
		return true
	}
}

// Wait waits for all submitted jobs and returns their results in submission order
func (p *Pool) Wait() []Result {
	p.closeQueue()
	p.wg.Wait()
	p.cancelFunc()

	p.resultsMu.Lock()
	defer p.resultsMu.Unlock()

	out := make([]Result, len(p.results))
	for i, r := range p.results {
		if r == nil {
			r = &skippedResult{err: context.Canceled}
		}
		out[i] = r
	}
	return out
}

// Shutdown cancels outstanding work and waits for workers to exit
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.closeQueue()
	p.wg.Wait()
}

func (p *Pool) closeQueue() {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.jobQueue)
	}
}

func (p *Pool) reserve() int {
	p.resultsMu.Lock()
	defer p.resultsMu.Unlock()

	p.results = append(p.results, nil)
	return len(p.results) - 1
}

func (p *Pool) store(idx int, r Result) {
	p.resultsMu.Lock()
	defer p.resultsMu.Unlock()

	p.results[idx] = r
}
