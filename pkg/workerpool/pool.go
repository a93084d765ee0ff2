// Package workerpool provides a bounded goroutine pool with a fixed task
// queue. It backs async event dispatch and the in-memory queue driver.
package workerpool

import (
	"context"
	"errors"
	"sync"

	"github.com/fashionhub/storefront/pkg/logger"
)

var (
	// ErrPoolClosed is returned by Submit after Stop has been called.
	ErrPoolClosed = errors.New("workerpool: pool is closed")

	// ErrPoolFull is returned by TrySubmit when the task queue is full.
	ErrPoolFull = errors.New("workerpool: task queue is full")
)

// Task is a unit of work executed by a pool worker.
type Task func(ctx context.Context)

// Pool runs tasks on a fixed number of workers.
type Pool struct {
	tasks   chan Task
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	cancel  context.CancelFunc
	workers int
}

// New creates a pool with the given worker count and queue capacity and
// starts its workers immediately.
func New(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers * 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:   make(chan Task, queueSize),
		cancel:  cancel,
		workers: workers,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(ctx)
	}
	return p
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(ctx, task)
	}
}

func (p *Pool) run(ctx context.Context, task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("workerpool: task panicked", "panic", rec)
		}
	}()
	task(ctx)
}

// Submit enqueues a task, blocking while the queue is full.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.mu.Unlock()

	p.tasks <- task
	return nil
}

// TrySubmit enqueues a task without blocking.
func (p *Pool) TrySubmit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

// Stop closes the queue and waits for queued tasks to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.cancel()
}
