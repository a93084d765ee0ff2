// Package queue runs background jobs on pluggable drivers. The memory
// driver serves development and tests; the redis driver survives restarts
// and is shared between processes. Jobs that exhaust their retries are
// persisted to the failed_jobs table for inspection and replay.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fashionhub/storefront/pkg/logger"
	"github.com/fashionhub/storefront/pkg/metrics"

	"github.com/google/uuid"
)

// Job is a unit of background work. Implementations must be registered
// with Register so drivers can reconstruct them from their payload.
type Job interface {
	// Name is the stable identifier used to route payloads to handlers.
	Name() string
	// Handle runs the job.
	Handle(ctx context.Context) error
}

// envelope is the wire format drivers move around.
type envelope struct {
	ID       string          `json:"id"`
	Job      string          `json:"job"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Driver moves job envelopes in and out of a backing store.
type Driver interface {
	Push(ctx context.Context, env envelope) error
	PushDelayed(ctx context.Context, env envelope, delay time.Duration) error
	// Pop blocks until an envelope is available or ctx is done.
	Pop(ctx context.Context) (envelope, error)
}

// factory rebuilds a Job from its serialized payload.
type factory func(payload json.RawMessage) (Job, error)

// Manager dispatches jobs and runs workers against a driver.
type Manager struct {
	driver     Driver
	mu         sync.RWMutex
	factories  map[string]factory
	maxRetries int
	retryDelay time.Duration
	wg         sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxRetries sets how many times a failing job is retried.
func WithMaxRetries(n int) Option {
	return func(m *Manager) { m.maxRetries = n }
}

// WithRetryDelay sets the delay before a failed job is retried.
func WithRetryDelay(d time.Duration) Option {
	return func(m *Manager) { m.retryDelay = d }
}

// NewManager creates a manager over the given driver.
func NewManager(driver Driver, opts ...Option) *Manager {
	m := &Manager{
		driver:     driver,
		factories:  map[string]factory{},
		maxRetries: 3,
		retryDelay: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register binds a job name to a constructor. The constructor receives the
// JSON payload produced by marshalling the dispatched job value.
func Register[T Job](m *Manager, zero T) {
	name := zero.Name()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[name] = func(payload json.RawMessage) (Job, error) {
		job := new(T)
		if err := json.Unmarshal(payload, job); err != nil {
			return nil, fmt.Errorf("queue: decode %s payload: %w", name, err)
		}
		return *job, nil
	}
}

// Dispatch enqueues a job for background processing.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	env, err := m.wrap(job)
	if err != nil {
		return err
	}
	return m.driver.Push(ctx, env)
}

// DispatchAfter enqueues a job to run after the given delay.
func (m *Manager) DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	env, err := m.wrap(job)
	if err != nil {
		return err
	}
	return m.driver.PushDelayed(ctx, env, delay)
}

func (m *Manager) wrap(job Job) (envelope, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return envelope{}, fmt.Errorf("queue: encode %s: %w", job.Name(), err)
	}
	return envelope{
		ID:      uuid.NewString(),
		Job:     job.Name(),
		Payload: payload,
	}, nil
}

// StartWorkers launches n workers that consume jobs until ctx is cancelled.
func (m *Manager) StartWorkers(ctx context.Context, n int) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			m.work(ctx)
		}()
	}
}

// Wait blocks until all workers have exited.
func (m *Manager) Wait() { m.wg.Wait() }

func (m *Manager) work(ctx context.Context) {
	for {
		env, err := m.driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("queue: pop failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		m.process(ctx, env)
	}
}

func (m *Manager) process(ctx context.Context, env envelope) {
	m.mu.RLock()
	build, ok := m.factories[env.Job]
	m.mu.RUnlock()
	if !ok {
		logger.Error("queue: no handler registered", "job", env.Job, "id", env.ID)
		recordFailure(env, "no handler registered")
		return
	}

	job, err := build(env.Payload)
	if err != nil {
		logger.Error("queue: cannot build job", "job", env.Job, "id", env.ID, "error", err)
		recordFailure(env, err.Error())
		return
	}

	err = m.runJob(ctx, job)
	if err == nil {
		metrics.QueueJobsProcessed.WithLabelValues(env.Job, "ok").Inc()
		return
	}

	env.Attempts++
	logger.Warn("queue: job failed", "job", env.Job, "id", env.ID, "attempt", env.Attempts, "error", err)

	if env.Attempts < m.maxRetries {
		if pushErr := m.driver.PushDelayed(ctx, env, m.retryDelay); pushErr != nil {
			logger.Error("queue: requeue failed", "job", env.Job, "id", env.ID, "error", pushErr)
			recordFailure(env, err.Error())
		}
		return
	}

	metrics.QueueJobsProcessed.WithLabelValues(env.Job, "failed").Inc()
	recordFailure(env, err.Error())
}

func (m *Manager) runJob(ctx context.Context, job Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("queue: job panicked: %v", rec)
		}
	}()
	return job.Handle(ctx)
}
