// Package schedule runs recurring jobs on fixed intervals.
//
//	s := schedule.New()
//	s.Every(30).Seconds().Named("catalog-refresh").NoOverlap().Do(refresh)
//	s.Start(ctx)
package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fashionhub/storefront/pkg/logger"
)

// Task is a scheduled unit of work.
type Task func(ctx context.Context)

type entry struct {
	name      string
	interval  time.Duration
	task      Task
	noOverlap bool
	running   atomic.Bool
}

// Scheduler runs registered entries until its context is cancelled.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{}
}

// Builder accumulates one entry's settings.
type Builder struct {
	s     *Scheduler
	n     int
	every time.Duration
	name  string
	solo  bool
}

// Every starts a builder for a job running every n units.
func (s *Scheduler) Every(n int) *Builder {
	if n <= 0 {
		n = 1
	}
	return &Builder{s: s, n: n}
}

// Seconds sets the interval unit to seconds.
func (b *Builder) Seconds() *Builder {
	b.every = time.Duration(b.n) * time.Second
	return b
}

// Minutes sets the interval unit to minutes.
func (b *Builder) Minutes() *Builder {
	b.every = time.Duration(b.n) * time.Minute
	return b
}

// Hours sets the interval unit to hours.
func (b *Builder) Hours() *Builder {
	b.every = time.Duration(b.n) * time.Hour
	return b
}

// Named labels the entry for logs and List.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// NoOverlap skips a tick while the previous run is still in flight.
func (b *Builder) NoOverlap() *Builder {
	b.solo = true
	return b
}

// Do registers the task. A builder without a unit defaults to minutes.
func (b *Builder) Do(task Task) {
	if b.every == 0 {
		b.every = time.Duration(b.n) * time.Minute
	}
	name := b.name
	if name == "" {
		name = "task"
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	b.s.entries = append(b.s.entries, &entry{
		name:      name,
		interval:  b.every,
		task:      task,
		noOverlap: b.solo,
	})
}

// EntryInfo describes a registered entry.
type EntryInfo struct {
	Name     string
	Interval time.Duration
}

// List returns the registered entries.
func (s *Scheduler) List() []EntryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EntryInfo, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, EntryInfo{Name: e.name, Interval: e.interval})
	}
	return out
}

// Start launches one goroutine per entry. It returns immediately; use Wait
// to block until cancellation drains all runners.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	entries := append([]*entry(nil), s.entries...)
	s.mu.Unlock()

	for _, e := range entries {
		e := e
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runLoop(ctx, e)
		}()
	}
}

// Wait blocks until all entry runners have exited.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) runLoop(ctx context.Context, e *entry) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runEntry(ctx, e)
		}
	}
}

func (s *Scheduler) runEntry(ctx context.Context, e *entry) {
	if e.noOverlap && !e.running.CompareAndSwap(false, true) {
		logger.Debug("schedule: skipping overlapping run", "task", e.name)
		return
	}
	defer func() {
		if e.noOverlap {
			e.running.Store(false)
		}
		if rec := recover(); rec != nil {
			logger.Error("schedule: task panicked", "task", e.name, "panic", rec)
		}
	}()
	e.task(ctx)
}
