package queue

import (
	"context"
	"time"
)

// MemoryDriver keeps jobs in a channel. Jobs are lost on restart, so it is
// only suitable for development and tests.
type MemoryDriver struct {
	jobs chan envelope
}

// NewMemoryDriver creates an in-process driver with the given buffer size.
func NewMemoryDriver(size int) *MemoryDriver {
	if size <= 0 {
		size = 256
	}
	return &MemoryDriver{jobs: make(chan envelope, size)}
}

func (d *MemoryDriver) Push(ctx context.Context, env envelope) error {
	select {
	case d.jobs <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *MemoryDriver) PushDelayed(ctx context.Context, env envelope, delay time.Duration) error {
	timer := time.AfterFunc(delay, func() {
		select {
		case d.jobs <- env:
		default:
			// Queue full after the delay fired; the job is dropped.
		}
	})
	go func() {
		<-ctx.Done()
		timer.Stop()
	}()
	return nil
}

func (d *MemoryDriver) Pop(ctx context.Context) (envelope, error) {
	select {
	case env := <-d.jobs:
		return env, nil
	case <-ctx.Done():
		return envelope{}, ctx.Err()
	}
}
