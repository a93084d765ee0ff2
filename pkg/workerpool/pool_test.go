package workerpool_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fashionhub/storefront/pkg/workerpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	p := workerpool.New(4, 16)

	var done atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func(context.Context) { done.Add(1) }))
	}
	p.Stop()

	assert.Equal(t, int32(10), done.Load())
}

func TestTrySubmitFullQueue(t *testing.T) {
	p := workerpool.New(1, 1)
	defer p.Stop()

	block := make(chan struct{})
	require.NoError(t, p.Submit(func(context.Context) { <-block }))

	// One more fits in the queue, then TrySubmit must refuse.
	var err error
	for i := 0; i < 50; i++ {
		err = p.TrySubmit(func(context.Context) {})
		if err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, workerpool.ErrPoolFull)
	close(block)
}

func TestSubmitAfterStop(t *testing.T) {
	p := workerpool.New(2, 4)
	p.Stop()

	assert.ErrorIs(t, p.Submit(func(context.Context) {}), workerpool.ErrPoolClosed)
	assert.ErrorIs(t, p.TrySubmit(func(context.Context) {}), workerpool.ErrPoolClosed)
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	p := workerpool.New(1, 4)

	var done atomic.Int32
	require.NoError(t, p.Submit(func(context.Context) { panic("boom") }))
	require.NoError(t, p.Submit(func(context.Context) { done.Add(1) }))
	p.Stop()

	assert.Equal(t, int32(1), done.Load())
}

func TestStopWaitsForQueuedTasks(t *testing.T) {
	p := workerpool.New(1, 8)

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func(context.Context) {
			time.Sleep(5 * time.Millisecond)
			done.Add(1)
		}))
	}
	p.Stop()

	assert.Equal(t, int32(5), done.Load())
}

func TestStopIsIdempotent(t *testing.T) {
	p := workerpool.New(2, 4)
	p.Stop()
	p.Stop()
	assert.Equal(t, 2, p.Workers())
}
