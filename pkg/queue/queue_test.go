package queue_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fashionhub/storefront/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	echoHandled  = make(chan echoJob, 16)
	flakyRuns    atomic.Int32
	flakyHandled = make(chan struct{}, 1)
)

type echoJob struct {
	Message string `json:"message"`
}

func (echoJob) Name() string { return "echo" }

func (j echoJob) Handle(context.Context) error {
	echoHandled <- j
	return nil
}

// flakyJob fails its first FailTimes runs, then succeeds.
type flakyJob struct {
	FailTimes int32 `json:"failTimes"`
}

func (flakyJob) Name() string { return "flaky" }

func (j flakyJob) Handle(context.Context) error {
	if flakyRuns.Add(1) <= j.FailTimes {
		return errors.New("transient failure")
	}
	flakyHandled <- struct{}{}
	return nil
}

func newManager(t *testing.T, opts ...queue.Option) (*queue.Manager, context.CancelFunc) {
	t.Helper()
	m := queue.NewManager(queue.NewMemoryDriver(16), opts...)
	queue.Register(m, echoJob{})
	queue.Register(m, flakyJob{})

	ctx, cancel := context.WithCancel(context.Background())
	m.StartWorkers(ctx, 2)
	t.Cleanup(func() {
		cancel()
		m.Wait()
	})
	return m, cancel
}

func TestDispatchRoundTripsPayload(t *testing.T) {
	m, _ := newManager(t)

	require.NoError(t, m.Dispatch(context.Background(), echoJob{Message: "order 42 confirmed"}))

	select {
	case got := <-echoHandled:
		assert.Equal(t, "order 42 confirmed", got.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("job was never handled")
	}
}

func TestFailedJobIsRetried(t *testing.T) {
	flakyRuns.Store(0)
	m, _ := newManager(t, queue.WithRetryDelay(10*time.Millisecond))

	require.NoError(t, m.Dispatch(context.Background(), flakyJob{FailTimes: 2}))

	select {
	case <-flakyHandled:
		assert.Equal(t, int32(3), flakyRuns.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("job never succeeded after retries")
	}
}

func TestDispatchAfterDelays(t *testing.T) {
	m, _ := newManager(t)

	start := time.Now()
	require.NoError(t, m.DispatchAfter(context.Background(), echoJob{Message: "later"}, 50*time.Millisecond))

	select {
	case <-echoHandled:
		assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("delayed job was never handled")
	}
}

func TestWorkersStopOnCancel(t *testing.T) {
	m := queue.NewManager(queue.NewMemoryDriver(4))
	ctx, cancel := context.WithCancel(context.Background())
	m.StartWorkers(ctx, 2)
	cancel()

	done := make(chan struct{})
	go func() {
		m.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not exit on cancel")
	}
}
