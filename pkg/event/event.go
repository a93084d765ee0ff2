// Package event is a small in-process event bus. Listeners run either
// inline (Fire) or on a shared bounded pool (FireAsync).
package event

import (
	"context"
	"sync"

	"github.com/fashionhub/storefront/pkg/logger"
	"github.com/fashionhub/storefront/pkg/workerpool"
)

// Listener handles a fired event.
type Listener func(ctx context.Context, payload interface{})

var (
	mu        sync.RWMutex
	listeners = map[string][]Listener{}

	poolOnce sync.Once
	pool     *workerpool.Pool
)

func dispatchPool() *workerpool.Pool {
	poolOnce.Do(func() {
		pool = workerpool.New(4, 256)
	})
	return pool
}

// Listen registers a listener for the named event.
func Listen(name string, l Listener) {
	mu.Lock()
	defer mu.Unlock()
	listeners[name] = append(listeners[name], l)
}

// Fire runs all listeners for the event synchronously, in registration order.
func Fire(ctx context.Context, name string, payload interface{}) {
	mu.RLock()
	ls := append([]Listener(nil), listeners[name]...)
	mu.RUnlock()

	for _, l := range ls {
		l(ctx, payload)
	}
}

// FireAsync runs listeners on the shared pool. Events fired while the pool
// queue is full are dropped with a log entry rather than blocking the caller.
func FireAsync(ctx context.Context, name string, payload interface{}) {
	mu.RLock()
	ls := append([]Listener(nil), listeners[name]...)
	mu.RUnlock()

	for _, l := range ls {
		l := l
		err := dispatchPool().TrySubmit(func(context.Context) {
			l(ctx, payload)
		})
		if err != nil {
			logger.Warn("event: async listener dropped", "event", name, "error", err)
		}
	}
}

// Flush removes all listeners. Intended for tests.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	listeners = map[string][]Listener{}
}
