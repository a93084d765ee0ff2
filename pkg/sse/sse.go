// Package sse streams server events to clients over Server-Sent Events.
// The admin dashboard uses it as a polyfill transport for the order feed
// where websockets are blocked by a proxy.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fashionhub/storefront/pkg/logger"
)

// heartbeatInterval keeps intermediate proxies from timing out idle streams.
const heartbeatInterval = 15 * time.Second

// Broker fans published events out to every subscribed stream.
type Broker struct {
	mu   sync.Mutex
	subs map[chan message]struct{}
}

type message struct {
	event string
	data  []byte
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: map[chan message]struct{}{}}
}

// Publish sends a named event with a JSON payload to every subscriber.
// Slow subscribers are skipped rather than blocking the publisher.
func (b *Broker) Publish(event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		logger.Error("sse: cannot marshal event", "event", event, "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- message{event: event, data: payload}:
		default:
			logger.Warn("sse: dropping event for slow subscriber", "event", event)
		}
	}
}

// Subscribers returns the current subscriber count.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broker) subscribe() chan message {
	ch := make(chan message, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) unsubscribe(ch chan message) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// ServeHTTP subscribes the client and streams events until it disconnects.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	flusher.Flush()

	ch := b.subscribe()
	defer b.unsubscribe(ch)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case msg := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.event, msg.data)
			flusher.Flush()
		}
	}
}
