// Package hub is an in-process fan-out for seat-map snapshots. It is
// intentionally simple: best-effort broadcast over bounded per-subscriber
// buffers; subscribers that fall behind drop frames and catch up on the next
// broadcast.
package hub

import "sync"

// subscriberBuffer bounds how many undelivered snapshots a single connection
// may queue before broadcasts start skipping it.
const subscriberBuffer = 8

// Hub tracks the live subscribers of one flight partition.
type Hub struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{subs: make(map[chan []byte]struct{})}
}

// Subscribe registers a new subscriber and returns its delivery channel.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Calling it twice
// for the same channel is harmless.
func (h *Hub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Publish delivers a payload to every subscriber. Sends never block: a full
// buffer means the subscriber is lagging and this frame is dropped for it.
func (h *Hub) Publish(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- payload:
		default:
		}
	}
}

// Len reports the current number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
