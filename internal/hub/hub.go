// Package hub maintains the registry of connected live-dashboard
// subscribers and pushes a fresh snapshot to all of them on every alert
// mutation. The registry is strictly in-process: a multi-instance
// deployment fans out only to subscribers of the instance that handled the
// write.
package hub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/safelanka/alert-engine/internal/snapshot"
)

// ErrClosed is returned by Subscribe after the hub has shut down.
var ErrClosed = errors.New("hub is closed")

// subscriberBuffer absorbs bursts of publishes; a subscriber that falls
// further behind misses pushes rather than blocking the publisher.
const subscriberBuffer = 16

type Hub struct {
	agg         *snapshot.Aggregator
	recentLimit int

	subscribers map[uint64]chan snapshot.Snapshot
	nextID      atomic.Uint64
	mu          sync.RWMutex
	closed      bool
}

func New(agg *snapshot.Aggregator, recentLimit int) *Hub {
	if recentLimit <= 0 {
		recentLimit = snapshot.DefaultRecentLimit
	}
	return &Hub{
		agg:         agg,
		recentLimit: recentLimit,
		subscribers: make(map[uint64]chan snapshot.Snapshot),
	}
}

// Subscribe registers a new subscriber and synchronously delivers its
// initial snapshot on the returned channel before any later push.
func (h *Hub) Subscribe(ctx context.Context) (uint64, <-chan snapshot.Snapshot, error) {
	initial, err := h.agg.Compute(ctx, h.recentLimit)
	if err != nil {
		return 0, nil, err
	}

	id := h.nextID.Add(1)
	ch := make(chan snapshot.Snapshot, subscriberBuffer)
	ch <- initial

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, nil, ErrClosed
	}
	h.subscribers[id] = ch

	return id, ch, nil
}

// Unsubscribe removes a subscriber and closes its channel. Idempotent.
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	if ch, ok := h.subscribers[id]; ok {
		close(ch)
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
}

// Publish recomputes one snapshot and sends that same value to every open
// subscriber. Slow subscribers with a full buffer are skipped; delivery is
// at most once per publish.
func (h *Hub) Publish(ctx context.Context) error {
	s, err := h.agg.Compute(ctx, h.recentLimit)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- s:
		default:
			// Skip slow subscribers
		}
	}
	return nil
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close closes every subscriber channel, causing open streams to end.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
}
