// Package broadcast implements the fan-out primitive the base spec's
// concurrency model calls for (§4.4, §5, GLOSSARY "Broadcast
// channel"): one producer, many subscribers, a bounded per-subscriber
// backlog, and a Lagged(n) signal instead of blocking the producer
// when a subscriber falls behind. The standard library has nothing
// like it; this is the hand-rolled equivalent of Rust's
// tokio::sync::broadcast, built the way the donor repo builds its own
// channel-based coordination (reconcile.go's request/response channel,
// instance.go's watch-then-reconnect loop).
package broadcast

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Recv once the hub has been closed and the
// subscriber has drained every buffered message.
var ErrClosed = errors.New("broadcast: closed")

// Hub is a single-producer, multi-subscriber fan-out channel with a
// bounded backlog per subscriber.
type Hub[T any] struct {
	mu       sync.Mutex
	subs     map[uint64]*Subscription[T]
	nextID   uint64
	capacity int
	closed   bool
}

// New creates a Hub whose subscribers each buffer up to capacity
// undelivered messages before lagging.
func New[T any](capacity int) *Hub[T] {
	return &Hub[T]{subs: make(map[uint64]*Subscription[T]), capacity: capacity}
}

// Subscribe registers a new subscriber. The subscriber only observes
// messages published after Subscribe returns.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	sub := &Subscription[T]{
		ch:      make(chan T, h.capacity),
		done:    make(chan struct{}),
		hub:     h,
		id:      id,
		dropped: &atomic.Int64{},
	}
	h.subs[id] = sub
	if h.closed {
		close(sub.done)
	}
	return sub
}

// Publish delivers v to every current subscriber. A subscriber whose
// buffer is full is never blocked on; instead its drop counter is
// incremented so its next Recv reports a Lagged signal (§4.4).
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		select {
		case sub.ch <- v:
		default:
			sub.dropped.Add(1)
		}
	}
}

// Close terminates every subscription; pending buffered messages are
// still delivered before ErrClosed.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, sub := range h.subs {
		close(sub.done)
	}
}

func (h *Hub[T]) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, id)
}

// Subscription is one subscriber's view of a Hub.
type Subscription[T any] struct {
	ch      chan T
	done    chan struct{}
	hub     *Hub[T]
	id      uint64
	dropped *atomic.Int64
}

// Recv blocks until a message arrives, the subscriber has lagged, the
// hub closes, or ctx is cancelled. lagged > 0 means that many messages
// were dropped before this call; the caller should log and call Recv
// again to fetch the next real message (no value is returned in that
// case).
func (s *Subscription[T]) Recv(ctx context.Context) (value T, lagged int, err error) {
	if n := s.dropped.Swap(0); n > 0 {
		return value, int(n), nil
	}
	select {
	case v, ok := <-s.ch:
		if !ok {
			return value, 0, ErrClosed
		}
		return v, 0, nil
	case <-s.done:
		select {
		case v, ok := <-s.ch:
			if ok {
				return v, 0, nil
			}
		default:
		}
		return value, 0, ErrClosed
	case <-ctx.Done():
		return value, 0, ctx.Err()
	}
}

// Unsubscribe removes this subscription from its Hub.
func (s *Subscription[T]) Unsubscribe() { s.hub.unsubscribe(s.id) }
