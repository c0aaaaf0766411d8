// Package store holds the controller's in-memory mirror of
// controller-reported state: one Collection per entity kind plus a
// handful of scalar Watch values (site health, WAN usage counters,
// connection state). Nothing here persists past process lifetime —
// persistence and offline caching are explicit non-goals.
package store

import (
	"context"
	"sync"
)

// Watch holds a single last-value-wins value and lets subscribers
// observe every update, including the current value immediately upon
// subscribing — unlike broadcast.Hub, a late Watch subscriber is never
// left waiting for the next publish to learn the current state.
type Watch[T any] struct {
	mu      sync.Mutex
	value   T
	version uint64
	changed chan struct{}
}

// NewWatch creates a Watch seeded with initial. The seed counts as
// version 1 so a first Next(ctx, 0) observes it immediately instead of
// blocking until the first Set.
func NewWatch[T any](initial T) *Watch[T] {
	return &Watch[T]{value: initial, version: 1, changed: make(chan struct{})}
}

// Set stores a new value and wakes every waiting Next call.
func (w *Watch[T]) Set(v T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.value = v
	w.version++
	close(w.changed)
	w.changed = make(chan struct{})
}

// Get returns the current value and its version.
func (w *Watch[T]) Get() (T, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value, w.version
}

// EntityStream is a last-snapshot-wins subscription onto one entity
// kind (§4.6, GLOSSARY): the first Next yields the current snapshot
// immediately, every later Next blocks until a snapshot newer than the
// last one observed is published and returns the newest. Snapshots a
// slow consumer never polled for are superseded, never queued, so a
// stream can neither lag nor block its publisher.
type EntityStream[T any] struct {
	watch    *Watch[[]T]
	lastSeen uint64
}

// Next returns the newest snapshot not yet observed by this stream,
// blocking until one exists or ctx is cancelled.
func (s *EntityStream[T]) Next(ctx context.Context) ([]T, error) {
	v, ver, err := s.watch.Next(ctx, s.lastSeen)
	if err != nil {
		return nil, err
	}
	s.lastSeen = ver
	return v, nil
}

// Current returns the latest snapshot without waiting and marks it
// observed, so a following Next blocks until the next publish.
func (s *EntityStream[T]) Current() []T {
	v, ver := s.watch.Get()
	s.lastSeen = ver
	return v
}

// Next blocks until the value's version advances past lastSeen, ctx is
// cancelled, or the value is already newer than lastSeen (in which
// case it returns immediately). Callers wishing to see the current
// value immediately should pass lastSeen 0 on first call.
func (w *Watch[T]) Next(ctx context.Context, lastSeen uint64) (T, uint64, error) {
	for {
		w.mu.Lock()
		if w.version != lastSeen {
			v, ver := w.value, w.version
			w.mu.Unlock()
			return v, ver, nil
		}
		ch := w.changed
		w.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			var zero T
			return zero, lastSeen, ctx.Err()
		}
	}
}
