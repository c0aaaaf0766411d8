package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchNextReturnsImmediatelyWhenStale(t *testing.T) {
	w := NewWatch(1)
	v, ver, err := w.Next(t.Context(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, uint64(1), ver)
}

func TestWatchNextBlocksUntilSet(t *testing.T) {
	w := NewWatch(1)
	_, ver := w.Get()

	done := make(chan int, 1)
	go func() {
		v, _, err := w.Next(t.Context(), ver)
		if err == nil {
			done <- v
		}
	}()

	w.Set(2)
	assert.Equal(t, 2, <-done)
}

func TestWatchNextRespectsContextCancellation(t *testing.T) {
	w := NewWatch(1)
	_, ver := w.Get()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, _, err := w.Next(ctx, ver)
	assert.ErrorIs(t, err, context.Canceled)
}
