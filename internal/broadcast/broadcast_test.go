package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberReceivesInPublishOrder(t *testing.T) {
	h := New[int](8)
	sub := h.Subscribe()
	defer sub.Unsubscribe()

	for i := 1; i <= 5; i++ {
		h.Publish(i)
	}
	for i := 1; i <= 5; i++ {
		v, lagged, err := sub.Recv(t.Context())
		require.NoError(t, err)
		assert.Zero(t, lagged)
		assert.Equal(t, i, v)
	}
}

func TestSlowSubscriberLagsInsteadOfBlocking(t *testing.T) {
	h := New[int](2)
	sub := h.Subscribe()
	defer sub.Unsubscribe()

	// Buffer holds 2; the other 3 are dropped with a lag count.
	for i := 1; i <= 5; i++ {
		h.Publish(i)
	}

	v, lagged, err := sub.Recv(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, lagged)
	assert.Zero(t, v)

	// After the lag signal, delivery resumes with the buffered prefix.
	v, lagged, err = sub.Recv(t.Context())
	require.NoError(t, err)
	assert.Zero(t, lagged)
	assert.Equal(t, 1, v)
}

func TestSubscriberOnlySeesMessagesAfterSubscribe(t *testing.T) {
	h := New[int](8)
	h.Publish(1)
	sub := h.Subscribe()
	defer sub.Unsubscribe()
	h.Publish(2)

	v, _, err := sub.Recv(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestCloseDrainsBufferedThenReportsClosed(t *testing.T) {
	h := New[int](8)
	sub := h.Subscribe()
	h.Publish(1)
	h.Close()

	v, _, err := sub.Recv(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, _, err = sub.Recv(t.Context())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestIndependentSubscribers(t *testing.T) {
	h := New[string](4)
	a := h.Subscribe()
	b := h.Subscribe()
	defer a.Unsubscribe()
	defer b.Unsubscribe()

	h.Publish("x")

	va, _, err := a.Recv(t.Context())
	require.NoError(t, err)
	vb, _, err := b.Recv(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "x", va)
	assert.Equal(t, "x", vb)
}
