package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    string
	Name  string
	Count int
}

func TestCollectionUpsertAndGet(t *testing.T) {
	c := NewCollection[string, widget]()
	c.Upsert("a", widget{ID: "a", Name: "first"})

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "first", v.Name)
	assert.Equal(t, 1, c.Len())
}

func TestCollectionRemove(t *testing.T) {
	c := NewCollection[string, widget]()
	c.Upsert("a", widget{ID: "a"})
	c.Remove("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCollectionApplyRefreshSnapshotReplacesContents(t *testing.T) {
	c := NewCollection[string, widget]()
	c.Upsert("stale", widget{ID: "stale"})

	c.ApplyRefreshSnapshot(map[string]widget{"a": {ID: "a"}, "b": {ID: "b"}})

	_, ok := c.Get("stale")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCollectionUpdateMergesPartialField(t *testing.T) {
	c := NewCollection[string, widget]()
	c.Upsert("a", widget{ID: "a", Name: "orig", Count: 1})

	c.Update("a", func(old widget, ok bool) widget {
		old.Count = 2
		return old
	})

	v, _ := c.Get("a")
	assert.Equal(t, "orig", v.Name)
	assert.Equal(t, 2, v.Count)
}

func TestCollectionSilentBulkPublishesOnceOnFlush(t *testing.T) {
	c := NewCollection[string, widget]()
	sub := c.Subscribe()

	// Observe the (empty) current snapshot.
	assert.Empty(t, sub.Current())

	c.UpsertSilent("a", widget{ID: "a"})
	c.UpsertSilent("b", widget{ID: "b"})
	c.Flush()

	snap, err := sub.Next(t.Context())
	require.NoError(t, err)
	assert.Len(t, snap, 2)
}

func TestCollectionSecondaryIndex(t *testing.T) {
	c := NewCollection[string, widget]()
	c.WithIndex("name", func(w widget) string { return w.Name })
	c.Upsert("a", widget{ID: "a", Name: "alpha"})

	v, ok := c.GetByIndex("name", "alpha")
	require.True(t, ok)
	assert.Equal(t, "a", v.ID)
}

func TestCollectionStreamYieldsSnapshotOnFirstPollThenPerPublish(t *testing.T) {
	c := NewCollection[string, widget]()
	sub := c.Subscribe()

	// First poll yields the (empty) current snapshot immediately.
	snap, err := sub.Next(t.Context())
	require.NoError(t, err)
	assert.Empty(t, snap)

	c.Upsert("a", widget{ID: "a"})

	snap, err = sub.Next(t.Context())
	require.NoError(t, err)
	assert.Len(t, snap, 1)
}

func TestCollectionLateSubscriberSeesCurrentSnapshot(t *testing.T) {
	c := NewCollection[string, widget]()
	c.Upsert("a", widget{ID: "a"})

	sub := c.Subscribe()
	snap, err := sub.Next(t.Context())
	require.NoError(t, err)
	assert.Len(t, snap, 1)
}

func TestCollectionStreamCoalescesMissedSnapshots(t *testing.T) {
	c := NewCollection[string, widget]()
	sub := c.Subscribe()
	_ = sub.Current()

	// A slow consumer misses intermediate states; the next poll
	// observes only the newest snapshot, never a backlog or lag signal.
	c.Upsert("a", widget{ID: "a"})
	c.Upsert("b", widget{ID: "b"})
	c.Upsert("c", widget{ID: "c"})

	snap, err := sub.Next(t.Context())
	require.NoError(t, err)
	assert.Len(t, snap, 3)
}
