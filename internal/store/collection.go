package store

import "sync"

// KeyFunc extracts a secondary lookup key (a MAC string, an EntityId
// string, ...) from a value. Collections that need more than one
// lookup axis (Device: MAC is primary, but some callers also want a
// fast EntityId lookup) register one KeyFunc per secondary index.
type KeyFunc[V any] func(V) string

// Collection is the generic keyed store backing every CRUD entity kind
// (§3.3, §4.6): key uniqueness, whole-kind refresh, snapshot
// consistency, and change notification. Change notification is a
// last-snapshot-wins Watch, not a broadcast: a slow consumer observes
// the latest snapshot on its next poll rather than lagging behind a
// backlog of intermediate states.
type Collection[K comparable, V any] struct {
	mu        sync.RWMutex
	items     map[K]V
	secondary map[string]map[string]K // index name -> secondary key -> primary key
	version   uint64
	indexFns  map[string]KeyFunc[V]
	stream    *Watch[[]V]
}

// NewCollection creates an empty Collection.
func NewCollection[K comparable, V any]() *Collection[K, V] {
	return &Collection[K, V]{
		items:     make(map[K]V),
		secondary: make(map[string]map[string]K),
		indexFns:  make(map[string]KeyFunc[V]),
		stream:    NewWatch[[]V](nil),
	}
}

// WithIndex registers a secondary lookup index, keyed by fn(v). Must
// be called before any Upsert if the index is to cover pre-existing
// entries; safe to call on an empty Collection at construction time.
func (c *Collection[K, V]) WithIndex(name string, fn KeyFunc[V]) *Collection[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexFns[name] = fn
	c.secondary[name] = make(map[string]K)
	return c
}

func (c *Collection[K, V]) reindexLocked(k K, v V) {
	for name, fn := range c.indexFns {
		sk := fn(v)
		if sk != "" {
			c.secondary[name][sk] = k
		}
	}
}

func (c *Collection[K, V]) unindexLocked(v V) {
	for name, fn := range c.indexFns {
		sk := fn(v)
		if sk != "" {
			delete(c.secondary[name], sk)
		}
	}
}

// Upsert inserts or replaces the value at k and publishes a snapshot.
func (c *Collection[K, V]) Upsert(k K, v V) {
	c.mu.Lock()
	c.items[k] = v
	c.reindexLocked(k, v)
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.stream.Set(snap)
}

// UpsertSilent inserts or replaces the value at k without publishing —
// used when a caller is about to make several writes and wants a
// single notification at the end.
func (c *Collection[K, V]) UpsertSilent(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[k] = v
	c.reindexLocked(k, v)
	c.version++
}

// Update applies merge to the existing value at k (or the zero value
// if absent) and stores the result, publishing a snapshot. This is the
// field-level partial-update path (§4.5 DeviceStats.merge and
// analogous client/network partial updates): merge decides what
// "present" means for V, Upsert/Update just sequences the read-modify-
// write under the collection's lock so concurrent partial updates to
// the same key never interleave.
func (c *Collection[K, V]) Update(k K, merge func(old V, ok bool) V) {
	c.mu.Lock()
	old, ok := c.items[k]
	next := merge(old, ok)
	c.items[k] = next
	c.reindexLocked(k, next)
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.stream.Set(snap)
}

// Remove deletes k, publishing a snapshot if it was present.
func (c *Collection[K, V]) Remove(k K) {
	c.mu.Lock()
	v, ok := c.items[k]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.items, k)
	c.unindexLocked(v)
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.stream.Set(snap)
}

// Flush publishes the current state without mutating it — the closing
// half of a silent bulk: a run of UpsertSilent calls followed by one
// Flush yields a single notification for the whole batch.
func (c *Collection[K, V]) Flush() {
	c.mu.RLock()
	snap := c.snapshotLocked()
	c.mu.RUnlock()
	c.stream.Set(snap)
}

// ApplyRefreshSnapshot replaces the collection's contents wholesale
// with items, used by the full-refresh task (§4.7.3) which fetches the
// authoritative list for a kind and discards anything the store held
// that the controller no longer reports.
func (c *Collection[K, V]) ApplyRefreshSnapshot(items map[K]V) {
	c.mu.Lock()
	c.items = make(map[K]V, len(items))
	for name := range c.secondary {
		c.secondary[name] = make(map[string]K)
	}
	for k, v := range items {
		c.items[k] = v
		c.reindexLocked(k, v)
	}
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.stream.Set(snap)
}

// Get returns the value at k.
func (c *Collection[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[k]
	return v, ok
}

// GetByIndex looks up a value by a registered secondary index.
func (c *Collection[K, V]) GetByIndex(name, key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero V
	idx, ok := c.secondary[name]
	if !ok {
		return zero, false
	}
	k, ok := idx[key]
	if !ok {
		return zero, false
	}
	v, ok := c.items[k]
	return v, ok
}

// Keys returns every current primary key, in no particular order.
func (c *Collection[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]K, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	return keys
}

// Snapshot returns every current value, in no particular order.
func (c *Collection[K, V]) Snapshot() []V {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Collection[K, V]) snapshotLocked() []V {
	out := make([]V, 0, len(c.items))
	for _, v := range c.items {
		out = append(out, v)
	}
	return out
}

// Len reports the current entry count.
func (c *Collection[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Subscribe returns an EntityStream onto this collection: the first
// poll yields the current snapshot immediately, every later poll the
// latest published one (§4.6, GLOSSARY "EntityStream"). Intermediate
// snapshots a slow consumer never polled for are superseded, not
// queued — last-snapshot-wins, never a lag signal.
func (c *Collection[K, V]) Subscribe() *EntityStream[V] {
	return &EntityStream[V]{watch: c.stream}
}
