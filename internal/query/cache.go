package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Key identifies one cached read: a resource namespace plus the parameters
// that shape the result (id, page, search, ...). Invalidation works on the
// whole namespace.
type Key struct {
	Resource string
	Params   []string
}

func NewKey(resource string, params ...string) Key {
	return Key{Resource: resource, Params: params}
}

func (k Key) String() string {
	if len(k.Params) == 0 {
		return k.Resource
	}
	return k.Resource + "|" + strings.Join(k.Params, "|")
}

// State is the observable status of one cache key. Stale means the data was
// fetched before the namespace's last invalidation; it stays visible until
// the next read replaces it.
type State struct {
	Loading   bool
	HasData   bool
	Stale     bool
	Err       error
	FetchedAt time.Time
}

type entry struct {
	resource  string
	value     any
	hasValue  bool
	err       error
	gen       uint64
	loading   int
	fetchedAt time.Time
}

// Cache is a process-wide read-through cache over the resource client.
// Concurrent reads of the same key share a single in-flight request, and a
// successful mutation invalidates every key under the resource's namespace
// so the next read refetches.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	gens    map[string]uint64
	group   singleflight.Group
	log     *zap.Logger
}

func NewCache(log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		entries: make(map[string]*entry),
		gens:    make(map[string]uint64),
		log:     log,
	}
}

// Lookup returns the cached value for key, fetching it when missing or
// invalidated. Errors are recorded on the key and returned, but never evict
// previously fetched data; a later read retries the fetch.
func Lookup[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	ks := key.String()

	c.mu.Lock()
	e, ok := c.entries[ks]
	if !ok {
		e = &entry{resource: key.Resource}
		c.entries[ks] = e
	}
	gen := c.gens[key.Resource]
	if e.hasValue && e.err == nil && e.gen == gen {
		value := e.value.(T)
		c.mu.Unlock()
		return value, nil
	}
	e.loading++
	c.mu.Unlock()

	result, err, _ := c.group.Do(ks, func() (any, error) {
		return fetch(ctx)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	e.loading--

	if err != nil {
		e.err = err
		c.log.Warn("fetch failed",
			zap.String("key", ks),
			zap.Error(err))
		var zero T
		return zero, err
	}

	value := result.(T)
	// Only cache the result if the namespace was not invalidated while the
	// request was in flight; a post-mutation read must hit the backend.
	if gen == c.gens[key.Resource] {
		e.value = value
		e.hasValue = true
		e.err = nil
		e.gen = gen
		e.fetchedAt = time.Now()
	}
	return value, nil
}

// Invalidate marks every key under the resource namespace stale. Data stays
// visible until the next read replaces it.
func (c *Cache) Invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[resource]++
}

// Mutate runs a write and invalidates the resource namespace on success.
// A failed mutation leaves the cache untouched.
func (c *Cache) Mutate(resource string, fn func() error) error {
	if err := fn(); err != nil {
		c.log.Warn("mutation failed",
			zap.String("resource", resource),
			zap.Error(err))
		return err
	}
	c.Invalidate(resource)
	return nil
}

// State reports the observable status of a key.
func (c *Cache) State(key Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return State{}
	}
	return State{
		Loading:   e.loading > 0,
		HasData:   e.hasValue,
		Stale:     e.hasValue && e.gen != c.gens[e.resource],
		Err:       e.err,
		FetchedAt: e.fetchedAt,
	}
}
