// Package cache memoizes full orchestration results keyed by
// (scope, normalized message), where scope is a session id or the global
// sentinel. Eviction is LRU over an explicit order list, guarded by a mutex;
// concurrent identical misses are collapsed with singleflight so the pipeline
// runs once.
package cache

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// GlobalScope keys entries that are not bound to a session.
const GlobalScope = "global"

type Options struct {
	MaxEntries int
	// TTL of zero means entries never expire.
	TTL time.Duration
}

// Hooks are optional observability callbacks.
type Hooks struct {
	OnHit   func()
	OnMiss  func()
	OnStore func()
	OnEvict func()
}

type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

type Cache struct {
	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front = least recently used
	opts  Options
	hooks Hooks
	sf    singleflight.Group
	now   func() time.Time
}

func New(opts Options, hooks Hooks) *Cache {
	return &Cache{
		items: make(map[string]*list.Element),
		order: list.New(),
		opts:  opts,
		hooks: hooks,
		now:   time.Now,
	}
}

// Normalize canonicalizes a message for keying: trimmed, lowercased, runs of
// whitespace collapsed to single spaces.
func Normalize(message string) string {
	return strings.Join(strings.Fields(strings.ToLower(message)), " ")
}

// Key builds the cache key for a message within a scope.
func Key(scope, message string) string {
	if scope == "" {
		scope = GlobalScope
	}
	return scope + "\x00" + Normalize(message)
}

// Lookup returns the cached value for (scope, message) and refreshes its
// recency. Expired entries are dropped on access.
func (c *Cache) Lookup(scope, message string) (interface{}, bool) {
	key := Key(scope, message)
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		if c.hooks.OnMiss != nil {
			c.hooks.OnMiss()
		}
		return nil, false
	}
	e := el.Value.(*entry)
	if c.opts.TTL > 0 && c.now().After(e.expiresAt) {
		c.order.Remove(el)
		delete(c.items, key)
		if c.hooks.OnMiss != nil {
			c.hooks.OnMiss()
		}
		return nil, false
	}
	c.order.MoveToBack(el)
	if c.hooks.OnHit != nil {
		c.hooks.OnHit()
	}
	return e.value, true
}

// Store inserts or replaces the value for (scope, message), evicting the
// least recently used entry when capacity is exceeded.
func (c *Cache) Store(scope, message string, value interface{}) {
	key := Key(scope, message)
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{key: key, value: value}
	if c.opts.TTL > 0 {
		e.expiresAt = c.now().Add(c.opts.TTL)
	}
	if el, ok := c.items[key]; ok {
		el.Value = e
		c.order.MoveToBack(el)
	} else {
		c.items[key] = c.order.PushBack(e)
	}
	c.evictLocked()
	if c.hooks.OnStore != nil {
		c.hooks.OnStore()
	}
}

// Do looks up (scope, message) and, on a miss, runs loader exactly once per
// key even under concurrent identical requests. The second return value
// reports whether the result came from the cache or a concurrently shared
// load rather than this caller's own loader run.
func (c *Cache) Do(ctx context.Context, scope, message string, loader func(context.Context) (interface{}, error)) (interface{}, bool, error) {
	if v, ok := c.Lookup(scope, message); ok {
		return v, true, nil
	}
	key := Key(scope, message)
	v, err, shared := c.sf.Do(key, func() (interface{}, error) {
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		c.Store(scope, message, v)
		return v, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, shared, nil
}

func (c *Cache) Delete(scope, message string) {
	key := Key(scope, message)
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache) evictLocked() {
	if c.opts.MaxEntries <= 0 {
		return
	}
	for len(c.items) > c.opts.MaxEntries {
		el := c.order.Front()
		if el == nil {
			return
		}
		e := el.Value.(*entry)
		c.order.Remove(el)
		delete(c.items, e.key)
		if c.hooks.OnEvict != nil {
			c.hooks.OnEvict()
		}
	}
}
