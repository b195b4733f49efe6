// Package memo caches derived views keyed by snapshot content and settings.
package memo

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/birdie/internal/domain/tournament"
)

// Key identifies a derivation: a snapshot fingerprint plus the settings it
// was derived under.
type Key struct {
	Fingerprint uint64
	Settings    tournament.Settings
}

// Cache stores derived views.
type Cache interface {
	// Get returns the cached view for k.
	Get(ctx context.Context, k Key) (tournament.View, bool)
	// Put stores v under k, evicting the oldest entry when full.
	Put(ctx context.Context, k Key, v tournament.View)
	// Purge drops every entry.
	Purge(ctx context.Context)
	Size() int64
}

// node is one entry in insertion order, newest at head.
type node struct {
	key  Key
	view tournament.View
	next *node
}

func (n *node) reset() {
	*n = node{}
}

type inMemoryCache struct {
	mu       sync.RWMutex
	entries  map[Key]*node
	head     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// New returns an in-memory cache holding up to 64 views by default.
func New(opts ...Option) Cache {
	c := &inMemoryCache{maxSize: 64}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[Key]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

func (c *inMemoryCache) Get(ctx context.Context, k Key) (tournament.View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.entries[k]
	if !ok {
		return tournament.View{}, false
	}
	return n.view, true
}

func (c *inMemoryCache) Put(ctx context.Context, k Key, v tournament.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[k]; ok {
		n.view = v
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = k
	n.view = v
	n.next = c.head
	c.head = n
	c.entries[k] = n
	c.size.Add(1)
}

func (c *inMemoryCache) Purge(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for n := c.head; n != nil; {
		next := n.next
		n.reset()
		c.nodePool.Put(n)
		n = next
	}
	c.head = nil
	c.entries = make(map[Key]*node)
	c.size.Store(0)
}

// evictOldest removes the tail of the list. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	if c.head == nil {
		return
	}
	var prev *node
	cur := c.head
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}
	if prev == nil {
		c.head = nil
	} else {
		prev.next = nil
	}
	delete(c.entries, cur.key)
	cur.reset()
	c.nodePool.Put(cur)
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
