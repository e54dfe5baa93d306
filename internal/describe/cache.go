package describe

import (
	"sync"

	"github.com/google/uuid"
)

// Cache holds description texts for one browsing session, keyed by site id.
// Entries are append-only and never expired within the session. Safe for
// concurrent use.
type Cache struct {
	mu       sync.Mutex
	texts    map[string]string
	inflight map[string]chan struct{}
}

// NewCache returns an empty session cache.
func NewCache() *Cache {
	return &Cache{
		texts:    make(map[string]string),
		inflight: make(map[string]chan struct{}),
	}
}

// Get returns the cached text for a site id.
func (c *Cache) Get(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.texts[id]
	return text, ok
}

// Put stores text for a site id. Concurrent writers for the same id race
// last-write-wins, which is harmless: the same inputs map to the same text.
func (c *Cache) Put(id, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts[id] = text
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.texts)
}

// begin registers an in-flight fetch for id. When this caller is the leader,
// done is nil and finish must be called once the fetch completes. Otherwise
// done is the channel of the current leader's fetch.
func (c *Cache) begin(id string) (done <-chan struct{}, leader bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.inflight[id]; ok {
		return ch, false
	}
	c.inflight[id] = make(chan struct{})
	return nil, true
}

// finish releases the in-flight marker for id and wakes any waiters.
func (c *Cache) finish(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.inflight[id]; ok {
		close(ch)
		delete(c.inflight, id)
	}
}

// Registry hands out browsing sessions, each with its own description cache.
// Sessions live until dropped; there is no process-wide shared cache.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Cache
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Cache)}
}

// NewSession creates a session and returns its id.
func (r *Registry) NewSession() string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = NewCache()
	return id
}

// Cache returns the cache for a session id, creating the session on first
// use so clients that mint their own ids still get a stable cache.
func (r *Registry) Cache(id string) *Cache {
	r.mu.Lock()
	defer r.mu.Unlock()
	cache, ok := r.sessions[id]
	if !ok {
		cache = NewCache()
		r.sessions[id] = cache
	}
	return cache
}

// Drop discards a session and its cache.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
