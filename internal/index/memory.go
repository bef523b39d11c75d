package index

import (
	"strings"
	"sync"
	"time"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/store"
)

// Collection is one user's loaded playlist state: the normalized
// playlists, the source tag they were loaded from (required for
// write-location affinity), and the currently active playlist.
type Collection struct {
	Username  string
	Source    store.Tag
	Playlists []domain.Playlist
	ActiveID  string
	LoadedAt  time.Time
}

// CollectionCache keeps loaded collections in memory between
// requests. It is what "remembers the location for write-back": a
// collection resolved once keeps its source tag until evicted.
//
// Collection identity is case-insensitive, matching registration:
// "Alice" and "ALICE" share one entry.
type CollectionCache struct {
	mu         sync.RWMutex
	entries    map[string]*Collection // folded username -> collection
	lastAccess map[string]time.Time
}

func cacheKey(username string) string { return strings.ToLower(username) }

// NewCollectionCache creates an empty cache.
func NewCollectionCache() *CollectionCache {
	return &CollectionCache{
		entries:    make(map[string]*Collection),
		lastAccess: make(map[string]time.Time),
	}
}

// Get retrieves a user's cached collection and marks it used.
func (c *CollectionCache) Get(username string) (*Collection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(username)
	col, ok := c.entries[key]
	if ok {
		c.lastAccess[key] = time.Now()
	}
	return col, ok
}

// Put stores or replaces a user's collection.
func (c *CollectionCache) Put(col *Collection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(col.Username)
	c.entries[key] = col
	c.lastAccess[key] = time.Now()
}

// Delete drops a user's collection from the cache.
func (c *CollectionCache) Delete(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, cacheKey(username))
	delete(c.lastAccess, cacheKey(username))
}

// Count returns the number of cached collections.
func (c *CollectionCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Usernames returns the users currently cached.
func (c *CollectionCache) Usernames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	return names
}

// EvictIdle drops collections not accessed within ttl and returns how
// many were removed. The next request for an evicted user re-resolves
// from storage, which also re-establishes the source tag.
func (c *CollectionCache) EvictIdle(ttl time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	evicted := 0
	for name, last := range c.lastAccess {
		if now.Sub(last) > ttl {
			delete(c.entries, name)
			delete(c.lastAccess, name)
			evicted++
		}
	}
	return evicted
}
