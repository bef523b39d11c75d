package scheduler

import (
	"context"
	"time"

	"github.com/medleyhq/medley/internal/index"
	"github.com/medleyhq/medley/internal/logger"
)

const (
	// DefaultCacheTTL is how long an untouched collection stays cached.
	DefaultCacheTTL = time.Hour
)

// CacheEvictor periodically drops idle collections from the in-memory
// cache. An evicted user costs one storage resolve on their next
// request, so the TTL trades memory for re-resolution work. Eviction
// never loses data: every mutation was persisted synchronously.
type CacheEvictor struct {
	cache    *index.CollectionCache
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	stopCh   chan struct{}
}

// NewCacheEvictor creates the evictor.
func NewCacheEvictor(cache *index.CollectionCache, log logger.Logger, interval, ttl time.Duration) *CacheEvictor {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheEvictor{
		cache:    cache,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic eviction loop.
func (e *CacheEvictor) Start(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.Evict()
			case <-e.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the evictor.
func (e *CacheEvictor) Stop() {
	close(e.stopCh)
}

// Evict runs one eviction pass.
func (e *CacheEvictor) Evict() {
	evicted := e.cache.EvictIdle(e.ttl)
	if evicted > 0 {
		e.logger.Info("evicted idle collections",
			logger.Int("evicted", evicted),
			logger.Int("remaining", e.cache.Count()))
	} else {
		e.logger.Debug("no idle collections to evict")
	}
}
