/*
cached.go - TTL read-through cache over any rules Store

PURPOSE:
  Serves BusinessRules reads from an in-process cache (TTL ~60s) so the
  eligibility decision never waits on the backend in the hot path, and
  degrades to the last-known-good value (flagged stale) when the backend
  is down. Availability of the open/closed decision is prioritized over
  strict freshness.

WRITE PATH:
  Write-through. The writer updates its own cache immediately on a
  successful write, so it never reads back a stale value inside the TTL
  window.

READ PATH:
  1. Fresh cache entry     -> return it
  2. Backend read (short timeout) -> cache and return
  3. Backend failed, cache present -> return cached copy, Stale=true,
     warn via zerolog
  4. Backend failed, no cache      -> ErrStorageUnavailable
     (ErrRulesNotFound passes through untouched: an empty store is not
     an outage)
*/
package rulestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bistro/storefront/schedule"
)

// Cache defaults; overridable per instance.
const (
	DefaultTTL         = 60 * time.Second
	DefaultReadTimeout = 2 * time.Second
)

// Snapshot is a cached read result. Stale marks a value served from
// cache because the backend could not be reached.
type Snapshot struct {
	Rules *schedule.BusinessRules
	Stale bool
}

// Cached wraps a Store with a single-value TTL cache.
type Cached struct {
	inner       Store
	ttl         time.Duration
	readTimeout time.Duration
	logger      zerolog.Logger
	now         func() time.Time

	mu        sync.Mutex
	cached    *schedule.BusinessRules
	fetchedAt time.Time
}

// CachedOption tunes a Cached store.
type CachedOption func(*Cached)

func WithTTL(ttl time.Duration) CachedOption {
	return func(c *Cached) { c.ttl = ttl }
}

func WithReadTimeout(d time.Duration) CachedOption {
	return func(c *Cached) { c.readTimeout = d }
}

// WithClock injects the wall clock (tests).
func WithClock(now func() time.Time) CachedOption {
	return func(c *Cached) { c.now = now }
}

// NewCached wraps a backend store with the TTL cache.
func NewCached(inner Store, logger zerolog.Logger, opts ...CachedOption) *Cached {
	c := &Cached{
		inner:       inner,
		ttl:         DefaultTTL,
		readTimeout: DefaultReadTimeout,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the rules plus staleness; the preferred read entry
// point for handlers that want to surface degraded freshness.
func (c *Cached) Current(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return Snapshot{Rules: c.cached.Clone()}, nil
	}

	readCtx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	rules, err := c.inner.Read(readCtx)
	if err == nil {
		c.cached = rules.Clone()
		c.fetchedAt = c.now()
		return Snapshot{Rules: rules}, nil
	}

	if errors.Is(err, schedule.ErrRulesNotFound) {
		return Snapshot{}, err
	}

	if c.cached != nil {
		c.logger.Warn().Err(err).
			Time("fetched_at", c.fetchedAt).
			Msg("rules store read failed, serving last-known-good value")
		return Snapshot{Rules: c.cached.Clone(), Stale: true}, nil
	}

	return Snapshot{}, fmt.Errorf("%w: %v", schedule.ErrStorageUnavailable, err)
}

// Read implements Store, discarding the staleness flag.
func (c *Cached) Read(ctx context.Context) (*schedule.BusinessRules, error) {
	snap, err := c.Current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Rules, nil
}

// Write persists through to the backend and refreshes the local cache on
// success, so this process never reads back its own write as stale.
func (c *Cached) Write(ctx context.Context, rules *schedule.BusinessRules) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.inner.Write(ctx, rules); err != nil {
		return err
	}
	c.cached = rules.Clone()
	c.fetchedAt = c.now()
	return nil
}

// Invalidate drops the cache entry; the next read hits the backend.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.fetchedAt = time.Time{}
}
