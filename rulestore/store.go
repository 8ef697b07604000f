/*
Package rulestore defines the Configuration Store contract and its
read-through cache.

PURPOSE:
  BusinessRules lives in exactly one place (a file-backed or key-value
  backend) and is read far more often than it is written. The Store
  interface keeps persistence dumb: persist a value, hand it back
  unchanged. Cached wraps any Store with a short TTL so the "can I
  order" decision tolerates a flaky backend.

IMPLEMENTATIONS:
  rulestore.Memory      In-memory (tests, dev)
  store/sqlite.Store    SQLite-backed single row
  store/redis.Store     Redis-backed single key

CONCURRENCY:
  Writes are serialized per backend; the system accepts last-writer-wins
  on configuration (administrative edits are infrequent and
  single-operator), so no cross-process lock is needed.

SEE ALSO:
  - cached.go: TTL cache with stale fallback
  - schedule/types.go: the BusinessRules aggregate
*/
package rulestore

import (
	"context"

	"github.com/bistro/storefront/schedule"
)

// Store persists the BusinessRules aggregate. Read returns
// schedule.ErrRulesNotFound when nothing has been persisted yet; Write
// replaces the stored value wholesale (no partial-field patching — the
// caller merges into a full object before writing).
type Store interface {
	Read(ctx context.Context) (*schedule.BusinessRules, error)
	Write(ctx context.Context, rules *schedule.BusinessRules) error
}
