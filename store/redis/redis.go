/*
Package redis provides a key-value implementation of the rules
Configuration Store.

PURPOSE:
  Alternative backend for deployments that already run Redis. The whole
  BusinessRules aggregate lives under a single key as JSON; writes
  replace the value wholesale, matching the file-backed semantics.

SEE ALSO:
  - rulestore/store.go: the Store contract
  - store/sqlite: durable file-backed backend
*/
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bistro/storefront/schedule"
)

const rulesKey = "storefront:business_rules"

// Store implements rulestore.Store on a Redis key.
type Store struct {
	client *redis.Client
}

// New wraps an existing client; the caller owns its lifecycle.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Read returns the stored rules, or schedule.ErrRulesNotFound when the
// key does not exist.
func (s *Store) Read(ctx context.Context) (*schedule.BusinessRules, error) {
	payload, err := s.client.Get(ctx, rulesKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, schedule.ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read business rules: %w", err)
	}

	var rules schedule.BusinessRules
	if err := json.Unmarshal([]byte(payload), &rules); err != nil {
		return nil, fmt.Errorf("decode business rules: %w", err)
	}
	return &rules, nil
}

// Write replaces the stored rules. No expiry: configuration is not a
// cache entry.
func (s *Store) Write(ctx context.Context, rules *schedule.BusinessRules) error {
	payload, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encode business rules: %w", err)
	}
	if err := s.client.Set(ctx, rulesKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("write business rules: %w", err)
	}
	return nil
}
