package rulestore

import (
	"context"
	"sync"

	"github.com/bistro/storefront/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	rules *schedule.BusinessRules
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Read(_ context.Context) (*schedule.BusinessRules, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rules == nil {
		return nil, schedule.ErrRulesNotFound
	}
	return m.rules.Clone(), nil
}

func (m *Memory) Write(_ context.Context, rules *schedule.BusinessRules) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = rules.Clone()
	return nil
}
