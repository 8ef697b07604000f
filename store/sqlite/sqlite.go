/*
Package sqlite provides a SQLite-backed implementation of the rules
Configuration Store.

PURPOSE:
  Durable persistence for the single BusinessRules aggregate. The value
  is replaced wholesale on every write (no partial-field patching); the
  store's job is to persist a value and hand it back unchanged.

SCHEMA:
  business_rules: a single-row table (id fixed to 1) holding the rules
  JSON plus denormalized audit columns for ad-hoc inspection with the
  sqlite3 CLI.

WAL MODE:
  Opened with WAL (Write-Ahead Logging): readers don't block, one writer
  at a time, better crash recovery. Enough for a single-operator
  configuration store with last-writer-wins semantics.

USAGE:
  store, err := sqlite.New("./data/storefront.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - rulestore/store.go: the Store contract
  - store/redis: key-value alternative backend
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bistro/storefront/schedule"
)

// Store implements rulestore.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at path. Use ":memory:" for an
// in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS business_rules (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		updated_by TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Read returns the persisted rules, or schedule.ErrRulesNotFound when
// nothing has been written yet.
func (s *Store) Read(ctx context.Context) (*schedule.BusinessRules, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM business_rules WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
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

// Write replaces the stored rules wholesale.
func (s *Store) Write(ctx context.Context, rules *schedule.BusinessRules) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encode business rules: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO business_rules (id, payload, last_updated, updated_by)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			last_updated = excluded.last_updated,
			updated_by = excluded.updated_by`,
		string(payload), rules.LastUpdated.UTC().Format("2006-01-02T15:04:05Z"), rules.UpdatedBy)
	if err != nil {
		return fmt.Errorf("write business rules: %w", err)
	}
	return nil
}
