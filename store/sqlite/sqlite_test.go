package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistro/storefront/schedule"
	"github.com/bistro/storefront/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_EmptyReadIsNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, schedule.ErrRulesNotFound)
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rules := schedule.DefaultRules()
	rules.AddSpecialClosing("2025-08-15", "Assumption Day")
	rules.PreorderMinutes = 45
	rules.UpdatedBy = "chef"
	rules.LastUpdated = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.Write(ctx, rules))
	back, err := store.Read(ctx)
	require.NoError(t, err)

	assert.Equal(t, rules.SpecialClosings, back.SpecialClosings)
	assert.Equal(t, rules.ClosedWeekdays, back.ClosedWeekdays)
	assert.Equal(t, 45, back.PreorderMinutes)
	assert.Equal(t, "chef", back.UpdatedBy)
	assert.True(t, rules.Weekday.Dinner.Closing.Equal(back.Weekday.Dinner.Closing))
}

func TestStore_WriteReplacesWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := schedule.DefaultRules()
	first.AddSpecialClosing("2025-08-15", "")
	require.NoError(t, store.Write(ctx, first))

	second := schedule.DefaultRules()
	second.ForceClose = true
	require.NoError(t, store.Write(ctx, second))

	back, err := store.Read(ctx)
	require.NoError(t, err)
	assert.True(t, back.ForceClose)
	assert.Empty(t, back.SpecialClosings, "old closings must not survive a full replace")
}
