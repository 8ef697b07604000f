package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bistro/storefront/api"
	"github.com/bistro/storefront/checkout"
	"github.com/bistro/storefront/rulestore"
	"github.com/bistro/storefront/schedule"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type stubGateway struct{}

func (stubGateway) CreateSession(_ context.Context, order checkout.Order) (string, error) {
	return "https://pay.example/session/" + order.ID, nil
}

type stubNotifier struct{}

func (stubNotifier) OrderPaid(context.Context, checkout.Order) error { return nil }

type testEnv struct {
	router http.Handler
	store  *rulestore.Cached
}

// newTestEnv wires a full router over an in-memory store, with the
// clock pinned to a Wednesday lunchtime in the restaurant's zone.
func newTestEnv(t *testing.T, seed *schedule.BusinessRules) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)
	clock := func() time.Time {
		return time.Date(2025, time.June, 4, 12, 30, 0, 0, schedule.Zone())
	}

	store := rulestore.NewCached(rulestore.NewMemory(), logger)
	if seed != nil {
		require.NoError(t, store.Write(context.Background(), seed))
	}

	hash, err := api.HashPassword("secret")
	require.NoError(t, err)

	co := checkout.NewService(store, stubGateway{}, stubNotifier{}, schedule.Validator{}, logger).
		WithClock(clock)
	h := api.NewHandler(store, api.AdminCredential{Username: "admin", PasswordHash: hash},
		co, schedule.Validator{}, logger).WithClock(clock)

	return &testEnv{
		router: api.NewRouter(h, api.RouterOptions{}),
		store:  store,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func asAdmin(password string) func(*http.Request) {
	return func(r *http.Request) { r.SetBasicAuth("admin", password) }
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// =============================================================================
// PUBLIC READS
// =============================================================================

func TestGetRules_DefaultsWhenStoreEmpty(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/rules", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[api.RulesResponse](t, rec)
	assert.False(t, resp.Rules.ForceClose)
	assert.Equal(t, 30, resp.Rules.PreorderMinutes)
	assert.False(t, resp.Stale)
}

func TestGetStatus_OpenAtLunch(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	rec := env.do(t, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[api.StatusResponse](t, rec)
	assert.True(t, resp.IsOpen)
	assert.NotEmpty(t, resp.Message)
}

func TestGetStatus_ForceClosed(t *testing.T) {
	rules := schedule.DefaultRules()
	rules.ForceClose = true
	env := newTestEnv(t, rules)

	resp := decode[api.StatusResponse](t, env.do(t, http.MethodGet, "/api/status", nil))
	assert.False(t, resp.IsOpen)
	assert.Equal(t, schedule.ReasonManualOverride, resp.Reason)
}

func TestGetSlots_ForExplicitDate(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	rec := env.do(t, http.MethodGet, "/api/slots?date=2025-06-06", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Date  string   `json:"date"`
		Slots []string `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-06-06", resp.Date)
	assert.Contains(t, resp.Slots, "12:00")
	assert.Contains(t, resp.Slots, "22:00")
}

func TestGetSlots_ClosedDayYieldsEmptyList(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	// 2025-06-09 is a Monday.
	rec := env.do(t, http.MethodGet, "/api/slots?date=2025-06-09", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestGetSlots_BadDate(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	rec := env.do(t, http.MethodGet, "/api/slots?date=June+6th", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// PICKUP VALIDATION
// =============================================================================

func TestValidatePickup_Accepted(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	rec := env.do(t, http.MethodPost, "/api/orders/validate", api.ValidatePickupRequest{Pickup: "ASAP"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[api.ValidatePickupResponse](t, rec)
	assert.True(t, resp.Accepted)
	require.NotNil(t, resp.PickupAt)
}

func TestValidatePickup_RejectedIsStillHTTP200(t *testing.T) {
	rules := schedule.DefaultRules()
	rules.ForceClose = true
	env := newTestEnv(t, rules)

	rec := env.do(t, http.MethodPost, "/api/orders/validate", api.ValidatePickupRequest{Pickup: "ASAP"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[api.ValidatePickupResponse](t, rec)
	assert.False(t, resp.Accepted)
	assert.Equal(t, schedule.ReasonManualOverride, resp.Reason)
	assert.Contains(t, resp.Message, "Usual hours")
}

func TestValidatePickup_MalformedIs400(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	rec := env.do(t, http.MethodPost, "/api/orders/validate", api.ValidatePickupRequest{Pickup: "noonish"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// CHECKOUT
// =============================================================================

func TestCheckoutSession_CreatesAndCallsBack(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	rec := env.do(t, http.MethodPost, "/api/checkout/session", api.CheckoutRequest{
		Email:      "client@example.com",
		Items:      []checkout.Item{{Name: "Cassoulet", Quantity: 2, PriceCents: 1900}},
		TotalCents: 3800,
		Pickup:     "45min",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	session := decode[checkout.Session](t, rec)
	assert.NotEmpty(t, session.RedirectURL)

	cb := env.do(t, http.MethodPost, "/api/checkout/callback", api.PaymentCallbackRequest{
		OrderID: session.OrderID,
		Paid:    true,
	})
	assert.Equal(t, http.StatusNoContent, cb.Code)
}

func TestCheckoutSession_StaleCartRejected(t *testing.T) {
	// The pinned clock is 12:30; an explicit pickup past closing + grace
	// must be refused even though the cart was assembled legally.
	env := newTestEnv(t, schedule.DefaultRules())

	rec := env.do(t, http.MethodPost, "/api/checkout/session", api.CheckoutRequest{
		Email:      "client@example.com",
		TotalCents: 2400,
		Pickup:     "2025-06-04 23:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[api.ValidatePickupResponse](t, rec)
	assert.False(t, resp.Accepted)
	assert.Equal(t, schedule.ReasonPastClosing, resp.Reason)
}

func TestPaymentCallback_UnknownOrder(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	rec := env.do(t, http.MethodPost, "/api/checkout/callback", api.PaymentCallbackRequest{
		OrderID: "no-such-order",
		Paid:    true,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// ADMIN MUTATION
// =============================================================================

func TestUpdateRules_RequiresCredentials(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	rec := env.do(t, http.MethodPut, "/api/admin/rules", schedule.DefaultRules())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/admin/rules", schedule.DefaultRules(), asAdmin("wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateRules_PersistsAndStampsAudit(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	update := schedule.DefaultRules()
	update.ForceClose = true
	update.AddSpecialClosing("2025-12-24", "Christmas Eve")

	rec := env.do(t, http.MethodPut, "/api/admin/rules", update, asAdmin("secret"))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[api.RulesResponse](t, rec)
	assert.True(t, resp.Rules.ForceClose)
	assert.Equal(t, "admin", resp.Rules.UpdatedBy)
	assert.False(t, resp.Rules.LastUpdated.IsZero())

	// The write is visible through the public read immediately.
	pub := decode[api.RulesResponse](t, env.do(t, http.MethodGet, "/api/rules", nil))
	assert.True(t, pub.Rules.ForceClose)
	assert.Len(t, pub.Rules.SpecialClosings, 1)
}

func TestUpdateRules_RejectsOutOfRangeBuffers(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	update := schedule.DefaultRules()
	update.LastOrderMinutes = 600

	rec := env.do(t, http.MethodPut, "/api/admin/rules", update, asAdmin("secret"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was persisted.
	pub := decode[api.RulesResponse](t, env.do(t, http.MethodGet, "/api/rules", nil))
	assert.Equal(t, 30, pub.Rules.LastOrderMinutes)
}

func TestUpdateRules_RejectsOvernightWindow(t *testing.T) {
	env := newTestEnv(t, schedule.DefaultRules())

	update := schedule.DefaultRules()
	update.Weekday.Dinner = schedule.NewTimeRange(19, 2)

	rec := env.do(t, http.MethodPut, "/api/admin/rules", update, asAdmin("secret"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
