/*
handlers.go - HTTP API handlers for the order-window service

PURPOSE:
  Exposes the order-window engine via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Public:
    GET  /api/rules              Current business rules (defaults if unset)
    GET  /api/status             Open/closed evaluation at server time
    GET  /api/slots?date=...     Legal pickup slots for a date
    POST /api/orders/validate    Validate a requested pickup time

  Checkout:
    POST /api/checkout/session   Validate pickup + open a payment session
    POST /api/checkout/callback  Normalized gateway paid/unpaid callback

  Admin (HTTP Basic, bcrypt-verified, rate limited):
    PUT  /api/admin/rules        Replace the business rules wholesale

ERROR HANDLING:
  - 400: malformed input, out-of-range configuration
  - 401: bad admin credentials
  - 404: unknown order on callback
  - 503: configuration store unreachable with no cached fallback
  "Restaurant is closed" and "pickup rejected" are 200 responses with a
  modeled verdict, not errors.

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/bistro/storefront/checkout"
	"github.com/bistro/storefront/metrics"
	"github.com/bistro/storefront/rulestore"
	"github.com/bistro/storefront/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Rules     *rulestore.Cached
	Admin     AdminCredential
	Checkout  *checkout.Service
	Validator schedule.Validator
	Logger    zerolog.Logger

	// now is the wall clock, injectable for tests.
	now func() time.Time
}

// NewHandler creates a handler with the given dependencies.
func NewHandler(rules *rulestore.Cached, admin AdminCredential, co *checkout.Service, v schedule.Validator, logger zerolog.Logger) *Handler {
	return &Handler{
		Rules:     rules,
		Admin:     admin,
		Checkout:  co,
		Validator: v,
		Logger:    logger,
		now:       time.Now,
	}
}

// WithClock injects the wall clock (tests).
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// currentRules reads the rules, substituting the hard-coded defaults for
// an empty store. Public readers always get a usable aggregate.
func (h *Handler) currentRules(r *http.Request) (rulestore.Snapshot, error) {
	snap, err := h.Rules.Current(r.Context())
	if errors.Is(err, schedule.ErrRulesNotFound) {
		return rulestore.Snapshot{Rules: schedule.DefaultRules()}, nil
	}
	if err != nil {
		return rulestore.Snapshot{}, err
	}
	if snap.Stale {
		metrics.IncStoreFallback()
	}
	return snap, nil
}

// =============================================================================
// PUBLIC READ ENDPOINTS
// =============================================================================

// GetRules returns the current BusinessRules. Intentionally public:
// opening hours are not a secret.
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	snap, err := h.currentRules(r)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, RulesResponse{Rules: snap.Rules, Stale: snap.Stale})
}

// GetStatus evaluates eligibility at the server wall clock.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := h.currentRules(r)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	now := h.now()
	st := schedule.Evaluate(snap.Rules, now)
	metrics.IncEligibilityCheck(st.IsOpen)
	h.writeJSON(w, http.StatusOK, StatusResponse{OpenStatus: st, Now: schedule.LocalTime(now), Stale: snap.Stale})
}

// GetSlots lists legal pickup times for ?date=YYYY-MM-DD (default today).
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	snap, err := h.currentRules(r)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	now := h.now()
	date := schedule.LocalTime(now)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, schedule.Zone())
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	slots := schedule.GenerateSlots(snap.Rules, date, now, schedule.SlotOptions{})
	metrics.IncSlotRequest()
	if slots == nil {
		slots = []schedule.TimeOfDay{}
	}
	h.writeJSON(w, http.StatusOK, SlotsResponse{Date: date.Format("2006-01-02"), Slots: slots})
}

// ValidatePickup runs the order-window check without creating anything.
func (h *Handler) ValidatePickup(w http.ResponseWriter, r *http.Request) {
	var req ValidatePickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	snap, err := h.currentRules(r)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	pickup, err := h.Validator.Validate(snap.Rules, req.Pickup, h.now())
	var rejected *schedule.PickupRejectedError
	switch {
	case err == nil:
		metrics.IncPickupValidation(true)
		h.writeJSON(w, http.StatusOK, ValidatePickupResponse{Accepted: true, PickupAt: &pickup})
	case errors.As(err, &rejected):
		metrics.IncPickupValidation(false)
		h.writeJSON(w, http.StatusOK, ValidatePickupResponse{
			Accepted: false,
			Reason:   rejected.Reason,
			Message:  rejected.Message,
		})
	default:
		h.writeError(w, http.StatusBadRequest, "invalid_pickup", err.Error())
	}
}

// =============================================================================
// CHECKOUT ENDPOINTS
// =============================================================================

// CreateCheckoutSession validates the pickup and opens a payment session.
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	session, err := h.Checkout.CreateSession(r.Context(), checkout.SessionRequest{
		Email:      req.Email,
		Items:      req.Items,
		TotalCents: req.TotalCents,
		Pickup:     req.Pickup,
	})

	var rejected *schedule.PickupRejectedError
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusCreated, session)
	case errors.As(err, &rejected):
		metrics.IncPickupValidation(false)
		h.writeJSON(w, http.StatusOK, ValidatePickupResponse{
			Accepted: false,
			Reason:   rejected.Reason,
			Message:  rejected.Message,
		})
	case schedule.IsClientError(err):
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, schedule.ErrStorageUnavailable):
		h.writeStoreError(w, err)
	default:
		h.Logger.Error().Err(err).Msg("checkout session failed")
		h.writeError(w, http.StatusBadGateway, "payment_gateway", "could not open a payment session")
	}
}

// PaymentCallback records the gateway's paid/unpaid verdict.
func (h *Handler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req PaymentCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	err := h.Checkout.HandlePaymentResult(r.Context(), req.OrderID, req.Paid)
	if errors.Is(err, checkout.ErrOrderNotFound) {
		h.writeError(w, http.StatusNotFound, "unknown_order", "no pending order with that id")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

// UpdateRules replaces the business rules wholesale. The caller merges
// into a full aggregate before writing; the store never patches fields.
func (h *Handler) UpdateRules(w http.ResponseWriter, r *http.Request) {
	username, password, ok := r.BasicAuth()
	if !ok || !h.Admin.Verify(username, password) {
		w.Header().Set("WWW-Authenticate", `Basic realm="storefront admin"`)
		h.writeError(w, http.StatusUnauthorized, "unauthorized", schedule.ErrUnauthorized.Error())
		return
	}

	var rules schedule.BusinessRules
	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	if err := rules.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_rules", err.Error())
		return
	}

	rules.LastUpdated = h.now().UTC()
	rules.UpdatedBy = username

	if err := h.Rules.Write(r.Context(), &rules); err != nil {
		h.Logger.Error().Err(err).Msg("rules write failed")
		h.writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "configuration could not be persisted")
		return
	}

	metrics.IncRulesUpdate()
	h.Logger.Info().Str("updated_by", username).Msg("business rules updated")
	h.writeJSON(w, http.StatusOK, RulesResponse{Rules: &rules})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error().Err(err).Msg("response encoding failed")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeStoreError maps store failures: only a total outage (no cached
// fallback available) surfaces as 503.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	h.Logger.Error().Err(err).Msg("rules store unavailable")
	h.writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "configuration store unreachable")
}
