/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. BusinessRules
  already carries JSON tags and is the public configuration contract, so
  it crosses the wire as-is; the wrappers here add transport-only fields
  (staleness, acceptance verdicts) without polluting the domain model.

NAMING CONVENTION:
  - *Response: response wrappers returned to clients
  - *Request: request body types from clients

SEE ALSO:
  - handlers.go: uses these types
  - schedule/types.go: the BusinessRules aggregate
*/
package api

import (
	"time"

	"github.com/bistro/storefront/checkout"
	"github.com/bistro/storefront/schedule"
)

// RulesResponse wraps the public rules with a freshness flag: true when
// the value was served from cache because the backing store was
// unreachable.
type RulesResponse struct {
	Rules *schedule.BusinessRules `json:"rules"`
	Stale bool                    `json:"stale,omitempty"`
}

// StatusResponse is the eligibility evaluation plus the instant it was
// computed at, so clients can recompute locally between polls.
type StatusResponse struct {
	schedule.OpenStatus
	Now   time.Time `json:"now"`
	Stale bool      `json:"stale,omitempty"`
}

// SlotsResponse lists the legal pickup times for a date.
type SlotsResponse struct {
	Date  string               `json:"date"`
	Slots []schedule.TimeOfDay `json:"slots"`
}

// ValidatePickupRequest asks whether a pickup expression is legal now.
type ValidatePickupRequest struct {
	Pickup string `json:"pickup"`
}

// ValidatePickupResponse reports the verdict. A rejection is a normal
// 200 response with Accepted=false, never an HTTP error.
type ValidatePickupResponse struct {
	Accepted bool                `json:"accepted"`
	PickupAt *time.Time          `json:"pickup_at,omitempty"`
	Reason   schedule.ReasonCode `json:"reason,omitempty"`
	Message  string              `json:"message,omitempty"`
}

// CheckoutRequest is a cart ready to pay.
type CheckoutRequest struct {
	Email      string          `json:"email"`
	Items      []checkout.Item `json:"items"`
	TotalCents int64           `json:"total_cents"`
	Pickup     string          `json:"pickup"`
}

// PaymentCallbackRequest is the normalized gateway callback.
type PaymentCallbackRequest struct {
	OrderID string `json:"order_id"`
	Paid    bool   `json:"paid"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
