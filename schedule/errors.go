/*
errors.go - Error taxonomy for the order-window engine

PURPOSE:
  All error types for the engine and its collaborators in one place.
  "Restaurant is closed" is NOT represented here: that is a modeled
  outcome (OpenStatus.IsOpen == false), never an error. Only malformed
  input and infrastructure failures are errors.

ERROR CATEGORIES:
  1. Configuration errors - Malformed or out-of-range rules (rejected at
     write time, never persisted)
  2. Storage errors - Transient backing-store failures (degraded to the
     last-known-good cached value by the store layer)
  3. Authorization errors - Bad admin credentials on write
  4. Pickup rejections - Requested pickup time fails validation (surfaced
     with a specific reason code, not a generic failure)

USAGE:
  if errors.Is(err, schedule.ErrPickupRejected) {
      var rej *schedule.PickupRejectedError
      errors.As(err, &rej)
      // rej.Reason, rej.Message
  }
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrRulesNotFound is returned by a Configuration Store whose backing
	// storage holds no BusinessRules yet.
	ErrRulesNotFound = errors.New("business rules not found")

	// ErrStorageUnavailable is returned when the backing store cannot be
	// reached and no cached value exists to fall back on.
	ErrStorageUnavailable = errors.New("configuration store unavailable")

	// ErrUnauthorized is returned when the caller's identity does not
	// match the configured administrator credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPickupRejected is wrapped by every PickupRejectedError.
	ErrPickupRejected = errors.New("pickup request rejected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigError reports a malformed or out-of-range BusinessRules field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// PickupRejectedError reports why a requested pickup time was refused.
// The message always embeds the standard business-hours text so a
// customer can self-serve the answer to "when can I order".
type PickupRejectedError struct {
	Reason  ReasonCode
	Message string
}

func (e *PickupRejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *PickupRejectedError) Unwrap() error {
	return ErrPickupRejected
}

// IsClientError reports whether the error is due to invalid client input
// rather than an infrastructure failure.
func IsClientError(err error) bool {
	var cfg *ConfigError
	return errors.As(err, &cfg) || errors.Is(err, ErrPickupRejected)
}
