/*
validate.go - Checkout-time pickup validation

PURPOSE:
  The UI's slot list is advisory; this is the authoritative server-side
  check run at payment-session creation, so a stale client (cart left
  open past closing) cannot purchase outside the legal window.

PICKUP FORMS:
  "ASAP"              now + a fixed assumed lead time
  "<N>min"            now + N minutes (e.g. "45min")
  explicit date+time  "2006-01-02 15:04" or RFC 3339, restaurant zone

POLICY:
  Reject when the resolved timestamp's date fails the day-level checks
  (force-close, special closing, weekly closed day). Reject when it falls
  past the closing of the last reachable service window for that day by
  more than a bounded grace period. A pickup may therefore extend a
  little beyond closing, but not arbitrarily far.
*/
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// asapLeadMinutes is the assumed kitchen lead time when a customer asks
// for pickup "ASAP".
const asapLeadMinutes = 20

// DefaultGraceMinutes bounds how far past a window's closing a pickup
// request is still honored. The exact figure is a business knob, not a
// law of nature; keep it configurable.
const DefaultGraceMinutes = 30

// Validator applies the order-window policy at checkout time.
// The zero value uses DefaultGraceMinutes.
type Validator struct {
	GraceMinutes int
}

func (v Validator) grace() int {
	if v.GraceMinutes <= 0 {
		return DefaultGraceMinutes
	}
	return v.GraceMinutes
}

// ResolvePickup turns a requested pickup expression into an absolute
// instant on the restaurant's wall clock. Malformed expressions are an
// error (unlike a closed restaurant, which is a rejection).
func ResolvePickup(requested string, now time.Time) (time.Time, error) {
	req := strings.TrimSpace(requested)
	if req == "" {
		return time.Time{}, &ConfigError{Field: "pickup", Message: "must not be empty"}
	}
	if strings.EqualFold(req, "ASAP") {
		return LocalTime(now).Add(asapLeadMinutes * time.Minute), nil
	}
	if rest, ok := strings.CutSuffix(req, "min"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || n < 0 {
			return time.Time{}, &ConfigError{Field: "pickup", Message: fmt.Sprintf("%q is not a relative pickup time", requested)}
		}
		return LocalTime(now).Add(time.Duration(n) * time.Minute), nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, req, restaurantZone); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, req); err == nil {
		return LocalTime(t), nil
	}
	return time.Time{}, &ConfigError{Field: "pickup", Message: fmt.Sprintf("%q is not a pickup time", requested)}
}

// Validate accepts or rejects a requested pickup. A nil return means the
// pickup is legal; a *PickupRejectedError carries the reason code and a
// customer-facing message. Malformed input yields a *ConfigError.
func (v Validator) Validate(br *BusinessRules, requested string, now time.Time) (time.Time, error) {
	pickup, err := ResolvePickup(requested, now)
	if err != nil {
		return time.Time{}, err
	}

	if st, closed := dayClosure(br, pickup); closed {
		return time.Time{}, &PickupRejectedError{Reason: st.Reason, Message: st.Message}
	}

	pickupMin := minutesOfDay(pickup)
	ranges := br.windowsFor(LocalTime(pickup).Weekday())
	windows := effectiveWindows(br, LocalTime(pickup).Weekday())

	// Accept when any window's grace-extended closing still covers the
	// pickup. Buffers already shift the orderable interval; the grace
	// period extends past the raw closing, so the limit is
	// closing + grace, not effectiveClose + grace.
	for i, r := range ranges {
		if windows[i].neverOpen() {
			continue
		}
		if pickupMin <= r.ClosingMinutes()+v.grace() {
			return pickup, nil
		}
	}

	return time.Time{}, &PickupRejectedError{
		Reason: ReasonPastClosing,
		Message: fmt.Sprintf("Pickup at %s is past last orders. %s",
			formatMinutes(pickupMin), HoursText(br)),
	}
}
