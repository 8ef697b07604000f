/*
Package schedule is the order-window eligibility engine.

PURPOSE:
  Given the restaurant's configured business hours, pre-order/last-order
  buffers, force-close flag and special closing dates, decide whether an
  order may be placed now, which pickup slots are legal for a day, and
  produce a human-readable status message.

KEY CONCEPTS IN THIS FILE (types.go):
  - BusinessRules: The single configuration aggregate (hours, buffers,
    overrides, audit metadata)
  - TimeRange: A service window expressed in decimal hours [0, 24)
  - SpecialClosing: A one-off exceptional closure on a calendar date
  - ReasonCode: Why the restaurant is closed (or why a pickup was rejected)

DESIGN PRINCIPLES:
  1. Purity: Evaluate, GenerateSlots and ValidatePickup are pure functions
     of (rules, clock) — safe to call concurrently with no locking
  2. Precision: decimal hours are held as decimal.Decimal and converted to
     integer minutes before any stepping, so grid boundaries never fall
     victim to floating-point rounding
  3. Closed is not an error: "the restaurant is closed" is a modeled
     outcome, never a Go error

LIMITATION:
  Overnight service windows (closing numerically before opening, spanning
  midnight) are not supported. Validate rejects them at write time.

SEE ALSO:
  - evaluate.go: open/closed decision
  - slots.go: pickup slot enumeration
  - validate.go: checkout-time pickup validation
  - clock.go: restaurant-local wall clock helpers
*/
package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// REASON CODES
// =============================================================================

// ReasonCode explains a closed status or a rejected pickup request.
type ReasonCode string

const (
	ReasonManualOverride  ReasonCode = "MANUAL_OVERRIDE"
	ReasonSpecialClosing  ReasonCode = "SPECIAL_CLOSING"
	ReasonWeeklyClosedDay ReasonCode = "WEEKLY_CLOSED_DAY"
	ReasonBeforeService   ReasonCode = "BEFORE_SERVICE"
	ReasonBetweenServices ReasonCode = "BETWEEN_SERVICES"
	ReasonAfterService    ReasonCode = "AFTER_SERVICE"
	ReasonPastClosing     ReasonCode = "PAST_CLOSING"
)

// =============================================================================
// TIME RANGE - A service window in decimal hours
// =============================================================================

// TimeRange is a service window expressed in decimal hours since midnight,
// e.g. {12, 14.5} for 12:00-14:30. Invariant: Opening < Closing.
type TimeRange struct {
	Opening decimal.Decimal `json:"opening"`
	Closing decimal.Decimal `json:"closing"`
}

// NewTimeRange builds a TimeRange from decimal hours.
func NewTimeRange(opening, closing float64) TimeRange {
	return TimeRange{
		Opening: decimal.NewFromFloat(opening),
		Closing: decimal.NewFromFloat(closing),
	}
}

// OpeningMinutes returns the opening boundary as whole minutes since
// midnight, rounded to the nearest minute.
func (r TimeRange) OpeningMinutes() int {
	return int(r.Opening.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
}

// ClosingMinutes returns the closing boundary as whole minutes since
// midnight, rounded to the nearest minute.
func (r TimeRange) ClosingMinutes() int {
	return int(r.Closing.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
}

func (r TimeRange) String() string {
	return fmt.Sprintf("%s-%s", formatMinutes(r.OpeningMinutes()), formatMinutes(r.ClosingMinutes()))
}

func (r TimeRange) validate(field string) error {
	zero := decimal.Zero
	dayEnd := decimal.NewFromInt(24)
	if r.Opening.LessThan(zero) || r.Opening.GreaterThanOrEqual(dayEnd) {
		return &ConfigError{Field: field + ".opening", Message: "must be within [0, 24)"}
	}
	if r.Closing.LessThan(zero) || r.Closing.GreaterThanOrEqual(dayEnd) {
		return &ConfigError{Field: field + ".closing", Message: "must be within [0, 24)"}
	}
	if !r.Opening.LessThan(r.Closing) {
		return &ConfigError{Field: field, Message: "opening must precede closing (overnight windows are not supported)"}
	}
	return nil
}

// WeekdaySchedule holds the two independent weekday service windows.
type WeekdaySchedule struct {
	Lunch  TimeRange `json:"lunch"`
	Dinner TimeRange `json:"dinner"`
}

// =============================================================================
// SPECIAL CLOSING - One-off exceptional closure
// =============================================================================

// SpecialClosing is an exceptional closure on an otherwise-open day,
// keyed by ISO calendar date (no time component).
type SpecialClosing struct {
	Date   string `json:"date"` // "2006-01-02"
	Reason string `json:"reason,omitempty"`
}

// =============================================================================
// BUSINESS RULES - The configuration aggregate
// =============================================================================

// Buffer minutes outside this range are rejected at write time, not
// clamped, to avoid masking operator error.
const (
	MinBufferMinutes = 0
	MaxBufferMinutes = 120
)

// BusinessRules is the single configuration aggregate for the storefront.
// It is replaced wholesale on every authenticated write; the store's job
// is to persist a value and hand it back unchanged.
type BusinessRules struct {
	// ForceClose is the manual kill switch: true means closed regardless
	// of every other field.
	ForceClose bool `json:"force_close"`

	// SpecialClosings lists exceptional closures, keyed by ISO date.
	SpecialClosings []SpecialClosing `json:"special_closings,omitempty"`

	// Weekday applies to every service day except Sunday and the days in
	// ClosedWeekdays.
	Weekday WeekdaySchedule `json:"weekday_schedule"`

	// Sunday is the continuous single service window for Sunday.
	Sunday TimeRange `json:"sunday_schedule"`

	// ClosedWeekdays lists days with no service at all (0=Sunday..6=Saturday).
	ClosedWeekdays []time.Weekday `json:"closed_weekdays,omitempty"`

	// PreorderMinutes shifts each window's effective open time earlier.
	PreorderMinutes int `json:"preorder_minutes"`

	// LastOrderMinutes shifts each window's effective close time earlier.
	LastOrderMinutes int `json:"last_order_minutes"`

	// Audit metadata, stamped on every mutation.
	LastUpdated time.Time `json:"last_updated"`
	UpdatedBy   string    `json:"updated_by"`
}

// DefaultRules is the hard-coded aggregate persisted at first boot.
func DefaultRules() *BusinessRules {
	return &BusinessRules{
		Weekday: WeekdaySchedule{
			Lunch:  NewTimeRange(12, 14),
			Dinner: NewTimeRange(19, 22),
		},
		Sunday:           NewTimeRange(12, 21),
		ClosedWeekdays:   []time.Weekday{time.Monday},
		PreorderMinutes:  30,
		LastOrderMinutes: 30,
		UpdatedBy:        "system",
	}
}

// Validate checks numeric ranges and window shape. It is called by the
// mutation endpoint before anything is persisted.
func (br *BusinessRules) Validate() error {
	if br.PreorderMinutes < MinBufferMinutes || br.PreorderMinutes > MaxBufferMinutes {
		return &ConfigError{Field: "preorder_minutes", Message: fmt.Sprintf("must be within [%d, %d]", MinBufferMinutes, MaxBufferMinutes)}
	}
	if br.LastOrderMinutes < MinBufferMinutes || br.LastOrderMinutes > MaxBufferMinutes {
		return &ConfigError{Field: "last_order_minutes", Message: fmt.Sprintf("must be within [%d, %d]", MinBufferMinutes, MaxBufferMinutes)}
	}
	if err := br.Weekday.Lunch.validate("weekday_schedule.lunch"); err != nil {
		return err
	}
	if err := br.Weekday.Dinner.validate("weekday_schedule.dinner"); err != nil {
		return err
	}
	if err := br.Sunday.validate("sunday_schedule"); err != nil {
		return err
	}
	for _, wd := range br.ClosedWeekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return &ConfigError{Field: "closed_weekdays", Message: "day of week must be within [0, 6]"}
		}
	}
	for _, sc := range br.SpecialClosings {
		if _, err := time.Parse(isoDate, sc.Date); err != nil {
			return &ConfigError{Field: "special_closings", Message: fmt.Sprintf("%q is not an ISO calendar date", sc.Date)}
		}
	}
	return nil
}

// IsClosedWeekday reports whether the rules mark the day as having no
// service at all.
func (br *BusinessRules) IsClosedWeekday(day time.Weekday) bool {
	for _, wd := range br.ClosedWeekdays {
		if wd == day {
			return true
		}
	}
	return false
}

// SpecialClosingOn returns the special closing for an ISO date, if any.
func (br *BusinessRules) SpecialClosingOn(date string) (SpecialClosing, bool) {
	for _, sc := range br.SpecialClosings {
		if sc.Date == date {
			return sc, true
		}
	}
	return SpecialClosing{}, false
}

// AddSpecialClosing records an exceptional closure. Adding an
// already-present date is a no-op, not a duplicate.
func (br *BusinessRules) AddSpecialClosing(date, reason string) {
	if _, ok := br.SpecialClosingOn(date); ok {
		return
	}
	br.SpecialClosings = append(br.SpecialClosings, SpecialClosing{Date: date, Reason: reason})
}

// windowsFor returns the service windows applicable to a weekday, in day
// order. A closed weekday has none; Sunday has its single window;
// every other day has lunch and dinner.
func (br *BusinessRules) windowsFor(day time.Weekday) []TimeRange {
	if br.IsClosedWeekday(day) {
		return nil
	}
	if day == time.Sunday {
		return []TimeRange{br.Sunday}
	}
	return []TimeRange{br.Weekday.Lunch, br.Weekday.Dinner}
}

// Clone returns a deep copy, so cached values can be handed out without
// sharing slices with callers.
func (br *BusinessRules) Clone() *BusinessRules {
	if br == nil {
		return nil
	}
	out := *br
	out.SpecialClosings = append([]SpecialClosing(nil), br.SpecialClosings...)
	out.ClosedWeekdays = append([]time.Weekday(nil), br.ClosedWeekdays...)
	return &out
}
