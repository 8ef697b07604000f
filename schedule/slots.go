/*
slots.go - Pickup slot enumeration

PURPOSE:
  Pure function from (BusinessRules, calendar date, now) to the ordered
  list of legal pickup times for that date. The checkout flow uses it to
  populate the selectable pickup times.

GRID:
  Window boundaries are converted to whole minutes since midnight before
  stepping, so a boundary slot is never silently dropped to decimal-hour
  rounding. Slots run from opening to closing inclusive.

TODAY FILTERING:
  When the date is today on the restaurant's wall clock, slots earlier
  than now + MinPrepMinutes are discarded (the kitchen needs prep time).

DETERMINISM:
  Output is fully re-derivable from the inputs; calling twice with the
  same arguments yields the same sequence.
*/
package schedule

import "time"

// Slot generation defaults.
const (
	DefaultStepMinutes    = 15
	DefaultMinPrepMinutes = 30
)

// SlotOptions tunes slot enumeration. The zero value selects the
// defaults.
type SlotOptions struct {
	StepMinutes    int
	MinPrepMinutes int
}

func (o SlotOptions) withDefaults() SlotOptions {
	if o.StepMinutes <= 0 {
		o.StepMinutes = DefaultStepMinutes
	}
	if o.MinPrepMinutes <= 0 {
		o.MinPrepMinutes = DefaultMinPrepMinutes
	}
	return o
}

// TimeOfDay is a pickup time as whole minutes since local midnight.
type TimeOfDay int

func (t TimeOfDay) Hour() int      { return int(t) / 60 }
func (t TimeOfDay) Minute() int    { return int(t) % 60 }
func (t TimeOfDay) String() string { return formatMinutes(int(t)) }

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// GenerateSlots enumerates the legal pickup times for a calendar date.
// A closed day (weekly closure, special closing, or force-close) yields
// an empty sequence, not an error.
func GenerateSlots(br *BusinessRules, date time.Time, now time.Time, opts SlotOptions) []TimeOfDay {
	opts = opts.withDefaults()

	if _, closed := dayClosure(br, date); closed {
		return nil
	}

	local := LocalTime(date)

	// Discard slots the kitchen could not honor when generating for the
	// current day.
	cutoff := -1
	if local.Format(isoDate) == localDate(now) {
		cutoff = minutesOfDay(now) + opts.MinPrepMinutes
	}

	var slots []TimeOfDay
	for _, r := range br.windowsFor(local.Weekday()) {
		for m := r.OpeningMinutes(); m <= r.ClosingMinutes(); m += opts.StepMinutes {
			if m < cutoff {
				continue
			}
			slots = append(slots, TimeOfDay(m))
		}
	}
	return slots
}
