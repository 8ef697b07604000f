/*
evaluate.go - Open/closed eligibility decision

PURPOSE:
  Pure function from (BusinessRules, now) to OpenStatus. Used by the
  ordering UI to render banners and by the API's /status endpoint.

ALGORITHM (strict priority order, first match wins):
  1. Force-close flag          -> MANUAL_OVERRIDE
  2. Special closing today     -> SPECIAL_CLOSING
  3. Weekly closed day         -> WEEKLY_CLOSED_DAY
  4. Inside any effective service window -> open
  5. Otherwise BEFORE_SERVICE / BETWEEN_SERVICES / AFTER_SERVICE
     (message text only; the decision is already "closed")

EFFECTIVE WINDOWS:
  effectiveOpen  = opening - preorderMinutes
  effectiveClose = closing - lastOrderMinutes
  computed in whole minutes since local midnight. A window whose buffers
  invert it (effectiveOpen > effectiveClose) is treated as never-open
  rather than wrapping or erroring.

SEE ALSO:
  - slots.go: uses the same day-schedule resolution
  - validate.go: day-level checks reuse dayClosure
*/
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// OpenStatus is the result of an eligibility evaluation.
type OpenStatus struct {
	IsOpen  bool       `json:"is_open"`
	Reason  ReasonCode `json:"reason,omitempty"`
	Message string     `json:"message"`
}

// effectiveWindow is a service window with buffers applied, in whole
// minutes since local midnight.
type effectiveWindow struct {
	open  int
	close int
}

func (w effectiveWindow) neverOpen() bool { return w.open > w.close }

func (w effectiveWindow) contains(minute int) bool {
	return !w.neverOpen() && minute >= w.open && minute <= w.close
}

func effectiveWindows(br *BusinessRules, day time.Weekday) []effectiveWindow {
	ranges := br.windowsFor(day)
	out := make([]effectiveWindow, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, effectiveWindow{
			open:  r.OpeningMinutes() - br.PreorderMinutes,
			close: r.ClosingMinutes() - br.LastOrderMinutes,
		})
	}
	return out
}

// dayClosure applies the day-level checks (steps 1-3). It returns the
// closed status and true when the whole day is closed, independent of
// the hour.
func dayClosure(br *BusinessRules, now time.Time) (OpenStatus, bool) {
	if br.ForceClose {
		return closedStatus(br, ReasonManualOverride, "Online ordering is temporarily suspended."), true
	}
	local := LocalTime(now)
	if sc, ok := br.SpecialClosingOn(local.Format(isoDate)); ok {
		msg := "The restaurant is exceptionally closed today."
		if sc.Reason != "" {
			msg = fmt.Sprintf("The restaurant is exceptionally closed today (%s).", sc.Reason)
		}
		return closedStatus(br, ReasonSpecialClosing, msg), true
	}
	if br.IsClosedWeekday(local.Weekday()) {
		return closedStatus(br, ReasonWeeklyClosedDay,
			fmt.Sprintf("The restaurant is closed on %ss.", local.Weekday())), true
	}
	return OpenStatus{}, false
}

// Evaluate decides whether an order may be placed at the given instant.
// The instant may be in any time zone; it is converted to the
// restaurant's wall clock before comparison.
func Evaluate(br *BusinessRules, now time.Time) OpenStatus {
	if st, closed := dayClosure(br, now); closed {
		return st
	}

	nowMin := minutesOfDay(now)
	windows := effectiveWindows(br, LocalTime(now).Weekday())
	for _, w := range windows {
		if w.contains(nowMin) {
			return OpenStatus{IsOpen: true, Message: "We are taking orders. " + HoursText(br)}
		}
	}

	// Closed on an otherwise-open day: locate now relative to the windows
	// for the message text.
	reason := ReasonAfterService
	msg := "Ordering is closed for today."
	for i, w := range windows {
		if w.neverOpen() {
			continue
		}
		if nowMin < w.open {
			if i == 0 {
				reason = ReasonBeforeService
				msg = fmt.Sprintf("Ordering opens at %s.", formatMinutes(w.open))
			} else {
				reason = ReasonBetweenServices
				msg = fmt.Sprintf("Ordering resumes at %s.", formatMinutes(w.open))
			}
			break
		}
	}
	return closedStatus(br, reason, msg)
}

func closedStatus(br *BusinessRules, reason ReasonCode, msg string) OpenStatus {
	return OpenStatus{
		IsOpen:  false,
		Reason:  reason,
		Message: msg + " " + HoursText(br),
	}
}

// HoursText renders the standard business-hours line included in every
// user-visible message, so a customer can always see when ordering is
// possible.
func HoursText(br *BusinessRules) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Usual hours: lunch %s and dinner %s, Sunday %s",
		br.Weekday.Lunch, br.Weekday.Dinner, br.Sunday)
	if len(br.ClosedWeekdays) > 0 {
		names := make([]string, 0, len(br.ClosedWeekdays))
		for _, wd := range br.ClosedWeekdays {
			names = append(names, wd.String())
		}
		fmt.Fprintf(&b, ", closed %s", strings.Join(names, ", "))
	}
	b.WriteString(".")
	return b.String()
}
