package schedule

import (
	"fmt"
	"time"
)

// =============================================================================
// RESTAURANT WALL CLOCK - Fixed civil time zone
// =============================================================================

// The restaurant operates on a fixed local civil time zone. This is a
// business constant, not configuration: every wall-clock comparison in
// this package happens in this zone regardless of the caller's zone.
// A zone lookup (not a numeric UTC offset) is required so daylight-saving
// transitions resolve correctly.
const restaurantZoneName = "Europe/Paris"

const isoDate = "2006-01-02"

var restaurantZone = mustLoadZone()

func mustLoadZone() *time.Location {
	loc, err := time.LoadLocation(restaurantZoneName)
	if err != nil {
		panic(fmt.Sprintf("schedule: load %s: %v", restaurantZoneName, err))
	}
	return loc
}

// Zone returns the restaurant's civil time zone.
func Zone() *time.Location {
	return restaurantZone
}

// LocalTime converts any instant to the restaurant's wall clock.
func LocalTime(t time.Time) time.Time {
	return t.In(restaurantZone)
}

// localDate returns the ISO calendar date of an instant on the
// restaurant's wall clock.
func localDate(t time.Time) string {
	return LocalTime(t).Format(isoDate)
}

// minutesOfDay returns whole minutes since local midnight. Seconds are
// truncated: an order at 13:30:59 is still a 13:30 order.
func minutesOfDay(t time.Time) int {
	local := LocalTime(t)
	return local.Hour()*60 + local.Minute()
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
