// Package care derives watering schedules and the plant timeline from
// stored records.
package care

import (
	"time"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

const day = 24 * time.Hour

// lastWatered parses the plant's last watering date. ok is false if the
// plant was never watered or the date cannot be parsed.
func lastWatered(p types.Plant) (time.Time, bool) {
	if p.LastWateredDate == nil || *p.LastWateredDate == "" {
		return time.Time{}, false
	}
	t, err := types.ParseTimestamp(*p.LastWateredDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysSinceWatered returns the whole days elapsed between the last watering
// and now. ok is false if the plant has no usable watering date.
func DaysSinceWatered(p types.Plant, now time.Time) (days int, ok bool) {
	last, ok := lastWatered(p)
	if !ok {
		return 0, false
	}
	return int(now.Sub(last) / day), true
}

// NeedsWatering reports whether the plant is due: it was never watered, or
// at least WateringFrequency whole days have passed since it was.
func NeedsWatering(p types.Plant, now time.Time) bool {
	days, ok := DaysSinceWatered(p, now)
	if !ok {
		return true
	}
	return days >= p.WateringFrequency
}

// NextWatering returns when the plant next falls due. ok is false if the
// plant has no usable watering date, in which case it is due already.
func NextWatering(p types.Plant) (time.Time, bool) {
	last, ok := lastWatered(p)
	if !ok {
		return time.Time{}, false
	}
	return last.Add(time.Duration(p.WateringFrequency) * day), true
}

// DuePlants returns the plants that need watering at now, in input order.
func DuePlants(plants []types.Plant, now time.Time) []types.Plant {
	due := []types.Plant{}
	for _, p := range plants {
		if NeedsWatering(p, now) {
			due = append(due, p)
		}
	}
	return due
}

// WeekStrip returns midnight of each day of the Sunday-first week that
// contains now, in now's location.
func WeekStrip(now time.Time) []time.Time {
	y, m, d := now.Date()
	start := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
