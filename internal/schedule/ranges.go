package schedule

import (
	"sort"

	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
)

const endOfDay = 24 * 60

// TimeRange is one free window within a day, rendered as "HH:MM" strings.
// A range ending at day's end uses the "24:00" sentinel.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailableRanges computes the maximal free sub-intervals of [00:00, 24:00)
// left by the given vehicle's bookings on one date. With no bookings the
// whole day is returned; a booking covering the full day yields nil.
//
// Overlapping input is not validated here: overlap prevention happens at
// submission time, and the sweep simply merges through any conflict.
func AvailableRanges(bookings []models.Booking, vehicleID, date string) []TimeRange {
	var day []models.Booking
	for _, b := range bookings {
		if b.VehicleID == vehicleID && b.Date == date {
			day = append(day, b)
		}
	}
	sort.SliceStable(day, func(i, j int) bool {
		return toMinutes(day[i].StartTime) < toMinutes(day[j].StartTime)
	})

	var free []TimeRange
	cursor := 0
	for _, b := range day {
		start := toMinutes(b.StartTime)
		end := toMinutes(b.EndTime)
		if start > cursor {
			upper := start
			if upper > endOfDay {
				upper = endOfDay
			}
			if upper > cursor {
				free = append(free, TimeRange{Start: toClock(cursor), End: toClock(upper)})
			}
		}
		if end > cursor {
			cursor = end
		}
	}
	if cursor < endOfDay {
		free = append(free, TimeRange{Start: toClock(cursor), End: toClock(endOfDay)})
	}
	return free
}
