package schedule

import (
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
)

// HasOverlap reports whether the candidate window [start, end) on the given
// vehicle and date conflicts with any existing booking. Bookings are
// half-open intervals: a window that starts exactly when another ends does
// not conflict. excludeID drops one booking from consideration so an edit
// is not checked against itself; pass "" when creating.
//
// Times must already be normalized "HH:MM". The check is advisory and free
// of side effects, safe to run on every keystroke.
func HasOverlap(bookings []models.Booking, vehicleID, date, start, end, excludeID string) bool {
	s1 := toMinutes(start)
	e1 := toMinutes(end)

	for _, b := range bookings {
		if b.VehicleID != vehicleID || b.Date != date {
			continue
		}
		if excludeID != "" && b.ID.Hex() == excludeID {
			continue
		}
		s2 := toMinutes(b.StartTime)
		e2 := toMinutes(b.EndTime)
		if s1 < e2 && e1 > s2 {
			return true
		}
	}
	return false
}
