package schedule

import (
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
)

// fallbackStart orders a drive log whose booking no longer exists.
const fallbackStart = "00:00"

// PrevFinalKm resolves the most recent prior final-odometer reading in a
// vehicle's drive-log chain, ordered by (date, associated booking start
// time). A log qualifies as prior when its date is strictly before date,
// or on the same date when refStartTime is empty or the log's booking
// starts strictly before refStartTime. Logs on later dates never qualify.
//
// excludeBookingID removes that booking's log from candidacy so a log is
// never its own predecessor. The second return value is false when no
// prior reading exists — the valid first-trip state, not an error.
//
// The stored PrevFinalKm snapshot on a drive log is a point-in-time cache;
// callers recompute through this function on every read where correctness
// matters.
func PrevFinalKm(bookings []models.Booking, logs []models.DriveLog, vehicleID, date, excludeBookingID, refStartTime string) (float64, bool) {
	starts := make(map[string]string, len(bookings))
	for _, b := range bookings {
		starts[b.ID.Hex()] = b.StartTime
	}
	startOf := func(l models.DriveLog) string {
		if s, ok := starts[l.BookingID]; ok {
			return s
		}
		return fallbackStart
	}

	refMin := -1
	if refStartTime != "" {
		refMin = toMinutes(refStartTime)
	}

	var (
		best      models.DriveLog
		bestStart int
		found     bool
	)
	for _, l := range logs {
		if l.VehicleID != vehicleID {
			continue
		}
		if excludeBookingID != "" && l.BookingID == excludeBookingID {
			continue
		}
		if l.Date > date {
			continue
		}
		start := toMinutes(startOf(l))
		if l.Date == date && refMin >= 0 && start >= refMin {
			continue
		}
		// Last qualifier under (date asc, start asc); ties keep the
		// latest entry in input order.
		if !found || l.Date > best.Date || (l.Date == best.Date && start >= bestStart) {
			best = l
			bestStart = start
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best.FinalKm, true
}
