package handlers

import (
	"net/http"

	"github.com/mj9457/GECCI-DriveNote-sub000/internal/db"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/schedule"
	"go.mongodb.org/mongo-driver/bson"
)

// VehicleHandler serves the fleet enumeration and the derived per-vehicle
// views: free time ranges and the live previous-odometer value.
type VehicleHandler struct {
	bookings db.BookingCollection
	logs     db.DriveLogCollection
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(bookings db.BookingCollection, logs db.DriveLogCollection) *VehicleHandler {
	return &VehicleHandler{bookings: bookings, logs: logs}
}

// List serves GET /api/vehicles with the configured fleet.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"vehicles": models.VehicleIDs()})
}

// Item dispatches /api/vehicles/{id}/availability and
// /api/vehicles/{id}/odometer.
func (h *VehicleHandler) Item(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	segments := pathSegments(r.URL.Path) // api / vehicles / {id} / <view>
	if len(segments) != 4 {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	vehicleID := segments[2]
	if !models.IsValidVehicleID(vehicleID) {
		http.Error(w, "Unknown vehicle", http.StatusNotFound)
		return
	}

	switch segments[3] {
	case "availability":
		h.availability(w, r, vehicleID)
	case "odometer":
		h.odometer(w, r, vehicleID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// availability computes the free windows of a vehicle's day as the
// complement of its bookings.
func (h *VehicleHandler) availability(w http.ResponseWriter, r *http.Request, vehicleID string) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date query parameter is required", http.StatusBadRequest)
		return
	}

	bookings, err := loadBookings(r.Context(), h.bookings, bson.M{"vehicle_id": vehicleID, "date": date})
	if err != nil {
		http.Error(w, "Failed to fetch bookings", http.StatusInternalServerError)
		return
	}

	ranges := schedule.AvailableRanges(bookings, vehicleID, date)
	if ranges == nil {
		ranges = []schedule.TimeRange{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicle_id": vehicleID,
		"date":       date,
		"available":  ranges,
	})
}

// odometer resolves the previous final-odometer reading the way the drive
// log form displays it while the user types. Query parameters: date
// (required), start (optional reference start time, loose format accepted),
// exclude_booking (optional booking id whose log must not count).
func (h *VehicleHandler) odometer(w http.ResponseWriter, r *http.Request, vehicleID string) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date query parameter is required", http.StatusBadRequest)
		return
	}

	start := r.URL.Query().Get("start")
	if start != "" {
		normalized, err := schedule.NormalizeTime(start)
		if err != nil {
			http.Error(w, "Invalid start time", http.StatusBadRequest)
			return
		}
		start = normalized
	}
	excludeBooking := r.URL.Query().Get("exclude_booking")

	bookings, err := loadBookings(r.Context(), h.bookings, bson.M{"vehicle_id": vehicleID})
	if err != nil {
		http.Error(w, "Failed to fetch bookings", http.StatusInternalServerError)
		return
	}
	logs, err := loadDriveLogs(r.Context(), h.logs, bson.M{"vehicle_id": vehicleID})
	if err != nil {
		http.Error(w, "Failed to fetch drive logs", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"vehicle_id":    vehicleID,
		"date":          date,
		"prev_final_km": nil, // no prior reading: the vehicle's first trip
	}
	if km, ok := schedule.PrevFinalKm(bookings, logs, vehicleID, date, excludeBooking, start); ok {
		response["prev_final_km"] = km
	}

	writeJSON(w, http.StatusOK, response)
}
