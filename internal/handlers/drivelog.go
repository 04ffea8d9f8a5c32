package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/db"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/middleware"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/notify"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/schedule"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DriveLogHandler handles the drive log attached to a booking and the
// flat drive-log listing.
type DriveLogHandler struct {
	bookings  db.BookingCollection
	logs      db.DriveLogCollection
	validate  *validator.Validate
	publisher notify.Publisher
}

// NewDriveLogHandler creates a new drive-log handler.
func NewDriveLogHandler(bookings db.BookingCollection, logs db.DriveLogCollection, publisher notify.Publisher) *DriveLogHandler {
	return &DriveLogHandler{
		bookings:  bookings,
		logs:      logs,
		validate:  validator.New(),
		publisher: publisher,
	}
}

// loadDriveLogs reads all drive logs matching the filter, sorted by date.
func loadDriveLogs(ctx context.Context, coll db.DriveLogCollection, filter bson.M) ([]models.DriveLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := coll.FindDriveLogs(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []models.DriveLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// List serves GET /api/drivelogs with optional vehicle_id and date filters.
func (h *DriveLogHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := bson.M{}
	if v := r.URL.Query().Get("vehicle_id"); v != "" {
		filter["vehicle_id"] = v
	}
	if d := r.URL.Query().Get("date"); d != "" {
		filter["date"] = d
	}

	logs, err := loadDriveLogs(r.Context(), h.logs, filter)
	if err != nil {
		http.Error(w, "Failed to fetch drive logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Item serves /api/bookings/{id}/drivelog: GET, PUT (upsert) and DELETE.
func (h *DriveLogHandler) Item(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path) // api / bookings / {id} / drivelog
	if len(segments) != 4 || segments[3] != "drivelog" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	bookingID := segments[2]

	booking, err := h.bookings.FindBookingByID(r.Context(), bookingID)
	if err != nil {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, booking)
	case http.MethodPut:
		h.upsert(w, r, booking)
	case http.MethodDelete:
		h.delete(w, r, booking)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DriveLogHandler) get(w http.ResponseWriter, r *http.Request, booking *models.Booking) {
	logEntry, err := h.logs.FindDriveLogByBookingID(r.Context(), booking.ID.Hex())
	if err != nil {
		http.Error(w, "Drive log not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, logEntry)
}

// upsert creates or replaces the booking's drive log. The previous odometer
// reading is resolved fresh from the chain, never trusted from the stored
// snapshot or the client.
func (h *DriveLogHandler) upsert(w http.ResponseWriter, r *http.Request, booking *models.Booking) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if !claims.CanModify(booking.UserID) {
		http.Error(w, "Only the owner or an admin may record this drive log", http.StatusForbidden)
		return
	}

	var req models.DriveLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Invalid drive log: "+err.Error(), http.StatusBadRequest)
		return
	}

	bookingID := booking.ID.Hex()

	// Resolve the chain across the vehicle's full history.
	vehicleBookings, err := loadBookings(r.Context(), h.bookings, bson.M{"vehicle_id": booking.VehicleID})
	if err != nil {
		http.Error(w, "Failed to fetch bookings", http.StatusInternalServerError)
		return
	}
	vehicleLogs, err := loadDriveLogs(r.Context(), h.logs, bson.M{"vehicle_id": booking.VehicleID})
	if err != nil {
		http.Error(w, "Failed to fetch drive logs", http.StatusInternalServerError)
		return
	}

	prevKm, hasPrev := schedule.PrevFinalKm(vehicleBookings, vehicleLogs,
		booking.VehicleID, booking.Date, bookingID, booking.StartTime)
	if hasPrev && req.FinalKm < prevKm {
		http.Error(w, "Final odometer reading is below the previous trip's reading",
			http.StatusUnprocessableEntity)
		return
	}

	logEntry := models.DriveLog{
		BookingID:     bookingID,
		VehicleID:     booking.VehicleID,
		Date:          booking.Date,
		From:          req.From,
		Via:           req.Via,
		To:            req.To,
		FinalKm:       req.FinalKm,
		Purpose:       req.Purpose,
		Driver:        req.Driver,
		DoubleParking: req.DoubleParking,
		Note:          req.Note,
	}
	if hasPrev {
		logEntry.PrevFinalKm = prevKm
		logEntry.DistanceKm = req.FinalKm - prevKm
	}
	// A log keeps its original date even if the booking's date was edited
	// after creation.
	if existing, err := h.logs.FindDriveLogByBookingID(r.Context(), bookingID); err == nil {
		logEntry.Date = existing.Date
	}

	if err := h.logs.UpsertDriveLog(r.Context(), logEntry); err != nil {
		http.Error(w, "Failed to save drive log", http.StatusInternalServerError)
		return
	}

	saved, err := h.logs.FindDriveLogByBookingID(r.Context(), bookingID)
	if err != nil {
		http.Error(w, "Failed to fetch drive log", http.StatusInternalServerError)
		return
	}

	h.publisher.Publish("drivelogs", notify.ChangeEvent{Action: notify.ActionUpdated, ID: saved.ID.Hex(), Data: saved})
	log.WithFields(log.Fields{
		"booking_id":  bookingID,
		"vehicle_id":  booking.VehicleID,
		"final_km":    req.FinalKm,
		"distance_km": saved.DistanceKm,
	}).Info("Drive log saved")

	writeJSON(w, http.StatusOK, saved)
}

func (h *DriveLogHandler) delete(w http.ResponseWriter, r *http.Request, booking *models.Booking) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}
	if !claims.CanModify(booking.UserID) {
		http.Error(w, "Only the owner or an admin may delete this drive log", http.StatusForbidden)
		return
	}

	bookingID := booking.ID.Hex()
	if err := h.logs.DeleteDriveLogByBookingID(r.Context(), bookingID); err != nil {
		http.Error(w, "Drive log not found", http.StatusNotFound)
		return
	}

	h.publisher.Publish("drivelogs", notify.ChangeEvent{Action: notify.ActionDeleted, ID: bookingID})
	writeMessage(w, http.StatusOK, "Drive log deleted")
}
