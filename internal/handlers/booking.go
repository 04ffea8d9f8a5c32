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

// BookingHandler handles vehicle dispatch bookings.
type BookingHandler struct {
	bookings  db.BookingCollection
	validate  *validator.Validate
	publisher notify.Publisher
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(bookings db.BookingCollection, publisher notify.Publisher) *BookingHandler {
	return &BookingHandler{
		bookings:  bookings,
		validate:  validator.New(),
		publisher: publisher,
	}
}

// loadBookings reads all bookings matching the filter, sorted by date and
// start time.
func loadBookings(ctx context.Context, coll db.BookingCollection, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})
	cursor, err := coll.FindBookings(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// normalizeBookingRequest normalizes the loose time inputs in place and
// checks the submission invariants. Returns a user-facing message on
// failure.
func (h *BookingHandler) normalizeBookingRequest(req *models.BookingRequest) (string, bool) {
	start, err := schedule.NormalizeTime(req.StartTime)
	if err != nil {
		return "Invalid start time", false
	}
	end, err := schedule.NormalizeTime(req.EndTime)
	if err != nil {
		return "Invalid end time", false
	}
	req.StartTime = start
	req.EndTime = end

	if err := h.validate.Struct(req); err != nil {
		return "Invalid booking: " + err.Error(), false
	}
	if !models.IsValidVehicleID(req.VehicleID) {
		return "Unknown vehicle", false
	}
	// Normalized "HH:MM" strings order lexically.
	if req.StartTime >= req.EndTime {
		return "Start time must be before end time", false
	}
	return "", true
}

// Collection serves /api/bookings: GET lists, POST creates.
func (h *BookingHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if v := r.URL.Query().Get("vehicle_id"); v != "" {
		filter["vehicle_id"] = v
	}
	if d := r.URL.Query().Get("date"); d != "" {
		filter["date"] = d
	}

	bookings, err := loadBookings(r.Context(), h.bookings, filter)
	if err != nil {
		http.Error(w, "Failed to fetch bookings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if msg, ok := h.normalizeBookingRequest(&req); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	// Advisory double-booking check against the current snapshot. Two
	// concurrent submitters can both pass it; last write wins.
	sameDay, err := loadBookings(r.Context(), h.bookings, bson.M{"vehicle_id": req.VehicleID, "date": req.Date})
	if err != nil {
		http.Error(w, "Failed to fetch bookings", http.StatusInternalServerError)
		return
	}
	if schedule.HasOverlap(sameDay, req.VehicleID, req.Date, req.StartTime, req.EndTime, "") {
		http.Error(w, "Vehicle already booked for that time", http.StatusConflict)
		return
	}

	booking := models.Booking{
		VehicleID:   req.VehicleID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Destination: req.Destination,
		Purpose:     req.Purpose,
		Requester:   req.Requester,
		Department:  req.Department,
		UserID:      claims.UserID,
		UserName:    claims.Username,
	}

	id, err := h.bookings.InsertBooking(r.Context(), booking)
	if err != nil {
		http.Error(w, "Failed to create booking", http.StatusInternalServerError)
		return
	}

	created, err := h.bookings.FindBookingByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch booking", http.StatusInternalServerError)
		return
	}

	h.publisher.Publish("bookings", notify.ChangeEvent{Action: notify.ActionCreated, ID: id, Data: created})
	log.WithFields(log.Fields{
		"booking_id": id,
		"vehicle_id": created.VehicleID,
		"date":       created.Date,
	}).Info("Booking created")

	writeJSON(w, http.StatusCreated, created)
}

// Item serves /api/bookings/{id}: GET, PUT and DELETE.
func (h *BookingHandler) Item(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r.URL.Path) // api / bookings / {id}
	if len(segments) != 3 {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	id := segments[2]

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *BookingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	booking, err := h.bookings.FindBookingByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	existing, err := h.bookings.FindBookingByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}
	if !claims.CanModify(existing.UserID) {
		http.Error(w, "Only the owner or an admin may edit this booking", http.StatusForbidden)
		return
	}

	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if msg, ok := h.normalizeBookingRequest(&req); !ok {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	// Edits check the new window against everything except this booking.
	sameDay, err := loadBookings(r.Context(), h.bookings, bson.M{"vehicle_id": req.VehicleID, "date": req.Date})
	if err != nil {
		http.Error(w, "Failed to fetch bookings", http.StatusInternalServerError)
		return
	}
	if schedule.HasOverlap(sameDay, req.VehicleID, req.Date, req.StartTime, req.EndTime, id) {
		http.Error(w, "Vehicle already booked for that time", http.StatusConflict)
		return
	}

	updated := *existing
	updated.VehicleID = req.VehicleID
	updated.Date = req.Date
	updated.StartTime = req.StartTime
	updated.EndTime = req.EndTime
	updated.Destination = req.Destination
	updated.Purpose = req.Purpose
	updated.Requester = req.Requester
	updated.Department = req.Department

	if err := h.bookings.UpdateBooking(r.Context(), id, updated); err != nil {
		http.Error(w, "Failed to update booking", http.StatusInternalServerError)
		return
	}

	h.publisher.Publish("bookings", notify.ChangeEvent{Action: notify.ActionUpdated, ID: id, Data: updated})
	writeJSON(w, http.StatusOK, updated)
}

func (h *BookingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	existing, err := h.bookings.FindBookingByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}
	if !claims.CanModify(existing.UserID) {
		http.Error(w, "Only the owner or an admin may delete this booking", http.StatusForbidden)
		return
	}

	if err := h.bookings.DeleteBooking(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete booking", http.StatusInternalServerError)
		return
	}

	h.publisher.Publish("bookings", notify.ChangeEvent{Action: notify.ActionDeleted, ID: id})
	writeMessage(w, http.StatusOK, "Booking deleted")
}
