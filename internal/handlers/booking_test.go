package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"github.com/mj9457/GECCI-DriveNote-sub000/internal/notify"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validBookingPayload() map[string]interface{} {
	return map[string]interface{}{
		"vehicle_id":  "sonata-01",
		"date":        "2024-03-05",
		"start_time":  "09:00",
		"end_time":    "10:00",
		"destination": "Head office",
		"requester":   "Kim",
		"department":  "Operations",
	}
}

func TestBookingHandler_Create(t *testing.T) {
	coll := &mockBookingCollection{}
	handler := NewBookingHandler(coll, notify.NopPublisher{})

	req := newRequest(http.MethodPost, "/api/bookings", validBookingPayload(), memberClaims("user-1"))
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var created models.Booking
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "sonata-01", created.VehicleID)
	assert.Equal(t, "user-1", created.UserID)
	assert.Len(t, coll.bookings, 1)
}

func TestBookingHandler_Create_NormalizesLooseTimes(t *testing.T) {
	coll := &mockBookingCollection{}
	handler := NewBookingHandler(coll, notify.NopPublisher{})

	payload := validBookingPayload()
	payload["start_time"] = "9 00"
	payload["end_time"] = "18-00"

	req := newRequest(http.MethodPost, "/api/bookings", payload, memberClaims("user-1"))
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "09:00", coll.bookings[0].StartTime)
	assert.Equal(t, "18:00", coll.bookings[0].EndTime)
}

func TestBookingHandler_Create_Conflict(t *testing.T) {
	coll := &mockBookingCollection{}
	handler := NewBookingHandler(coll, notify.NopPublisher{})

	req := newRequest(http.MethodPost, "/api/bookings", validBookingPayload(), memberClaims("user-1"))
	w := httptest.NewRecorder()
	handler.Collection(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Overlapping window on the same vehicle and date is rejected.
	payload := validBookingPayload()
	payload["start_time"] = "09:30"
	payload["end_time"] = "10:30"
	req = newRequest(http.MethodPost, "/api/bookings", payload, memberClaims("user-2"))
	w = httptest.NewRecorder()
	handler.Collection(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// A touching window is not a conflict.
	payload = validBookingPayload()
	payload["start_time"] = "10:00"
	payload["end_time"] = "11:00"
	req = newRequest(http.MethodPost, "/api/bookings", payload, memberClaims("user-2"))
	w = httptest.NewRecorder()
	handler.Collection(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBookingHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"invalid start time", func(p map[string]interface{}) { p["start_time"] = "25:00" }},
		{"invalid end time", func(p map[string]interface{}) { p["end_time"] = "abc" }},
		{"start after end", func(p map[string]interface{}) { p["start_time"] = "11:00"; p["end_time"] = "10:00" }},
		{"start equals end", func(p map[string]interface{}) { p["start_time"] = "10:00"; p["end_time"] = "10:00" }},
		{"unknown vehicle", func(p map[string]interface{}) { p["vehicle_id"] = "bicycle-99" }},
		{"bad date format", func(p map[string]interface{}) { p["date"] = "03/05/2024" }},
		{"missing destination", func(p map[string]interface{}) { p["destination"] = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewBookingHandler(&mockBookingCollection{}, notify.NopPublisher{})
			payload := validBookingPayload()
			tt.mutate(payload)

			req := newRequest(http.MethodPost, "/api/bookings", payload, memberClaims("user-1"))
			w := httptest.NewRecorder()
			handler.Collection(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestBookingHandler_List_Filters(t *testing.T) {
	coll := &mockBookingCollection{bookings: []models.Booking{
		{ID: primitive.NewObjectID(), VehicleID: "sonata-01", Date: "2024-03-05", StartTime: "09:00", EndTime: "10:00"},
		{ID: primitive.NewObjectID(), VehicleID: "carnival-02", Date: "2024-03-05", StartTime: "09:00", EndTime: "10:00"},
	}}
	handler := NewBookingHandler(coll, notify.NopPublisher{})

	req := newRequest(http.MethodGet, "/api/bookings?vehicle_id=sonata-01", nil, memberClaims("user-1"))
	w := httptest.NewRecorder()
	handler.Collection(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var listed []models.Booking
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	assert.Len(t, listed, 1)
	assert.Equal(t, "sonata-01", listed[0].VehicleID)
}

func TestBookingHandler_Update_ExcludesSelfFromOverlap(t *testing.T) {
	coll := &mockBookingCollection{}
	handler := NewBookingHandler(coll, notify.NopPublisher{})

	req := newRequest(http.MethodPost, "/api/bookings", validBookingPayload(), memberClaims("user-1"))
	w := httptest.NewRecorder()
	handler.Collection(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	id := coll.bookings[0].ID.Hex()

	// Re-saving the identical window must not conflict with itself.
	req = newRequest(http.MethodPut, "/api/bookings/"+id, validBookingPayload(), memberClaims("user-1"))
	w = httptest.NewRecorder()
	handler.Item(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingHandler_Update_OwnerOnly(t *testing.T) {
	coll := &mockBookingCollection{}
	handler := NewBookingHandler(coll, notify.NopPublisher{})

	req := newRequest(http.MethodPost, "/api/bookings", validBookingPayload(), memberClaims("user-1"))
	w := httptest.NewRecorder()
	handler.Collection(w, req)
	id := coll.bookings[0].ID.Hex()

	req = newRequest(http.MethodPut, "/api/bookings/"+id, validBookingPayload(), memberClaims("someone-else"))
	w = httptest.NewRecorder()
	handler.Item(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins may edit anyone's booking.
	req = newRequest(http.MethodPut, "/api/bookings/"+id, validBookingPayload(), adminClaims())
	w = httptest.NewRecorder()
	handler.Item(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingHandler_Delete(t *testing.T) {
	coll := &mockBookingCollection{}
	handler := NewBookingHandler(coll, notify.NopPublisher{})

	req := newRequest(http.MethodPost, "/api/bookings", validBookingPayload(), memberClaims("user-1"))
	w := httptest.NewRecorder()
	handler.Collection(w, req)
	id := coll.bookings[0].ID.Hex()

	req = newRequest(http.MethodDelete, "/api/bookings/"+id, nil, memberClaims("someone-else"))
	w = httptest.NewRecorder()
	handler.Item(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = newRequest(http.MethodDelete, "/api/bookings/"+id, nil, memberClaims("user-1"))
	w = httptest.NewRecorder()
	handler.Item(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, coll.bookings)
}

func TestBookingHandler_Get_NotFound(t *testing.T) {
	handler := NewBookingHandler(&mockBookingCollection{}, notify.NopPublisher{})

	req := newRequest(http.MethodGet, "/api/bookings/"+primitive.NewObjectID().Hex(), nil, memberClaims("user-1"))
	w := httptest.NewRecorder()
	handler.Item(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
