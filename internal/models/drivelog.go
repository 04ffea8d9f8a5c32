package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DriveLog is the actual-use record attached to exactly one booking.
// A booking has zero or one drive log; writes are upserts keyed by BookingID.
type DriveLog struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	BookingID     string             `json:"booking_id" bson:"booking_id"`
	VehicleID     string             `json:"vehicle_id" bson:"vehicle_id"`
	Date          string             `json:"date" bson:"date"` // copied from the booking at creation time
	From          string             `json:"from" bson:"from"`
	Via           string             `json:"via" bson:"via"`
	To            string             `json:"to" bson:"to"`
	PrevFinalKm   float64            `json:"prev_final_km" bson:"prev_final_km"` // snapshot, recomputed on reads that matter
	FinalKm       float64            `json:"final_km" bson:"final_km"`
	DistanceKm    float64            `json:"distance_km" bson:"distance_km"` // FinalKm - PrevFinalKm, 0 when no prior reading
	Purpose       string             `json:"purpose" bson:"purpose"`
	Driver        string             `json:"driver" bson:"driver"`
	DoubleParking bool               `json:"double_parking" bson:"double_parking"`
	Note          string             `json:"note" bson:"note"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// DriveLogRequest is the payload for upserting a booking's drive log.
// PrevFinalKm and DistanceKm are computed server-side, never taken from input.
type DriveLogRequest struct {
	From          string  `json:"from" validate:"required,max=200"`
	Via           string  `json:"via" validate:"max=200"`
	To            string  `json:"to" validate:"required,max=200"`
	FinalKm       float64 `json:"final_km" validate:"gte=0"`
	Purpose       string  `json:"purpose" validate:"max=500"`
	Driver        string  `json:"driver" validate:"required,max=100"`
	DoubleParking bool    `json:"double_parking"`
	Note          string  `json:"note" validate:"max=500"`
}
