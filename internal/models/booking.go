package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking represents one reservation of a vehicle for a time window on a date.
type Booking struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	VehicleID   string             `json:"vehicle_id" bson:"vehicle_id"`
	Date        string             `json:"date" bson:"date"`             // "YYYY-MM-DD", no timezone
	StartTime   string             `json:"start_time" bson:"start_time"` // "HH:MM", 24-hour
	EndTime     string             `json:"end_time" bson:"end_time"`     // "HH:MM", must be after StartTime
	Destination string             `json:"destination" bson:"destination"`
	Purpose     string             `json:"purpose" bson:"purpose"`
	Requester   string             `json:"requester" bson:"requester"`
	Department  string             `json:"department" bson:"department"`
	UserID      string             `json:"user_id" bson:"user_id"`
	UserName    string             `json:"user_name,omitempty" bson:"user_name,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// BookingRequest is the payload for creating or updating a booking.
// Times may arrive loosely formatted and are normalized before validation.
type BookingRequest struct {
	VehicleID   string `json:"vehicle_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
	Destination string `json:"destination" validate:"required,max=200"`
	Purpose     string `json:"purpose" validate:"max=500"`
	Requester   string `json:"requester" validate:"required,max=100"`
	Department  string `json:"department" validate:"max=100"`
}
