package db

import (
	"context"
	"fmt"
	"time"

	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDriveLogCollection implements DriveLogCollection for MongoDB.
type MongoDriveLogCollection struct {
	Collection *mongo.Collection
}

// UpsertDriveLog inserts or replaces the drive log attached to a booking.
// A booking carries at most one log, keyed by booking_id.
func (c *MongoDriveLogCollection) UpsertDriveLog(ctx context.Context, log models.DriveLog) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	log.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"booking_id":     log.BookingID,
			"vehicle_id":     log.VehicleID,
			"date":           log.Date,
			"from":           log.From,
			"via":            log.Via,
			"to":             log.To,
			"prev_final_km":  log.PrevFinalKm,
			"final_km":       log.FinalKm,
			"distance_km":    log.DistanceKm,
			"purpose":        log.Purpose,
			"driver":         log.Driver,
			"double_parking": log.DoubleParking,
			"note":           log.Note,
			"updated_at":     log.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"created_at": time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := c.Collection.UpdateOne(ctx, bson.M{"booking_id": log.BookingID}, update, opts)
	return err
}

// FindDriveLogs queries drive-log records from the collection.
func (c *MongoDriveLogCollection) FindDriveLogs(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cursor: cursor}, nil
}

// FindDriveLogByBookingID finds the drive log attached to a booking.
func (c *MongoDriveLogCollection) FindDriveLogByBookingID(ctx context.Context, bookingID string) (*models.DriveLog, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var log models.DriveLog
	err := c.Collection.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&log)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("drive log not found")
		}
		return nil, err
	}
	return &log, nil
}

// DeleteDriveLogByBookingID deletes the drive log attached to a booking.
func (c *MongoDriveLogCollection) DeleteDriveLogByBookingID(ctx context.Context, bookingID string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("drive log not found")
	}
	return nil
}
