package db

import (
	"context"
	"fmt"
	"time"

	"github.com/mj9457/GECCI-DriveNote-sub000/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingCollection implements BookingCollection for MongoDB.
type MongoBookingCollection struct {
	Collection *mongo.Collection
}

// InsertBooking inserts a booking record and returns its assigned id.
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()
	if _, err := c.Collection.InsertOne(ctx, booking); err != nil {
		return "", err
	}
	return booking.ID.Hex(), nil
}

// FindBookings queries booking records from the collection.
func (c *MongoBookingCollection) FindBookings(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cursor: cursor}, nil
}

// FindBookingByID finds a booking by its ID.
func (c *MongoBookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}
	var booking models.Booking
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("booking not found")
		}
		return nil, err
	}
	return &booking, nil
}

// UpdateBooking updates a booking by its ID.
func (c *MongoBookingCollection) UpdateBooking(ctx context.Context, id string, booking models.Booking) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid booking ID: %w", err)
	}
	booking.ID = objectID
	booking.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": booking})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}

// DeleteBooking deletes a booking by its ID. The booking's drive log, if
// any, is left in place: logs are deleted independently of their booking.
func (c *MongoBookingCollection) DeleteBooking(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid booking ID: %w", err)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}
