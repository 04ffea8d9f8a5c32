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

// MongoOvertimeCollection implements OvertimeCollection for MongoDB.
type MongoOvertimeCollection struct {
	Collection *mongo.Collection
}

// InsertOvertime inserts an overtime application and returns its assigned id.
func (c *MongoOvertimeCollection) InsertOvertime(ctx context.Context, app models.OvertimeApplication) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	app.ID = primitive.NewObjectID()
	app.CreatedAt = time.Now()
	app.UpdatedAt = time.Now()
	if _, err := c.Collection.InsertOne(ctx, app); err != nil {
		return "", err
	}
	return app.ID.Hex(), nil
}

// FindOvertime queries overtime applications from the collection.
func (c *MongoOvertimeCollection) FindOvertime(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cursor: cursor}, nil
}

// FindOvertimeByID finds an overtime application by its ID.
func (c *MongoOvertimeCollection) FindOvertimeByID(ctx context.Context, id string) (*models.OvertimeApplication, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid overtime ID: %w", err)
	}
	var app models.OvertimeApplication
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&app)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("overtime application not found")
		}
		return nil, err
	}
	return &app, nil
}

// UpdateOvertime updates an overtime application by its ID. Approval stage
// toggles go through this same path: last write wins.
func (c *MongoOvertimeCollection) UpdateOvertime(ctx context.Context, id string, app models.OvertimeApplication) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid overtime ID: %w", err)
	}
	app.ID = objectID
	app.UpdatedAt = time.Now()
	result, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, app)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("overtime application not found")
	}
	return nil
}

// DeleteOvertime deletes an overtime application by its ID.
func (c *MongoOvertimeCollection) DeleteOvertime(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid overtime ID: %w", err)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("overtime application not found")
	}
	return nil
}
