package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adityavermaa/sahayata-backend/internal/database"
	"github.com/adityavermaa/sahayata-backend/internal/models"
)

const deliveryLogCollection = "delivery_log"

// MongoDeliveryLog persists per-broadcast delivery outcomes to MongoDB.
type MongoDeliveryLog struct{}

// Record implements DeliveryLogger.
func (MongoDeliveryLog) Record(ctx context.Context, rec models.DeliveryRecord) error {
	_, err := database.MongoDB.Collection(deliveryLogCollection).InsertOne(ctx, rec)
	return err
}

// RecentDeliveries returns the newest delivery records, newest-first.
func RecentDeliveries(ctx context.Context, limit int64) ([]models.DeliveryRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.M{"started_at": -1}).
		SetLimit(limit)

	cursor, err := database.MongoDB.Collection(deliveryLogCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]models.DeliveryRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
