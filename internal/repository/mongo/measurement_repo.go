package mongo

import (
	"context"
	"errors"
	"time"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const measurementCollectionName = "measurements"

// mongoMeasurementRepository implements repository.MeasurementRepository
type mongoMeasurementRepository struct {
	collection *mongo.Collection
}

// NewMongoMeasurementRepository creates a new Measurement repository backed by MongoDB.
func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{
		collection: db.Collection(measurementCollectionName),
	}
}

// Create inserts a new measurement.
func (r *mongoMeasurementRepository) Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error) {
	if measurement.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("measurement requires ownerId")
	}

	measurement.ID = primitive.NewObjectID()
	if measurement.RecordedAt.IsZero() {
		measurement.RecordedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, measurement)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted measurement ID")
	}
	return insertedID, nil
}

// ListByOwner retrieves the owner's measurements, newest first.
func (r *mongoMeasurementRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Measurement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "recordedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	measurements := []domain.Measurement{}
	if err := cursor.All(ctx, &measurements); err != nil {
		return nil, err
	}
	return measurements, nil
}

// Latest retrieves the owner's most recent measurements, capped at limit.
func (r *mongoMeasurementRepository) Latest(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]domain.Measurement, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "recordedAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	measurements := []domain.Measurement{}
	if err := cursor.All(ctx, &measurements); err != nil {
		return nil, err
	}
	return measurements, nil
}

// Delete removes the measurement only when both id and owner match. The
// combined filter doubles as the ownership check.
func (r *mongoMeasurementRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMeasurementIndexes creates necessary indexes. Call during startup.
func EnsureMeasurementIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "recordedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "type", Value: 1}, {Key: "recordedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
