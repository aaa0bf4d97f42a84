package mongo

import (
	"context"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const achievementCollectionName = "achievements"

// mongoAchievementRepository implements repository.AchievementRepository.
// The achievements ledger is written by an external unlock engine; this
// repository only reads it.
type mongoAchievementRepository struct {
	collection *mongo.Collection
}

// NewMongoAchievementRepository creates a new Achievement repository backed by MongoDB.
func NewMongoAchievementRepository(db *mongo.Database) repository.AchievementRepository {
	return &mongoAchievementRepository{
		collection: db.Collection(achievementCollectionName),
	}
}

// ListUnlockedByOwner retrieves the owner's unlocked achievements, newest first.
func (r *mongoAchievementRepository) ListUnlockedByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Achievement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "unlockedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	achievements := []domain.Achievement{}
	if err := cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}
