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

const (
	sessionCollectionName = "progress_sessions"
	resultCollectionName  = "session_results"
)

// mongoProgressRepository implements repository.ProgressRepository. Session
// headers and per-exercise results live in separate collections; creation
// and deletion touch both inside a transaction.
type mongoProgressRepository struct {
	db       *mongo.Database
	sessions *mongo.Collection
	results  *mongo.Collection
}

// NewMongoProgressRepository creates a new Progress repository backed by MongoDB.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		db:       db,
		sessions: db.Collection(sessionCollectionName),
		results:  db.Collection(resultCollectionName),
	}
}

// Create inserts the session header and all results in one transaction.
func (r *mongoProgressRepository) Create(ctx context.Context, session *domain.ProgressSession, results []domain.SessionResultInput) (primitive.ObjectID, error) {
	if session.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires ownerId")
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	if session.StartedAt.IsZero() {
		session.StartedAt = now
	}

	docs := make([]interface{}, len(results))
	for i, res := range results {
		docs[i] = domain.SessionResult{
			ID:         primitive.NewObjectID(),
			SessionID:  session.ID,
			ExerciseID: res.ExerciseID,
			SetsDone:   res.SetsDone,
			RepsDone:   res.RepsDone,
			Load:       res.Load,
			Notes:      res.Notes,
		}
	}

	err := withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.sessions.InsertOne(sc, session); err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		_, err := r.results.InsertMany(sc, docs)
		return err
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return session.ID, nil
}

// GetByID retrieves a session header by its ID.
func (r *mongoProgressRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressSession, error) {
	var session domain.ProgressSession
	err := r.sessions.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetResults retrieves the per-exercise results of a session.
func (r *mongoProgressRepository) GetResults(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionResult, error) {
	cursor, err := r.results.Find(ctx, bson.M{"sessionId": sessionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []domain.SessionResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// Update persists session header fields only.
func (r *mongoProgressRepository) Update(ctx context.Context, session *domain.ProgressSession) error {
	if session.ID == primitive.NilObjectID {
		return errors.New("session ID is required for update")
	}

	updateDoc := bson.M{
		"$set": bson.M{
			"startedAt":       session.StartedAt,
			"durationSeconds": session.DurationSeconds,
			"status":          session.Status,
			"notes":           session.Notes,
			"updatedAt":       time.Now().UTC(),
		},
	}

	result, err := r.sessions.UpdateOne(ctx, bson.M{"_id": session.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the session's results and then the header in one
// transaction. ErrNotFound when the header row is already gone.
func (r *mongoProgressRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.results.DeleteMany(sc, bson.M{"sessionId": id}); err != nil {
			return err
		}
		result, err := r.sessions.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// List retrieves the owner's session history, newest start first, paginated.
// The date range applies to startedAt, inclusive on both ends.
func (r *mongoProgressRepository) List(ctx context.Context, ownerID primitive.ObjectID, filter repository.SessionFilter, page, limit int) ([]domain.ProgressSession, int64, error) {
	query := bson.M{"ownerId": ownerID}
	if filter.PlanID != nil {
		query["planId"] = *filter.PlanID
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		dateRange := bson.M{}
		if filter.DateFrom != nil {
			dateRange["$gte"] = *filter.DateFrom
		}
		if filter.DateTo != nil {
			dateRange["$lte"] = *filter.DateTo
		}
		query["startedAt"] = dateRange
	}

	total, err := r.sessions.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.sessions.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var sessions []domain.ProgressSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// PerformanceStats aggregates session count, total duration and total
// completed sets over the owner's CONCLUIDO sessions. No caching: this runs
// the pipeline on every call.
func (r *mongoProgressRepository) PerformanceStats(ctx context.Context, ownerID primitive.ObjectID) (*domain.PerformanceStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"ownerId": ownerID,
			"status":  domain.SessionConcluded,
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         resultCollectionName,
			"localField":   "_id",
			"foreignField": "sessionId",
			"as":           "results",
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":                  nil,
			"sessionsTotal":        bson.M{"$sum": 1},
			"totalDurationSeconds": bson.M{"$sum": "$durationSeconds"},
			"totalSetsCompleted":   bson.M{"$sum": bson.M{"$sum": "$results.setsDone"}},
		}}},
	}

	cursor, err := r.sessions.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []domain.PerformanceStats
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// No concluded sessions: zeroes, never nulls.
		return &domain.PerformanceStats{}, nil
	}
	return &rows[0], nil
}

// EnsureProgressIndexes creates necessary indexes. Call during startup.
func EnsureProgressIndexes(ctx context.Context, sessions, results *mongo.Collection) error {
	sessionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := sessions.Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return err
	}

	resultIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := results.Indexes().CreateMany(ctx, resultIndexes)
	return err
}
