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
	planCollectionName     = "workout_plans"
	planItemCollectionName = "plan_items"
)

// mongoWorkoutPlanRepository implements repository.WorkoutPlanRepository.
// Plan headers and items live in separate collections; every write touching
// both goes through a transaction.
type mongoWorkoutPlanRepository struct {
	db    *mongo.Database
	plans *mongo.Collection
	items *mongo.Collection
}

// NewMongoWorkoutPlanRepository creates a new WorkoutPlan repository backed by MongoDB.
func NewMongoWorkoutPlanRepository(db *mongo.Database) repository.WorkoutPlanRepository {
	return &mongoWorkoutPlanRepository{
		db:    db,
		plans: db.Collection(planCollectionName),
		items: db.Collection(planItemCollectionName),
	}
}

// itemDocs maps caller-supplied prescriptions to insertable item documents,
// preserving the given order values.
func itemDocs(planID primitive.ObjectID, items []domain.PlanItemInput) []interface{} {
	docs := make([]interface{}, len(items))
	for i, it := range items {
		docs[i] = domain.PlanItem{
			ID:          primitive.NewObjectID(),
			PlanID:      planID,
			ExerciseID:  it.ExerciseID,
			Sets:        it.Sets,
			Reps:        it.Reps,
			Load:        it.Load,
			RestSeconds: it.RestSeconds,
			Order:       it.Order,
		}
	}
	return docs
}

// Create inserts the plan header and all its items in one transaction.
func (r *mongoWorkoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan, items []domain.PlanItemInput) (primitive.ObjectID, error) {
	if plan.Name == "" || plan.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires name and ownerId")
	}

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	err := withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.plans.InsertOne(sc, plan); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		_, err := r.items.InsertMany(sc, itemDocs(plan.ID, items))
		return err
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return plan.ID, nil
}

// GetByID retrieves a plan header by its ID.
func (r *mongoWorkoutPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	err := r.plans.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetItems retrieves a plan's items ordered ascending by their order field.
func (r *mongoWorkoutPlanRepository) GetItems(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanItem, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.items.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []domain.PlanItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItemsForPlans retrieves the items of all given plans with a single
// query, grouped by plan and ordered ascending within each.
func (r *mongoWorkoutPlanRepository) GetItemsForPlans(ctx context.Context, planIDs []primitive.ObjectID) ([]domain.PlanItem, error) {
	if len(planIDs) == 0 {
		return []domain.PlanItem{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "planId", Value: 1}, {Key: "order", Value: 1}})
	cursor, err := r.items.Find(ctx, bson.M{"planId": bson.M{"$in": planIDs}}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []domain.PlanItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update persists plan header fields. Items are managed separately.
func (r *mongoWorkoutPlanRepository) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}

	updateDoc := bson.M{
		"$set": bson.M{
			"name":        plan.Name,
			"description": plan.Description,
			"level":       plan.Level,
			"isTemplate":  plan.IsTemplate,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.plans.UpdateOne(ctx, bson.M{"_id": plan.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the plan's items and then the header in one transaction,
// so no orphaned items survive the plan.
func (r *mongoWorkoutPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.items.DeleteMany(sc, bson.M{"planId": id}); err != nil {
			return err
		}
		result, err := r.plans.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if result.DeletedCount == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// List retrieves plans matching the filter, sorted by name ascending,
// paginated.
func (r *mongoWorkoutPlanRepository) List(ctx context.Context, filter repository.PlanFilter, page, limit int) ([]domain.WorkoutPlan, int64, error) {
	query := bson.M{}
	if filter.Level != nil {
		query["level"] = *filter.Level
	}
	if filter.OwnerID != nil {
		query["ownerId"] = *filter.OwnerID
	}
	if filter.IsTemplate != nil {
		query["isTemplate"] = *filter.IsTemplate
	}

	total, err := r.plans.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.plans.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var plans []domain.WorkoutPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// SyncItems wholesale-replaces the plan's item list: delete-all then
// insert-all inside one transaction. It is an overwrite, not a merge; the
// caller-supplied order values are written as given.
func (r *mongoWorkoutPlanRepository) SyncItems(ctx context.Context, planID primitive.ObjectID, items []domain.PlanItemInput) error {
	return withTransaction(ctx, r.db, func(sc mongo.SessionContext) error {
		if _, err := r.items.DeleteMany(sc, bson.M{"planId": planID}); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		_, err := r.items.InsertMany(sc, itemDocs(planID, items))
		return err
	})
}

// AddItem appends a single item to the plan, leaving existing items alone.
func (r *mongoWorkoutPlanRepository) AddItem(ctx context.Context, planID primitive.ObjectID, item domain.PlanItemInput) error {
	docs := itemDocs(planID, []domain.PlanItemInput{item})
	_, err := r.items.InsertOne(ctx, docs[0])
	return err
}

// RemoveItem deletes items matching (planID, exerciseID) and reports how
// many were removed. The caller treats zero as not-found.
func (r *mongoWorkoutPlanRepository) RemoveItem(ctx context.Context, planID, exerciseID primitive.ObjectID) (int64, error) {
	result, err := r.items.DeleteMany(ctx, bson.M{"planId": planID, "exerciseId": exerciseID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureWorkoutPlanIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutPlanIndexes(ctx context.Context, plans, items *mongo.Collection) error {
	planIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "isTemplate", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := plans.Indexes().CreateMany(ctx, planIndexes); err != nil {
		return err
	}

	itemIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "order", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := items.Indexes().CreateMany(ctx, itemIndexes)
	return err
}
