package repository

import (
	"context"
	"time"

	"fitvida/workout-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// ExerciseFilter narrows catalog listings.
type ExerciseFilter struct {
	MuscleGroup *domain.MuscleGroup
}

// ExerciseRepository defines the interface for the exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	List(ctx context.Context, filter ExerciseFilter, page, limit int) ([]domain.Exercise, int64, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlanFilter narrows plan listings. A nil IsTemplate combined with a nil
// OwnerID means "templates only" at the service layer; the repository
// applies exactly what it is given.
type PlanFilter struct {
	Level      *domain.Level
	OwnerID    *primitive.ObjectID
	IsTemplate *bool
}

// WorkoutPlanRepository defines the interface for workout plans and their
// items. Multi-document operations (Create, SyncItems, Delete) must be
// atomic: a fault mid-way never leaves a plan observable with a partial
// item list.
type WorkoutPlanRepository interface {
	// Create inserts the plan header and all items in one transaction.
	Create(ctx context.Context, plan *domain.WorkoutPlan, items []domain.PlanItemInput) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	// GetItems returns the plan's items ordered ascending by their order field.
	GetItems(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanItem, error)
	// GetItemsForPlans returns the items of every given plan in one query,
	// ordered by plan and then ascending by order field.
	GetItemsForPlans(ctx context.Context, planIDs []primitive.ObjectID) ([]domain.PlanItem, error)
	// Update persists header fields only; the items collection is managed
	// through SyncItems/AddItem/RemoveItem.
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	// Delete removes all items and then the header in one transaction.
	// Returns ErrNotFound if the header row is already gone.
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, filter PlanFilter, page, limit int) ([]domain.WorkoutPlan, int64, error)
	// SyncItems replaces the full item list: delete-all then insert-all
	// inside one transaction, preserving the caller-supplied order values.
	SyncItems(ctx context.Context, planID primitive.ObjectID, items []domain.PlanItemInput) error
	AddItem(ctx context.Context, planID primitive.ObjectID, item domain.PlanItemInput) error
	// RemoveItem deletes items matching (planID, exerciseID) and reports how
	// many were removed.
	RemoveItem(ctx context.Context, planID, exerciseID primitive.ObjectID) (int64, error)
}

// SessionFilter narrows session history listings. The date range applies to
// the session start timestamp, inclusive on both ends.
type SessionFilter struct {
	PlanID   *primitive.ObjectID
	Status   *domain.SessionStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// ProgressRepository defines the interface for training session history.
type ProgressRepository interface {
	// Create inserts the session header and all results in one transaction.
	Create(ctx context.Context, session *domain.ProgressSession, results []domain.SessionResultInput) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressSession, error)
	GetResults(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionResult, error)
	// Update persists header fields only; results have no update path.
	Update(ctx context.Context, session *domain.ProgressSession) error
	// Delete removes all results and then the header in one transaction.
	Delete(ctx context.Context, id primitive.ObjectID) error
	// List is always scoped to the owning user; sessions come back newest
	// start first.
	List(ctx context.Context, ownerID primitive.ObjectID, filter SessionFilter, page, limit int) ([]domain.ProgressSession, int64, error)
	// PerformanceStats aggregates over the owner's CONCLUIDO sessions.
	// Counters are zero, never absent, when nothing matches.
	PerformanceStats(ctx context.Context, ownerID primitive.ObjectID) (*domain.PerformanceStats, error)
}

// MeasurementRepository defines the interface for body measurement records.
type MeasurementRepository interface {
	Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error)
	// ListByOwner returns measurements newest first.
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Measurement, error)
	Latest(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]domain.Measurement, error)
	// Delete removes the measurement only when both id and owner match;
	// ErrNotFound otherwise. Ownership check and existence check are the
	// same query on purpose.
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}

// AchievementRepository reads the external achievements ledger.
type AchievementRepository interface {
	ListUnlockedByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Achievement, error)
}
