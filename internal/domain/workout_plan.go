package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan represents a named, ordered collection of exercise
// prescriptions. A plan is either a personal plan of its owner or, when
// IsTemplate is set, a reusable public template. Only professionals and
// admins may create templates; the flag is forced to false for everyone
// else.
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Level       Level              `bson:"level" json:"level"`
	IsTemplate  bool               `bson:"isTemplate" json:"isTemplate"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"` // Creator; authorization anchor
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Populated on reads, items ordered ascending by Order.
	Items []PlanItem    `bson:"-" json:"items,omitempty"`
	Owner *OwnerSummary `bson:"-" json:"owner,omitempty"`
}

// PlanItem is one exercise's prescription within a plan. Items belong
// exclusively to their plan: they are deleted with it and wholesale-replaced
// when the plan's item list is updated. Duplicate Order values are
// tolerated; display order is Order ascending.
type PlanItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID      primitive.ObjectID `bson:"planId" json:"planId"`
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Sets        int                `bson:"sets" json:"sets"`
	Reps        int                `bson:"reps" json:"reps"`
	Load        float64            `bson:"load,omitempty" json:"load,omitempty"` // kg, optional
	RestSeconds int                `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Order       int                `bson:"order" json:"order"`

	Exercise *ExerciseSummary `bson:"-" json:"exercise,omitempty"`
}

// PlanItemInput is the caller-supplied prescription used on plan create,
// item-list replace and single-item append.
type PlanItemInput struct {
	ExerciseID  primitive.ObjectID
	Sets        int
	Reps        int
	Load        float64
	RestSeconds int
	Order       int
}

// PlanSummary is the denormalized template info attached to sessions that
// were created from a plan.
type PlanSummary struct {
	Name  string `bson:"name" json:"name"`
	Level Level  `bson:"level" json:"level"`
}
