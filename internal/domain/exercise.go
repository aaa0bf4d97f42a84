package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MuscleGroup is the coarse catalog filter.
type MuscleGroup string

const (
	MuscleGroupUpper    MuscleGroup = "SUPERIOR"
	MuscleGroupCore     MuscleGroup = "CORE"
	MuscleGroupLower    MuscleGroup = "INFERIOR"
	MuscleGroupFullBody MuscleGroup = "FULL_BODY"
)

// Exercise represents a single exercise definition in the shared catalog.
// Plans and progress sessions reference exercises by ID; the reference is
// checked at write time, not enforced by the store afterwards.
type Exercise struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"` // Unique across the catalog
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup    MuscleGroup        `bson:"muscleGroup" json:"muscleGroup"`
	SubMuscleGroup string             `bson:"subMuscleGroup,omitempty" json:"subMuscleGroup,omitempty"` // e.g. "PEITO", "COSTAS"
	Equipment      string             `bson:"equipment,omitempty" json:"equipment,omitempty"`
	MediaURL       string             `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"` // Demo video/image, set via the media upload flow
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseSummary is the denormalized view of an exercise attached to plan
// items and session results for display.
type ExerciseSummary struct {
	ID          primitive.ObjectID `bson:"id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	MuscleGroup MuscleGroup        `bson:"muscleGroup" json:"muscleGroup"`
	MediaURL    string             `bson:"mediaUrl,omitempty" json:"mediaUrl,omitempty"`
}

// Summary builds the display view of this exercise.
func (e *Exercise) Summary() ExerciseSummary {
	return ExerciseSummary{
		ID:          e.ID,
		Name:        e.Name,
		MuscleGroup: e.MuscleGroup,
		MediaURL:    e.MediaURL,
	}
}
