package service

import (
	"context"
	"errors"
	"fmt"

	"fitvida/workout-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidExerciseRef marks a reference to an exercise the catalog does
// not know. Wrapped errors name the offending ID.
var ErrInvalidExerciseRef = errors.New("invalid exercise reference")

// ExerciseCatalog is the narrow contract the rest of the system consumes
// from the exercise module: existence checks and display summaries.
type ExerciseCatalog interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	Describe(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseSummary, error)
}

// ExerciseReferenceValidator checks that exercise IDs referenced by plan
// items and session results exist in the catalog at write time.
type ExerciseReferenceValidator struct {
	catalog ExerciseCatalog
}

func NewExerciseReferenceValidator(catalog ExerciseCatalog) *ExerciseReferenceValidator {
	return &ExerciseReferenceValidator{catalog: catalog}
}

// Validate checks a single exercise reference.
func (v *ExerciseReferenceValidator) Validate(ctx context.Context, id primitive.ObjectID) error {
	exists, err := v.catalog.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: exercise %s does not exist", ErrInvalidExerciseRef, id.Hex())
	}
	return nil
}

// ValidateAll checks the given IDs in order and fails on the first one the
// catalog does not resolve. Fail-fast, not fail-complete: the loop is kept
// flat so collecting all invalid IDs instead stays a local change.
func (v *ExerciseReferenceValidator) ValidateAll(ctx context.Context, ids []primitive.ObjectID) error {
	for _, id := range ids {
		if err := v.Validate(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
