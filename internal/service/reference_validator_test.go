package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidateUnknownReference(t *testing.T) {
	catalog := newFakeCatalog(exerciseSummary("Supino reto"))
	validator := NewExerciseReferenceValidator(catalog)

	unknown := primitive.NewObjectID()
	err := validator.Validate(context.Background(), unknown)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidExerciseRef)
	assert.Contains(t, err.Error(), unknown.Hex())
}

func TestValidateAllStopsAtFirstUnknown(t *testing.T) {
	known := exerciseSummary("Agachamento")
	catalog := newFakeCatalog(known)
	validator := NewExerciseReferenceValidator(catalog)

	badFirst := primitive.NewObjectID()
	badSecond := primitive.NewObjectID()
	err := validator.ValidateAll(context.Background(), []primitive.ObjectID{known.ID, badFirst, badSecond})

	require.Error(t, err)
	assert.Contains(t, err.Error(), badFirst.Hex())
	// The second bad reference is never checked.
	assert.Equal(t, []primitive.ObjectID{known.ID, badFirst}, catalog.existsLog)
}

func TestValidateAllAcceptsAllKnown(t *testing.T) {
	first := exerciseSummary("Remada curvada")
	second := exerciseSummary("Prancha")
	catalog := newFakeCatalog(first, second)
	validator := NewExerciseReferenceValidator(catalog)

	err := validator.ValidateAll(context.Background(), []primitive.ObjectID{first.ID, second.ID})
	assert.NoError(t, err)
}
