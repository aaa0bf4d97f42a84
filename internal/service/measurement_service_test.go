package service

import (
	"context"
	"testing"
	"time"

	"fitvida/workout-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateMeasurementWeightRequiresKg(t *testing.T) {
	svc := NewMeasurementService(&fakeMeasurementRepo{})
	caller := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}

	_, err := svc.Create(context.Background(), caller, MeasurementInput{
		Type:  domain.MeasurementWeight,
		Value: 176,
		Unit:  "lb",
	})
	assert.ErrorIs(t, err, ErrWeightUnit)

	measurement, err := svc.Create(context.Background(), caller, MeasurementInput{
		Type:  domain.MeasurementWeight,
		Value: 80,
		Unit:  domain.WeightUnit,
	})
	require.NoError(t, err)
	assert.Equal(t, "kg", measurement.Unit)
	assert.False(t, measurement.ID.IsZero())
}

func TestCreateMeasurementOtherTypesKeepTheirUnit(t *testing.T) {
	svc := NewMeasurementService(&fakeMeasurementRepo{})
	caller := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}

	measurement, err := svc.Create(context.Background(), caller, MeasurementInput{
		Type:       domain.MeasurementCircumference,
		Value:      92.5,
		Unit:       "cm",
		RecordedAt: time.Now(),
	})

	require.NoError(t, err)
	assert.Equal(t, "cm", measurement.Unit)
}

func TestCreateMeasurementRejectsInvalidInput(t *testing.T) {
	svc := NewMeasurementService(&fakeMeasurementRepo{})
	caller := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}

	_, err := svc.Create(context.Background(), caller, MeasurementInput{
		Type:  domain.MeasurementType("HEIGHT"),
		Value: 180,
		Unit:  "cm",
	})
	assert.ErrorIs(t, err, ErrMeasurementInvalid)

	_, err = svc.Create(context.Background(), caller, MeasurementInput{
		Type:  domain.MeasurementBodyFat,
		Value: 0,
		Unit:  "%",
	})
	assert.ErrorIs(t, err, ErrMeasurementInvalid)
}

func TestDeleteMeasurementScopedToOwner(t *testing.T) {
	repo := &fakeMeasurementRepo{}
	svc := NewMeasurementService(repo)
	owner := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}

	measurement, err := svc.Create(context.Background(), owner, MeasurementInput{
		Type:  domain.MeasurementWeight,
		Value: 80,
		Unit:  domain.WeightUnit,
	})
	require.NoError(t, err)

	// Another user deleting by the same ID sees not found, nothing more.
	stranger := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}
	err = svc.Delete(context.Background(), stranger, measurement.ID)
	assert.ErrorIs(t, err, ErrMeasurementNotFound)

	err = svc.Delete(context.Background(), owner, measurement.ID)
	require.NoError(t, err)

	remaining, err := svc.List(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
