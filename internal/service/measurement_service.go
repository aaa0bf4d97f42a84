package service

import (
	"context"
	"errors"
	"time"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrMeasurementInvalid  = errors.New("measurement validation failed")
	ErrWeightUnit          = errors.New("weight measurements must be recorded in kg")
)

// MeasurementInput carries a new body metric record.
type MeasurementInput struct {
	Type       domain.MeasurementType
	Value      float64
	Unit       string
	RecordedAt time.Time
}

// --- Service Interface ---

// MeasurementService manages a user's body measurement log. Records are
// append-and-delete only; there is no update path.
type MeasurementService interface {
	Create(ctx context.Context, caller Caller, input MeasurementInput) (*domain.Measurement, error)
	List(ctx context.Context, caller Caller) ([]domain.Measurement, error)
	Delete(ctx context.Context, caller Caller, id primitive.ObjectID) error
}

// --- Service Implementation ---

type measurementService struct {
	measurementRepo repository.MeasurementRepository
}

// NewMeasurementService creates a new instance of measurementService.
func NewMeasurementService(measurementRepo repository.MeasurementRepository) MeasurementService {
	return &measurementService{measurementRepo: measurementRepo}
}

func validMeasurementType(t domain.MeasurementType) bool {
	switch t {
	case domain.MeasurementWeight, domain.MeasurementCircumference, domain.MeasurementBodyFat:
		return true
	}
	return false
}

// Create records a measurement for the caller. WEIGHT entries only accept
// the kg unit so weight history stays directly comparable.
func (s *measurementService) Create(ctx context.Context, caller Caller, input MeasurementInput) (*domain.Measurement, error) {
	if !validMeasurementType(input.Type) || input.Value <= 0 {
		return nil, ErrMeasurementInvalid
	}
	if input.Type == domain.MeasurementWeight && input.Unit != domain.WeightUnit {
		return nil, ErrWeightUnit
	}
	if input.Unit == "" {
		return nil, ErrMeasurementInvalid
	}

	measurement := &domain.Measurement{
		OwnerID:    caller.ID,
		Type:       input.Type,
		Value:      input.Value,
		Unit:       input.Unit,
		RecordedAt: input.RecordedAt,
	}

	id, err := s.measurementRepo.Create(ctx, measurement)
	if err != nil {
		return nil, err
	}
	measurement.ID = id
	return measurement, nil
}

// List returns the caller's measurements, newest first.
func (s *measurementService) List(ctx context.Context, caller Caller) ([]domain.Measurement, error) {
	return s.measurementRepo.ListByOwner(ctx, caller.ID)
}

// Delete removes one of the caller's measurements. The owning filter in the
// repository means a foreign or missing record both come back as not found,
// so a caller learns nothing about other users' data.
func (s *measurementService) Delete(ctx context.Context, caller Caller, id primitive.ObjectID) error {
	if err := s.measurementRepo.Delete(ctx, id, caller.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMeasurementNotFound
		}
		return err
	}
	return nil
}
