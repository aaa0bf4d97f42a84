package service

import (
	"context"
	"errors"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrExerciseNameTaken = errors.New("an exercise with this name already exists")
	ErrExerciseInvalid   = errors.New("exercise validation failed")
)

// ExerciseInput carries the catalog fields for create and update.
type ExerciseInput struct {
	Name           string
	Description    string
	MuscleGroup    domain.MuscleGroup
	SubMuscleGroup string
	Equipment      string
	MediaURL       string
}

// --- Service Interface ---

// ExerciseService manages the shared exercise catalog. It also satisfies
// the ExerciseCatalog contract consumed by the plan and progress managers.
type ExerciseService interface {
	ExerciseCatalog

	Create(ctx context.Context, input ExerciseInput) (*domain.Exercise, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	List(ctx context.Context, muscleGroup *domain.MuscleGroup, page, limit int) ([]domain.Exercise, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// --- Service Implementation ---

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{exerciseRepo: exerciseRepo}
}

func validMuscleGroup(g domain.MuscleGroup) bool {
	switch g {
	case domain.MuscleGroupUpper, domain.MuscleGroupCore, domain.MuscleGroupLower, domain.MuscleGroupFullBody:
		return true
	}
	return false
}

// Create adds a new exercise to the catalog.
func (s *exerciseService) Create(ctx context.Context, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" || !validMuscleGroup(input.MuscleGroup) {
		return nil, ErrExerciseInvalid
	}

	exercise := &domain.Exercise{
		Name:           input.Name,
		Description:    input.Description,
		MuscleGroup:    input.MuscleGroup,
		SubMuscleGroup: input.SubMuscleGroup,
		Equipment:      input.Equipment,
		MediaURL:       input.MediaURL,
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrExerciseNameTaken
		}
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, id)
}

// GetByID retrieves a single exercise.
func (s *exerciseService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// List retrieves catalog exercises with an optional muscle-group filter.
func (s *exerciseService) List(ctx context.Context, muscleGroup *domain.MuscleGroup, page, limit int) ([]domain.Exercise, int64, error) {
	return s.exerciseRepo.List(ctx, repository.ExerciseFilter{MuscleGroup: muscleGroup}, page, limit)
}

// Update modifies an existing catalog entry.
func (s *exerciseService) Update(ctx context.Context, id primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if input.Name == "" || !validMuscleGroup(input.MuscleGroup) {
		return nil, ErrExerciseInvalid
	}

	exercise, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exercise.Name = input.Name
	exercise.Description = input.Description
	exercise.MuscleGroup = input.MuscleGroup
	exercise.SubMuscleGroup = input.SubMuscleGroup
	exercise.Equipment = input.Equipment
	exercise.MediaURL = input.MediaURL

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrExerciseNameTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// Delete removes an exercise from the catalog. References held by existing
// plan items or session results are left dangling on purpose; validity is
// only guaranteed at write time.
func (s *exerciseService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// === ExerciseCatalog contract ===

// Exists reports whether the given exercise ID resolves in the catalog.
func (s *exerciseService) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.exerciseRepo.Exists(ctx, id)
}

// Describe returns the display summary for the given exercise ID.
func (s *exerciseService) Describe(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseSummary, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	summary := exercise.Summary()
	return &summary, nil
}
