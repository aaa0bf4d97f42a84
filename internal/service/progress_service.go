package service

import (
	"context"
	"errors"
	"time"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/events"
	"fitvida/workout-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound     = errors.New("training session not found")
	ErrSessionAccessDenied = errors.New("user does not have permission to access this training session")
	ErrSessionInvalid      = errors.New("training session validation failed")
	ErrInvalidPlanRef      = errors.New("referenced workout plan does not exist")
)

// PlanFinder is the narrow read-only view of the plan module the progress
// module consumes. Keeping it this thin avoids a dependency cycle between
// the two managers.
type PlanFinder interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
}

// SessionInput carries a full session record: header plus per-exercise
// results. Results are write-once; there is no result update path.
type SessionInput struct {
	PlanID          *primitive.ObjectID
	StartedAt       time.Time
	DurationSeconds int
	Status          domain.SessionStatus
	Notes           string
	Results         []domain.SessionResultInput
}

// SessionUpdateInput carries the header fields that may change after the
// fact. Nil fields keep their stored value; the recorded results stay as
// they were either way.
type SessionUpdateInput struct {
	StartedAt       *time.Time
	DurationSeconds *int
	Status          domain.SessionStatus
	Notes           *string
}

// ListSessionsFilter narrows a user's session history.
type ListSessionsFilter struct {
	PlanID   *primitive.ObjectID
	Status   *domain.SessionStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// --- Service Interface ---

// ProgressService manages training session records and their results.
type ProgressService interface {
	CreateSession(ctx context.Context, caller Caller, input SessionInput) (*domain.ProgressSession, error)
	GetSession(ctx context.Context, caller Caller, id primitive.ObjectID) (*domain.ProgressSession, error)
	UpdateSession(ctx context.Context, caller Caller, id primitive.ObjectID, input SessionUpdateInput) (*domain.ProgressSession, error)
	DeleteSession(ctx context.Context, caller Caller, id primitive.ObjectID) error
	ListSessions(ctx context.Context, caller Caller, filter ListSessionsFilter, page, limit int) ([]domain.ProgressSession, int64, error)
}

// --- Service Implementation ---

type progressService struct {
	progressRepo repository.ProgressRepository
	planFinder   PlanFinder
	catalog      ExerciseCatalog
	validator    *ExerciseReferenceValidator
	policy       AuthorizationPolicy
	bus          *events.Bus
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	planFinder PlanFinder,
	catalog ExerciseCatalog,
	policy AuthorizationPolicy,
	bus *events.Bus,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		planFinder:   planFinder,
		catalog:      catalog,
		validator:    NewExerciseReferenceValidator(catalog),
		policy:       policy,
		bus:          bus,
	}
}

func validSessionStatus(s domain.SessionStatus) bool {
	switch s {
	case domain.SessionInProgress, domain.SessionConcluded, domain.SessionCancelled:
		return true
	}
	return false
}

func resultExerciseIDs(results []domain.SessionResultInput) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ExerciseID)
	}
	return ids
}

// CreateSession records a training session for the caller. All exercise
// references and the optional plan reference are validated before anything
// is written; header and results land atomically. On success a completion
// event is published without waiting on any consumer.
func (s *progressService) CreateSession(ctx context.Context, caller Caller, input SessionInput) (*domain.ProgressSession, error) {
	if input.Status == "" {
		input.Status = domain.SessionConcluded
	}
	if !validSessionStatus(input.Status) || input.DurationSeconds < 0 {
		return nil, ErrSessionInvalid
	}

	if err := s.validator.ValidateAll(ctx, resultExerciseIDs(input.Results)); err != nil {
		return nil, err
	}
	if input.PlanID != nil {
		if _, err := s.planFinder.GetByID(ctx, *input.PlanID); err != nil {
			if errors.Is(err, ErrPlanNotFound) {
				return nil, ErrInvalidPlanRef
			}
			return nil, err
		}
	}

	session := &domain.ProgressSession{
		OwnerID:         caller.ID,
		PlanID:          input.PlanID,
		StartedAt:       input.StartedAt,
		DurationSeconds: input.DurationSeconds,
		Status:          input.Status,
		Notes:           input.Notes,
	}

	sessionID, err := s.progressRepo.Create(ctx, session, input.Results)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.SessionCompleted{
		OwnerID:         caller.ID,
		SessionID:       sessionID,
		DurationSeconds: input.DurationSeconds,
		Status:          input.Status,
		OccurredAt:      time.Now(),
	})

	return s.GetSession(ctx, caller, sessionID)
}

// GetSession retrieves a session with its results, each result carrying its
// exercise summary, plus the originating plan's summary when it still exists.
func (s *progressService) GetSession(ctx context.Context, caller Caller, id primitive.ObjectID) (*domain.ProgressSession, error) {
	session, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !s.policy.CanMutate(session.OwnerID, caller.ID, caller.Role) {
		return nil, ErrSessionAccessDenied
	}

	results, err := s.progressRepo.GetResults(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range results {
		summary, err := s.catalog.Describe(ctx, results[i].ExerciseID)
		if err != nil {
			if errors.Is(err, ErrExerciseNotFound) {
				continue
			}
			return nil, err
		}
		results[i].Exercise = summary
	}
	session.Results = results

	if session.PlanID != nil {
		plan, err := s.planFinder.GetByID(ctx, *session.PlanID)
		switch {
		case err == nil:
			session.Plan = &domain.PlanSummary{Name: plan.Name, Level: plan.Level}
		case errors.Is(err, ErrPlanNotFound):
			// Plan was deleted after the session; the record stands on its own.
		default:
			return nil, err
		}
	}

	return session, nil
}

// UpdateSession patches header fields of an existing session; fields the
// caller left unset keep their stored values. Only the owner or an admin may
// update; results are immutable.
func (s *progressService) UpdateSession(ctx context.Context, caller Caller, id primitive.ObjectID, input SessionUpdateInput) (*domain.ProgressSession, error) {
	if !validSessionStatus(input.Status) {
		return nil, ErrSessionInvalid
	}
	if input.DurationSeconds != nil && *input.DurationSeconds < 0 {
		return nil, ErrSessionInvalid
	}

	session, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !s.policy.CanMutate(session.OwnerID, caller.ID, caller.Role) {
		return nil, ErrSessionAccessDenied
	}

	if input.StartedAt != nil {
		session.StartedAt = *input.StartedAt
	}
	if input.DurationSeconds != nil {
		session.DurationSeconds = *input.DurationSeconds
	}
	if input.Notes != nil {
		session.Notes = *input.Notes
	}
	session.Status = input.Status
	if err := s.progressRepo.Update(ctx, session); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return s.GetSession(ctx, caller, id)
}

// DeleteSession removes the session and all its results.
func (s *progressService) DeleteSession(ctx context.Context, caller Caller, id primitive.ObjectID) error {
	session, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if !s.policy.CanMutate(session.OwnerID, caller.ID, caller.Role) {
		return ErrSessionAccessDenied
	}

	if err := s.progressRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// ListSessions retrieves the caller's own session history, newest first.
func (s *progressService) ListSessions(ctx context.Context, caller Caller, filter ListSessionsFilter, page, limit int) ([]domain.ProgressSession, int64, error) {
	repoFilter := repository.SessionFilter{
		PlanID:   filter.PlanID,
		Status:   filter.Status,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	}
	return s.progressRepo.List(ctx, caller.ID, repoFilter, page, limit)
}
