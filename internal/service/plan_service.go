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
	ErrPlanNotFound     = errors.New("workout plan not found")
	ErrPlanAccessDenied = errors.New("user does not have permission to modify this workout plan")
	ErrPlanInvalid      = errors.New("workout plan validation failed")
	ErrPlanItemNotFound = errors.New("exercise is not part of this workout plan")
)

// Caller identifies the authenticated user on whose behalf a service
// operation runs. Handlers build it from the JWT claims.
type Caller struct {
	ID   primitive.ObjectID
	Role domain.Role
}

// PlanInput carries the plan header and item list for create and update. On
// update a nil Items leaves the stored list untouched; a non-nil list (empty
// included) is a wholesale replacement, never a merge.
type PlanInput struct {
	Name        string
	Description string
	Level       domain.Level
	IsTemplate  bool
	Items       []domain.PlanItemInput
}

// ListPlansFilter narrows plan listings. When no field is set the listing
// defaults to public templates only.
type ListPlansFilter struct {
	Level      *domain.Level
	OwnerID    *primitive.ObjectID
	IsTemplate *bool
}

// --- Service Interface ---

// WorkoutPlanService manages workout plans and their exercise prescriptions.
type WorkoutPlanService interface {
	Create(ctx context.Context, caller Caller, input PlanInput) (*domain.WorkoutPlan, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, caller Caller, id primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error)
	Delete(ctx context.Context, caller Caller, id primitive.ObjectID) error
	List(ctx context.Context, filter ListPlansFilter, page, limit int) ([]domain.WorkoutPlan, int64, error)
	AddItem(ctx context.Context, caller Caller, planID primitive.ObjectID, item domain.PlanItemInput) (*domain.WorkoutPlan, error)
	RemoveItem(ctx context.Context, caller Caller, planID, exerciseID primitive.ObjectID) error
}

// --- Service Implementation ---

type workoutPlanService struct {
	planRepo  repository.WorkoutPlanRepository
	userRepo  repository.UserRepository
	catalog   ExerciseCatalog
	validator *ExerciseReferenceValidator
	policy    AuthorizationPolicy
}

// NewWorkoutPlanService creates a new instance of workoutPlanService.
func NewWorkoutPlanService(
	planRepo repository.WorkoutPlanRepository,
	userRepo repository.UserRepository,
	catalog ExerciseCatalog,
	policy AuthorizationPolicy,
) WorkoutPlanService {
	return &workoutPlanService{
		planRepo:  planRepo,
		userRepo:  userRepo,
		catalog:   catalog,
		validator: NewExerciseReferenceValidator(catalog),
		policy:    policy,
	}
}

func validLevel(l domain.Level) bool {
	switch l {
	case domain.LevelBeginner, domain.LevelIntermediate, domain.LevelAdvanced:
		return true
	}
	return false
}

func itemExerciseIDs(items []domain.PlanItemInput) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ExerciseID)
	}
	return ids
}

// templateFlag applies the template rule: only professionals and admins may
// mark a plan as a template. For everyone else the flag is silently dropped,
// on create and on update alike.
func templateFlag(requested bool, role domain.Role) bool {
	if role == domain.RoleProfessional || role == domain.RoleAdmin {
		return requested
	}
	return false
}

// Create validates all exercise references up front, then persists the plan
// header and its items atomically. A plan is never observable with only part
// of its item list.
func (s *workoutPlanService) Create(ctx context.Context, caller Caller, input PlanInput) (*domain.WorkoutPlan, error) {
	if input.Name == "" || !validLevel(input.Level) {
		return nil, ErrPlanInvalid
	}
	if err := s.validator.ValidateAll(ctx, itemExerciseIDs(input.Items)); err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		Name:        input.Name,
		Description: input.Description,
		Level:       input.Level,
		IsTemplate:  templateFlag(input.IsTemplate, caller.Role),
		OwnerID:     caller.ID,
	}

	planID, err := s.planRepo.Create(ctx, plan, input.Items)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, planID)
}

// GetByID retrieves a plan with its ordered items, each item carrying its
// exercise summary, plus the owner's display info.
func (s *workoutPlanService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	items, err := s.planRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if err := s.attachExercise(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	plan.Items = items

	if owner, err := s.userRepo.GetByID(ctx, plan.OwnerID); err == nil {
		plan.Owner = &domain.OwnerSummary{Name: owner.Name, Role: owner.Role}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return plan, nil
}

// attachExercise resolves the item's exercise summary. A reference whose
// exercise has since been removed from the catalog stays nil rather than
// failing the whole read.
func (s *workoutPlanService) attachExercise(ctx context.Context, item *domain.PlanItem) error {
	summary, err := s.catalog.Describe(ctx, item.ExerciseID)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			return nil
		}
		return err
	}
	item.Exercise = summary
	return nil
}

// Update modifies the plan header and, when an item list was supplied,
// wholesale-replaces the items. A request without an item list is a
// header-only update and never touches the stored items. Only the owner or
// an admin may update. Invalid exercise references fail the whole operation
// before anything is written.
func (s *workoutPlanService) Update(ctx context.Context, caller Caller, id primitive.ObjectID, input PlanInput) (*domain.WorkoutPlan, error) {
	if input.Name == "" || !validLevel(input.Level) {
		return nil, ErrPlanInvalid
	}

	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !s.policy.CanMutate(plan.OwnerID, caller.ID, caller.Role) {
		return nil, ErrPlanAccessDenied
	}

	if input.Items != nil {
		if err := s.validator.ValidateAll(ctx, itemExerciseIDs(input.Items)); err != nil {
			return nil, err
		}
		// Items first: the replacement is transactional, so a fault here
		// leaves the previous list fully intact.
		if err := s.planRepo.SyncItems(ctx, id, input.Items); err != nil {
			return nil, err
		}
	}

	plan.Name = input.Name
	plan.Description = input.Description
	plan.Level = input.Level
	plan.IsTemplate = templateFlag(input.IsTemplate, caller.Role)
	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete removes the plan and all its items. Only the owner or an admin may
// delete. Past sessions that referenced this plan keep their recorded data.
func (s *workoutPlanService) Delete(ctx context.Context, caller Caller, id primitive.ObjectID) error {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if !s.policy.CanMutate(plan.OwnerID, caller.ID, caller.Role) {
		return ErrPlanAccessDenied
	}

	if err := s.planRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// List retrieves plans matching the filter. With no filter at all the
// listing shows the public template library; pass an OwnerID or IsTemplate
// to reach personal plans.
func (s *workoutPlanService) List(ctx context.Context, filter ListPlansFilter, page, limit int) ([]domain.WorkoutPlan, int64, error) {
	repoFilter := repository.PlanFilter{
		Level:      filter.Level,
		OwnerID:    filter.OwnerID,
		IsTemplate: filter.IsTemplate,
	}
	if filter.OwnerID == nil && filter.IsTemplate == nil {
		t := true
		repoFilter.IsTemplate = &t
	}

	plans, total, err := s.planRepo.List(ctx, repoFilter, page, limit)
	if err != nil {
		return nil, 0, err
	}
	if len(plans) == 0 {
		return plans, total, nil
	}

	// One items query for the whole page, then memoized exercise and owner
	// lookups across the page instead of a round trip per row.
	planIDs := make([]primitive.ObjectID, len(plans))
	for i := range plans {
		planIDs[i] = plans[i].ID
	}
	allItems, err := s.planRepo.GetItemsForPlans(ctx, planIDs)
	if err != nil {
		return nil, 0, err
	}

	summaries := make(map[primitive.ObjectID]*domain.ExerciseSummary)
	itemsByPlan := make(map[primitive.ObjectID][]domain.PlanItem, len(plans))
	for _, item := range allItems {
		summary, seen := summaries[item.ExerciseID]
		if !seen {
			summary, err = s.catalog.Describe(ctx, item.ExerciseID)
			if err != nil {
				if !errors.Is(err, ErrExerciseNotFound) {
					return nil, 0, err
				}
				summary = nil
			}
			summaries[item.ExerciseID] = summary
		}
		item.Exercise = summary
		itemsByPlan[item.PlanID] = append(itemsByPlan[item.PlanID], item)
	}

	owners := make(map[primitive.ObjectID]*domain.OwnerSummary)
	for i := range plans {
		plans[i].Items = itemsByPlan[plans[i].ID]

		owner, seen := owners[plans[i].OwnerID]
		if !seen {
			user, err := s.userRepo.GetByID(ctx, plans[i].OwnerID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					return nil, 0, err
				}
			} else {
				owner = &domain.OwnerSummary{Name: user.Name, Role: user.Role}
			}
			owners[plans[i].OwnerID] = owner
		}
		plans[i].Owner = owner
	}
	return plans, total, nil
}

// AddItem appends a single prescription to the plan.
func (s *workoutPlanService) AddItem(ctx context.Context, caller Caller, planID primitive.ObjectID, item domain.PlanItemInput) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if !s.policy.CanMutate(plan.OwnerID, caller.ID, caller.Role) {
		return nil, ErrPlanAccessDenied
	}

	if err := s.validator.Validate(ctx, item.ExerciseID); err != nil {
		return nil, err
	}
	if err := s.planRepo.AddItem(ctx, planID, item); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, planID)
}

// RemoveItem drops every item of the plan referencing the given exercise.
// Removing an exercise the plan does not contain is an error, not a no-op.
func (s *workoutPlanService) RemoveItem(ctx context.Context, caller Caller, planID, exerciseID primitive.ObjectID) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if !s.policy.CanMutate(plan.OwnerID, caller.ID, caller.Role) {
		return ErrPlanAccessDenied
	}

	removed, err := s.planRepo.RemoveItem(ctx, planID, exerciseID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return ErrPlanItemNotFound
	}
	return nil
}
