package service

import (
	"context"
	"sort"
	"time"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the repository interfaces, shared by the service tests.

type fakeCatalog struct {
	known      map[primitive.ObjectID]domain.ExerciseSummary
	existsLog  []primitive.ObjectID
	existsErr  error
}

func newFakeCatalog(summaries ...domain.ExerciseSummary) *fakeCatalog {
	known := make(map[primitive.ObjectID]domain.ExerciseSummary, len(summaries))
	for _, s := range summaries {
		known[s.ID] = s
	}
	return &fakeCatalog{known: known}
}

func (f *fakeCatalog) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.existsLog = append(f.existsLog, id)
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.known[id]
	return ok, nil
}

func (f *fakeCatalog) Describe(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseSummary, error) {
	summary, ok := f.known[id]
	if !ok {
		return nil, ErrExerciseNotFound
	}
	return &summary, nil
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	m := make(map[primitive.ObjectID]*domain.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	user.ID = id
	// Store a copy: a real store serializes the document, so later mutations
	// of the caller's struct must not leak into the persisted record.
	stored := *user
	f.users[id] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

type fakePlanRepo struct {
	plans       map[primitive.ObjectID]*domain.WorkoutPlan
	items       map[primitive.ObjectID][]domain.PlanItem
	lastFilter  repository.PlanFilter
	createCalls int
	syncCalls   int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{
		plans: make(map[primitive.ObjectID]*domain.WorkoutPlan),
		items: make(map[primitive.ObjectID][]domain.PlanItem),
	}
}

func (f *fakePlanRepo) buildItems(planID primitive.ObjectID, inputs []domain.PlanItemInput) []domain.PlanItem {
	items := make([]domain.PlanItem, 0, len(inputs))
	for _, input := range inputs {
		items = append(items, domain.PlanItem{
			ID:          primitive.NewObjectID(),
			PlanID:      planID,
			ExerciseID:  input.ExerciseID,
			Sets:        input.Sets,
			Reps:        input.Reps,
			Load:        input.Load,
			RestSeconds: input.RestSeconds,
			Order:       input.Order,
		})
	}
	return items
}

func (f *fakePlanRepo) Create(ctx context.Context, plan *domain.WorkoutPlan, items []domain.PlanItemInput) (primitive.ObjectID, error) {
	f.createCalls++
	id := primitive.NewObjectID()
	stored := *plan
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.plans[id] = &stored
	f.items[id] = f.buildItems(id, items)
	return id, nil
}

func (f *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *plan
	copied.Items = nil
	copied.Owner = nil
	return &copied, nil
}

func (f *fakePlanRepo) GetItems(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanItem, error) {
	items := append([]domain.PlanItem(nil), f.items[planID]...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items, nil
}

func (f *fakePlanRepo) GetItemsForPlans(ctx context.Context, planIDs []primitive.ObjectID) ([]domain.PlanItem, error) {
	var out []domain.PlanItem
	for _, planID := range planIDs {
		items, _ := f.GetItems(ctx, planID)
		out = append(out, items...)
	}
	return out, nil
}

func (f *fakePlanRepo) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	stored, ok := f.plans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = plan.Name
	stored.Description = plan.Description
	stored.Level = plan.Level
	stored.IsTemplate = plan.IsTemplate
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakePlanRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.plans, id)
	delete(f.items, id)
	return nil
}

func (f *fakePlanRepo) List(ctx context.Context, filter repository.PlanFilter, page, limit int) ([]domain.WorkoutPlan, int64, error) {
	f.lastFilter = filter
	var out []domain.WorkoutPlan
	for _, plan := range f.plans {
		if filter.IsTemplate != nil && plan.IsTemplate != *filter.IsTemplate {
			continue
		}
		if filter.OwnerID != nil && plan.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Level != nil && plan.Level != *filter.Level {
			continue
		}
		out = append(out, *plan)
	}
	return out, int64(len(out)), nil
}

func (f *fakePlanRepo) SyncItems(ctx context.Context, planID primitive.ObjectID, items []domain.PlanItemInput) error {
	f.syncCalls++
	f.items[planID] = f.buildItems(planID, items)
	return nil
}

func (f *fakePlanRepo) AddItem(ctx context.Context, planID primitive.ObjectID, item domain.PlanItemInput) error {
	f.items[planID] = append(f.items[planID], f.buildItems(planID, []domain.PlanItemInput{item})...)
	return nil
}

func (f *fakePlanRepo) RemoveItem(ctx context.Context, planID, exerciseID primitive.ObjectID) (int64, error) {
	var kept []domain.PlanItem
	var removed int64
	for _, item := range f.items[planID] {
		if item.ExerciseID == exerciseID {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	f.items[planID] = kept
	return removed, nil
}

type fakeProgressRepo struct {
	sessions    map[primitive.ObjectID]*domain.ProgressSession
	results     map[primitive.ObjectID][]domain.SessionResult
	stats       domain.PerformanceStats
	createCalls int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{
		sessions: make(map[primitive.ObjectID]*domain.ProgressSession),
		results:  make(map[primitive.ObjectID][]domain.SessionResult),
	}
}

func (f *fakeProgressRepo) Create(ctx context.Context, session *domain.ProgressSession, results []domain.SessionResultInput) (primitive.ObjectID, error) {
	f.createCalls++
	id := primitive.NewObjectID()
	stored := *session
	stored.ID = id
	if stored.StartedAt.IsZero() {
		stored.StartedAt = time.Now()
	}
	f.sessions[id] = &stored

	out := make([]domain.SessionResult, 0, len(results))
	for _, input := range results {
		out = append(out, domain.SessionResult{
			ID:         primitive.NewObjectID(),
			SessionID:  id,
			ExerciseID: input.ExerciseID,
			SetsDone:   input.SetsDone,
			RepsDone:   input.RepsDone,
			Load:       input.Load,
			Notes:      input.Notes,
		})
	}
	f.results[id] = out
	return id, nil
}

func (f *fakeProgressRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgressSession, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *session
	copied.Results = nil
	copied.Plan = nil
	return &copied, nil
}

func (f *fakeProgressRepo) GetResults(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionResult, error) {
	return append([]domain.SessionResult(nil), f.results[sessionID]...), nil
}

func (f *fakeProgressRepo) Update(ctx context.Context, session *domain.ProgressSession) error {
	stored, ok := f.sessions[session.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.StartedAt = session.StartedAt
	stored.DurationSeconds = session.DurationSeconds
	stored.Status = session.Status
	stored.Notes = session.Notes
	return nil
}

func (f *fakeProgressRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.sessions, id)
	delete(f.results, id)
	return nil
}

func (f *fakeProgressRepo) List(ctx context.Context, ownerID primitive.ObjectID, filter repository.SessionFilter, page, limit int) ([]domain.ProgressSession, int64, error) {
	var out []domain.ProgressSession
	for _, session := range f.sessions {
		if session.OwnerID != ownerID {
			continue
		}
		if filter.Status != nil && session.Status != *filter.Status {
			continue
		}
		out = append(out, *session)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, int64(len(out)), nil
}

func (f *fakeProgressRepo) PerformanceStats(ctx context.Context, ownerID primitive.ObjectID) (*domain.PerformanceStats, error) {
	stats := f.stats
	return &stats, nil
}

type fakeMeasurementRepo struct {
	measurements []domain.Measurement
}

func (f *fakeMeasurementRepo) Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	measurement.ID = id
	if measurement.RecordedAt.IsZero() {
		measurement.RecordedAt = time.Now()
	}
	f.measurements = append(f.measurements, *measurement)
	return id, nil
}

func (f *fakeMeasurementRepo) sorted() []domain.Measurement {
	out := append([]domain.Measurement(nil), f.measurements...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out
}

func (f *fakeMeasurementRepo) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Measurement, error) {
	var out []domain.Measurement
	for _, m := range f.sorted() {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMeasurementRepo) Latest(ctx context.Context, ownerID primitive.ObjectID, limit int) ([]domain.Measurement, error) {
	all, _ := f.ListByOwner(ctx, ownerID)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeMeasurementRepo) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	for i, m := range f.measurements {
		if m.ID == id && m.OwnerID == ownerID {
			f.measurements = append(f.measurements[:i], f.measurements[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (f *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	for _, existing := range f.exercises {
		if existing.Name == exercise.Name {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *exercise
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.exercises[id] = &stored
	return id, nil
}

func (f *fakeExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, ok := f.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *exercise
	return &copied, nil
}

func (f *fakeExerciseRepo) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	_, ok := f.exercises[id]
	return ok, nil
}

func (f *fakeExerciseRepo) List(ctx context.Context, filter repository.ExerciseFilter, page, limit int) ([]domain.Exercise, int64, error) {
	var out []domain.Exercise
	for _, exercise := range f.exercises {
		if filter.MuscleGroup != nil && exercise.MuscleGroup != *filter.MuscleGroup {
			continue
		}
		out = append(out, *exercise)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (f *fakeExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	stored, ok := f.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, other := range f.exercises {
		if id != exercise.ID && other.Name == exercise.Name {
			return repository.ErrDuplicateKey
		}
	}
	copied := *exercise
	copied.CreatedAt = stored.CreatedAt
	copied.UpdatedAt = time.Now()
	f.exercises[exercise.ID] = &copied
	return nil
}

func (f *fakeExerciseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.exercises, id)
	return nil
}

// fakePlanFinder serves the progress tests without dragging in the whole
// plan service.
type fakePlanFinder struct {
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func (f *fakePlanFinder) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func exerciseSummary(name string) domain.ExerciseSummary {
	return domain.ExerciseSummary{
		ID:          primitive.NewObjectID(),
		Name:        name,
		MuscleGroup: domain.MuscleGroupUpper,
	}
}
