package service

import (
	"context"
	"testing"

	"fitvida/workout-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPlanFixture(t *testing.T) (*fakePlanRepo, *fakeCatalog, *fakeUserRepo, WorkoutPlanService, Caller) {
	t.Helper()

	owner := &domain.User{
		ID:    primitive.NewObjectID(),
		Name:  "Joana Silva",
		Email: "joana@example.com",
		Role:  domain.RoleStudent,
	}
	planRepo := newFakePlanRepo()
	catalog := newFakeCatalog(exerciseSummary("Supino reto"), exerciseSummary("Agachamento"))
	userRepo := newFakeUserRepo(owner)

	svc := NewWorkoutPlanService(planRepo, userRepo, catalog, NewAuthorizationPolicy())
	return planRepo, catalog, userRepo, svc, Caller{ID: owner.ID, Role: owner.Role}
}

func catalogIDs(catalog *fakeCatalog) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(catalog.known))
	for id := range catalog.known {
		ids = append(ids, id)
	}
	return ids
}

func TestCreatePlanRejectsUnknownExercise(t *testing.T) {
	planRepo, catalog, _, svc, caller := newPlanFixture(t)

	unknown := primitive.NewObjectID()
	input := PlanInput{
		Name:  "Treino A",
		Level: domain.LevelBeginner,
		Items: []domain.PlanItemInput{
			{ExerciseID: catalogIDs(catalog)[0], Sets: 3, Reps: 10, Order: 1},
			{ExerciseID: unknown, Sets: 3, Reps: 10, Order: 2},
		},
	}

	_, err := svc.Create(context.Background(), caller, input)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidExerciseRef)
	assert.Contains(t, err.Error(), unknown.Hex())
	// Nothing was written.
	assert.Zero(t, planRepo.createCalls)
}

func TestCreatePlanReturnsItemsInOrder(t *testing.T) {
	_, catalog, _, svc, caller := newPlanFixture(t)
	ids := catalogIDs(catalog)

	input := PlanInput{
		Name:  "Treino A",
		Level: domain.LevelIntermediate,
		Items: []domain.PlanItemInput{
			{ExerciseID: ids[0], Sets: 4, Reps: 8, Order: 2},
			{ExerciseID: ids[1], Sets: 3, Reps: 12, Order: 1},
		},
	}

	plan, err := svc.Create(context.Background(), caller, input)

	require.NoError(t, err)
	require.Len(t, plan.Items, 2)
	assert.Equal(t, 1, plan.Items[0].Order)
	assert.Equal(t, 2, plan.Items[1].Order)
	require.NotNil(t, plan.Items[0].Exercise)
	assert.NotEmpty(t, plan.Items[0].Exercise.Name)
	require.NotNil(t, plan.Owner)
	assert.Equal(t, "Joana Silva", plan.Owner.Name)
}

func TestCreatePlanForcesTemplateFlagForStudents(t *testing.T) {
	_, _, _, svc, caller := newPlanFixture(t)

	plan, err := svc.Create(context.Background(), caller, PlanInput{
		Name:       "Meu treino",
		Level:      domain.LevelBeginner,
		IsTemplate: true,
	})

	require.NoError(t, err)
	assert.False(t, plan.IsTemplate)
}

func TestCreatePlanKeepsTemplateFlagForProfessionals(t *testing.T) {
	planRepo, catalog, userRepo, _, _ := newPlanFixture(t)
	pro := &domain.User{
		ID:    primitive.NewObjectID(),
		Name:  "Carlos Mendes",
		Email: "carlos@example.com",
		Role:  domain.RoleProfessional,
	}
	userRepo.users[pro.ID] = pro
	svc := NewWorkoutPlanService(planRepo, userRepo, catalog, NewAuthorizationPolicy())

	plan, err := svc.Create(context.Background(), Caller{ID: pro.ID, Role: pro.Role}, PlanInput{
		Name:       "Base de hipertrofia",
		Level:      domain.LevelAdvanced,
		IsTemplate: true,
	})

	require.NoError(t, err)
	assert.True(t, plan.IsTemplate)
}

func TestUpdatePlanDeniedForNonOwner(t *testing.T) {
	planRepo, _, _, svc, caller := newPlanFixture(t)

	plan, err := svc.Create(context.Background(), caller, PlanInput{Name: "Treino A", Level: domain.LevelBeginner})
	require.NoError(t, err)

	stranger := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}
	_, err = svc.Update(context.Background(), stranger, plan.ID, PlanInput{Name: "Roubado", Level: domain.LevelBeginner})

	assert.ErrorIs(t, err, ErrPlanAccessDenied)
	assert.Zero(t, planRepo.syncCalls)
}

func TestUpdatePlanAllowedForAdmin(t *testing.T) {
	_, _, _, svc, caller := newPlanFixture(t)

	plan, err := svc.Create(context.Background(), caller, PlanInput{Name: "Treino A", Level: domain.LevelBeginner})
	require.NoError(t, err)

	admin := Caller{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	updated, err := svc.Update(context.Background(), admin, plan.ID, PlanInput{Name: "Ajustado", Level: domain.LevelIntermediate})

	require.NoError(t, err)
	assert.Equal(t, "Ajustado", updated.Name)
	assert.Equal(t, domain.LevelIntermediate, updated.Level)
	// Ownership never moves on update.
	assert.Equal(t, caller.ID.Hex(), updated.OwnerID.Hex())
}

func TestUpdatePlanReplacesItemList(t *testing.T) {
	_, catalog, _, svc, caller := newPlanFixture(t)
	ids := catalogIDs(catalog)

	plan, err := svc.Create(context.Background(), caller, PlanInput{
		Name:  "Treino A",
		Level: domain.LevelBeginner,
		Items: []domain.PlanItemInput{
			{ExerciseID: ids[0], Sets: 3, Reps: 10, Order: 1},
			{ExerciseID: ids[1], Sets: 3, Reps: 10, Order: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, plan.Items, 2)

	updated, err := svc.Update(context.Background(), caller, plan.ID, PlanInput{
		Name:  "Treino A",
		Level: domain.LevelBeginner,
		Items: []domain.PlanItemInput{
			{ExerciseID: ids[1], Sets: 5, Reps: 5, Order: 1},
		},
	})

	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, ids[1].Hex(), updated.Items[0].ExerciseID.Hex())
	assert.Equal(t, 5, updated.Items[0].Sets)
}

func TestUpdatePlanWithoutItemsKeepsExisting(t *testing.T) {
	planRepo, catalog, _, svc, caller := newPlanFixture(t)
	ids := catalogIDs(catalog)

	plan, err := svc.Create(context.Background(), caller, PlanInput{
		Name:  "Treino A",
		Level: domain.LevelBeginner,
		Items: []domain.PlanItemInput{
			{ExerciseID: ids[0], Sets: 3, Reps: 10, Order: 1},
			{ExerciseID: ids[1], Sets: 3, Reps: 10, Order: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, plan.Items, 2)

	// A header-only update carries no item list and must not touch it.
	updated, err := svc.Update(context.Background(), caller, plan.ID, PlanInput{
		Name:  "Treino A renomeado",
		Level: domain.LevelBeginner,
	})

	require.NoError(t, err)
	assert.Equal(t, "Treino A renomeado", updated.Name)
	require.Len(t, updated.Items, 2)
	assert.Zero(t, planRepo.syncCalls)
}

func TestUpdatePlanClearsItemsWithEmptyList(t *testing.T) {
	_, catalog, _, svc, caller := newPlanFixture(t)
	ids := catalogIDs(catalog)

	plan, err := svc.Create(context.Background(), caller, PlanInput{
		Name:  "Treino A",
		Level: domain.LevelBeginner,
		Items: []domain.PlanItemInput{{ExerciseID: ids[0], Sets: 3, Reps: 10, Order: 1}},
	})
	require.NoError(t, err)

	// An explicit empty list is a replacement, not an omission.
	updated, err := svc.Update(context.Background(), caller, plan.ID, PlanInput{
		Name:  "Treino A",
		Level: domain.LevelBeginner,
		Items: []domain.PlanItemInput{},
	})

	require.NoError(t, err)
	assert.Empty(t, updated.Items)
}

func TestListPlansDefaultsToTemplates(t *testing.T) {
	planRepo, _, _, svc, _ := newPlanFixture(t)

	_, _, err := svc.List(context.Background(), ListPlansFilter{}, 1, 20)

	require.NoError(t, err)
	require.NotNil(t, planRepo.lastFilter.IsTemplate)
	assert.True(t, *planRepo.lastFilter.IsTemplate)
}

func TestListPlansHonorsExplicitFilters(t *testing.T) {
	planRepo, _, _, svc, caller := newPlanFixture(t)

	_, _, err := svc.List(context.Background(), ListPlansFilter{OwnerID: &caller.ID}, 1, 20)

	require.NoError(t, err)
	assert.Nil(t, planRepo.lastFilter.IsTemplate)
	require.NotNil(t, planRepo.lastFilter.OwnerID)
	assert.Equal(t, caller.ID.Hex(), planRepo.lastFilter.OwnerID.Hex())
}

func TestListPlansCarriesItemsAndOwner(t *testing.T) {
	_, catalog, _, svc, caller := newPlanFixture(t)
	ids := catalogIDs(catalog)

	_, err := svc.Create(context.Background(), caller, PlanInput{
		Name:  "Treino A",
		Level: domain.LevelBeginner,
		Items: []domain.PlanItemInput{
			{ExerciseID: ids[0], Sets: 3, Reps: 10, Order: 1},
			{ExerciseID: ids[1], Sets: 3, Reps: 10, Order: 2},
		},
	})
	require.NoError(t, err)

	plans, total, err := svc.List(context.Background(), ListPlansFilter{OwnerID: &caller.ID}, 1, 20)

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, plans, 1)
	require.Len(t, plans[0].Items, 2)
	require.NotNil(t, plans[0].Items[0].Exercise)
	require.NotNil(t, plans[0].Owner)
	assert.Equal(t, "Joana Silva", plans[0].Owner.Name)
}

func TestRemoveItemMissingExercise(t *testing.T) {
	_, catalog, _, svc, caller := newPlanFixture(t)
	ids := catalogIDs(catalog)

	plan, err := svc.Create(context.Background(), caller, PlanInput{
		Name:  "Treino A",
		Level: domain.LevelBeginner,
		Items: []domain.PlanItemInput{{ExerciseID: ids[0], Sets: 3, Reps: 10, Order: 1}},
	})
	require.NoError(t, err)

	err = svc.RemoveItem(context.Background(), caller, plan.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPlanItemNotFound)
}

func TestDeletePlanDeniedForNonOwner(t *testing.T) {
	_, _, _, svc, caller := newPlanFixture(t)

	plan, err := svc.Create(context.Background(), caller, PlanInput{Name: "Treino A", Level: domain.LevelBeginner})
	require.NoError(t, err)

	stranger := Caller{ID: primitive.NewObjectID(), Role: domain.RoleProfessional}
	err = svc.Delete(context.Background(), stranger, plan.ID)
	assert.ErrorIs(t, err, ErrPlanAccessDenied)

	err = svc.Delete(context.Background(), caller, plan.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(context.Background(), plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
