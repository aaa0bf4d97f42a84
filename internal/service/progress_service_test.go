package service

import (
	"context"
	"testing"
	"time"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type progressFixture struct {
	repo    *fakeProgressRepo
	catalog *fakeCatalog
	finder  *fakePlanFinder
	bus     *events.Bus
	events  <-chan events.SessionCompleted
	svc     ProgressService
	caller  Caller
}

func newProgressFixture(t *testing.T) *progressFixture {
	t.Helper()

	repo := newFakeProgressRepo()
	catalog := newFakeCatalog(exerciseSummary("Supino reto"), exerciseSummary("Agachamento"))
	finder := &fakePlanFinder{plans: map[primitive.ObjectID]*domain.WorkoutPlan{}}
	bus := events.NewBus()
	t.Cleanup(bus.Close)

	sub := bus.Subscribe()
	svc := NewProgressService(repo, finder, catalog, NewAuthorizationPolicy(), bus)
	return &progressFixture{
		repo:    repo,
		catalog: catalog,
		finder:  finder,
		bus:     bus,
		events:  sub,
		svc:     svc,
		caller:  Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent},
	}
}

func (f *progressFixture) anyExerciseID() primitive.ObjectID {
	for id := range f.catalog.known {
		return id
	}
	return primitive.NilObjectID
}

func TestCreateSessionRejectsUnknownExercise(t *testing.T) {
	f := newProgressFixture(t)

	unknown := primitive.NewObjectID()
	_, err := f.svc.CreateSession(context.Background(), f.caller, SessionInput{
		DurationSeconds: 1800,
		Results: []domain.SessionResultInput{
			{ExerciseID: unknown, SetsDone: 3, RepsDone: 10},
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidExerciseRef)
	assert.Contains(t, err.Error(), unknown.Hex())
	assert.Zero(t, f.repo.createCalls)
	// No event escaped either.
	select {
	case <-f.events:
		t.Fatal("no event expected for a rejected session")
	default:
	}
}

func TestCreateSessionRejectsUnknownPlan(t *testing.T) {
	f := newProgressFixture(t)

	missing := primitive.NewObjectID()
	_, err := f.svc.CreateSession(context.Background(), f.caller, SessionInput{
		PlanID:          &missing,
		DurationSeconds: 1800,
	})

	assert.ErrorIs(t, err, ErrInvalidPlanRef)
	assert.Zero(t, f.repo.createCalls)
}

func TestCreateSessionPublishesCompletionEvent(t *testing.T) {
	f := newProgressFixture(t)

	session, err := f.svc.CreateSession(context.Background(), f.caller, SessionInput{
		DurationSeconds: 2400,
		Results: []domain.SessionResultInput{
			{ExerciseID: f.anyExerciseID(), SetsDone: 4, RepsDone: 8, Load: 60},
		},
	})
	require.NoError(t, err)

	// Status defaults to concluded when the caller does not set one.
	assert.Equal(t, domain.SessionConcluded, session.Status)
	require.Len(t, session.Results, 1)
	require.NotNil(t, session.Results[0].Exercise)

	select {
	case event := <-f.events:
		assert.Equal(t, session.ID.Hex(), event.SessionID.Hex())
		assert.Equal(t, f.caller.ID.Hex(), event.OwnerID.Hex())
		assert.Equal(t, 2400, event.DurationSeconds)
		assert.Equal(t, domain.SessionConcluded, event.Status)
	case <-time.After(time.Second):
		t.Fatal("expected a session completed event")
	}
}

func TestCreateSessionWithPlanAttachesSummary(t *testing.T) {
	f := newProgressFixture(t)

	planID := primitive.NewObjectID()
	f.finder.plans[planID] = &domain.WorkoutPlan{
		ID:    planID,
		Name:  "Base de hipertrofia",
		Level: domain.LevelIntermediate,
	}

	session, err := f.svc.CreateSession(context.Background(), f.caller, SessionInput{
		PlanID:          &planID,
		DurationSeconds: 3000,
	})

	require.NoError(t, err)
	require.NotNil(t, session.Plan)
	assert.Equal(t, "Base de hipertrofia", session.Plan.Name)
	assert.Equal(t, domain.LevelIntermediate, session.Plan.Level)
}

func TestGetSessionDeniedForOtherUsers(t *testing.T) {
	f := newProgressFixture(t)

	session, err := f.svc.CreateSession(context.Background(), f.caller, SessionInput{DurationSeconds: 600})
	require.NoError(t, err)

	stranger := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}
	_, err = f.svc.GetSession(context.Background(), stranger, session.ID)
	assert.ErrorIs(t, err, ErrSessionAccessDenied)

	admin := Caller{ID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	_, err = f.svc.GetSession(context.Background(), admin, session.ID)
	assert.NoError(t, err)
}

func TestUpdateSessionHeaderOnly(t *testing.T) {
	f := newProgressFixture(t)

	session, err := f.svc.CreateSession(context.Background(), f.caller, SessionInput{
		DurationSeconds: 600,
		Results: []domain.SessionResultInput{
			{ExerciseID: f.anyExerciseID(), SetsDone: 3, RepsDone: 12},
		},
	})
	require.NoError(t, err)

	duration := 900
	notes := "interrompido"
	updated, err := f.svc.UpdateSession(context.Background(), f.caller, session.ID, SessionUpdateInput{
		DurationSeconds: &duration,
		Status:          domain.SessionCancelled,
		Notes:           &notes,
	})

	require.NoError(t, err)
	assert.Equal(t, 900, updated.DurationSeconds)
	assert.Equal(t, domain.SessionCancelled, updated.Status)
	// Results survive header updates untouched.
	require.Len(t, updated.Results, 1)
	assert.Equal(t, 3, updated.Results[0].SetsDone)
}

func TestUpdateSessionStatusOnlyKeepsOtherFields(t *testing.T) {
	f := newProgressFixture(t)

	startedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	session, err := f.svc.CreateSession(context.Background(), f.caller, SessionInput{
		StartedAt:       startedAt,
		DurationSeconds: 1800,
		Notes:           "treino pesado",
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateSession(context.Background(), f.caller, session.ID, SessionUpdateInput{
		Status: domain.SessionCancelled,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SessionCancelled, updated.Status)
	// A status-only patch never resets what it did not mention.
	assert.True(t, updated.StartedAt.Equal(startedAt))
	assert.Equal(t, 1800, updated.DurationSeconds)
	assert.Equal(t, "treino pesado", updated.Notes)
}

func TestDeleteSessionRemovesResults(t *testing.T) {
	f := newProgressFixture(t)

	session, err := f.svc.CreateSession(context.Background(), f.caller, SessionInput{
		DurationSeconds: 600,
		Results: []domain.SessionResultInput{
			{ExerciseID: f.anyExerciseID(), SetsDone: 3, RepsDone: 12},
		},
	})
	require.NoError(t, err)

	stranger := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}
	err = f.svc.DeleteSession(context.Background(), stranger, session.ID)
	assert.ErrorIs(t, err, ErrSessionAccessDenied)

	err = f.svc.DeleteSession(context.Background(), f.caller, session.ID)
	require.NoError(t, err)

	_, err = f.svc.GetSession(context.Background(), f.caller, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, f.repo.results[session.ID])
}

func TestListSessionsScopedToCaller(t *testing.T) {
	f := newProgressFixture(t)

	_, err := f.svc.CreateSession(context.Background(), f.caller, SessionInput{DurationSeconds: 600})
	require.NoError(t, err)

	other := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}
	_, err = f.svc.CreateSession(context.Background(), other, SessionInput{DurationSeconds: 1200})
	require.NoError(t, err)

	sessions, total, err := f.svc.ListSessions(context.Background(), f.caller, ListSessionsFilter{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, sessions, 1)
	assert.Equal(t, f.caller.ID.Hex(), sessions[0].OwnerID.Hex())
}
