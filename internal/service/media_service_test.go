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

// fakeFileStorage records presign and delete calls instead of talking to S3.
type fakeFileStorage struct {
	deletedKeys []string
}

func (f *fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (f *fakeFileStorage) DeleteObject(ctx context.Context, objectKey string) error {
	f.deletedKeys = append(f.deletedKeys, objectKey)
	return nil
}

func newMediaFixture(t *testing.T) (*fakeExerciseRepo, *fakeFileStorage, MediaService, *domain.Exercise) {
	t.Helper()

	repo := newFakeExerciseRepo()
	fs := &fakeFileStorage{}
	svc := NewMediaService(repo, fs)

	id, err := repo.Create(context.Background(), &domain.Exercise{
		Name:        "Supino reto",
		MuscleGroup: domain.MuscleGroupUpper,
	})
	require.NoError(t, err)
	exercise, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return repo, fs, svc, exercise
}

func TestRequestUploadURLDeniedForStudents(t *testing.T) {
	_, _, svc, exercise := newMediaFixture(t)

	student := Caller{ID: primitive.NewObjectID(), Role: domain.RoleStudent}
	_, err := svc.RequestUploadURL(context.Background(), student, exercise.ID, "video/mp4")

	assert.ErrorIs(t, err, ErrMediaAccessDenied)
}

func TestConfirmUploadStampsMediaKey(t *testing.T) {
	repo, fs, svc, exercise := newMediaFixture(t)

	pro := Caller{ID: primitive.NewObjectID(), Role: domain.RoleProfessional}
	err := svc.ConfirmUpload(context.Background(), pro, exercise.ID, "exercises/abc/demo.mp4")

	require.NoError(t, err)
	stored, err := repo.GetByID(context.Background(), exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, "exercises/abc/demo.mp4", stored.MediaURL)
	// First upload: nothing to clean up.
	assert.Empty(t, fs.deletedKeys)
}

func TestConfirmUploadDeletesSupersededObject(t *testing.T) {
	repo, fs, svc, exercise := newMediaFixture(t)
	pro := Caller{ID: primitive.NewObjectID(), Role: domain.RoleProfessional}

	require.NoError(t, svc.ConfirmUpload(context.Background(), pro, exercise.ID, "exercises/abc/old.mp4"))
	require.NoError(t, svc.ConfirmUpload(context.Background(), pro, exercise.ID, "exercises/abc/new.mp4"))

	stored, err := repo.GetByID(context.Background(), exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, "exercises/abc/new.mp4", stored.MediaURL)
	// The replaced object does not linger in storage.
	assert.Equal(t, []string{"exercises/abc/old.mp4"}, fs.deletedKeys)
}

func TestGetDownloadURLWithoutMedia(t *testing.T) {
	_, _, svc, exercise := newMediaFixture(t)

	_, err := svc.GetDownloadURL(context.Background(), exercise.ID)
	assert.ErrorIs(t, err, ErrNoMediaAttached)
}
