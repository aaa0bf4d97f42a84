package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/repository"
	"fitvida/workout-app/internal/storage"

	"github.com/google/uuid" // For generating unique identifiers for S3 keys
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMediaAccessDenied = errors.New("user does not have permission to manage exercise media")
	ErrUploadURLError    = errors.New("failed to generate upload URL")
	ErrDownloadURLError  = errors.New("failed to generate download URL")
	ErrNoMediaAttached   = errors.New("exercise has no media attached")
)

// UploadURLResponse carries the presigned PUT target back to the client.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"` // The key the client reports back on confirm
}

// --- Service Interface ---

// MediaService handles the demo video/image flow for catalog exercises. The
// client uploads directly to object storage with a presigned URL, then
// confirms; the exercise record only ever stores the object key.
type MediaService interface {
	RequestUploadURL(ctx context.Context, caller Caller, exerciseID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, caller Caller, exerciseID primitive.ObjectID, objectKey string) error
	GetDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

type mediaService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewMediaService creates a new instance of mediaService.
func NewMediaService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) MediaService {
	return &mediaService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

func callerManagesCatalog(caller Caller) bool {
	return caller.Role == domain.RoleProfessional || caller.Role == domain.RoleAdmin
}

// RequestUploadURL generates a presigned PUT URL for an exercise's demo
// media. Catalog media is managed by professionals and admins only.
func (s *mediaService) RequestUploadURL(ctx context.Context, caller Caller, exerciseID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if !callerManagesCatalog(caller) {
		return nil, ErrMediaAccessDenied
	}
	if _, err := s.exerciseRepo.GetByID(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	// Unique object key so re-uploads never overwrite a URL a client may
	// still be serving.
	uniqueID := uuid.NewString()
	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("exercises", exerciseID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmUpload is called after the client has PUT the file to storage. It
// stamps the object key onto the exercise record and removes the object the
// new upload superseded, if any.
func (s *mediaService) ConfirmUpload(ctx context.Context, caller Caller, exerciseID primitive.ObjectID, objectKey string) error {
	if !callerManagesCatalog(caller) {
		return ErrMediaAccessDenied
	}
	if objectKey == "" {
		return ErrExerciseInvalid
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	previousKey := exercise.MediaURL
	exercise.MediaURL = objectKey
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}

	// Only after the swap is durable; clients still serving the old URL got
	// their presign window, and a stranded delete must not fail the confirm.
	if previousKey != "" && previousKey != objectKey {
		if err := s.fileStorage.DeleteObject(ctx, previousKey); err != nil {
			log.WithError(err).WithField("objectKey", previousKey).Warn("failed to delete superseded media object")
		}
	}
	return nil
}

// GetDownloadURL presigns a GET for the exercise's stored media key.
func (s *mediaService) GetDownloadURL(ctx context.Context, exerciseID primitive.ObjectID) (string, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}
	if exercise.MediaURL == "" {
		return "", ErrNoMediaAttached
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, exercise.MediaURL, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", ErrDownloadURLError
	}
	return downloadURL, nil
}
