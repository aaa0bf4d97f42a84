package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise catalog and media dependencies.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	mediaService    service.MediaService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, mediaService service.MediaService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService: exerciseService,
		mediaService:    mediaService,
	}
}

// --- Request/Response Structs ---

type ExerciseRequest struct {
	Name           string             `json:"name" binding:"required"`
	Description    string             `json:"description"`
	MuscleGroup    domain.MuscleGroup `json:"muscleGroup" binding:"required,oneof=SUPERIOR CORE INFERIOR FULL_BODY"`
	SubMuscleGroup string             `json:"subMuscleGroup"`
	Equipment      string             `json:"equipment"`
	MediaURL       string             `json:"mediaUrl"`
}

type ExerciseResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	MuscleGroup    domain.MuscleGroup `json:"muscleGroup"`
	SubMuscleGroup string             `json:"subMuscleGroup,omitempty"`
	Equipment      string             `json:"equipment,omitempty"`
	MediaURL       string             `json:"mediaUrl,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

type RequestUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

func (r ExerciseRequest) toInput() service.ExerciseInput {
	return service.ExerciseInput{
		Name:           r.Name,
		Description:    r.Description,
		MuscleGroup:    r.MuscleGroup,
		SubMuscleGroup: r.SubMuscleGroup,
		Equipment:      r.Equipment,
		MediaURL:       r.MediaURL,
	}
}

// MapExerciseToResponse converts a domain Exercise to its DTO.
func MapExerciseToResponse(exercise *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:             exercise.ID.Hex(),
		Name:           exercise.Name,
		Description:    exercise.Description,
		MuscleGroup:    exercise.MuscleGroup,
		SubMuscleGroup: exercise.SubMuscleGroup,
		Equipment:      exercise.Equipment,
		MediaURL:       exercise.MediaURL,
		CreatedAt:      exercise.CreatedAt,
		UpdatedAt:      exercise.UpdatedAt,
	}
}

func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// --- Handler Methods ---

// Create godoc
// @Summary Create a catalog exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise definition"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Name already in use"
// @Router /exercises [post]
func (h *ExerciseHandler) Create(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNameTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrExerciseInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to create exercise")
		}
		return
	}

	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// GetByID godoc
// @Summary Get a catalog exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise")
		}
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// List godoc
// @Summary List catalog exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param muscleGroup query string false "Filter by muscle group"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} PaginatedResponse
// @Router /exercises [get]
func (h *ExerciseHandler) List(c *gin.Context) {
	page, limit := getPagination(c)

	var muscleGroup *domain.MuscleGroup
	if raw := c.Query("muscleGroup"); raw != "" {
		mg := domain.MuscleGroup(raw)
		muscleGroup = &mg
	}

	exercises, total, err := h.exerciseService.List(c.Request.Context(), muscleGroup, page, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}

	responses := make([]ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		responses = append(responses, MapExerciseToResponse(&exercises[i]))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

// Update godoc
// @Summary Update a catalog exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise definition"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Not found"
// @Failure 409 {object} gin.H "Name already in use"
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseNameTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrExerciseInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise")
		}
		return
	}

	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// Delete godoc
// @Summary Delete a catalog exercise
// @Tags Exercises
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.exerciseService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// RequestUploadURL godoc
// @Summary Request a presigned upload URL for exercise media
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param request body RequestUploadURLRequest true "Upload details"
// @Success 200 {object} service.UploadURLResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id}/media/upload-url [post]
func (h *ExerciseHandler) RequestUploadURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.mediaService.RequestUploadURL(c.Request.Context(), caller, id, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMediaAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload godoc
// @Summary Confirm a completed media upload
// @Tags Exercises
// @Accept json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Param request body ConfirmUploadRequest true "Uploaded object key"
// @Success 204 "Confirmed"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /exercises/{id}/media/confirm [post]
func (h *ExerciseHandler) ConfirmUpload(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.mediaService.ConfirmUpload(c.Request.Context(), caller, id, req.ObjectKey); err != nil {
		switch {
		case errors.Is(err, service.ErrMediaAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseInvalid):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to confirm upload")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetMediaDownloadURL godoc
// @Summary Get a presigned download URL for exercise media
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} gin.H "downloadUrl"
// @Failure 404 {object} gin.H "Not found or no media"
// @Router /exercises/{id}/media [get]
func (h *ExerciseHandler) GetMediaDownloadURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	url, err := h.mediaService.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound), errors.Is(err, service.ErrNoMediaAttached):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
