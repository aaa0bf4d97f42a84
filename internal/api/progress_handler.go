package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fitvida/workout-app/internal/domain"
	"fitvida/workout-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressHandler groups the progress-tracking endpoints: training sessions,
// body measurements, statistics and achievements.
type ProgressHandler struct {
	progressService    service.ProgressService
	measurementService service.MeasurementService
	statsService       service.StatsService
	achievementService service.AchievementService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(
	progressService service.ProgressService,
	measurementService service.MeasurementService,
	statsService service.StatsService,
	achievementService service.AchievementService,
) *ProgressHandler {
	return &ProgressHandler{
		progressService:    progressService,
		measurementService: measurementService,
		statsService:       statsService,
		achievementService: achievementService,
	}
}

// --- Request/Response Structs ---

type SessionResultRequest struct {
	ExerciseID string  `json:"exerciseId" binding:"required"`
	SetsDone   int     `json:"setsDone" binding:"required,min=1"`
	RepsDone   int     `json:"repsDone" binding:"required,min=1"`
	Load       float64 `json:"load" binding:"omitempty,min=0"`
	Notes      string  `json:"notes"`
}

type SessionRequest struct {
	PlanID          string                 `json:"planId"`
	StartedAt       time.Time              `json:"startedAt"`
	DurationSeconds int                    `json:"durationSeconds" binding:"min=0"`
	Status          domain.SessionStatus   `json:"status" binding:"omitempty,oneof=EM_ANDAMENTO CONCLUIDO CANCELADO"`
	Notes           string                 `json:"notes"`
	Results         []SessionResultRequest `json:"results" binding:"dive"`
}

// SessionUpdateRequest is a header patch: only status is required, omitted
// fields keep their stored values.
type SessionUpdateRequest struct {
	StartedAt       *time.Time           `json:"startedAt"`
	DurationSeconds *int                 `json:"durationSeconds" binding:"omitempty,min=0"`
	Status          domain.SessionStatus `json:"status" binding:"required,oneof=EM_ANDAMENTO CONCLUIDO CANCELADO"`
	Notes           *string              `json:"notes"`
}

type SessionResultResponse struct {
	ID         string                   `json:"id"`
	ExerciseID string                   `json:"exerciseId"`
	SetsDone   int                      `json:"setsDone"`
	RepsDone   int                      `json:"repsDone"`
	Load       float64                  `json:"load,omitempty"`
	Notes      string                   `json:"notes,omitempty"`
	Exercise   *ExerciseSummaryResponse `json:"exercise,omitempty"`
}

type PlanSummaryResponse struct {
	Name  string       `json:"name"`
	Level domain.Level `json:"level"`
}

type SessionResponse struct {
	ID              string                  `json:"id"`
	OwnerID         string                  `json:"ownerId"`
	PlanID          *string                 `json:"planId,omitempty"`
	Plan            *PlanSummaryResponse    `json:"plan,omitempty"`
	StartedAt       time.Time               `json:"startedAt"`
	DurationSeconds int                     `json:"durationSeconds"`
	Status          domain.SessionStatus    `json:"status"`
	Notes           string                  `json:"notes,omitempty"`
	Results         []SessionResultResponse `json:"results"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

type MeasurementRequest struct {
	Type       domain.MeasurementType `json:"type" binding:"required,oneof=WEIGHT CIRCUMFERENCE BODY_FAT"`
	Value      float64                `json:"value" binding:"required,gt=0"`
	Unit       string                 `json:"unit" binding:"required"`
	RecordedAt time.Time              `json:"recordedAt"`
}

type MeasurementResponse struct {
	ID         string                 `json:"id"`
	Type       domain.MeasurementType `json:"type"`
	Value      float64                `json:"value"`
	Unit       string                 `json:"unit"`
	RecordedAt time.Time              `json:"recordedAt"`
}

type AchievementResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	UnlockedAt time.Time `json:"unlockedAt"`
}

func (r SessionRequest) toInput() (service.SessionInput, error) {
	var planID *primitive.ObjectID
	if r.PlanID != "" {
		id, err := primitive.ObjectIDFromHex(r.PlanID)
		if err != nil {
			return service.SessionInput{}, fmt.Errorf("invalid plan ID: %s", r.PlanID)
		}
		planID = &id
	}

	results := make([]domain.SessionResultInput, 0, len(r.Results))
	for _, result := range r.Results {
		exerciseID, err := primitive.ObjectIDFromHex(result.ExerciseID)
		if err != nil {
			return service.SessionInput{}, fmt.Errorf("invalid exercise ID: %s", result.ExerciseID)
		}
		results = append(results, domain.SessionResultInput{
			ExerciseID: exerciseID,
			SetsDone:   result.SetsDone,
			RepsDone:   result.RepsDone,
			Load:       result.Load,
			Notes:      result.Notes,
		})
	}

	return service.SessionInput{
		PlanID:          planID,
		StartedAt:       r.StartedAt,
		DurationSeconds: r.DurationSeconds,
		Status:          r.Status,
		Notes:           r.Notes,
		Results:         results,
	}, nil
}

// MapSessionToResponse converts a domain ProgressSession to its DTO.
func MapSessionToResponse(session *domain.ProgressSession) SessionResponse {
	results := make([]SessionResultResponse, 0, len(session.Results))
	for _, result := range session.Results {
		results = append(results, SessionResultResponse{
			ID:         result.ID.Hex(),
			ExerciseID: result.ExerciseID.Hex(),
			SetsDone:   result.SetsDone,
			RepsDone:   result.RepsDone,
			Load:       result.Load,
			Notes:      result.Notes,
			Exercise:   mapExerciseSummary(result.Exercise),
		})
	}

	resp := SessionResponse{
		ID:              session.ID.Hex(),
		OwnerID:         session.OwnerID.Hex(),
		StartedAt:       session.StartedAt,
		DurationSeconds: session.DurationSeconds,
		Status:          session.Status,
		Notes:           session.Notes,
		Results:         results,
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
	if session.PlanID != nil {
		planID := session.PlanID.Hex()
		resp.PlanID = &planID
	}
	if session.Plan != nil {
		resp.Plan = &PlanSummaryResponse{Name: session.Plan.Name, Level: session.Plan.Level}
	}
	return resp
}

func mapMeasurementToResponse(m domain.Measurement) MeasurementResponse {
	return MeasurementResponse{
		ID:         m.ID.Hex(),
		Type:       m.Type,
		Value:      m.Value,
		Unit:       m.Unit,
		RecordedAt: m.RecordedAt,
	}
}

// mapSessionServiceError translates progress service errors to HTTP responses.
func mapSessionServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSessionInvalid),
		errors.Is(err, service.ErrInvalidPlanRef),
		errors.Is(err, service.ErrInvalidExerciseRef):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Session Handler Methods ---

// CreateSession godoc
// @Summary Record a training session
// @Description Records a session with its per-exercise results. References are validated before anything is written.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body SessionRequest true "Session record"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H "Invalid input or unknown reference"
// @Router /progress/sessions [post]
func (h *ProgressHandler) CreateSession(c *gin.Context) {
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.progressService.CreateSession(c.Request.Context(), caller, input)
	if err != nil {
		mapSessionServiceError(c, err, "Failed to record training session")
		return
	}

	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// GetSession godoc
// @Summary Get a training session with its results
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /progress/sessions/{id} [get]
func (h *ProgressHandler) GetSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	session, err := h.progressService.GetSession(c.Request.Context(), caller, id)
	if err != nil {
		mapSessionServiceError(c, err, "Failed to retrieve training session")
		return
	}

	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// ListSessions godoc
// @Summary List the caller's training sessions
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param planId query string false "Filter by originating plan"
// @Param status query string false "Filter by status"
// @Param dateFrom query string false "Start of date range (RFC 3339)"
// @Param dateTo query string false "End of date range (RFC 3339)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} PaginatedResponse
// @Router /progress/sessions [get]
func (h *ProgressHandler) ListSessions(c *gin.Context) {
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}
	page, limit := getPagination(c)

	var filter service.ListSessionsFilter
	if raw := c.Query("planId"); raw != "" {
		planID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid planId format")
			return
		}
		filter.PlanID = &planID
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.SessionStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("dateFrom"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid dateFrom value, expected RFC 3339")
			return
		}
		filter.DateFrom = &from
	}
	if raw := c.Query("dateTo"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid dateTo value, expected RFC 3339")
			return
		}
		filter.DateTo = &to
	}

	sessions, total, err := h.progressService.ListSessions(c.Request.Context(), caller, filter, page, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list training sessions")
		return
	}

	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, MapSessionToResponse(&sessions[i]))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

// UpdateSession godoc
// @Summary Update a training session's header
// @Description Changes header fields only. Recorded results are immutable.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param session body SessionUpdateRequest true "Updated header"
// @Success 200 {object} SessionResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /progress/sessions/{id} [put]
func (h *ProgressHandler) UpdateSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req SessionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.progressService.UpdateSession(c.Request.Context(), caller, id, service.SessionUpdateInput{
		StartedAt:       req.StartedAt,
		DurationSeconds: req.DurationSeconds,
		Status:          req.Status,
		Notes:           req.Notes,
	})
	if err != nil {
		mapSessionServiceError(c, err, "Failed to update training session")
		return
	}

	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// DeleteSession godoc
// @Summary Delete a training session and its results
// @Tags Progress
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /progress/sessions/{id} [delete]
func (h *ProgressHandler) DeleteSession(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	if err := h.progressService.DeleteSession(c.Request.Context(), caller, id); err != nil {
		mapSessionServiceError(c, err, "Failed to delete training session")
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Measurement Handler Methods ---

// CreateMeasurement godoc
// @Summary Record a body measurement
// @Description Weight measurements must use the kg unit.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param measurement body MeasurementRequest true "Measurement record"
// @Success 201 {object} MeasurementResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /progress/measurements [post]
func (h *ProgressHandler) CreateMeasurement(c *gin.Context) {
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	measurement, err := h.measurementService.Create(c.Request.Context(), caller, service.MeasurementInput{
		Type:       req.Type,
		Value:      req.Value,
		Unit:       req.Unit,
		RecordedAt: req.RecordedAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrMeasurementInvalid) || errors.Is(err, service.ErrWeightUnit) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record measurement")
		}
		return
	}

	c.JSON(http.StatusCreated, mapMeasurementToResponse(*measurement))
}

// ListMeasurements godoc
// @Summary List the caller's measurements, newest first
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} MeasurementResponse
// @Router /progress/measurements [get]
func (h *ProgressHandler) ListMeasurements(c *gin.Context) {
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	measurements, err := h.measurementService.List(c.Request.Context(), caller)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list measurements")
		return
	}

	responses := make([]MeasurementResponse, 0, len(measurements))
	for _, m := range measurements {
		responses = append(responses, mapMeasurementToResponse(m))
	}
	c.JSON(http.StatusOK, responses)
}

// DeleteMeasurement godoc
// @Summary Delete one of the caller's measurements
// @Tags Progress
// @Security BearerAuth
// @Param id path string true "Measurement ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Not found"
// @Router /progress/measurements/{id} [delete]
func (h *ProgressHandler) DeleteMeasurement(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	if err := h.measurementService.Delete(c.Request.Context(), caller, id); err != nil {
		if errors.Is(err, service.ErrMeasurementNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete measurement")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Stats Handler Methods ---

// GetOverview godoc
// @Summary Get aggregate performance plus recent measurements
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProgressOverview
// @Router /progress/stats [get]
func (h *ProgressHandler) GetOverview(c *gin.Context) {
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	overview, err := h.statsService.Overview(c.Request.Context(), caller)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute progress overview")
		return
	}

	c.JSON(http.StatusOK, overview)
}

// CompareWeight godoc
// @Summary Compare current weight against an earlier measurement
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param monthsBack query int false "Lookback window in months (default 3)"
// @Success 200 {object} service.ComparisonResult
// @Router /progress/compare [get]
func (h *ProgressHandler) CompareWeight(c *gin.Context) {
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	monthsBack := 0
	if raw := c.Query("monthsBack"); raw != "" {
		monthsBack, err = strconv.Atoi(raw)
		if err != nil || monthsBack < 1 {
			abortWithError(c, http.StatusBadRequest, "Invalid monthsBack value")
			return
		}
	}

	result, err := h.statsService.Compare(c.Request.Context(), caller, monthsBack)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute weight comparison")
		return
	}

	c.JSON(http.StatusOK, result)
}

// --- Achievement Handler Methods ---

// ListAchievements godoc
// @Summary List the caller's unlocked achievements
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AchievementResponse
// @Router /progress/achievements [get]
func (h *ProgressHandler) ListAchievements(c *gin.Context) {
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	achievements, err := h.achievementService.ListUnlocked(c.Request.Context(), caller)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list achievements")
		return
	}

	responses := make([]AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		responses = append(responses, AchievementResponse{
			ID:         a.ID.Hex(),
			Title:      a.Title,
			UnlockedAt: a.UnlockedAt,
		})
	}
	c.JSON(http.StatusOK, responses)
}
