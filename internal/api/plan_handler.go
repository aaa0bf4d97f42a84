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

// PlanHandler holds the workout plan service dependency.
type PlanHandler struct {
	planService service.WorkoutPlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.WorkoutPlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type PlanItemRequest struct {
	ExerciseID  string  `json:"exerciseId" binding:"required"`
	Sets        int     `json:"sets" binding:"required,min=1"`
	Reps        int     `json:"reps" binding:"required,min=1"`
	Load        float64 `json:"load" binding:"omitempty,min=0"`
	RestSeconds int     `json:"restSeconds" binding:"omitempty,min=0"`
	Order       int     `json:"order" binding:"min=0"`
}

type PlanRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Level       domain.Level      `json:"level" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	IsTemplate  bool              `json:"isTemplate"`
	Items       []PlanItemRequest `json:"items" binding:"dive"`
}

type ExerciseSummaryResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	MuscleGroup domain.MuscleGroup `json:"muscleGroup"`
	MediaURL    string             `json:"mediaUrl,omitempty"`
}

type PlanItemResponse struct {
	ID          string                   `json:"id"`
	ExerciseID  string                   `json:"exerciseId"`
	Sets        int                      `json:"sets"`
	Reps        int                      `json:"reps"`
	Load        float64                  `json:"load,omitempty"`
	RestSeconds int                      `json:"restSeconds,omitempty"`
	Order       int                      `json:"order"`
	Exercise    *ExerciseSummaryResponse `json:"exercise,omitempty"`
}

type OwnerResponse struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

type PlanResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Level       domain.Level       `json:"level"`
	IsTemplate  bool               `json:"isTemplate"`
	OwnerID     string             `json:"ownerId"`
	Owner       *OwnerResponse     `json:"owner,omitempty"`
	Items       []PlanItemResponse `json:"items"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (r PlanRequest) toInput() (service.PlanInput, error) {
	// A request without an items field stays nil, which the service reads
	// as "keep the stored list". An explicit empty array clears it.
	var items []domain.PlanItemInput
	if r.Items != nil {
		items = make([]domain.PlanItemInput, 0, len(r.Items))
		for _, item := range r.Items {
			input, err := item.toInput()
			if err != nil {
				return service.PlanInput{}, err
			}
			items = append(items, input)
		}
	}
	return service.PlanInput{
		Name:        r.Name,
		Description: r.Description,
		Level:       r.Level,
		IsTemplate:  r.IsTemplate,
		Items:       items,
	}, nil
}

func (r PlanItemRequest) toInput() (domain.PlanItemInput, error) {
	exerciseID, err := primitive.ObjectIDFromHex(r.ExerciseID)
	if err != nil {
		return domain.PlanItemInput{}, fmt.Errorf("invalid exercise ID: %s", r.ExerciseID)
	}
	return domain.PlanItemInput{
		ExerciseID:  exerciseID,
		Sets:        r.Sets,
		Reps:        r.Reps,
		Load:        r.Load,
		RestSeconds: r.RestSeconds,
		Order:       r.Order,
	}, nil
}

func mapExerciseSummary(summary *domain.ExerciseSummary) *ExerciseSummaryResponse {
	if summary == nil {
		return nil
	}
	return &ExerciseSummaryResponse{
		ID:          summary.ID.Hex(),
		Name:        summary.Name,
		MuscleGroup: summary.MuscleGroup,
		MediaURL:    summary.MediaURL,
	}
}

// MapPlanToResponse converts a domain WorkoutPlan to its DTO.
func MapPlanToResponse(plan *domain.WorkoutPlan) PlanResponse {
	items := make([]PlanItemResponse, 0, len(plan.Items))
	for _, item := range plan.Items {
		items = append(items, PlanItemResponse{
			ID:          item.ID.Hex(),
			ExerciseID:  item.ExerciseID.Hex(),
			Sets:        item.Sets,
			Reps:        item.Reps,
			Load:        item.Load,
			RestSeconds: item.RestSeconds,
			Order:       item.Order,
			Exercise:    mapExerciseSummary(item.Exercise),
		})
	}

	resp := PlanResponse{
		ID:          plan.ID.Hex(),
		Name:        plan.Name,
		Description: plan.Description,
		Level:       plan.Level,
		IsTemplate:  plan.IsTemplate,
		OwnerID:     plan.OwnerID.Hex(),
		Items:       items,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
	if plan.Owner != nil {
		resp.Owner = &OwnerResponse{Name: plan.Owner.Name, Role: plan.Owner.Role}
	}
	return resp
}

// mapPlanServiceError translates plan service errors to HTTP responses.
func mapPlanServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanItemNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanInvalid), errors.Is(err, service.ErrInvalidExerciseRef):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Handler Methods ---

// Create godoc
// @Summary Create a workout plan
// @Description Creates a plan with its full item list. All exercise references are validated first.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body PlanRequest true "Plan definition"
// @Success 201 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid input or unknown exercise reference"
// @Router /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), caller, input)
	if err != nil {
		mapPlanServiceError(c, err, "Failed to create workout plan")
		return
	}

	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// GetByID godoc
// @Summary Get a workout plan with its items
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} PlanResponse
// @Failure 404 {object} gin.H "Not found"
// @Router /plans/{id} [get]
func (h *PlanHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetByID(c.Request.Context(), id)
	if err != nil {
		mapPlanServiceError(c, err, "Failed to retrieve workout plan")
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// List godoc
// @Summary List workout plans
// @Description Lists plans. Without ownerId or isTemplate filters, only public templates are returned.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param level query string false "Filter by level"
// @Param ownerId query string false "Filter by owner"
// @Param isTemplate query bool false "Filter by template flag"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} PaginatedResponse
// @Router /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	page, limit := getPagination(c)

	var filter service.ListPlansFilter
	if raw := c.Query("level"); raw != "" {
		level := domain.Level(raw)
		filter.Level = &level
	}
	if raw := c.Query("ownerId"); raw != "" {
		ownerID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid ownerId format")
			return
		}
		filter.OwnerID = &ownerID
	}
	if raw := c.Query("isTemplate"); raw != "" {
		isTemplate, err := strconv.ParseBool(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid isTemplate value")
			return
		}
		filter.IsTemplate = &isTemplate
	}

	plans, total, err := h.planService.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workout plans")
		return
	}

	responses := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, MapPlanToResponse(&plans[i]))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(responses, total, page, limit))
}

// Update godoc
// @Summary Update a workout plan
// @Description Replaces the plan header and its complete item list.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param plan body PlanRequest true "Plan definition"
// @Success 200 {object} PlanResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /plans/{id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), caller, id, input)
	if err != nil {
		mapPlanServiceError(c, err, "Failed to update workout plan")
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// Delete godoc
// @Summary Delete a workout plan and its items
// @Tags Plans
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 204 "Deleted"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /plans/{id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	if err := h.planService.Delete(c.Request.Context(), caller, id); err != nil {
		mapPlanServiceError(c, err, "Failed to delete workout plan")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddItem godoc
// @Summary Append an exercise prescription to a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param item body PlanItemRequest true "Item to append"
// @Success 200 {object} PlanResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Not found"
// @Router /plans/{id}/items [post]
func (h *PlanHandler) AddItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	var req PlanItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	item, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planService.AddItem(c.Request.Context(), caller, id, item)
	if err != nil {
		mapPlanServiceError(c, err, "Failed to add item to workout plan")
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// RemoveItem godoc
// @Summary Remove an exercise from a plan
// @Description Removes every item of the plan referencing the exercise.
// @Tags Plans
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param exerciseId path string true "Exercise ID"
// @Success 204 "Removed"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Plan or item not found"
// @Router /plans/{id}/items/{exerciseId} [delete]
func (h *PlanHandler) RemoveItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	exerciseID, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}
	caller, err := getCallerFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	if err := h.planService.RemoveItem(c.Request.Context(), caller, id, exerciseID); err != nil {
		mapPlanServiceError(c, err, "Failed to remove item from workout plan")
		return
	}

	c.Status(http.StatusNoContent)
}
