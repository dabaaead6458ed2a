// internal/api/plan_handler.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	TemplateKey  string `json:"templateKey" binding:"required"`
	DurationDays int    `json:"durationDays" binding:"omitempty"` // 0 or absent = template default
	ReminderTime string `json:"reminderTime" binding:"required"`
}

type RecordCheckInRequest struct {
	FollowedSteps *bool  `json:"followedSteps" binding:"required"`
	Notes         string `json:"notes" binding:"omitempty"`
}

type PlanResponse struct {
	ID           string    `json:"id"`
	TemplateKey  string    `json:"templateKey"`
	StartDate    string    `json:"startDate"`
	EndDate      string    `json:"endDate"`
	DurationDays int       `json:"durationDays"`
	ReminderTime string    `json:"reminderTime"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type CheckInResponse struct {
	ID            string `json:"id"`
	PlanID        string `json:"planId"`
	Date          string `json:"date"`
	FollowedSteps bool   `json:"followedSteps"`
	Notes         string `json:"notes,omitempty"`
}

// --- Mappers ---

func MapPlanToResponse(plan *domain.Plan) PlanResponse {
	return PlanResponse{
		ID:           plan.ID.Hex(),
		TemplateKey:  plan.TemplateKey,
		StartDate:    plan.StartDate,
		EndDate:      plan.EndDate,
		DurationDays: plan.DurationDays,
		ReminderTime: plan.ReminderTime,
		Status:       string(plan.Status),
		CreatedAt:    plan.CreatedAt,
	}
}

func MapPlansToResponse(plans []domain.Plan) []PlanResponse {
	out := make([]PlanResponse, len(plans))
	for i := range plans {
		out[i] = MapPlanToResponse(&plans[i])
	}
	return out
}

func MapCheckInToResponse(checkin *domain.CheckIn) CheckInResponse {
	return CheckInResponse{
		ID:            checkin.ID.Hex(),
		PlanID:        checkin.PlanID.Hex(),
		Date:          checkin.Date,
		FollowedSteps: checkin.FollowedSteps,
		Notes:         checkin.Notes,
	}
}

// --- Handler Methods ---

// ListTemplates godoc
// @Summary List available plan templates
// @Description Returns the read-only recovery plan template catalog.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.PlanTemplate "Template catalog"
// @Router /templates [get]
func (h *PlanHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, h.planService.ListTemplates())
}

// CreatePlan godoc
// @Summary Start a new recovery plan
// @Description Creates a plan starting today. Duration defaults to the template's suggestion when omitted.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} PlanResponse "Plan created"
// @Failure 400 {object} gin.H "Invalid template, duration, or reminder time"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), ownerID, req.TemplateKey, req.DurationDays, req.ReminderTime)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTemplate) || errors.Is(err, service.ErrInvalidDuration) || errors.Is(err, service.ErrInvalidReminderTime) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create plan.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// ListMyPlans godoc
// @Summary List my plans
// @Description Returns all of the caller's plans, newest first. Optional ?template= filter.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param template query string false "Template key filter"
// @Success 200 {array} PlanResponse "List of plans"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /plans [get]
func (h *PlanHandler) ListMyPlans(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	plans, err := h.planService.ListMyPlans(c.Request.Context(), ownerID, c.Query("template"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		return
	}
	if plans == nil {
		c.JSON(http.StatusOK, []PlanResponse{})
		return
	}
	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// GetActivePlan godoc
// @Summary Get my active plan
// @Description Returns the most recently created plan that is still active, or null when none. Clients use this to resume a session.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param template query string false "Template key filter"
// @Success 200 {object} PlanResponse "Active plan (null body when none)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /plans/active [get]
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetActivePlan(c.Request.Context(), ownerID, c.Query("template"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve active plan.")
		return
	}
	if plan == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// RecordCheckIn godoc
// @Summary Record today's check-in for a plan
// @Description Upserts the check-in for the current calendar day. A second submission the same day overwrites the first.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Param checkin body RecordCheckInRequest true "Check-in answer"
// @Success 200 {object} CheckInResponse "Check-in recorded"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/{planId}/checkins [post]
func (h *PlanHandler) RecordCheckIn(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}

	var req RecordCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	checkin, err := h.planService.RecordCheckIn(c.Request.Context(), ownerID, planID, *req.FollowedSteps, req.Notes)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record check-in.")
		}
		return
	}
	c.JSON(http.StatusOK, MapCheckInToResponse(checkin))
}

// GetProgress godoc
// @Summary Get live progress for a plan
// @Description Recomputes elapsed days, completed days, adherence and current streak from the ledger.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Success 200 {object} domain.ProgressSnapshot "Progress snapshot"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/{planId}/progress [get]
func (h *PlanHandler) GetProgress(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}

	snapshot, err := h.planService.GetProgress(c.Request.Context(), ownerID, planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to compute progress.")
		}
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// GetSummary godoc
// @Summary Get the closing summary for a plan
// @Description Aggregate report: success rate, longest streak, totals, suggestions. Partial when the plan is still active.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Success 200 {object} domain.SummaryReport "Summary report"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Plan not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /plans/{planId}/summary [get]
func (h *PlanHandler) GetSummary(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}

	report, err := h.planService.GetSummary(c.Request.Context(), ownerID, planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to build summary.")
		}
		return
	}
	c.JSON(http.StatusOK, report)
}

// DeletePlan godoc
// @Summary Delete one of my plans
// @Description Removes the plan and its check-in ledger.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Success 204 "Plan deleted"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), ownerID, planID); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete plan.")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ClosePlan godoc
// @Summary Force-complete a plan (admin)
// @Description Transitions any plan to completed regardless of its end date. Idempotent.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan's ObjectID Hex"
// @Success 200 {object} PlanResponse "Closed plan"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId}/close [post]
func (h *PlanHandler) ClosePlan(c *gin.Context) {
	planID, ok := planIDFromPath(c)
	if !ok {
		return
	}

	plan, err := h.planService.ClosePlan(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to close plan.")
		}
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// --- Path/context helpers ---

func ownerIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return id, true
}

func planIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return primitive.NilObjectID, false
	}
	return planID, true
}
