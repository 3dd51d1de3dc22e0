package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"runplan/marathon-planner/internal/domain"
	"runplan/marathon-planner/internal/gcal"
	"runplan/marathon-planner/internal/service"
)

// PlanHandler handles plan generation, export, and calendar sync endpoints.
type PlanHandler struct {
	planService   service.PlanService
	exportService service.ExportService
	syncService   service.SyncService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, exportService service.ExportService, syncService service.SyncService) *PlanHandler {
	return &PlanHandler{
		planService:   planService,
		exportService: exportService,
		syncService:   syncService,
	}
}

// --- Request/Response Structs ---

type GeneratePlanRequest struct {
	RaceType     string   `json:"raceType" binding:"required,oneof=marathon half-marathon"`
	SkillLevel   string   `json:"skillLevel" binding:"required,oneof=beginner intermediate advanced"`
	RaceDate     string   `json:"raceDate" binding:"required"`
	LongRunDay   string   `json:"longRunDay" binding:"required"`
	TrainingDays []string `json:"trainingDays" binding:"required,min=1"`
}

type PublishResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// --- Handler Methods ---

// GeneratePlan creates and stores a new training plan for the caller.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	params := domain.RequestParameters{
		RaceType:     req.RaceType,
		SkillLevel:   req.SkillLevel,
		RaceDate:     req.RaceDate,
		LongRunDay:   req.LongRunDay,
		TrainingDays: req.TrainingDays,
	}

	plan, err := h.planService.GeneratePlan(c.Request.Context(), ownerID, params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlanRequest) || errors.Is(err, domain.ErrInvalidDate) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate training plan")
		}
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// ListPlans returns every plan owned by the caller, newest first.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans")
		return
	}
	if plans == nil {
		plans = []domain.TrainingPlan{}
	}

	c.JSON(http.StatusOK, plans)
}

// GetPlan returns a single plan owned by the caller.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	ownerID, planID, ok := h.planRequestIDs(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), planID, ownerID)
	if err != nil {
		h.handlePlanError(c, err, "Failed to retrieve plan")
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a plan owned by the caller, along with its published
// export object if one exists.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	ownerID, planID, ok := h.planRequestIDs(c)
	if !ok {
		return
	}

	// Best effort: a failed storage delete leaves an orphaned object but
	// must not block removing the plan itself.
	if err := h.exportService.DiscardExport(c.Request.Context(), planID, ownerID); err != nil && !errors.Is(err, service.ErrPlanNotFound) {
		log.Printf("WARN: Failed to discard export for plan %s: %v", planID.Hex(), err)
	}

	if err := h.planService.DeletePlan(c.Request.Context(), planID, ownerID); err != nil {
		h.handlePlanError(c, err, "Failed to delete plan")
		return
	}

	c.Status(http.StatusNoContent)
}

// MonthGrid returns the per-day calendar cells for one month of a plan.
func (h *PlanHandler) MonthGrid(c *gin.Context) {
	ownerID, planID, ok := h.planRequestIDs(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 {
		abortWithError(c, http.StatusBadRequest, "Invalid year query parameter")
		return
	}
	monthNum, err := strconv.Atoi(c.Query("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		abortWithError(c, http.StatusBadRequest, "Invalid month query parameter")
		return
	}

	cells, err := h.planService.MonthGrid(c.Request.Context(), planID, ownerID, year, time.Month(monthNum))
	if err != nil {
		h.handlePlanError(c, err, "Failed to build calendar grid")
		return
	}

	c.JSON(http.StatusOK, cells)
}

// ExportPlan streams the plan as an ICS file download.
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	ownerID, planID, ok := h.planRequestIDs(c)
	if !ok {
		return
	}

	export, err := h.exportService.EncodePlan(c.Request.Context(), planID, ownerID)
	if err != nil {
		h.handlePlanError(c, err, "Failed to export plan")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(export.Content))
}

// PublishPlan uploads the ICS export and returns a temporary download link.
func (h *PlanHandler) PublishPlan(c *gin.Context) {
	ownerID, planID, ok := h.planRequestIDs(c)
	if !ok {
		return
	}

	url, err := h.exportService.PublishPlan(c.Request.Context(), planID, ownerID)
	if err != nil {
		if errors.Is(err, service.ErrExportFailed) {
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}
		h.handlePlanError(c, err, "Failed to publish plan export")
		return
	}

	c.JSON(http.StatusOK, PublishResponse{DownloadURL: url})
}

// SyncPlan pushes every non-rest workout of the plan to the connected
// Google calendar. Partial failures still return 200 with the counts.
func (h *PlanHandler) SyncPlan(c *gin.Context) {
	ownerID, planID, ok := h.planRequestIDs(c)
	if !ok {
		return
	}

	result, err := h.syncService.AddPlanToCalendar(c.Request.Context(), planID, ownerID)
	if err != nil {
		h.handleSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RemoveSyncedEvents deletes every previously synced event from the
// connected calendar. Running it with nothing to remove is not an error.
func (h *PlanHandler) RemoveSyncedEvents(c *gin.Context) {
	if _, err := getUserIDFromContext(c); err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	result, err := h.syncService.RemoveFromCalendar(c.Request.Context())
	if err != nil {
		h.handleSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// --- Helpers ---

// planRequestIDs extracts the caller ID and the :planId path parameter.
// On failure it writes the error response and returns ok=false.
func (h *PlanHandler) planRequestIDs(c *gin.Context) (ownerID, planID primitive.ObjectID, ok bool) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	planID, err = primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	return ownerID, planID, true
}

func (h *PlanHandler) handlePlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidDate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

func (h *PlanHandler) handleSyncError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidDate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, gcal.ErrMissingCredentials):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, gcal.ErrAuthorization):
		abortWithError(c, http.StatusBadGateway, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Calendar synchronization failed")
	}
}
