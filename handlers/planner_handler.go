package handlers

import (
	"errors"
	"io"
	"net/http"

	"layer-backend/service"

	"github.com/gin-gonic/gin"
)

// PlannerHandler handles the weekly outfit planner
type PlannerHandler struct {
	planner *service.PlannerService
}

// NewPlannerHandler creates a new planner handler
func NewPlannerHandler(planner *service.PlannerService) *PlannerHandler {
	return &PlannerHandler{planner: planner}
}

// GetWeek handles GET /api/planner
func (h *PlannerHandler) GetWeek(c *gin.Context) {
	week, err := h.planner.GetWeek(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, week)
}

// AssignDayRequest is the body of PUT /api/planner/:day
type AssignDayRequest struct {
	OutfitID *string `json:"outfitId"`
	Note     string  `json:"note"`
}

// AssignDay handles PUT /api/planner/:day
func (h *PlannerHandler) AssignDay(c *gin.Context) {
	var req AssignDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	week, err := h.planner.AssignDay(c.Request.Context(), sessionFrom(c), service.AssignDayRequest{
		Day:      c.Param("day"),
		OutfitID: req.OutfitID,
		Note:     req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, week)
}

// ClearDay handles DELETE /api/planner/:day
func (h *PlannerHandler) ClearDay(c *gin.Context) {
	week, err := h.planner.ClearDay(c.Request.Context(), sessionFrom(c), c.Param("day"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, week)
}

// AutoScheduleRequest is the body of POST /api/planner/auto
type AutoScheduleRequest struct {
	Weather string `json:"weather"`
}

// AutoSchedule handles POST /api/planner/auto. The body is optional.
func (h *PlannerHandler) AutoSchedule(c *gin.Context) {
	var req AutoScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	res, err := h.planner.AutoSchedule(c.Request.Context(), sessionFrom(c), req.Weather)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}
