package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avewell/fieldtours-backend-go/internal/service"
	"github.com/avewell/fieldtours-backend-go/pkg/response"
)

// PlanningRunHandler handles HTTP requests for planning runs
type PlanningRunHandler struct {
	service *service.PlanningService

	// defaultAgents sizes the fleet when a request does not.
	defaultAgents int
}

// NewPlanningRunHandler creates a new planning run handler
func NewPlanningRunHandler(service *service.PlanningService, defaultAgents int) *PlanningRunHandler {
	return &PlanningRunHandler{service: service, defaultAgents: defaultAgents}
}

// CreateRunRequest represents the request body for launching a run. The
// body may be omitted entirely to plan with the configured fleet size.
type CreateRunRequest struct {
	AgentCount int `json:"agent_count"`
}

// CreateRun launches a planning run for a mission
// POST /api/v1/missions/:id/runs
func (h *PlanningRunHandler) CreateRun(c *gin.Context) {
	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	agentCount := req.AgentCount
	if agentCount == 0 {
		agentCount = h.defaultAgents
	}

	run, err := h.service.CreateRun(c.Param("id"), agentCount)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	response.Created(c, run)
}

// ListRuns retrieves a mission's runs, newest first
// GET /api/v1/missions/:id/runs
func (h *PlanningRunHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	runs, err := h.service.ListRuns(c.Param("id"), limit, offset)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}

// GetRun retrieves a run's status and summary figures
// GET /api/v1/runs/:id
func (h *PlanningRunHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, run)
}

// GetTours retrieves a completed run's tours with member cells
// GET /api/v1/runs/:id/tours
func (h *PlanningRunHandler) GetTours(c *gin.Context) {
	tours, err := h.service.GetTours(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"tours": tours,
		"count": len(tours),
	})
}

// GetEnergy retrieves the per-tour energy report for a completed run
// GET /api/v1/runs/:id/energy
func (h *PlanningRunHandler) GetEnergy(c *gin.Context) {
	report, err := h.service.GetEnergy(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, report)
}
