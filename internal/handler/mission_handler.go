package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avewell/fieldtours-backend-go/internal/models"
	"github.com/avewell/fieldtours-backend-go/internal/service"
	"github.com/avewell/fieldtours-backend-go/pkg/response"
)

// MissionHandler handles HTTP requests for missions
type MissionHandler struct {
	service  *service.MissionService
	defaults models.PlanParams

	// segmentCount seeds generation when a request asks for neither
	// explicit segments nor a generate count.
	segmentCount int
}

// NewMissionHandler creates a new mission handler
func NewMissionHandler(service *service.MissionService, defaults models.PlanParams, segmentCount int) *MissionHandler {
	return &MissionHandler{service: service, defaults: defaults, segmentCount: segmentCount}
}

// SegmentInput is one stranded segment position in a mission request
type SegmentInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreateMissionRequest represents the request body for creating a mission.
// Omitted geometry falls back to the configured field defaults.
type CreateMissionRequest struct {
	Name                  string  `json:"name"`
	WidthMeters           float64 `json:"width_m"`
	HeightMeters          float64 `json:"height_m"`
	CellSideMeters        float64 `json:"cell_side_m"`
	CollectionRangeMeters float64 `json:"collection_range_m"`

	Segments      []SegmentInput `json:"segments"`
	GenerateCount int            `json:"generate_count"`
	Seed          int64          `json:"seed"`
}

// CreateMission creates a mission from explicit or generated segments
// POST /api/v1/missions
func (h *MissionHandler) CreateMission(c *gin.Context) {
	var req CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	in := service.CreateMissionInput{
		Name:                  req.Name,
		WidthMeters:           orDefault(req.WidthMeters, h.defaults.WidthMeters),
		HeightMeters:          orDefault(req.HeightMeters, h.defaults.HeightMeters),
		CellSideMeters:        orDefault(req.CellSideMeters, h.defaults.CellSideMeters),
		CollectionRangeMeters: orDefault(req.CollectionRangeMeters, h.defaults.CollectionRangeMeters),
		GenerateCount:         req.GenerateCount,
		Seed:                  req.Seed,
	}
	for _, seg := range req.Segments {
		in.Segments = append(in.Segments, models.Segment{X: seg.X, Y: seg.Y})
	}
	if len(in.Segments) == 0 && in.GenerateCount == 0 {
		in.GenerateCount = h.segmentCount
	}
	if len(in.Segments) == 0 && in.Seed == 0 {
		in.Seed = time.Now().Unix()
	}

	mission, err := h.service.CreateMission(in)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	response.Created(c, mission)
}

// ListMissions retrieves missions, newest first
// GET /api/v1/missions
func (h *MissionHandler) ListMissions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	missions, err := h.service.ListMissions(limit, offset)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"missions": missions,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetMission retrieves a mission by public ID
// GET /api/v1/missions/:id
func (h *MissionHandler) GetMission(c *gin.Context) {
	mission, err := h.service.GetMission(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, mission)
}

// GetSegments retrieves a mission's segments
// GET /api/v1/missions/:id/segments
func (h *MissionHandler) GetSegments(c *gin.Context) {
	segments, err := h.service.GetSegments(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"segments": segments,
		"count":    len(segments),
	})
}

func orDefault(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
