package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avewell/fieldtours-backend-go/internal/service"
	"github.com/avewell/fieldtours-backend-go/pkg/response"
)

// VisualizationHandler handles HTTP requests for visualization data
type VisualizationHandler struct {
	service *service.VisualizationService
}

// NewVisualizationHandler creates a new visualization handler
func NewVisualizationHandler(service *service.VisualizationService) *VisualizationHandler {
	return &VisualizationHandler{service: service}
}

// GetTourGeometry retrieves frontend-ready tour geometry for a run
// GET /api/v1/viz/runs/:id/tours
func (h *VisualizationHandler) GetTourGeometry(c *gin.Context) {
	geo, err := h.service.GetTourGeometry(c.Param("id"))
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}

	response.Success(c, geo)
}

// GetMapPNG renders a run's tour map as a PNG image
// GET /api/v1/viz/runs/:id/map.png
func (h *VisualizationHandler) GetMapPNG(c *gin.Context) {
	// Render into memory first so a mid-render failure cannot leave a
	// half-written image on the wire.
	var buf bytes.Buffer
	if err := h.service.WriteMapPNG(c.Param("id"), &buf); err != nil {
		response.NotFound(c, err.Error())
		return
	}

	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// GetReportHTML renders a run's per-tour energy chart as HTML
// GET /api/v1/viz/runs/:id/report.html
func (h *VisualizationHandler) GetReportHTML(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.WriteEnergyHTML(c.Param("id"), &buf); err != nil {
		response.NotFound(c, err.Error())
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
