package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomspot-backend/internal/meet"
)

type manualAverageRequest struct {
	Buildings []string `json:"buildings" binding:"required"`
	Day       string   `json:"day" binding:"required"`
	Start     string   `json:"start" binding:"required"`
	End       string   `json:"end" binding:"required"`
}

type manualAverageResponse struct {
	AverageLocation []float64             `json:"average_location"`
	TopBuildings    []topBuildingResponse `json:"top_buildings"`
}

// ManualAverage handles POST /api/manual_average: a one-shot meeting spot
// request over a caller-selected building set, no live tracking involved.
func (h *Handler) ManualAverage(c *gin.Context) {
	var req manualAverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query, err := parseQuery(req.Day, req.Start, req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.orch.Manual(req.Buildings, query)
	if err != nil {
		if errors.Is(err, meet.ErrNoBuildings) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no valid buildings selected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, manualAverageResponse{
		AverageLocation: averageLocation(res),
		TopBuildings:    topBuildings(res.TopBuildings),
	})
}
