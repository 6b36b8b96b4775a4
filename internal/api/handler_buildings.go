package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomspot-backend/internal/schedule"
)

// GetBuildings handles GET /api/buildings.
func (h *Handler) GetBuildings(c *gin.Context) {
	ix := h.catalog.Load()
	c.JSON(http.StatusOK, gin.H{"buildings": ix.Names()})
}

type availabilityResponse struct {
	Building       string   `json:"building"`
	Day            string   `json:"day"`
	RequestedRange string   `json:"requested_range"`
	FreeRooms      []string `json:"free_rooms"`
	OccupiedRooms  []string `json:"occupied_rooms"`
}

// GetAvailability handles GET /api/availability/:building?day&start&end.
func (h *Handler) GetAvailability(c *gin.Context) {
	building := c.Param("building")

	query, err := parseQuery(c.Query("day"), c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ix := h.catalog.Load()
	avail, err := ix.Resolve(building, query.Day, query.Start, query.End, h.orch.ResolveOptions())
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBuildingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "building not found"})
		case errors.Is(err, schedule.ErrInvalidWindow), errors.Is(err, schedule.ErrInvalidDay):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, availabilityResponse{
		Building: building,
		Day:      query.Day.String(),
		RequestedRange: fmt.Sprintf("%s-%s",
			schedule.FormatClock(query.Start), schedule.FormatClock(query.End)),
		FreeRooms:     avail.Free,
		OccupiedRooms: avail.Occupied,
	})
}
