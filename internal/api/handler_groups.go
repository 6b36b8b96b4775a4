package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomspot-backend/internal/group"
	"roomspot-backend/internal/schedule"
)

type groupRequest struct {
	Group string `json:"group" binding:"required"`
	User  string `json:"user" binding:"required"`
}

// CreateGroup handles POST /api/create_group.
func (h *Handler) CreateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.groups.Create(req.Group, req.User); err != nil {
		if errors.Is(err, group.ErrGroupExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "group already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": req.Group, "user": req.User})
}

// JoinGroup handles POST /api/join_group.
func (h *Handler) JoinGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.groups.Join(req.Group, req.User); err != nil {
		switch {
		case errors.Is(err, group.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		case errors.Is(err, group.ErrAlreadyMember):
			c.JSON(http.StatusConflict, gin.H{"error": "user is already a member"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": req.Group, "user": req.User})
}

type updateLocationRequest struct {
	Group string   `json:"group" binding:"required"`
	User  string   `json:"user" binding:"required"`
	Lat   *float64 `json:"lat" binding:"required"`
	Lon   *float64 `json:"lon" binding:"required"`
	Day   string   `json:"day" binding:"required"`
	Start string   `json:"start" binding:"required"`
	End   string   `json:"end" binding:"required"`
}

type updateLocationResponse struct {
	AverageLocation []float64             `json:"average_location"`
	TopBuildings    []topBuildingResponse `json:"top_buildings"`
	Members         []string              `json:"members"`
}

// UpdateLocation handles POST /api/update_location: record the member's
// position and return the recomputed meeting spot for the group.
func (h *Handler) UpdateLocation(c *gin.Context) {
	var req updateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query, err := parseQuery(req.Day, req.Start, req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.groups.UpdateLocation(req.Group, req.User, *req.Lat, *req.Lon)
	if err != nil {
		switch {
		case errors.Is(err, group.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		case errors.Is(err, group.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	res, err := h.orch.ForGroup(snap, query)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidWindow) || errors.Is(err, schedule.ErrInvalidDay) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updateLocationResponse{
		AverageLocation: averageLocation(res),
		TopBuildings:    topBuildings(res.TopBuildings),
		Members:         res.Members,
	})
}
