package api

import (
	"fmt"

	"roomspot-backend/internal/group"
	"roomspot-backend/internal/meet"
	"roomspot-backend/internal/schedule"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	groups  *group.Store
	catalog *schedule.Holder
	orch    *meet.Orchestrator
}

// NewHandler creates a new API handler.
func NewHandler(groups *group.Store, catalog *schedule.Holder, orch *meet.Orchestrator) *Handler {
	return &Handler{
		groups:  groups,
		catalog: catalog,
		orch:    orch,
	}
}

// parseQuery validates the day token and HH:MM window shared by every
// availability-carrying request.
func parseQuery(dayToken, startStr, endStr string) (meet.Query, error) {
	day, err := schedule.ParseDay(dayToken)
	if err != nil {
		return meet.Query{}, err
	}
	start, err := schedule.ParseClock(startStr)
	if err != nil {
		return meet.Query{}, err
	}
	end, err := schedule.ParseClock(endStr)
	if err != nil {
		return meet.Query{}, err
	}
	if start >= end {
		return meet.Query{}, fmt.Errorf("%w: %s-%s", schedule.ErrInvalidWindow, startStr, endStr)
	}
	return meet.Query{Day: day, Start: start, End: end}, nil
}

// topBuildingResponse is one ranked candidate in a meeting spot response.
type topBuildingResponse struct {
	Building       string   `json:"building"`
	DistanceMeters float64  `json:"distance_meters"`
	FreeRooms      []string `json:"free_rooms"`
	OccupiedRooms  []string `json:"occupied_rooms"`
}

func topBuildings(results []meet.BuildingResult) []topBuildingResponse {
	out := make([]topBuildingResponse, 0, len(results))
	for _, r := range results {
		out = append(out, topBuildingResponse{
			Building:       r.Building,
			DistanceMeters: r.Meters,
			FreeRooms:      r.FreeRooms,
			OccupiedRooms:  r.OccupiedRooms,
		})
	}
	return out
}

// averageLocation renders the centroid as [lat, lon], or nil (JSON null)
// when no position is known.
func averageLocation(res meet.Result) []float64 {
	if res.Centroid == nil {
		return nil
	}
	return []float64{res.Centroid.Lat, res.Centroid.Lon}
}
