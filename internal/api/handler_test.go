package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomspot-backend/config"
	"roomspot-backend/internal/group"
	"roomspot-backend/internal/meet"
	"roomspot-backend/internal/schedule"
)

func testRouter(t *testing.T) (*gin.Engine, *group.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ix := schedule.NewIndex([]schedule.BuildingSchedule{
		{
			Info: schedule.BuildingInfo{
				Name: "Alpha Hall", Latitude: 40.0, Longitude: -83.0101,
				Rooms: []string{"100", "200"},
			},
			Sessions: []schedule.Session{{
				Room:  "100",
				Days:  schedule.DaySet{true, false, false, false, false, false, false},
				Start: 9 * 60,
				End:   10 * 60,
			}},
		},
		{
			Info: schedule.BuildingInfo{
				Name: "Beta Hall", Latitude: 40.0, Longitude: -83.013,
				Rooms: []string{"10"},
			},
		},
	})
	catalog := schedule.NewHolder(ix)

	groups := group.NewStore()
	orch := meet.New(catalog, meet.Options{})
	handler := NewHandler(groups, catalog, orch)

	cfg := &config.ServerConfig{
		Port:            8080,
		RateLimitPerSec: 1000,
		RateBurst:       1000,
		CacheTTLSeconds: 1,
	}
	return NewRouter(handler, cfg), groups
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAndJoinGroup(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/create_group", gin.H{"group": "study", "user": "alice"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/create_group", gin.H{"group": "study", "user": "bob"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/join_group", gin.H{"group": "study", "user": "bob"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/join_group", gin.H{"group": "study", "user": "bob"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/join_group", gin.H{"group": "ghost", "user": "carol"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/create_group", gin.H{"group": "study"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "user is required")
}

func TestUpdateLocation(t *testing.T) {
	r, _ := testRouter(t)

	doJSON(t, r, http.MethodPost, "/api/create_group", gin.H{"group": "study", "user": "alice"})
	doJSON(t, r, http.MethodPost, "/api/join_group", gin.H{"group": "study", "user": "bob"})

	w := doJSON(t, r, http.MethodPost, "/api/update_location", gin.H{
		"group": "study", "user": "alice", "lat": 40.0, "lon": -83.0,
		"day": "mon", "start": "09:00", "end": "10:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AverageLocation []float64 `json:"average_location"`
		TopBuildings    []struct {
			Building      string   `json:"building"`
			FreeRooms     []string `json:"free_rooms"`
			OccupiedRooms []string `json:"occupied_rooms"`
		} `json:"top_buildings"`
		Members []string `json:"members"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, []float64{40.0, -83.0}, resp.AverageLocation)
	assert.Equal(t, []string{"alice", "bob"}, resp.Members)
	require.Len(t, resp.TopBuildings, 2)
	assert.Equal(t, "Alpha Hall", resp.TopBuildings[0].Building)
	assert.Equal(t, []string{"200"}, resp.TopBuildings[0].FreeRooms)
	assert.Equal(t, []string{"100"}, resp.TopBuildings[0].OccupiedRooms)
}

func TestUpdateLocationErrors(t *testing.T) {
	r, _ := testRouter(t)
	doJSON(t, r, http.MethodPost, "/api/create_group", gin.H{"group": "study", "user": "alice"})

	w := doJSON(t, r, http.MethodPost, "/api/update_location", gin.H{
		"group": "ghost", "user": "alice", "lat": 40.0, "lon": -83.0,
		"day": "mon", "start": "09:00", "end": "10:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/update_location", gin.H{
		"group": "study", "user": "mallory", "lat": 40.0, "lon": -83.0,
		"day": "mon", "start": "09:00", "end": "10:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/update_location", gin.H{
		"group": "study", "user": "alice", "lat": 40.0, "lon": -83.0,
		"day": "someday", "start": "09:00", "end": "10:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/update_location", gin.H{
		"group": "study", "user": "alice", "lat": 40.0, "lon": -83.0,
		"day": "mon", "start": "10:00", "end": "10:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "zero-length window")
}

func TestUpdateLocationFailureDoesNotCreateGroup(t *testing.T) {
	r, groups := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/update_location", gin.H{
		"group": "ghost", "user": "alice", "lat": 40.0, "lon": -83.0,
		"day": "mon", "start": "09:00", "end": "10:00",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, err := groups.Snapshot("ghost")
	assert.ErrorIs(t, err, group.ErrGroupNotFound)
}

func TestGetBuildings(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/buildings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Buildings []string `json:"buildings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Alpha Hall", "Beta Hall"}, resp.Buildings)
}

func TestGetAvailability(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/availability/Alpha%20Hall?day=mon&start=09:00&end=10:00", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Building       string   `json:"building"`
		Day            string   `json:"day"`
		RequestedRange string   `json:"requested_range"`
		FreeRooms      []string `json:"free_rooms"`
		OccupiedRooms  []string `json:"occupied_rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alpha Hall", resp.Building)
	assert.Equal(t, "mon", resp.Day)
	assert.Equal(t, "09:00-10:00", resp.RequestedRange)
	assert.Equal(t, []string{"200"}, resp.FreeRooms)
	assert.Equal(t, []string{"100"}, resp.OccupiedRooms)

	w = doJSON(t, r, http.MethodGet, "/api/availability/Nowhere?day=mon&start=09:00&end=10:00", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/availability/Alpha%20Hall?day=mon&start=10:00&end=09:00", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestManualAverage(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/manual_average", gin.H{
		"buildings": []string{"Alpha Hall", "Beta Hall"},
		"day":       "mon", "start": "09:00", "end": "10:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AverageLocation []float64 `json:"average_location"`
		TopBuildings    []struct {
			Building  string   `json:"building"`
			FreeRooms []string `json:"free_rooms"`
		} `json:"top_buildings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.AverageLocation, 2)
	assert.InDelta(t, 40.0, resp.AverageLocation[0], 1e-9)
	assert.Len(t, resp.TopBuildings, 2)

	w = doJSON(t, r, http.MethodPost, "/api/manual_average", gin.H{
		"buildings": []string{"Nowhere"},
		"day":       "mon", "start": "09:00", "end": "10:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/buildings", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
