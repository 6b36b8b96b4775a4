package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"roomspot-backend/config"
	"roomspot-backend/internal/api"
	"roomspot-backend/internal/group"
	"roomspot-backend/internal/meet"
	"roomspot-backend/internal/model"
	"roomspot-backend/internal/schedule"
	"roomspot-backend/internal/store"
)

// TestMeetingSpotLifecycle walks the full group flow against a catalog
// persisted in sqlite: create, join, two location reports, and the ranked
// meeting spot answer recomputed on each poll.
func TestMeetingSpotLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	testDB, err := gorm.Open(sqlite.Open("file:meetlifecycle?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, testDB.AutoMigrate(&model.Building{}, &model.Room{}, &model.ClassSession{}))

	appStore := store.NewGormStore(testDB)

	// Catalog: three buildings around the expected (40.0, -83.01) centroid.
	require.NoError(t, appStore.SeedBuildings(ctx, []store.BuildingSeed{
		{Name: "Alpha Hall", Latitude: 40.0, Longitude: -83.0101},
		{Name: "Beta Hall", Latitude: 40.0, Longitude: -83.013},
		{Name: "Gamma Hall", Latitude: 40.0, Longitude: -83.02},
		{Name: "Omega Hall", Latitude: 40.2, Longitude: -83.3},
	}))

	// Alpha's room 100 is in class Monday 09:00-09:55; 200 is never used.
	require.NoError(t, appStore.ReplaceSessions(ctx, "Alpha Hall", []store.SessionRecord{
		{
			Room:        "100",
			Subject:     "CSE",
			CourseTitle: "Systems I",
			Days:        schedule.DaySet{true, false, true, false, false, false, false},
			StartMinute: 9 * 60,
			EndMinute:   9*60 + 55,
		},
		{
			Room:        "200",
			Subject:     "CSE",
			CourseTitle: "Systems II",
			Days:        schedule.DaySet{false, true, false, true, false, false, false},
			StartMinute: 9 * 60,
			EndMinute:   10 * 60,
		},
	}))

	index, err := appStore.LoadIndex(ctx)
	require.NoError(t, err)
	catalog := schedule.NewHolder(index)

	groups := group.NewStore()
	orch := meet.New(catalog, meet.Options{})
	handler := api.NewHandler(groups, catalog, orch)
	router := api.NewRouter(handler, &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateBurst:       1000,
		CacheTTLSeconds: 1,
	})

	post := func(path string, body gin.H) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// alice creates the group, bob joins.
	w := post("/api/create_group", gin.H{"group": "study", "user": "alice"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = post("/api/join_group", gin.H{"group": "study", "user": "bob"})
	require.Equal(t, http.StatusOK, w.Code)

	type spotResponse struct {
		AverageLocation []float64 `json:"average_location"`
		TopBuildings    []struct {
			Building       string   `json:"building"`
			DistanceMeters float64  `json:"distance_meters"`
			FreeRooms      []string `json:"free_rooms"`
			OccupiedRooms  []string `json:"occupied_rooms"`
		} `json:"top_buildings"`
		Members []string `json:"members"`
	}

	// alice reports first; bob has no fix yet but stays listed.
	w = post("/api/update_location", gin.H{
		"group": "study", "user": "alice", "lat": 40.00, "lon": -83.00,
		"day": "mon", "start": "09:00", "end": "10:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var first spotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, []float64{40.0, -83.0}, first.AverageLocation)
	assert.Equal(t, []string{"alice", "bob"}, first.Members)

	// bob reports; the centroid moves to the exact midpoint.
	w = post("/api/update_location", gin.H{
		"group": "study", "user": "bob", "lat": 40.00, "lon": -83.02,
		"day": "mon", "start": "09:00", "end": "10:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var second spotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Len(t, second.AverageLocation, 2)
	assert.Equal(t, 40.0, second.AverageLocation[0])
	assert.InDelta(t, -83.01, second.AverageLocation[1], 1e-9)
	assert.Equal(t, []string{"alice", "bob"}, second.Members)

	// Top 3 of the four buildings, nearest first; Omega is cut.
	require.Len(t, second.TopBuildings, 3)
	assert.Equal(t, "Alpha Hall", second.TopBuildings[0].Building)
	assert.Equal(t, "Beta Hall", second.TopBuildings[1].Building)
	assert.Equal(t, "Gamma Hall", second.TopBuildings[2].Building)
	assert.Less(t, second.TopBuildings[0].DistanceMeters, second.TopBuildings[1].DistanceMeters)

	// Availability computed independently of the group logic: 100 is in
	// class on Monday morning, 200 is free.
	assert.Equal(t, []string{"200"}, second.TopBuildings[0].FreeRooms)
	assert.Equal(t, []string{"100"}, second.TopBuildings[0].OccupiedRooms)

	// The same window on Tuesday flips the partition.
	w = post("/api/update_location", gin.H{
		"group": "study", "user": "bob", "lat": 40.00, "lon": -83.02,
		"day": "tue", "start": "09:00", "end": "10:00",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var third spotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &third))
	assert.Equal(t, []string{"100"}, third.TopBuildings[0].FreeRooms)
	assert.Equal(t, []string{"200"}, third.TopBuildings[0].OccupiedRooms)
}
