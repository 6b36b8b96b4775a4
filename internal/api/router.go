package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"roomspot-backend/config"
	"roomspot-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()
	r.Use(mw.RequestID())

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateBurst))
	{
		api.GET("/buildings", caching, h.GetBuildings)
		api.GET("/availability/:building", caching, h.GetAvailability)

		api.POST("/create_group", h.CreateGroup)
		api.POST("/join_group", h.JoinGroup)
		api.POST("/update_location", h.UpdateLocation)
		api.POST("/manual_average", h.ManualAverage)
	}

	return r
}
