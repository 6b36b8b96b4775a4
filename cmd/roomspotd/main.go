package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomspot-backend/config"
	"roomspot-backend/internal/api"
	"roomspot-backend/internal/db"
	"roomspot-backend/internal/fetcher"
	"roomspot-backend/internal/group"
	"roomspot-backend/internal/meet"
	"roomspot-backend/internal/schedule"
	"roomspot-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "roomspot ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	if cfg.Catalog.BuildingsFile != "" {
		seeds, err := store.LoadBuildingSeeds(cfg.Catalog.BuildingsFile)
		if err != nil {
			logger.Fatalf("failed to load building seeds from %s: %v", cfg.Catalog.BuildingsFile, err)
		}
		if err := appStore.SeedBuildings(ctx, seeds); err != nil {
			logger.Fatalf("failed to seed buildings: %v", err)
		}
		logger.Printf("seeded %d buildings", len(seeds))
	}

	index, err := appStore.LoadIndex(ctx)
	if err != nil {
		logger.Fatalf("failed to load schedule index: %v", err)
	}
	catalog := schedule.NewHolder(index)
	logger.Printf("schedule index loaded: %d buildings", len(index.Names()))

	groups := group.NewStore()
	orch := meet.New(catalog, meet.Options{
		Staleness:        time.Duration(cfg.Group.StalenessSeconds) * time.Second,
		EnforceTermDates: cfg.Availability.EnforceTermDates,
	})

	fetcherSvc := fetcher.NewService(cfg, appStore, catalog)
	go fetcherSvc.Run(ctx)

	handler := api.NewHandler(groups, catalog, orch)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
