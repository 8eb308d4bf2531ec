// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/api"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/cache"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/config"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/repository"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/service"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/storage"
	"github.com/andresuchdata/stock-opname-dss/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Setup("stock-opname-api", cfg.Server.Mode, cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	params, err := cfg.Analysis.Params()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid analysis configuration")
	}
	engine, err := analysis.NewEngine(params)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create analysis engine")
	}

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without it")
		reportCache = cache.NewNoopReportCache()
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize object storage")
	}

	// Initialize services
	opnameService := service.NewOpnameService(repository.NewMemoryProductRepository(), engine, reportCache, store, cfg.Storage.Prefix)
	if cfg.App.SeedSample {
		if err := opnameService.Seed(context.Background(), repository.SampleProducts()); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to seed sample products")
		}
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{OpnameService: opnameService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().
			Str("port", cfg.Server.Port).
			Str("model", string(params.Model)).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
