package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"copilot-usage-dashboard/cache"
	"copilot-usage-dashboard/config"
	"copilot-usage-dashboard/copilot"
	_ "copilot-usage-dashboard/docs" // Swagger docs
	"copilot-usage-dashboard/handler"
	appLogger "copilot-usage-dashboard/logger"
	"copilot-usage-dashboard/middleware"
	redisClient "copilot-usage-dashboard/redis"
	"copilot-usage-dashboard/report"
	"copilot-usage-dashboard/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Copilot Usage Dashboard API
// @version 1.0
// @description Dashboard backend that fetches GitHub Copilot usage metrics, aggregates daily snapshots into summary statistics, and serves chart- and table-ready reports with ROI estimates.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Usage
// @tag.description Aggregated Copilot usage metrics per organization or team

// @tag.name Reports
// @tag.description Presentation-ready report bundles (summary, charts, tables, insights, ROI)

// @tag.name System
// @tag.description Health checks, cache metrics, and cache invalidation

func main() {
	// Initialize logger
	appLogger.Initialize()

	// Load configuration
	cfg := config.MustLoadConfig()
	log.Info().Msg("Configuration loaded successfully")

	if err := utils.ValidateOrganization(cfg.GitHub.Organization); err != nil {
		log.Fatal().Err(err).Msg("Invalid github.organization configuration")
	}

	// Initialize Redis client (persistent upstream-response cache)
	rdb := redisClient.NewClient(cfg.Redis)

	// Initialize report cache (if enabled)
	var cacheClient *cache.Cache
	if cfg.Cache.Enabled {
		var err error
		cacheClient, err = cache.New(cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize report cache")
		}
	} else {
		log.Info().Msg("Report cache disabled in configuration")
	}

	// Initialize GitHub Copilot metrics client
	copilotClient, err := copilot.NewClient(cfg.GitHub, rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize GitHub client")
	}
	log.Info().
		Str("organization", cfg.GitHub.Organization).
		Bool("authenticated", cfg.GitHub.Token != "").
		Msg("GitHub Copilot metrics client initialized")

	// Reporting service with configured (or default) insight rules
	reports := report.NewService(report.RulesFromConfig(cfg.Insights))

	// Create handler with dependency injection
	metricsHandler := handler.NewMetricsHandler(copilotClient, rdb, cacheClient, cfg, reports)

	// Set up router
	r := mux.NewRouter()

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	r.Use(middleware.CORS)
	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)

	// Register routes
	r.HandleFunc("/health", metricsHandler.HealthCheck).Methods("GET")
	r.HandleFunc("/cache/metrics", metricsHandler.CacheMetrics).Methods("GET")
	r.HandleFunc("/cache", metricsHandler.InvalidateCache).Methods("DELETE")
	r.HandleFunc("/api/usage/org", metricsHandler.OrgUsage).Methods("GET")
	r.HandleFunc("/api/usage/team/{teamSlug}", metricsHandler.TeamUsage).Methods("GET")
	r.HandleFunc("/api/report/org", metricsHandler.OrgReport).Methods("GET")
	r.HandleFunc("/api/report/team/{teamSlug}", metricsHandler.TeamReport).Methods("GET")

	// Swagger UI
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Close report cache
	if cacheClient != nil {
		cacheClient.Close()
	}

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Redis connection")
	}

	log.Info().Msg("Server stopped gracefully")
}
