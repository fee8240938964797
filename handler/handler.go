package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"copilot-usage-dashboard/cache"
	"copilot-usage-dashboard/config"
	"copilot-usage-dashboard/metrics"
	"copilot-usage-dashboard/model"
	"copilot-usage-dashboard/report"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// SnapshotFetcher is the upstream boundary: it supplies daily snapshots and
// owns their persistent response cache.
type SnapshotFetcher interface {
	OrgMetrics(ctx context.Context, dateRange metrics.DateRange) ([]*model.DailySnapshot, error)
	TeamMetrics(ctx context.Context, teamSlug string, dateRange metrics.DateRange) ([]*model.DailySnapshot, error)
	InvalidateResponses(ctx context.Context, pattern string) (int, error)
}

// MetricsHandler serves usage aggregates and report bundles.
type MetricsHandler struct {
	fetcher    SnapshotFetcher
	redis      *redis.Client
	cache      *cache.Cache
	config     config.Config
	aggregator *metrics.Aggregator
	reports    *report.Service
}

// NewMetricsHandler creates a handler with its collaborators injected.
func NewMetricsHandler(fetcher SnapshotFetcher, redisClient *redis.Client, cacheClient *cache.Cache, cfg config.Config, reports *report.Service) *MetricsHandler {
	return &MetricsHandler{
		fetcher:    fetcher,
		redis:      redisClient,
		cache:      cacheClient,
		config:     cfg,
		aggregator: metrics.NewAggregator(),
		reports:    reports,
	}
}

func (h *MetricsHandler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(h.config.GitHub.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

// HealthCheck handles GET /health
// @Summary Health check
// @Description Returns service health status and Redis connectivity
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Service is healthy"
// @Failure 503 {object} map[string]string "Service is unhealthy"
// @Router /health [get]
func (h *MetricsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			log.Error().Err(err).Msg("Redis health check failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "unhealthy",
				"redis":  "unavailable",
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"redis":  "connected",
	})
}

// CacheMetrics handles GET /cache/metrics
// @Summary Cache performance metrics
// @Description Returns report-cache performance metrics including hit rate, misses, and evictions
// @Tags System
// @Produce json
// @Success 200 {object} cache.MetricsSnapshot "Cache metrics"
// @Failure 503 {object} ErrorResponse "Cache is disabled"
// @Router /cache/metrics [get]
func (h *MetricsHandler) CacheMetrics(w http.ResponseWriter, r *http.Request) {
	if !h.config.Cache.Enabled || h.cache == nil {
		SendJSONError(w, http.StatusServiceUnavailable, errors.New("cache is disabled"), "")
		return
	}

	SendJSONSuccess(w, http.StatusOK, h.cache.GetMetricsSnapshot())
}

// InvalidateCache handles DELETE /cache
// @Summary Invalidate cached data
// @Description Deletes cached upstream responses matching the pattern ("*" when omitted) and clears the in-memory report cache
// @Tags System
// @Produce json
// @Param pattern query string false "Key pattern, e.g. org:acme:*" default(*)
// @Success 200 {object} map[string]interface{} "Invalidation result"
// @Failure 500 {object} ErrorResponse "Invalidation failed"
// @Router /cache [delete]
func (h *MetricsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	pattern := r.URL.Query().Get("pattern")

	deleted, err := h.fetcher.InvalidateResponses(ctx, pattern)
	if err != nil {
		log.Error().Err(err).Str("pattern", pattern).Msg("Failed to invalidate cached responses")
		SendJSONError(w, http.StatusInternalServerError, err, "Failed to invalidate cached responses")
		return
	}

	// The in-memory layer cannot delete by pattern, so it is cleared whole.
	if h.cache != nil {
		h.cache.Clear()
	}

	log.Info().Str("pattern", pattern).Int("deleted", deleted).Msg("Cache invalidated")

	SendJSONSuccess(w, http.StatusOK, map[string]interface{}{
		"deletedResponses": deleted,
		"reportCache":      "cleared",
	})
}
