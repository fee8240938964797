package handler

import (
	"context"
	"net/http"
	"strconv"

	"copilot-usage-dashboard/cache"
	"copilot-usage-dashboard/metrics"
	"copilot-usage-dashboard/model"
	"copilot-usage-dashboard/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// usageQuery carries the parsed query parameters shared by the usage and
// report endpoints.
type usageQuery struct {
	dateRange metrics.DateRange
	normalize int
}

// parseUsageQuery reads either explicit from/to bounds or a symbolic range
// identifier ("7 days" etc., defaulting to 28 days), plus the optional
// normalize day count.
func parseUsageQuery(r *http.Request) (usageQuery, error) {
	q := r.URL.Query()

	var query usageQuery
	from := q.Get("from")
	to := q.Get("to")
	if from != "" || to != "" {
		dateRange, err := metrics.ParseDateRange(from, to)
		if err != nil {
			return usageQuery{}, err
		}
		query.dateRange = dateRange
	} else {
		query.dateRange = metrics.FromRangeIdentifier(q.Get("range"))
	}

	if raw := q.Get("normalize"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return usageQuery{}, utils.ErrInvalidNormalizeDay
		}
		query.normalize = days
	}

	return query, nil
}

// loadUsage returns the aggregate for the given scope, consulting the
// in-memory cache before fetching and folding snapshots.
func (h *MetricsHandler) loadUsage(ctx context.Context, teamSlug string, query usageQuery) (*model.UsageMetrics, error) {
	scope := model.SourceOrganization
	if teamSlug != "" {
		scope = model.SourceTeam
	}
	key := cache.Key("usage", scope, h.config.GitHub.Organization, teamSlug,
		query.dateRange.FormattedStart(), query.dateRange.FormattedEnd(),
		strconv.Itoa(query.normalize))

	if h.config.Cache.Enabled && h.cache != nil {
		if cached, found := h.cache.Get(key); found {
			if m, ok := cached.(*model.UsageMetrics); ok {
				log.Debug().Str("key", key).Msg("Usage served from cache")
				return m, nil
			}
		}
	}

	var snapshots []*model.DailySnapshot
	var err error
	if teamSlug == "" {
		snapshots, err = h.fetcher.OrgMetrics(ctx, query.dateRange)
	} else {
		snapshots, err = h.fetcher.TeamMetrics(ctx, teamSlug, query.dateRange)
	}
	if err != nil {
		return nil, err
	}

	m := h.aggregator.Process(snapshots, scope, teamSlug)
	if query.normalize > 0 {
		m = m.NormalizeForTimeRange(query.normalize)
	}

	if h.config.Cache.Enabled && h.cache != nil {
		// Cost estimate: the aggregate plus retained raw snapshots.
		h.cache.Set(key, m, int64(4096+len(snapshots)*2048))
	}

	return m, nil
}

// OrgUsage handles GET /api/usage/org
// @Summary Organization usage metrics
// @Description Aggregates the organization's daily Copilot snapshots into summary metrics. Accepts either a symbolic range ("1 day", "7 days", "14 days", "28 days") or explicit from/to dates.
// @Tags Usage
// @Produce json
// @Param range query string false "Symbolic range identifier" default(28 days)
// @Param from query string false "Start date (YYYY-MM-DD), requires to"
// @Param to query string false "End date (YYYY-MM-DD), requires from"
// @Param normalize query int false "Rescale event sums to this standard day count"
// @Success 200 {object} model.UsageMetrics "Aggregated usage metrics"
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 502 {object} ErrorResponse "Upstream fetch failed"
// @Router /api/usage/org [get]
func (h *MetricsHandler) OrgUsage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	query, err := parseUsageQuery(r)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid usage query")
		SendJSONError(w, http.StatusBadRequest, err, "")
		return
	}

	m, err := h.loadUsage(ctx, "", query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load organization usage")
		SendJSONError(w, http.StatusBadGateway, err, "Failed to fetch Copilot metrics")
		return
	}

	SendJSONSuccess(w, http.StatusOK, m)
}

// TeamUsage handles GET /api/usage/team/{teamSlug}
// @Summary Team usage metrics
// @Description Aggregates one team's daily Copilot snapshots into summary metrics.
// @Tags Usage
// @Produce json
// @Param teamSlug path string true "GitHub team slug" example(platform-core)
// @Param range query string false "Symbolic range identifier" default(28 days)
// @Param from query string false "Start date (YYYY-MM-DD), requires to"
// @Param to query string false "End date (YYYY-MM-DD), requires from"
// @Param normalize query int false "Rescale event sums to this standard day count"
// @Success 200 {object} model.UsageMetrics "Aggregated usage metrics"
// @Failure 400 {object} ErrorResponse "Invalid team slug or query parameters"
// @Failure 502 {object} ErrorResponse "Upstream fetch failed"
// @Router /api/usage/team/{teamSlug} [get]
func (h *MetricsHandler) TeamUsage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	teamSlug := mux.Vars(r)["teamSlug"]
	if err := utils.ValidateTeamSlug(teamSlug); err != nil {
		log.Warn().Err(err).Str("team_slug", teamSlug).Msg("Invalid team slug")
		SendJSONError(w, http.StatusBadRequest, err, "")
		return
	}

	query, err := parseUsageQuery(r)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid usage query")
		SendJSONError(w, http.StatusBadRequest, err, "")
		return
	}

	m, err := h.loadUsage(ctx, teamSlug, query)
	if err != nil {
		log.Error().Err(err).Str("team_slug", teamSlug).Msg("Failed to load team usage")
		SendJSONError(w, http.StatusBadGateway, err, "Failed to fetch Copilot metrics")
		return
	}

	SendJSONSuccess(w, http.StatusOK, m)
}
