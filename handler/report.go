package handler

import (
	"net/http"

	"copilot-usage-dashboard/metrics"
	"copilot-usage-dashboard/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// OrgReport handles GET /api/report/org
// @Summary Organization report bundle
// @Description Builds the full presentation-ready report (summary, charts, tables, insights, ROI) for the organization.
// @Tags Reports
// @Produce json
// @Param range query string false "Symbolic range identifier" default(28 days)
// @Param from query string false "Start date (YYYY-MM-DD), requires to"
// @Param to query string false "End date (YYYY-MM-DD), requires from"
// @Param normalize query int false "Rescale event sums to this standard day count"
// @Success 200 {object} model.ReportBundle "Report bundle"
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 502 {object} ErrorResponse "Upstream fetch failed"
// @Router /api/report/org [get]
func (h *MetricsHandler) OrgReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	query, err := parseUsageQuery(r)
	if err != nil {
		log.Warn().Err(err).Msg("Invalid report query")
		SendJSONError(w, http.StatusBadRequest, err, "")
		return
	}

	m, err := h.loadUsage(ctx, "", query)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load organization usage for report")
		SendJSONError(w, http.StatusBadGateway, err, "Failed to fetch Copilot metrics")
		return
	}

	roi := metrics.ROIFromMetrics(m, h.config.ROI)
	SendJSONSuccess(w, http.StatusOK, h.reports.Build(m, &roi))
}

// TeamReport handles GET /api/report/team/{teamSlug}
// @Summary Team report bundle
// @Description Builds the full presentation-ready report for one team.
// @Tags Reports
// @Produce json
// @Param teamSlug path string true "GitHub team slug" example(platform-core)
// @Param range query string false "Symbolic range identifier" default(28 days)
// @Param from query string false "Start date (YYYY-MM-DD), requires to"
// @Param to query string false "End date (YYYY-MM-DD), requires from"
// @Param normalize query int false "Rescale event sums to this standard day count"
// @Success 200 {object} model.ReportBundle "Report bundle"
// @Failure 400 {object} ErrorResponse "Invalid team slug or query parameters"
// @Failure 502 {object} ErrorResponse "Upstream fetch failed"
// @Router /api/report/team/{teamSlug} [get]
func (h *MetricsHandler) TeamReport(w http.ResponseWriter, r *http.Request) {
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
		log.Warn().Err(err).Msg("Invalid report query")
		SendJSONError(w, http.StatusBadRequest, err, "")
		return
	}

	m, err := h.loadUsage(ctx, teamSlug, query)
	if err != nil {
		log.Error().Err(err).Str("team_slug", teamSlug).Msg("Failed to load team usage for report")
		SendJSONError(w, http.StatusBadGateway, err, "Failed to fetch Copilot metrics")
		return
	}

	roi := metrics.ROIFromMetrics(m, h.config.ROI)
	SendJSONSuccess(w, http.StatusOK, h.reports.Build(m, &roi))
}
