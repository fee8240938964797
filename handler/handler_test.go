package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"copilot-usage-dashboard/cache"
	"copilot-usage-dashboard/config"
	"copilot-usage-dashboard/metrics"
	"copilot-usage-dashboard/model"
	"copilot-usage-dashboard/report"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

// fakeFetcher implements SnapshotFetcher for handler tests.
type fakeFetcher struct {
	snapshots []*model.DailySnapshot
	err       error

	orgCalls     int
	teamCalls    int
	lastTeamSlug string
	invalidated  string
}

func (f *fakeFetcher) OrgMetrics(ctx context.Context, dateRange metrics.DateRange) ([]*model.DailySnapshot, error) {
	f.orgCalls++
	return f.snapshots, f.err
}

func (f *fakeFetcher) TeamMetrics(ctx context.Context, teamSlug string, dateRange metrics.DateRange) ([]*model.DailySnapshot, error) {
	f.teamCalls++
	f.lastTeamSlug = teamSlug
	return f.snapshots, f.err
}

func (f *fakeFetcher) InvalidateResponses(ctx context.Context, pattern string) (int, error) {
	f.invalidated = pattern
	if f.err != nil {
		return 0, f.err
	}
	return 3, nil
}

func testSnapshots() []*model.DailySnapshot {
	day := func(date string, suggestions, acceptances int) *model.DailySnapshot {
		return &model.DailySnapshot{
			Date:             date,
			TotalActiveUsers: 20,
			IDECodeCompletions: &model.IDECodeCompletions{
				TotalEngagedUsers: 15,
				Editors: []model.EditorBreakdown{
					{
						Name: "VS Code",
						Models: []model.ModelBreakdown{
							{Languages: []model.ModelLanguageBreakdown{
								{
									Name:                    "Go",
									TotalCodeSuggestions:    suggestions,
									TotalCodeAcceptances:    acceptances,
									TotalCodeLinesSuggested: suggestions * 3,
									TotalCodeLinesAccepted:  acceptances * 3,
								},
							}},
						},
					},
				},
			},
		}
	}
	return []*model.DailySnapshot{
		day("2026-08-01", 100, 60),
		day("2026-08-02", 100, 60),
	}
}

func testConfig() config.Config {
	var cfg config.Config
	cfg.GitHub.Organization = "acme"
	cfg.GitHub.RequestTimeout = 10
	cfg.ROI = config.ROIConfig{AvgLinesPerHour: 30, AvgHourlyRate: 75, LicenseCostPerMonth: 19}
	return cfg
}

func newTestHandler(t *testing.T, fetcher SnapshotFetcher, cfg config.Config, cacheClient *cache.Cache) *MetricsHandler {
	t.Helper()
	return NewMetricsHandler(fetcher, nil, cacheClient, cfg, report.NewService(report.DefaultInsightRules()))
}

func testRouter(h *MetricsHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/cache/metrics", h.CacheMetrics).Methods("GET")
	r.HandleFunc("/cache", h.InvalidateCache).Methods("DELETE")
	r.HandleFunc("/api/usage/org", h.OrgUsage).Methods("GET")
	r.HandleFunc("/api/usage/team/{teamSlug}", h.TeamUsage).Methods("GET")
	r.HandleFunc("/api/report/org", h.OrgReport).Methods("GET")
	r.HandleFunc("/api/report/team/{teamSlug}", h.TeamReport).Methods("GET")
	return r
}

func doRequest(router *mux.Router, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrgUsage(t *testing.T) {
	fetcher := &fakeFetcher{snapshots: testSnapshots()}
	router := testRouter(newTestHandler(t, fetcher, testConfig(), nil))

	w := doRequest(router, "GET", "/api/usage/org?from=2026-08-01&to=2026-08-02")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var m model.UsageMetrics
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if m.TotalSuggestions != 200 || m.AcceptedSuggestions != 120 {
		t.Errorf("suggestions = %d/%d, want 200/120", m.TotalSuggestions, m.AcceptedSuggestions)
	}
	if m.DataSource != model.SourceOrganization {
		t.Errorf("DataSource = %q, want %q", m.DataSource, model.SourceOrganization)
	}
	if m.ProcessedDays != 2 {
		t.Errorf("ProcessedDays = %d, want 2", m.ProcessedDays)
	}
	if fetcher.orgCalls != 1 {
		t.Errorf("orgCalls = %d, want 1", fetcher.orgCalls)
	}
}

func TestOrgUsage_InvalidQuery(t *testing.T) {
	router := testRouter(newTestHandler(t, &fakeFetcher{}, testConfig(), nil))

	tests := []struct {
		name   string
		target string
	}{
		{"Malformed from date", "/api/usage/org?from=not-a-date&to=2026-08-02"},
		{"Start after end", "/api/usage/org?from=2026-08-10&to=2026-08-02"},
		{"Negative normalize", "/api/usage/org?normalize=-5"},
		{"Non-numeric normalize", "/api/usage/org?normalize=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "GET", tt.target)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestOrgUsage_UpstreamError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream unavailable")}
	router := testRouter(newTestHandler(t, fetcher, testConfig(), nil))

	w := doRequest(router, "GET", "/api/usage/org")

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Message == "" {
		t.Error("error response should carry a message")
	}
}

func TestOrgUsage_Normalize(t *testing.T) {
	fetcher := &fakeFetcher{snapshots: testSnapshots()}
	router := testRouter(newTestHandler(t, fetcher, testConfig(), nil))

	w := doRequest(router, "GET", "/api/usage/org?from=2026-08-01&to=2026-08-02&normalize=1")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var m model.UsageMetrics
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	// 2 processed days rescaled to a 1-day standard doubles the event sums.
	if m.TotalSuggestions != 400 {
		t.Errorf("normalized TotalSuggestions = %d, want 400", m.TotalSuggestions)
	}
	if m.ActiveUsers != 20 {
		t.Errorf("ActiveUsers = %d, want 20 (user counts are not rescaled)", m.ActiveUsers)
	}
}

func TestTeamUsage(t *testing.T) {
	fetcher := &fakeFetcher{snapshots: testSnapshots()}
	router := testRouter(newTestHandler(t, fetcher, testConfig(), nil))

	w := doRequest(router, "GET", "/api/usage/team/platform-core?range=7%20days")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var m model.UsageMetrics
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if m.DataSource != model.SourceTeam || m.TeamSlug != "platform-core" {
		t.Errorf("scope = %q/%q, want team/platform-core", m.DataSource, m.TeamSlug)
	}
	if fetcher.lastTeamSlug != "platform-core" {
		t.Errorf("fetcher received slug %q", fetcher.lastTeamSlug)
	}
}

func TestTeamUsage_InvalidSlug(t *testing.T) {
	fetcher := &fakeFetcher{snapshots: testSnapshots()}
	router := testRouter(newTestHandler(t, fetcher, testConfig(), nil))

	w := doRequest(router, "GET", "/api/usage/team/Bad_Slug!")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if fetcher.teamCalls != 0 {
		t.Error("fetcher should not be called for an invalid slug")
	}
}

func TestOrgUsage_CacheHit(t *testing.T) {
	fetcher := &fakeFetcher{snapshots: testSnapshots()}
	cfg := testConfig()
	cfg.Cache = config.CacheConfig{Enabled: true, MaxSizeMB: 10, TTLSeconds: 60, CounterSize: 1000}

	cacheClient, err := cache.New(cfg.Cache)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(cacheClient.Close)

	router := testRouter(newTestHandler(t, fetcher, cfg, cacheClient))
	target := "/api/usage/org?from=2026-08-01&to=2026-08-02"

	if w := doRequest(router, "GET", target); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}

	// Ristretto admits writes asynchronously.
	time.Sleep(50 * time.Millisecond)

	if w := doRequest(router, "GET", target); w.Code != http.StatusOK {
		t.Fatalf("second request status = %d", w.Code)
	}
	if fetcher.orgCalls != 1 {
		t.Errorf("orgCalls = %d, want 1 (second request should hit cache)", fetcher.orgCalls)
	}

	// A different normalize value is a different cache entry.
	if w := doRequest(router, "GET", target+"&normalize=7"); w.Code != http.StatusOK {
		t.Fatalf("normalized request status = %d", w.Code)
	}
	if fetcher.orgCalls != 2 {
		t.Errorf("orgCalls = %d, want 2 after distinct key", fetcher.orgCalls)
	}
}

func TestOrgReport(t *testing.T) {
	fetcher := &fakeFetcher{snapshots: testSnapshots()}
	router := testRouter(newTestHandler(t, fetcher, testConfig(), nil))

	w := doRequest(router, "GET", "/api/report/org?from=2026-08-01&to=2026-08-02")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var bundle model.ReportBundle
	if err := json.Unmarshal(w.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if bundle.Summary.AcceptanceRate != 60 {
		t.Errorf("Summary.AcceptanceRate = %v, want 60", bundle.Summary.AcceptanceRate)
	}
	if bundle.ROI == nil {
		t.Fatal("report should include an ROI result")
	}
	if bundle.ROI.HoursSaved <= 0 {
		t.Errorf("ROI.HoursSaved = %v, want > 0", bundle.ROI.HoursSaved)
	}
	if len(bundle.Charts.AcceptanceTrend) != 2 {
		t.Errorf("trend length = %d, want 2", len(bundle.Charts.AcceptanceTrend))
	}
}

func TestTeamReport_InvalidSlug(t *testing.T) {
	router := testRouter(newTestHandler(t, &fakeFetcher{}, testConfig(), nil))

	w := doRequest(router, "GET", "/api/report/team/UPPER")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	t.Run("Redis available", func(t *testing.T) {
		mr, err := miniredis.Run()
		if err != nil {
			t.Fatalf("Failed to start miniredis: %v", err)
		}
		defer mr.Close()

		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()

		h := NewMetricsHandler(&fakeFetcher{}, rdb, nil, testConfig(), report.NewService(nil))
		w := doRequest(testRouter(h), "GET", "/health")

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("Redis unavailable", func(t *testing.T) {
		rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
		defer rdb.Close()

		h := NewMetricsHandler(&fakeFetcher{}, rdb, nil, testConfig(), report.NewService(nil))
		w := doRequest(testRouter(h), "GET", "/health")

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})
}

func TestCacheMetrics_Disabled(t *testing.T) {
	router := testRouter(newTestHandler(t, &fakeFetcher{}, testConfig(), nil))

	w := doRequest(router, "GET", "/cache/metrics")

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestInvalidateCache(t *testing.T) {
	fetcher := &fakeFetcher{}
	router := testRouter(newTestHandler(t, fetcher, testConfig(), nil))

	w := doRequest(router, "DELETE", "/cache?pattern=org:acme:*")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if fetcher.invalidated != "org:acme:*" {
		t.Errorf("pattern = %q, want org:acme:*", fetcher.invalidated)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["deletedResponses"] != float64(3) {
		t.Errorf("deletedResponses = %v, want 3", resp["deletedResponses"])
	}
}

func TestInvalidateCache_Error(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("redis down")}
	router := testRouter(newTestHandler(t, fetcher, testConfig(), nil))

	w := doRequest(router, "DELETE", "/cache")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
