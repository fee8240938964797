package model

import (
	"math"
	"time"
)

// Data source tags for aggregated metrics.
const (
	SourceOrganization = "organization"
	SourceTeam         = "team"
)

// LanguageSummary aggregates one language across all processed days.
// TotalEngagedUsers is the maximum seen on any single day (max-per-period
// policy), never a sum, so a user active on several days is not counted
// once per day. The event counters are true sums.
type LanguageSummary struct {
	Name                string `json:"name"`
	TotalEngagedUsers   int    `json:"totalEngagedUsers"`
	TotalSuggestions    int    `json:"totalSuggestions"`
	TotalAcceptances    int    `json:"totalAcceptances"`
	TotalLinesSuggested int    `json:"totalLinesSuggested"`
	TotalLinesAccepted  int    `json:"totalLinesAccepted"`
}

// EditorSummary aggregates one editor across all processed days, with the
// same max-per-period policy for engaged users.
type EditorSummary struct {
	Name                string `json:"name"`
	TotalEngagedUsers   int    `json:"totalEngagedUsers"`
	TotalSuggestions    int    `json:"totalSuggestions"`
	TotalAcceptances    int    `json:"totalAcceptances"`
	TotalLinesSuggested int    `json:"totalLinesSuggested"`
	TotalLinesAccepted  int    `json:"totalLinesAccepted"`
}

// Metadata stamps where and when an aggregate was produced.
type Metadata struct {
	Source        string    `json:"source"` // fetch origin, e.g. "github_api"
	ProcessedAt   time.Time `json:"processedAt"`
	SnapshotCount int       `json:"snapshotCount"`
}

// UsageMetrics is the aggregate produced from N daily snapshots. Instances
// are created fresh on every aggregation and never mutated afterwards;
// NormalizeForTimeRange returns a copy.
type UsageMetrics struct {
	ActiveUsers         int               `json:"activeUsers"`  // daily average
	EngagedUsers        int               `json:"engagedUsers"` // daily average
	TotalSuggestions    int               `json:"totalSuggestions"`
	AcceptedSuggestions int               `json:"acceptedSuggestions"`
	AcceptedLines       int               `json:"acceptedLines"`
	Languages           []LanguageSummary `json:"languages"`
	Editors             []EditorSummary   `json:"editors"`
	ProcessedDays       int               `json:"processedDays"`
	DataSource          string            `json:"dataSource"` // "organization" or "team"
	TeamSlug            string            `json:"teamSlug,omitempty"`
	RawData             []*DailySnapshot  `json:"rawData"`
	Metadata            Metadata          `json:"metadata"`
}

// AvgDailyActiveUsers returns the daily-average active user count.
// ActiveUsers is already averaged during aggregation, so this is a guard
// against uninitialized aggregates rather than a second division.
func (m *UsageMetrics) AvgDailyActiveUsers() int {
	if m.ProcessedDays <= 0 {
		return 0
	}
	return m.ActiveUsers
}

// AcceptanceRate returns accepted/total suggestions as a percentage,
// 0 when no suggestions were recorded.
func (m *UsageMetrics) AcceptanceRate() float64 {
	if m.TotalSuggestions <= 0 {
		return 0
	}
	return float64(m.AcceptedSuggestions) / float64(m.TotalSuggestions) * 100
}

// EngagementRate returns engaged/active users as a percentage, 0 when no
// active users were recorded.
func (m *UsageMetrics) EngagementRate() float64 {
	if m.ActiveUsers <= 0 {
		return 0
	}
	return float64(m.EngagedUsers) / float64(m.ActiveUsers) * 100
}

// NormalizeForTimeRange returns a copy whose event sums (suggestions,
// acceptances, accepted lines) are rescaled by processedDays/standardDays
// so reports over different periods can be compared. User counts are
// already daily averages and are deliberately not rescaled. Returns the
// receiver unchanged when either day count is zero.
func (m *UsageMetrics) NormalizeForTimeRange(standardDays int) *UsageMetrics {
	if m.ProcessedDays == 0 || standardDays == 0 {
		return m
	}

	factor := float64(m.ProcessedDays) / float64(standardDays)

	normalized := *m
	normalized.TotalSuggestions = int(math.Round(float64(m.TotalSuggestions) * factor))
	normalized.AcceptedSuggestions = int(math.Round(float64(m.AcceptedSuggestions) * factor))
	normalized.AcceptedLines = int(math.Round(float64(m.AcceptedLines) * factor))
	return &normalized
}
