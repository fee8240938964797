package model

// ChartPoint is a single categorical chart entry.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TrendPoint is a per-day time-series entry re-derived from raw snapshots.
type TrendPoint struct {
	Date           string  `json:"date"` // "YYYY-MM-DD"
	Suggestions    int     `json:"suggestions"`
	Acceptances    int     `json:"acceptances"`
	AcceptanceRate float64 `json:"acceptanceRate"`
}

// Charts groups the chart-ready arrays consumed by the dashboard frontend.
type Charts struct {
	LanguagesByAcceptedLines []ChartPoint `json:"languagesByAcceptedLines"`
	EditorsByAcceptances     []ChartPoint `json:"editorsByAcceptances"`
	AcceptanceTrend          []TrendPoint `json:"acceptanceTrend"`
}

// BreakdownRow is one table row for a language or editor.
type BreakdownRow struct {
	Name           string  `json:"name"`
	EngagedUsers   int     `json:"engagedUsers"`
	Suggestions    int     `json:"suggestions"`
	Acceptances    int     `json:"acceptances"`
	LinesSuggested int     `json:"linesSuggested"`
	LinesAccepted  int     `json:"linesAccepted"`
	AcceptanceRate float64 `json:"acceptanceRate"`
}

// Tables groups the table-ready row arrays.
type Tables struct {
	Languages []BreakdownRow `json:"languages"`
	Editors   []BreakdownRow `json:"editors"`
}

// Summary is the flat key-metrics block of a report.
type Summary struct {
	ActiveUsers         int     `json:"activeUsers"`
	EngagedUsers        int     `json:"engagedUsers"`
	TotalSuggestions    int     `json:"totalSuggestions"`
	AcceptedSuggestions int     `json:"acceptedSuggestions"`
	AcceptedLines       int     `json:"acceptedLines"`
	AcceptanceRate      float64 `json:"acceptanceRate"`
	EngagementRate      float64 `json:"engagementRate"`
	ProcessedDays       int     `json:"processedDays"`
	DataSource          string  `json:"dataSource"`
	TeamSlug            string  `json:"teamSlug,omitempty"`
}

// ReportBundle is the full presentation-ready report.
type ReportBundle struct {
	Summary  Summary    `json:"summary"`
	Charts   Charts     `json:"charts"`
	Tables   Tables     `json:"tables"`
	Insights []string   `json:"insights"`
	ROI      *ROIResult `json:"roi,omitempty"`
}
