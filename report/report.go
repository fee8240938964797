package report

import (
	"copilot-usage-dashboard/model"
)

// Service maps a UsageMetrics (plus optional ROI) into the summary, chart,
// table and insight shapes the dashboard frontend consumes. Pure transform:
// a nil input yields empty structures, never an error.
type Service struct {
	rules []InsightRule
}

func NewService(rules []InsightRule) *Service {
	return &Service{rules: rules}
}

// Build assembles the full report bundle.
func (s *Service) Build(m *model.UsageMetrics, roi *model.ROIResult) model.ReportBundle {
	bundle := model.ReportBundle{
		Insights: []string{},
	}
	bundle.Charts.LanguagesByAcceptedLines = []model.ChartPoint{}
	bundle.Charts.EditorsByAcceptances = []model.ChartPoint{}
	bundle.Charts.AcceptanceTrend = []model.TrendPoint{}
	bundle.Tables.Languages = []model.BreakdownRow{}
	bundle.Tables.Editors = []model.BreakdownRow{}

	if m == nil {
		return bundle
	}

	bundle.Summary = model.Summary{
		ActiveUsers:         m.ActiveUsers,
		EngagedUsers:        m.EngagedUsers,
		TotalSuggestions:    m.TotalSuggestions,
		AcceptedSuggestions: m.AcceptedSuggestions,
		AcceptedLines:       m.AcceptedLines,
		AcceptanceRate:      m.AcceptanceRate(),
		EngagementRate:      m.EngagementRate(),
		ProcessedDays:       m.ProcessedDays,
		DataSource:          m.DataSource,
		TeamSlug:            m.TeamSlug,
	}

	for _, lang := range m.Languages {
		bundle.Charts.LanguagesByAcceptedLines = append(bundle.Charts.LanguagesByAcceptedLines, model.ChartPoint{
			Name:  lang.Name,
			Value: float64(lang.TotalLinesAccepted),
		})
		bundle.Tables.Languages = append(bundle.Tables.Languages, breakdownRow(
			lang.Name, lang.TotalEngagedUsers, lang.TotalSuggestions, lang.TotalAcceptances,
			lang.TotalLinesSuggested, lang.TotalLinesAccepted))
	}

	for _, editor := range m.Editors {
		bundle.Charts.EditorsByAcceptances = append(bundle.Charts.EditorsByAcceptances, model.ChartPoint{
			Name:  editor.Name,
			Value: float64(editor.TotalAcceptances),
		})
		bundle.Tables.Editors = append(bundle.Tables.Editors, breakdownRow(
			editor.Name, editor.TotalEngagedUsers, editor.TotalSuggestions, editor.TotalAcceptances,
			editor.TotalLinesSuggested, editor.TotalLinesAccepted))
	}

	bundle.Charts.AcceptanceTrend = acceptanceTrend(m.RawData)

	resolved := resolveMetrics(m, roi)
	for _, rule := range s.rules {
		if text, fired := rule.evaluate(resolved); fired {
			bundle.Insights = append(bundle.Insights, text)
		}
	}

	bundle.ROI = roi
	return bundle
}

func breakdownRow(name string, engaged, suggestions, acceptances, linesSuggested, linesAccepted int) model.BreakdownRow {
	row := model.BreakdownRow{
		Name:           name,
		EngagedUsers:   engaged,
		Suggestions:    suggestions,
		Acceptances:    acceptances,
		LinesSuggested: linesSuggested,
		LinesAccepted:  linesAccepted,
	}
	if suggestions > 0 {
		row.AcceptanceRate = float64(acceptances) / float64(suggestions) * 100
	}
	return row
}

// acceptanceTrend re-derives a per-day time series from the retained raw
// snapshots, walking the same nested entries the aggregator sums so the
// trend and the totals agree.
func acceptanceTrend(snapshots []*model.DailySnapshot) []model.TrendPoint {
	trend := []model.TrendPoint{}
	for _, snap := range snapshots {
		if snap == nil {
			continue
		}
		point := model.TrendPoint{Date: snap.Date}
		if snap.IDECodeCompletions != nil {
			for _, editor := range snap.IDECodeCompletions.Editors {
				for _, mdl := range editor.Models {
					for _, lang := range mdl.Languages {
						point.Suggestions += lang.TotalCodeSuggestions
						point.Acceptances += lang.TotalCodeAcceptances
					}
				}
			}
		}
		if point.Suggestions > 0 {
			point.AcceptanceRate = float64(point.Acceptances) / float64(point.Suggestions) * 100
		}
		trend = append(trend, point)
	}
	return trend
}
