package report

import (
	"strconv"
	"strings"

	"copilot-usage-dashboard/config"
	"copilot-usage-dashboard/model"
)

// InsightRule is one declarative insight: when the named metric compares
// true against the threshold, the template is rendered. Templates may use
// the {value}, {threshold} and {name} placeholders.
type InsightRule struct {
	Metric    string
	Operator  string
	Threshold float64
	Template  string
}

// Metric names resolvable by insight rules.
const (
	MetricAcceptanceRate      = "acceptance_rate"
	MetricEngagementRate      = "engagement_rate"
	MetricAvgDailyActiveUsers = "avg_daily_active_users"
	MetricProcessedDays       = "processed_days"
	MetricAcceptedLines       = "accepted_lines"
	MetricROIPercentage       = "roi_percentage"
	MetricTopLanguageLines    = "top_language_lines_accepted"
)

// DefaultInsightRules returns the built-in rule table. Deployments can
// replace it wholesale through the insights.rules config section.
func DefaultInsightRules() []InsightRule {
	return []InsightRule{
		{MetricAcceptanceRate, ">=", 30, "Acceptance rate of {value}% indicates developers find most suggestions useful."},
		{MetricAcceptanceRate, "<", 15, "Acceptance rate of {value}% is below {threshold}%; suggestion quality may need attention."},
		{MetricEngagementRate, ">=", 80, "Engagement rate of {value}% shows broad adoption among active users."},
		{MetricTopLanguageLines, ">", 0, "{name} leads adoption with {value} accepted lines of code."},
		{MetricROIPercentage, ">=", 100, "Estimated ROI of {value}% more than covers the license cost."},
	}
}

// RulesFromConfig converts configured rules, falling back to the defaults
// when none are configured.
func RulesFromConfig(cfg config.InsightsConfig) []InsightRule {
	if len(cfg.Rules) == 0 {
		return DefaultInsightRules()
	}
	rules := make([]InsightRule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		rules = append(rules, InsightRule{
			Metric:    rc.Metric,
			Operator:  rc.Operator,
			Threshold: rc.Threshold,
			Template:  rc.Template,
		})
	}
	return rules
}

// resolvedMetric is a rule input: the numeric value plus an optional
// subject name for the {name} placeholder.
type resolvedMetric struct {
	value float64
	name  string
}

// resolveMetrics flattens an aggregate (and optional ROI) into the values
// the rule table can reference.
func resolveMetrics(m *model.UsageMetrics, roi *model.ROIResult) map[string]resolvedMetric {
	resolved := map[string]resolvedMetric{
		MetricAcceptanceRate:      {value: m.AcceptanceRate()},
		MetricEngagementRate:      {value: m.EngagementRate()},
		MetricAvgDailyActiveUsers: {value: float64(m.AvgDailyActiveUsers())},
		MetricProcessedDays:       {value: float64(m.ProcessedDays)},
		MetricAcceptedLines:       {value: float64(m.AcceptedLines)},
	}
	if roi != nil {
		resolved[MetricROIPercentage] = resolvedMetric{value: roi.ROIPercentage}
	}
	if top, ok := topLanguageByAcceptedLines(m.Languages); ok {
		resolved[MetricTopLanguageLines] = resolvedMetric{
			value: float64(top.TotalLinesAccepted),
			name:  top.Name,
		}
	}
	return resolved
}

func topLanguageByAcceptedLines(languages []model.LanguageSummary) (model.LanguageSummary, bool) {
	var top model.LanguageSummary
	found := false
	for _, lang := range languages {
		if !found || lang.TotalLinesAccepted > top.TotalLinesAccepted {
			top = lang
			found = true
		}
	}
	return top, found
}

// evaluate renders the rule against resolved metrics, returning the insight
// sentence and whether the rule fired. Rules referencing unresolvable
// metrics or unknown operators never fire.
func (r InsightRule) evaluate(resolved map[string]resolvedMetric) (string, bool) {
	metric, ok := resolved[r.Metric]
	if !ok {
		return "", false
	}

	fired := false
	switch r.Operator {
	case ">=":
		fired = metric.value >= r.Threshold
	case ">":
		fired = metric.value > r.Threshold
	case "<=":
		fired = metric.value <= r.Threshold
	case "<":
		fired = metric.value < r.Threshold
	case "==":
		fired = metric.value == r.Threshold
	}
	if !fired {
		return "", false
	}

	text := r.Template
	text = strings.ReplaceAll(text, "{value}", formatMetricValue(metric.value))
	text = strings.ReplaceAll(text, "{threshold}", formatMetricValue(r.Threshold))
	text = strings.ReplaceAll(text, "{name}", metric.name)
	return text, true
}

func formatMetricValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
