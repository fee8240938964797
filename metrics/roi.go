package metrics

import (
	"copilot-usage-dashboard/config"
	"copilot-usage-dashboard/model"
)

// CalculateROI turns accepted lines of code and configurable constants into
// an hours/money-saved estimate and a return-on-investment ratio. Pure;
// every division is zero-guarded so results are never NaN or Inf.
func CalculateROI(acceptedLines, avgLinesPerHour, avgHourlyRate, licenseCost float64) model.ROIResult {
	result := model.ROIResult{LicenseCost: licenseCost}

	if avgLinesPerHour > 0 {
		result.HoursSaved = acceptedLines / avgLinesPerHour
	}
	result.MoneySaved = result.HoursSaved * avgHourlyRate

	if licenseCost > 0 {
		result.ROI = result.MoneySaved/licenseCost - 1
	}
	result.ROIPercentage = result.ROI * 100

	return result
}

// ROIFromMetrics derives the license cost from the daily-average active
// user count (a per-report quantity, not a stored field) and calculates ROI
// for the aggregate.
func ROIFromMetrics(m *model.UsageMetrics, cfg config.ROIConfig) model.ROIResult {
	licenseCost := float64(m.AvgDailyActiveUsers()) * cfg.LicenseCostPerMonth
	return CalculateROI(float64(m.AcceptedLines), cfg.AvgLinesPerHour, cfg.AvgHourlyRate, licenseCost)
}
