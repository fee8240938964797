package model

// ROIResult is the on-demand return-on-investment estimate derived from a
// UsageMetrics plus ROI configuration constants. Never persisted.
type ROIResult struct {
	HoursSaved    float64 `json:"hoursSaved"`
	MoneySaved    float64 `json:"moneySaved"`
	LicenseCost   float64 `json:"licenseCost"`
	ROI           float64 `json:"roi"`           // ratio: (moneySaved/licenseCost) - 1
	ROIPercentage float64 `json:"roiPercentage"` // ratio x 100
}
