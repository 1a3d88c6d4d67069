package finance

import "CollegeROI/internal/domain/models"

// DefaultHorizonYears is the earnings horizon ROI is measured over.
const DefaultHorizonYears = 10

// Accuracy of the trained income model, echoed in every result.
const (
	DefaultModelRMSE     = 9247.17
	DefaultModelRSquared = 0.5706
)

// ComputeROI returns the percentage return of income earned over years against
// investment, and how many years of income repay the investment.
// Zero investment yields (0, 0). Non-positive income never breaks even.
// The percentage is not clamped, so it goes below -100 for negative income.
func ComputeROI(income, investment float64, years int) models.ROIResult {
	if investment == 0 {
		return models.ROIResult{}
	}

	earnings := income * float64(years)
	res := models.ROIResult{
		ROIPercentage:    (earnings - investment) / investment * 100,
		YearsToBreakEven: models.Never,
	}
	if income > 0 {
		res.YearsToBreakEven = models.Years(investment / income)
	}
	return res
}

// PredictionRange is the one-RMSE band around an estimate, floored at zero.
func PredictionRange(estimate, rmse float64) (low, high float64) {
	low = estimate - rmse
	if low < 0 {
		low = 0
	}
	return low, estimate + rmse
}
