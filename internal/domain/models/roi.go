package models

import "time"

// IncomeEstimate is a point estimate plus the model's fixed accuracy figures.
type IncomeEstimate struct {
	PredictedIncome float64
	RMSE            float64
	RSquared        float64
}

// LoanTerms is a fully amortized loan.
type LoanTerms struct {
	Principal      float64
	AnnualRate     float64
	TermYears      int
	MonthlyPayment float64
	TotalInterest  float64
}

// ROIResult is the return over a horizon and the time to recover the investment.
type ROIResult struct {
	ROIPercentage    float64
	YearsToBreakEven Years
}

// FullROIResult is the assembled answer for one enrollment profile.
type FullROIResult struct {
	PredictedIncome   float64 `json:"predicted_income"`
	RangeLow          float64 `json:"range_low"`
	RangeHigh         float64 `json:"range_high"`
	RMSE              float64 `json:"rmse"`
	RSquared          float64 `json:"r_squared"`
	AnnualCost        float64 `json:"annual_cost"`
	TotalLoanAmount   float64 `json:"total_loan_amount"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	TotalInterestPaid float64 `json:"total_interest_paid"`
	ROIPercentage     float64 `json:"roi_percentage"`
	YearsToBreakEven  Years   `json:"years_to_break_even"`
	CostKnown         bool    `json:"cost_known"`
	DegreeRecognized  bool    `json:"degree_recognized"`
}

// Winner names which side of a comparison came out ahead.
type Winner string

const (
	WinnerA Winner = "A"
	WinnerB Winner = "B"
)

// ComparisonVerdict is one line of a comparison summary.
type ComparisonVerdict struct {
	Winner     Winner  `json:"winner"`
	Difference float64 `json:"difference"`
}

// Comparison holds two results side by side with a summary.
type Comparison struct {
	A            FullROIResult     `json:"a"`
	B            FullROIResult     `json:"b"`
	BetterROI    ComparisonVerdict `json:"better_roi"`
	HigherIncome ComparisonVerdict `json:"higher_income"`
	LowerCost    ComparisonVerdict `json:"lower_cost"`
}

// Analysis is generated prose about a result.
type Analysis struct {
	Text      string `json:"analysis"`
	Provider  string `json:"provider"`
	Fallback  bool   `json:"fallback"`
	FromCache bool   `json:"cached"`
}

// PredictionRecord is one logged computation.
type PredictionRecord struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Profile   EnrollmentProfile `json:"profile"`
	Result    FullROIResult     `json:"result"`
}
