package repository

import (
	"context"
	"time"

	"CollegeROI/internal/domain/models"
	domrepo "CollegeROI/internal/domain/repository"
)

// predictionRow is the flat column layout shared by the SQL recorders.
type predictionRow struct {
	ID               string
	CreatedAt        time.Time
	DegreeType       string
	MajorField       string
	ControlType      string
	State            string
	Institution      string
	PredictedIncome  float64
	RangeLow         float64
	RangeHigh        float64
	RMSE             float64
	RSquared         float64
	AnnualCost       float64
	TotalLoan        float64
	MonthlyPayment   float64
	TotalInterest    float64
	ROIPercentage    float64
	BreakEvenYears   *float64 // nil when the investment is never recovered
	CostKnown        bool
	DegreeRecognized bool
}

func flatten(rec models.PredictionRecord) predictionRow {
	r := rec.Result
	row := predictionRow{
		ID:               rec.ID,
		CreatedAt:        rec.CreatedAt.UTC(),
		DegreeType:       rec.Profile.DegreeType,
		MajorField:       rec.Profile.MajorField,
		ControlType:      rec.Profile.ControlType,
		State:            rec.Profile.State,
		Institution:      rec.Profile.InstitutionName,
		PredictedIncome:  r.PredictedIncome,
		RangeLow:         r.RangeLow,
		RangeHigh:        r.RangeHigh,
		RMSE:             r.RMSE,
		RSquared:         r.RSquared,
		AnnualCost:       r.AnnualCost,
		TotalLoan:        r.TotalLoanAmount,
		MonthlyPayment:   r.MonthlyPayment,
		TotalInterest:    r.TotalInterestPaid,
		ROIPercentage:    r.ROIPercentage,
		CostKnown:        r.CostKnown,
		DegreeRecognized: r.DegreeRecognized,
	}
	if !r.YearsToBreakEven.IsNever() {
		v := float64(r.YearsToBreakEven)
		row.BreakEvenYears = &v
	}
	return row
}

func (row predictionRow) args() []interface{} {
	return []interface{}{
		row.ID, row.CreatedAt,
		row.DegreeType, row.MajorField, row.ControlType, row.State, row.Institution,
		row.PredictedIncome, row.RangeLow, row.RangeHigh, row.RMSE, row.RSquared,
		row.AnnualCost, row.TotalLoan, row.MonthlyPayment, row.TotalInterest,
		row.ROIPercentage, row.BreakEvenYears,
		row.CostKnown, row.DegreeRecognized,
	}
}

const predictionColumns = `id, created_at, degree_type, major_field, control_type, state, institution_name,
	predicted_income, range_low, range_high, rmse, r_squared, annual_cost, total_loan_amount, monthly_payment,
	total_interest_paid, roi_percentage, years_to_break_even, cost_known, degree_recognized`

func (row predictionRow) record() models.PredictionRecord {
	be := models.Never
	if row.BreakEvenYears != nil {
		be = models.Years(*row.BreakEvenYears)
	}
	return models.PredictionRecord{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		Profile: models.EnrollmentProfile{
			DegreeType:      row.DegreeType,
			MajorField:      row.MajorField,
			ControlType:     row.ControlType,
			State:           row.State,
			InstitutionName: row.Institution,
		},
		Result: models.FullROIResult{
			PredictedIncome:   row.PredictedIncome,
			RangeLow:          row.RangeLow,
			RangeHigh:         row.RangeHigh,
			RMSE:              row.RMSE,
			RSquared:          row.RSquared,
			AnnualCost:        row.AnnualCost,
			TotalLoanAmount:   row.TotalLoan,
			MonthlyPayment:    row.MonthlyPayment,
			TotalInterestPaid: row.TotalInterest,
			ROIPercentage:     row.ROIPercentage,
			YearsToBreakEven:  be,
			CostKnown:         row.CostKnown,
			DegreeRecognized:  row.DegreeRecognized,
		},
	}
}

// NoopRecorder drops every record.
type NoopRecorder struct{}

var _ domrepo.PredictionRecorder = NoopRecorder{}

func (NoopRecorder) Init(context.Context) error                            { return nil }
func (NoopRecorder) Record(context.Context, models.PredictionRecord) error { return nil }
func (NoopRecorder) Name() string                                          { return "none" }
func (NoopRecorder) Close() error                                          { return nil }
