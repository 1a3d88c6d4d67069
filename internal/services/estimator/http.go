package estimator

import (
	"context"
	"fmt"
	"math"
	"time"

	"CollegeROI/internal/domain/models"
	domsvc "CollegeROI/internal/domain/service"
)

// HTTPEstimator asks a model service for the predicted income.
type HTTPEstimator struct {
	base *HTTPServiceBase
	path string
}

var _ domsvc.IncomeEstimator = (*HTTPEstimator)(nil)

func NewHTTPEstimator(serviceURL string, timeout time.Duration) *HTTPEstimator {
	return &HTTPEstimator{base: NewHTTPServiceBase(serviceURL, timeout), path: "/predict"}
}

type predictResp struct {
	PredictedIncome *float64 `json:"predicted_income"`
}

func (e *HTTPEstimator) Estimate(ctx context.Context, in models.EstimatorInput) (float64, error) {
	var resp predictResp
	if err := e.base.PostJSON(ctx, e.path, in, &resp); err != nil {
		return 0, fmt.Errorf("model service: %w", err)
	}
	if resp.PredictedIncome == nil {
		return 0, fmt.Errorf("model service: response has no predicted_income")
	}
	v := *resp.PredictedIncome
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("model service: non-finite prediction %v", v)
	}
	return v, nil
}
