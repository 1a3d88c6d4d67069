package service

import (
	"context"

	"CollegeROI/internal/domain/models"
)

// IncomeEstimator predicts income for one input. It must be deterministic for
// identical input and may fail when the model is unreachable or misconfigured.
type IncomeEstimator interface {
	Estimate(ctx context.Context, in models.EstimatorInput) (float64, error)
}

// NarrativeInput is what a narrator is asked to explain.
type NarrativeInput struct {
	Profile models.EnrollmentProfile
	Result  models.FullROIResult
}

// Narrator produces prose about a result. Text is returned unmodified.
type Narrator interface {
	Narrate(ctx context.Context, in NarrativeInput) (string, error)
	Name() string
}
