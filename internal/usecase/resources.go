package usecase

import (
	"fmt"

	"CollegeROI/internal/domain/models"
	domrepo "CollegeROI/internal/domain/repository"
	domsvc "CollegeROI/internal/domain/service"
)

// Resources holds the long-lived estimator and cost table. It is built once at
// startup and never mutated. When loading failed, Err is set and every
// computation fails fast with KindUnavailable.
type Resources struct {
	Estimator domsvc.IncomeEstimator
	Costs     domrepo.CostDataset
	Err       error
}

// NewResources records a load failure instead of returning it so the process
// can keep serving liveness checks.
func NewResources(est domsvc.IncomeEstimator, costs domrepo.CostDataset, loadErr error) *Resources {
	if loadErr == nil && (est == nil || costs == nil) {
		loadErr = fmt.Errorf("estimator or cost dataset missing")
	}
	return &Resources{Estimator: est, Costs: costs, Err: loadErr}
}

// Ready reports a KindUnavailable error until both resources are loaded.
func (r *Resources) Ready() error {
	if r == nil {
		return models.NewROIError(models.KindUnavailable, "resources", models.ErrResourcesUnavailable)
	}
	if r.Err != nil {
		return models.NewROIError(models.KindUnavailable, "resources",
			fmt.Errorf("%w: %v", models.ErrResourcesUnavailable, r.Err))
	}
	return nil
}
