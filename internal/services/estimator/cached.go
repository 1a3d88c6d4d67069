package estimator

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"CollegeROI/internal/domain/models"
	domrepo "CollegeROI/internal/domain/repository"
	domsvc "CollegeROI/internal/domain/service"
	"CollegeROI/pkg/cache"
	"CollegeROI/pkg/logger"
)

const estimateKeyPrefix = "estimate"

// CachedEstimator memoizes another estimator. Cache failures fall through to the inner estimator.
type CachedEstimator struct {
	inner   domsvc.IncomeEstimator
	cache   cache.Service
	ttl     time.Duration
	metrics domrepo.Metrics
	l       *logger.Logger
}

var _ domsvc.IncomeEstimator = (*CachedEstimator)(nil)

func NewCachedEstimator(inner domsvc.IncomeEstimator, c cache.Service, ttl time.Duration, m domrepo.Metrics, l *logger.Logger) *CachedEstimator {
	if l == nil {
		l = logger.NewNop()
	}
	return &CachedEstimator{inner: inner, cache: c, ttl: ttl, metrics: m, l: l}
}

func (e *CachedEstimator) Estimate(ctx context.Context, in models.EstimatorInput) (float64, error) {
	key := EstimateKey(in)

	var raw string
	err := e.cache.Get(ctx, key, &raw)
	if err == nil {
		if v, perr := strconv.ParseFloat(raw, 64); perr == nil {
			e.observe(true)
			return v, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		e.l.Warn("estimate cache read failed", logger.Error(err))
	}
	e.observe(false)

	v, err := e.inner.Estimate(ctx, in)
	if err != nil {
		return 0, err
	}
	if err := e.cache.Set(ctx, key, strconv.FormatFloat(v, 'g', -1, 64), e.ttl); err != nil {
		e.l.Warn("estimate cache write failed", logger.Error(err))
	}
	return v, nil
}

func (e *CachedEstimator) observe(hit bool) {
	if e.metrics != nil {
		e.metrics.RecordCacheLookup(estimateKeyPrefix, hit)
	}
}

// EstimateKey derives the cache key from every estimator input field.
func EstimateKey(in models.EstimatorInput) string {
	b, _ := json.Marshal(in)
	return cache.GenerateKeyWithParams(estimateKeyPrefix, cache.HashKey(string(b)))
}
