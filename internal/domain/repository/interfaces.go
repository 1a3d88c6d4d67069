package repository

import (
	"context"

	"CollegeROI/internal/domain/models"
)

// CostDataset resolves institution names to an annual net price.
type CostDataset interface {
	// Lookup is an exact, case-sensitive match. ok is false on a miss.
	Lookup(name string) (cost float64, ok bool)
	Names() []string
	Len() int
}

// PredictionRecorder appends computed results to a log.
type PredictionRecorder interface {
	Init(ctx context.Context) error
	Record(ctx context.Context, rec models.PredictionRecord) error
	Name() string
	Close() error
}

// PredictionReader is implemented by recorders that can read their log back.
type PredictionReader interface {
	Recent(ctx context.Context, limit int) ([]models.PredictionRecord, error)
}

type Metrics interface {
	RecordPrediction(credential string, costKnown bool)
	RecordError(kind string)
	RecordPredictedIncome(credential string, income float64)
	RecordLatency(op string, seconds float64)
	RecordCacheLookup(cache string, hit bool)
	RecordRecorderWrite(backend string, err error)
}
