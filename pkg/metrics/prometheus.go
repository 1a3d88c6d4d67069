package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements the domain Metrics interface with Prometheus.
type Recorder struct {
	predictions     *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	predictedIncome *prometheus.GaugeVec
	latency         *prometheus.HistogramVec
	cacheLookups    *prometheus.CounterVec
	recorderWrites  *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		predictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collegeroi_predictions_total",
				Help: "Completed ROI computations by credential and whether the cost was known",
			},
			[]string{"credential", "cost_known"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collegeroi_errors_total",
				Help: "Errors by kind",
			},
			[]string{"kind"},
		),
		predictedIncome: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "collegeroi_last_predicted_income",
				Help: "Last predicted income per credential",
			},
			[]string{"credential"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "collegeroi_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collegeroi_cache_lookups_total",
				Help: "Cache lookups by cache name and result",
			},
			[]string{"cache", "result"},
		),
		recorderWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collegeroi_recorder_writes_total",
				Help: "Prediction log writes by backend and result",
			},
			[]string{"backend", "result"},
		),
	}
}

func (r *Recorder) RecordPrediction(credential string, costKnown bool) {
	r.predictions.WithLabelValues(credential, strconv.FormatBool(costKnown)).Inc()
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordPredictedIncome(credential string, income float64) {
	r.predictedIncome.WithLabelValues(credential).Set(income)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func (r *Recorder) RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(cache, result).Inc()
}

func (r *Recorder) RecordRecorderWrite(backend string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.recorderWrites.WithLabelValues(backend, result).Inc()
}

// Nop discards everything. Used by the CLI and tests.
type Nop struct{}

func (Nop) RecordPrediction(string, bool)         {}
func (Nop) RecordError(string)                    {}
func (Nop) RecordPredictedIncome(string, float64) {}
func (Nop) RecordLatency(string, float64)         {}
func (Nop) RecordCacheLookup(string, bool)        {}
func (Nop) RecordRecorderWrite(string, error)     {}
