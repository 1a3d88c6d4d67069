package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s %v not found", name, labels)
	return 0
}

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordPrediction("3", true)
	r.RecordPrediction("3", true)
	r.RecordPrediction("2", false)
	r.RecordError("prediction")
	r.RecordPredictedIncome("3", 55000)
	r.RecordCacheLookup("estimate", true)
	r.RecordRecorderWrite("sqlite", errors.New("disk full"))

	if got := counterValue(t, reg, "collegeroi_predictions_total", map[string]string{"credential": "3", "cost_known": "true"}); got != 2 {
		t.Fatalf("predictions=%v", got)
	}
	if got := counterValue(t, reg, "collegeroi_errors_total", map[string]string{"kind": "prediction"}); got != 1 {
		t.Fatalf("errors=%v", got)
	}
	if got := counterValue(t, reg, "collegeroi_last_predicted_income", map[string]string{"credential": "3"}); got != 55000 {
		t.Fatalf("income gauge=%v", got)
	}
	if got := counterValue(t, reg, "collegeroi_recorder_writes_total", map[string]string{"backend": "sqlite", "result": "error"}); got != 1 {
		t.Fatalf("recorder writes=%v", got)
	}
}

func TestNewTwiceOnSeparateRegistries(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
