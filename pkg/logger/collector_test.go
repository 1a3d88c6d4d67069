package logger

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingPublisher struct {
	mu      sync.Mutex
	batches [][]AggregatedLogEntry
	topics  []string
}

func (p *recordingPublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *recordingPublisher) snapshot() ([][]AggregatedLogEntry, []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]AggregatedLogEntry(nil), p.batches...), append([]string(nil), p.topics...)
}

func TestCollectorDeduplicatesEntries(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "logs",
		Publisher:      pub,
	})

	fields := map[string]interface{}{"school": "MIT"}
	c.AddLog("error", "estimator failed", fields, "a.go:1")
	c.AddLog("error", "estimator failed", fields, "a.go:1")
	c.AddLog("error", "recorder failed", nil, "b.go:2")
	c.Close()

	batches, topics := pub.snapshot()
	if len(batches) != 1 {
		t.Fatalf("expected one batch on close, got %d", len(batches))
	}
	if topics[0] != "logs" {
		t.Fatalf("unexpected topic %q", topics[0])
	}
	if len(batches[0]) != 2 {
		t.Fatalf("expected 2 unique entries, got %d", len(batches[0]))
	}
	for _, e := range batches[0] {
		if e.Message == "estimator failed" && e.Count != 2 {
			t.Fatalf("expected count 2 for repeated entry, got %d", e.Count)
		}
	}
}

func TestCollectorFlushesAtThreshold(t *testing.T) {
	pub := &recordingPublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Topic:          "logs",
		Publisher:      pub,
	})

	c.AddLog("error", "one", nil, "x.go:1")
	c.AddLog("error", "two", nil, "x.go:2")
	c.Close()

	batches, _ := pub.snapshot()
	if len(batches) != 1 || len(batches[0]) != 2 {
		t.Fatalf("expected a single threshold batch of 2, got %v", batches)
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := NewNop()
	l.Info("ignored", String("k", "v"), Float64("f", 1.5))
	l.Error("ignored", Error(nil))
	l.With(Int("n", 1)).Warn("ignored")
}
