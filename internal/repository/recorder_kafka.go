package repository

import (
	"context"

	"CollegeROI/internal/domain/models"
	domrepo "CollegeROI/internal/domain/repository"
	pkgkafka "CollegeROI/pkg/kafka"
)

// KafkaRecorder publishes each record as JSON keyed by its ID.
type KafkaRecorder struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.PredictionRecorder = (*KafkaRecorder)(nil)

func NewKafkaRecorder(producer *pkgkafka.Producer, topic string) *KafkaRecorder {
	return &KafkaRecorder{producer: producer, topic: topic}
}

func (r *KafkaRecorder) Name() string { return "kafka" }

// Init is a no-op; the writer creates topics on first publish.
func (r *KafkaRecorder) Init(context.Context) error { return nil }

func (r *KafkaRecorder) Record(ctx context.Context, rec models.PredictionRecord) error {
	return r.producer.Publish(ctx, r.topic, []byte(rec.ID), rec)
}

// Close leaves the producer open; it is shared with the log collector.
func (r *KafkaRecorder) Close() error {
	return nil
}
