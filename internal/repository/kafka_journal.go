package repository

import (
	"context"

	"MarketGate/internal/domain/models"
	pkgkafka "MarketGate/pkg/kafka"
)

// KafkaJournal records ticks to a Kafka topic, keyed by symbol so one
// symbol's ticks stay in order on one partition.
type KafkaJournal struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaJournal creates a Kafka-backed tick journal.
func NewKafkaJournal(producer *pkgkafka.Producer, topic string) *KafkaJournal {
	return &KafkaJournal{producer: producer, topic: topic}
}

// Record publishes one tick.
func (j *KafkaJournal) Record(ctx context.Context, q *models.Quote) error {
	return j.producer.Publish(ctx, j.topic, []byte(q.Symbol), q)
}

// Close closes the underlying producer.
func (j *KafkaJournal) Close() error {
	return j.producer.Close()
}
