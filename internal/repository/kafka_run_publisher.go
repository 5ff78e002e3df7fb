package repository

import (
	"context"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
	pkgkafka "EquiScreen/pkg/kafka"
)

// KafkaRunPublisher emits each passing filter result to a Kafka topic for
// downstream alerting.
type KafkaRunPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaRunPublisher creates a Kafka-backed run publisher.
func NewKafkaRunPublisher(producer *pkgkafka.Producer, topic string) domrepo.RunPublisher {
	return &KafkaRunPublisher{producer: producer, topic: topic}
}

func (p *KafkaRunPublisher) PublishResult(ctx context.Context, result *models.FilterResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(result.Meta.Stock), result)
}

func (p *KafkaRunPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopRunPublisher is used when no brokers are configured.
type NopRunPublisher struct{}

func (NopRunPublisher) PublishResult(context.Context, *models.FilterResult) error { return nil }
func (NopRunPublisher) Close() error                                              { return nil }
