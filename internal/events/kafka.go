package events

import (
	"context"
	"fmt"
	"time"

	"agendamento/pkg/kafka"
	kafka_config "agendamento/pkg/kafka/config"
	kafka_middleware "agendamento/pkg/kafka/middleware"
	"agendamento/pkg/logger"
	"agendamento/pkg/middleware"
)

const publishTimeout = 5 * time.Second

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messagePublisher
	log      *logger.Logger
}

// NewPublisher returns a Kafka publisher on the bookings topic, or a no-op
// publisher when no broker is configured.
func NewPublisher(cfg *kafka_config.Config, log *logger.Logger) (Publisher, error) {
	log = log.Component("events")
	if cfg == nil || !cfg.Enabled() {
		log.Info("Kafka brokers not configured, booking events disabled")
		return NewNoopPublisher(), nil
	}

	producer, err := kafka.NewProducer(cfg, cfg.BookingsTopic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookings producer: %w", err)
	}
	if cfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
	}

	log.Info("Booking events enabled", "topic", producer.Topic(), "brokers", cfg.Brokers)
	return newKafkaPublisher(producer, log), nil
}

func newKafkaPublisher(producer messagePublisher, log *logger.Logger) *kafkaPublisher {
	return &kafkaPublisher{producer: producer, log: log}
}

// Publish detaches from the request context so a client disconnect after a
// committed write does not drop the event.
func (p *kafkaPublisher) Publish(ctx context.Context, event BookingEvent) {
	msg, err := kafka.NewMessage().
		WithKey(event.key()).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithTimestamp(event.OccurredAt).
		WithCorrelationID(middleware.RequestID(ctx)).
		Build()
	if err != nil {
		p.log.Error("Failed to build booking event", "event_type", event.Type, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.producer.Publish(pubCtx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", event.Type,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}
