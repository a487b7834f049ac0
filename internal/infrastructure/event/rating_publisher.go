// Package event publishes rating notifications to Kafka. Publishing is
// strictly informative: downstream consumers must not duplicate writes
// the API already performed, and a broker outage never fails a request.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/nuam/calificaciones/internal/infrastructure/config"
)

// RatingCreatedEvent is the wire payload announced on rating creation
type RatingCreatedEvent struct {
	Event      string `json:"evento"`
	ID         string `json:"id"`
	Instrument string `json:"instrumento"`
	Amount     string `json:"monto"`
	User       string `json:"usuario"`
}

// EventRatingCreated is the discriminator value for new ratings
const EventRatingCreated = "NUEVA_CALIFICACION"

// NewRatingCreatedEvent builds the payload for a created rating
func NewRatingCreatedEvent(id, instrument, amount, user string) RatingCreatedEvent {
	return RatingCreatedEvent{
		Event:      EventRatingCreated,
		ID:         id,
		Instrument: instrument,
		Amount:     amount,
		User:       user,
	}
}

// RatingPublisher announces rating creations to interested consumers
type RatingPublisher interface {
	PublishRatingCreated(ctx context.Context, event RatingCreatedEvent) error
	Close()
}

// KafkaRatingPublisher implements RatingPublisher on a Kafka topic
type KafkaRatingPublisher struct {
	producer        *kafka.Producer
	topic           string
	deliveryTimeout time.Duration
	logger          *zap.Logger
}

// NewKafkaRatingPublisher creates a producer for the rating topic
func NewKafkaRatingPublisher(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaRatingPublisher, error) {
	conf := &kafka.ConfigMap{
		"bootstrap.servers": cfg.BootstrapServers,
	}
	if cfg.DeliveryTimeout > 0 {
		// Bound librdkafka's own retry window so abandoned publishes get
		// their delivery report promptly instead of after the 300s default.
		_ = conf.SetKey("message.timeout.ms", int(cfg.DeliveryTimeout/time.Millisecond))
	}

	producer, err := kafka.NewProducer(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger.Info("Kafka rating producer created",
		zap.String("topic", cfg.RatingTopic),
		zap.String("bootstrap_servers", cfg.BootstrapServers))

	return &KafkaRatingPublisher{
		producer:        producer,
		topic:           cfg.RatingTopic,
		deliveryTimeout: cfg.DeliveryTimeout,
		logger:          logger,
	}, nil
}

// PublishRatingCreated produces the event and waits for the broker's
// delivery report up to the configured timeout.
func (p *KafkaRatingPublisher) PublishRatingCreated(ctx context.Context, event RatingCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rating event: %w", err)
	}

	// Never closed: once Produce registers the channel the producer's
	// poller owns the send side, and the buffer absorbs a late report.
	deliveryChan := make(chan kafka.Event, 1)

	if err := p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.ID),
		Value:          payload,
	}, deliveryChan); err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}

	select {
	case e := <-deliveryChan:
		msg, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected delivery event type: %T", e)
		}
		if msg.TopicPartition.Error != nil {
			return fmt.Errorf("delivery failed: %w", msg.TopicPartition.Error)
		}
		return nil
	case <-time.After(p.deliveryTimeout):
		go p.drainDelivery(deliveryChan)
		return fmt.Errorf("delivery timeout after %s", p.deliveryTimeout)
	case <-ctx.Done():
		go p.drainDelivery(deliveryChan)
		return ctx.Err()
	}
}

// drainDelivery consumes the delivery report of an abandoned publish and
// logs the outcome.
func (p *KafkaRatingPublisher) drainDelivery(deliveryChan chan kafka.Event) {
	e := <-deliveryChan
	if msg, ok := e.(*kafka.Message); ok && msg.TopicPartition.Error != nil {
		p.logger.Warn("Rating event delivery failed after publish was abandoned",
			zap.Error(msg.TopicPartition.Error))
	}
}

// Close flushes pending messages and releases the producer
func (p *KafkaRatingPublisher) Close() {
	p.logger.Info("Closing Kafka rating producer")
	p.producer.Flush(15 * 1000)
	p.producer.Close()
}

var _ RatingPublisher = (*KafkaRatingPublisher)(nil)

// NoopRatingPublisher drops events. Used when Kafka is disabled.
type NoopRatingPublisher struct{}

// NewNoopRatingPublisher creates a publisher that does nothing
func NewNoopRatingPublisher() *NoopRatingPublisher {
	return &NoopRatingPublisher{}
}

// PublishRatingCreated discards the event
func (p *NoopRatingPublisher) PublishRatingCreated(context.Context, RatingCreatedEvent) error {
	return nil
}

// Close is a no-op
func (p *NoopRatingPublisher) Close() {}

var _ RatingPublisher = (*NoopRatingPublisher)(nil)
