package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	appsurvey "github.com/harborwise/fleetsurvey/internal/application/survey"
	"github.com/harborwise/fleetsurvey/internal/config"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes survey lifecycle events.  Messages are keyed by ship
// id so per-ship ordering is preserved across partitions.
type Producer struct {
	writer         writerInterface
	completedTopic string
	requestedTopic string
	logger         logging.Logger
}

// NewProducer builds a Producer against the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 100 * time.Millisecond,
	}
	return &Producer{
		writer:         writer,
		completedTopic: cfg.CompletedTopic,
		requestedTopic: cfg.RequestedTopic,
		logger:         log.Named("kafka_producer"),
	}
}

// newProducerWithWriter injects a fake writer, for tests.
func newProducerWithWriter(w writerInterface, requestedTopic, completedTopic string) *Producer {
	return &Producer{
		writer:         w,
		requestedTopic: requestedTopic,
		completedTopic: completedTopic,
		logger:         logging.NewNopLogger(),
	}
}

// PublishRecalculated implements the application EventPublisher port.
func (p *Producer) PublishRecalculated(ctx context.Context, event appsurvey.RecalculatedEvent) error {
	return p.publish(ctx, p.completedTopic, event.ShipID, event)
}

// PublishRecalcRequested enqueues a recalculation request for the worker.
func (p *Producer) PublishRecalcRequested(ctx context.Context, event RecalcRequestedEvent) error {
	return p.publish(ctx, p.requestedTopic, event.ShipID, event)
}

func (p *Producer) publish(ctx context.Context, topic string, key common.ID, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encoding event")
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key.String()),
		Value: value,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.ErrCodeMessagingError, "publishing event")
	}
	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("key", key.String()))
	return nil
}

// Close flushes and releases the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
