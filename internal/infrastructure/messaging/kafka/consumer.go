package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	appsurvey "github.com/harborwise/fleetsurvey/internal/application/survey"
	"github.com/harborwise/fleetsurvey/internal/config"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
)

// readerInterface abstracts kafka.Reader for testing.
type readerInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RecalcConsumer consumes recalculation requests and drives the
// recalculation service.  Malformed messages are committed and dropped;
// processing failures are logged and committed so one poisoned ship cannot
// stall the partition.
type RecalcConsumer struct {
	reader  readerInterface
	service appsurvey.RecalculationService
	logger  logging.Logger
}

// NewRecalcConsumer builds a consumer-group reader for the requested topic.
func NewRecalcConsumer(cfg config.KafkaConfig, service appsurvey.RecalculationService, log logging.Logger) *RecalcConsumer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.ConsumerGroup,
		Topic:   cfg.RequestedTopic,
	})
	return &RecalcConsumer{reader: reader, service: service, logger: log.Named("recalc_consumer")}
}

// newRecalcConsumerWithReader injects a fake reader, for tests.
func newRecalcConsumerWithReader(r readerInterface, service appsurvey.RecalculationService) *RecalcConsumer {
	return &RecalcConsumer{reader: r, service: service, logger: logging.NewNopLogger()}
}

// Run consumes until ctx is canceled or the reader fails.
func (c *RecalcConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		c.handle(ctx, msg)
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("offset commit failed", logging.Err(err))
		}
	}
}

func (c *RecalcConsumer) handle(ctx context.Context, msg kafka.Message) {
	var event RecalcRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Warn("dropping malformed recalc request",
			logging.String("topic", msg.Topic), logging.Err(err))
		return
	}

	report, err := c.service.RecalculateShip(ctx, event.ShipID)
	if err != nil {
		c.logger.Error("recalculation failed",
			logging.String("ship_id", event.ShipID.String()), logging.Err(err))
		return
	}
	c.logger.Info("recalculation request processed",
		logging.String("ship_id", event.ShipID.String()),
		logging.Int("updated", report.UpdatedCount),
		logging.Int("certificates", report.TotalCertificates))
}

// Close releases the reader.
func (c *RecalcConsumer) Close() error {
	return c.reader.Close()
}
