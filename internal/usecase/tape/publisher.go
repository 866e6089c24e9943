package tape

import (
	"context"
	"time"

	tapev1 "github.com/hunkyJay/ProgExchange-Platform/internal/domain/tape/v1"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/config"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/errors"
	"github.com/hunkyJay/ProgExchange-Platform/pkg/logger"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"
)

// Publisher writes fill events to the Kafka trade tape.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a Kafka publisher for the fill tape.
func NewPublisher(cfg config.TapeConfig, log *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishFill publishes one fill event, stamping an event id and timestamp
// when absent.
func (p *Publisher) PublishFill(ctx context.Context, event *tapev1.FillEvent) error {
	if event.EventID == "" {
		event.EventID = ulid.Make().String()
	}
	if event.MatchedAt == 0 {
		event.MatchedAt = time.Now().UnixNano()
	}

	msg := kafka.Message{
		Key:   []byte(event.Product),
		Value: event.ToBytes(),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "eventId", Value: event.EventID},
			logger.Field{Key: "product", Value: event.Product},
		)
		return errors.NewTracer("failed to publish fill event").Wrap(err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
