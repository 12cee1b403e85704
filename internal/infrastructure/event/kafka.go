package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopapi/backend/internal/domain/shared"
	"github.com/shopapi/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const headerEventType = "event_type"

// messageWriter is the part of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageReader is the part of *kafka.Reader the consumer uses
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaPublisher writes domain events to a Kafka topic. Messages are keyed
// by aggregate ID so the events of one order stay in order on a partition.
type KafkaPublisher struct {
	writer     messageWriter
	serializer *EventSerializer
	timeout    time.Duration
	logger     *zap.Logger
}

// NewKafkaPublisher creates a publisher for cfg.KafkaTopic
func NewKafkaPublisher(cfg config.EventConfig, log *zap.Logger) (*KafkaPublisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.KafkaTopic == "" {
		return nil, errors.New("kafka topic is required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, cfg.WriteTimeout, log), nil
}

func newKafkaPublisher(writer messageWriter, timeout time.Duration, log *zap.Logger) *KafkaPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaPublisher{
		writer:     writer,
		serializer: NewShopEventSerializer(),
		timeout:    timeout,
		logger:     log,
	}
}

// Publish writes all events in one batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := p.serializer.Encode(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(event.AggregateID().String()),
			Value:   value,
			Time:    event.OccurredAt(),
			Headers: []kafka.Header{{Key: headerEventType, Value: []byte(event.EventType())}},
		})
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d event(s) to kafka: %w", len(msgs), err)
	}
	p.logger.Debug("Events published to kafka", zap.Int("count", len(msgs)))
	return nil
}

// Close flushes pending writes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// KafkaConsumer reads events from a Kafka topic and hands them to a local
// publisher, normally the in-memory bus
type KafkaConsumer struct {
	reader     messageReader
	serializer *EventSerializer
	target     shared.EventPublisher
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewKafkaConsumer creates a consumer in consumer group groupID
func NewKafkaConsumer(cfg config.EventConfig, groupID string, target shared.EventPublisher, log *zap.Logger) (*KafkaConsumer, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newKafkaConsumer(reader, target, log), nil
}

func newKafkaConsumer(reader messageReader, target shared.EventPublisher, log *zap.Logger) *KafkaConsumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaConsumer{
		reader:     reader,
		serializer: NewShopEventSerializer(),
		target:     target,
		retryDelay: time.Second,
		logger:     log,
	}
}

// Run reads until ctx is cancelled. Messages that cannot be decoded are
// logged and skipped.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Warn("Failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
			continue
		}

		event, err := c.serializer.Decode(msg.Value)
		if err != nil {
			c.logger.Warn("Skipping undecodable kafka message",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			continue
		}
		if err := c.target.Publish(ctx, event); err != nil {
			c.logger.Error("Failed to dispatch consumed event", zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
}

// Close closes the reader
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
