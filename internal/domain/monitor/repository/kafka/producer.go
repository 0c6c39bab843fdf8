// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Conte777/reaction-monitor/config"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/deps"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
)

// Producer implements deps.EventPublisher
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewProducer creates a Kafka producer for monitor events.
// A no-op publisher is returned when Kafka is disabled.
func NewProducer(cfg *config.KafkaConfig, logger zerolog.Logger) (deps.EventPublisher, error) {
	logger = logger.With().Str("component", "event_producer").Logger()

	if !cfg.Enabled {
		logger.Info().Msg("Kafka disabled, monitor events will not be published")
		return NewNoopProducer(), nil
	}

	brokers := cfg.Brokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9093"}
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", brokers).Str("topic", cfg.EventsTopic).Msg("Kafka producer initialized successfully")

	return NewProducerWithClient(producer, cfg.EventsTopic, logger), nil
}

// NewProducerWithClient wraps an existing sarama producer
func NewProducerWithClient(producer sarama.SyncProducer, topic string, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends a monitor event keyed by the post so events of one post stay ordered
func (p *Producer) Publish(_ context.Context, event *dto.MonitorEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.ChatID, 10) + ":" + strconv.Itoa(event.MessageID)),
		Value: sarama.ByteEncoder(jsonData),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.logger.Error().Err(err).Str("topic", p.topic).Str("type", event.Type).Msg("Failed to send Kafka message")
		return fmt.Errorf("%w: %v", monerrors.ErrEventPublishFailed, err)
	}

	p.logger.Debug().
		Str("topic", p.topic).
		Str("type", event.Type).
		Str("monitor_id", event.MonitorID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

type noopProducer struct{}

// NewNoopProducer returns a publisher that drops every event
func NewNoopProducer() deps.EventPublisher {
	return noopProducer{}
}

func (noopProducer) Publish(context.Context, *dto.MonitorEvent) error { return nil }

func (noopProducer) Close() error { return nil }
