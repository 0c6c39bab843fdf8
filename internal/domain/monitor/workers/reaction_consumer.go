// Package workers contains background workers for the monitor domain
package workers

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Conte777/reaction-monitor/config"
	kafkaHandlers "github.com/Conte777/reaction-monitor/internal/domain/monitor/delivery/kafka"
)

// FetchRetryDelay is the pause after a failed fetch, so an unreachable broker is not polled in a tight loop
var FetchRetryDelay = time.Second

// MessageReader is the part of kafka.Reader the consumer uses
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ReactionConsumer consumes relayed reaction counts from Kafka
type ReactionConsumer struct {
	reader   MessageReader
	handlers *kafkaHandlers.Handlers
	logger   zerolog.Logger
	done     chan struct{}
	stopped  chan struct{}
	started  bool
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewReactionConsumer creates new Kafka consumer for relayed reaction counts
func NewReactionConsumer(cfg *config.KafkaConfig, handlers *kafkaHandlers.Handlers, logger zerolog.Logger) *ReactionConsumer {
	brokers := cfg.Brokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9093"}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  cfg.GroupID + "-reactions",
		Topic:    cfg.ReactionsTopic,
		MinBytes: 1,    // 1 byte - return immediately when message available
		MaxBytes: 10e6, // 10MB
	})

	logger.Info().
		Strs("brokers", brokers).
		Str("group_id", cfg.GroupID+"-reactions").
		Str("topic", cfg.ReactionsTopic).
		Msg("Kafka reaction consumer initialized")

	return newReactionConsumer(reader, handlers, logger)
}

func newReactionConsumer(reader MessageReader, handlers *kafkaHandlers.Handlers, logger zerolog.Logger) *ReactionConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	return &ReactionConsumer{
		reader:   reader,
		handlers: handlers,
		logger:   logger.With().Str("component", "reaction_consumer").Logger(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts consuming messages from Kafka
func (c *ReactionConsumer) Start() {
	c.logger.Info().Msg("Starting Kafka reaction consumer...")
	c.started = true

	go func() {
		defer close(c.stopped)
		for {
			select {
			case <-c.done:
				c.logger.Info().Msg("Kafka reaction consumer stopped by done signal")
				return
			case <-c.ctx.Done():
				c.logger.Info().Msg("Kafka reaction consumer stopped by context cancellation")
				return
			default:
				msg, err := c.reader.FetchMessage(c.ctx)
				if err != nil {
					if c.ctx.Err() != nil {
						return
					}
					c.logger.Error().Err(err).Msg("Failed to fetch message from Kafka")
					select {
					case <-c.done:
						return
					case <-c.ctx.Done():
						return
					case <-time.After(FetchRetryDelay):
					}
					continue
				}

				c.logger.Debug().
					Str("topic", msg.Topic).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("Received reaction counts from Kafka")

				if err := c.handlers.HandleReactionCounts(c.ctx, msg.Value); err != nil {
					c.logger.Error().Err(err).Msg("Failed to handle reaction counts")
				}

				if err := c.reader.CommitMessages(c.ctx, msg); err != nil {
					c.logger.Error().Err(err).Msg("Failed to commit reaction counts message")
				}
			}
		}
	}()
}

// Stop stops the consumer gracefully
func (c *ReactionConsumer) Stop() error {
	c.logger.Info().Msg("Stopping Kafka reaction consumer...")
	c.cancel()
	close(c.done)

	if err := c.reader.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to close Kafka reader")
		return err
	}
	if c.started {
		<-c.stopped
	}

	c.logger.Info().Msg("Kafka reaction consumer stopped successfully")
	return nil
}
