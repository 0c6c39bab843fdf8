// Package workers contains background workers for the monitor domain
package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/reaction-monitor/config"
	kafkaHandlers "github.com/Conte777/reaction-monitor/internal/domain/monitor/delivery/kafka"
)

// Module provides workers for fx dependency injection
var Module = fx.Module("monitor-workers",
	fx.Invoke(registerReactionConsumerLifecycle),
)

// registerReactionConsumerLifecycle starts the relay consumer when a reactions topic is configured
func registerReactionConsumerLifecycle(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	handlers *kafkaHandlers.Handlers,
	logger zerolog.Logger,
) {
	if !cfg.Enabled || cfg.ReactionsTopic == "" {
		logger.Debug().Msg("Reaction relay consumer disabled")
		return
	}

	consumer := NewReactionConsumer(cfg, handlers, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			consumer.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return consumer.Stop()
		},
	})
}
