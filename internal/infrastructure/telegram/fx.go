// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/reaction-monitor/config"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/http/server"
)

// Module provides Telegram bots for fx dependency injection
var Module = fx.Module("telegram",
	fx.Provide(NewFleet),
	fx.Invoke(registerLifecycle),
)

// registerLifecycle mounts webhook routes and runs every bot of the fleet
func registerLifecycle(lc fx.Lifecycle, fleet *Fleet, cfg *config.TelegramConfig, srv *server.Server, logger zerolog.Logger) {
	var cancel context.CancelFunc

	if cfg.WebhookEnabled() {
		for _, bot := range fleet.Bots() {
			srv.RegisterWebhook(bot.WebhookPath(), bot.Raw().WebhookHandler())
		}
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Create a long-lived context for the bots
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())

			for _, bot := range fleet.Bots() {
				// Start bot in a goroutine since it's a blocking call
				go func() {
					var err error
					if cfg.WebhookEnabled() {
						err = bot.StartWebhook(ctx, cfg.WebhookURL, cfg.WebhookSecret)
					} else {
						err = bot.Start(ctx)
					}
					if err != nil {
						logger.Error().Err(err).Int64("bot_id", bot.ID()).Msg("Telegram bot failed")
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			for _, bot := range fleet.Bots() {
				if err := bot.Stop(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	})
}
