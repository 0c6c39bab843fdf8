// Package monitor contains the reaction monitor domain module
package monitor

import (
	"context"

	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/reaction-monitor/config"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/consts"
	httpDelivery "github.com/Conte777/reaction-monitor/internal/domain/monitor/delivery/http"
	kafkaDelivery "github.com/Conte777/reaction-monitor/internal/domain/monitor/delivery/kafka"
	telegramDelivery "github.com/Conte777/reaction-monitor/internal/domain/monitor/delivery/telegram"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/deps"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	kafkaRepo "github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/kafka"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/memory"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/postgres"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/usecase/business"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/workers"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/http/server"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/telegram"
)

// Module provides monitor domain components for fx dependency injection
var Module = fx.Module("monitor",
	// Repository
	fx.Provide(memory.NewStore),
	fx.Provide(kafkaRepo.NewProducer),
	fx.Provide(postgres.NewFireJournal),

	// UseCase
	fx.Provide(business.NewUseCase),

	// Delivery - Telegram keyboards, handlers are created per bot
	fx.Provide(provideKeyboards),

	// Delivery - Kafka
	fx.Provide(kafkaDelivery.NewHandlers),

	// Delivery - HTTP
	fx.Provide(provideHealthHandler),
	fx.Provide(httpDelivery.NewRouter),

	// Workers
	workers.Module,

	// Wire messengers and register routes
	fx.Invoke(wireAndRegister),
)

func provideKeyboards(cfg *config.MonitorConfig) *telegramDelivery.Keyboards {
	return telegramDelivery.NewKeyboards(cfg.Emojis, cfg.ThresholdPresets)
}

func provideHealthHandler(fleet *telegram.Fleet, store deps.MonitorStore, logger zerolog.Logger) *httpDelivery.HealthHandler {
	return httpDelivery.NewHealthHandler(fleet, store, logger)
}

// wireAndRegister binds every bot of the fleet to the use case and registers routes.
// Handlers implement deps.Messenger, which resolves the UseCase -> Messenger <- Handlers -> UseCase cycle.
func wireAndRegister(
	lc fx.Lifecycle,
	uc *business.UseCase,
	fleet *telegram.Fleet,
	keyboards *telegramDelivery.Keyboards,
	healthRouter *httpDelivery.Router,
	srv *server.Server,
	publisher deps.EventPublisher,
	logger zerolog.Logger,
) error {
	for _, bot := range fleet.Bots() {
		identity := dto.Identity{ID: bot.ID(), Username: bot.Username()}
		handlers := telegramDelivery.NewHandlers(uc, bot.Raw(), identity, keyboards, logger)

		if err := uc.RegisterMessenger(context.Background(), handlers); err != nil {
			return err
		}
		telegramDelivery.NewRouter(handlers, logger).RegisterRoutes(bot.Raw())
	}

	healthRouter.RegisterRoutes(srv.Router)

	commands := make([]models.BotCommand, len(consts.AllCommands))
	for i, c := range consts.AllCommands {
		commands[i] = models.BotCommand{Command: c.Name, Description: c.Description}
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, bot := range fleet.Bots() {
				if err := bot.SetCommands(ctx, commands); err != nil {
					logger.Warn().Err(err).Int64("bot_id", bot.ID()).Msg("Failed to register bot commands")
				}
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return nil
}
