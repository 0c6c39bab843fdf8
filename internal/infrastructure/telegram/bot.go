// Package telegram contains Telegram bot infrastructure
package telegram

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/Conte777/reaction-monitor/config"
)

// InitTimeout bounds the identity lookup done while creating a bot
const InitTimeout = 10 * time.Second

// AllowedUpdates lists the update kinds every bot subscribes to.
// Reaction updates are only delivered when requested explicitly.
var AllowedUpdates = tgbot.AllowedUpdates{
	"message",
	"callback_query",
	"message_reaction",
	"message_reaction_count",
}

// Bot wraps one Telegram bot identity for infrastructure layer
type Bot struct {
	bot      *tgbot.Bot
	id       int64
	username string
	token    string
	logger   zerolog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewBot creates a new Telegram bot wrapper and resolves its identity
func NewBot(token string, cfg *config.TelegramConfig, logger zerolog.Logger) (*Bot, error) {
	return newBot(token, cfg, logger)
}

func newBot(token string, cfg *config.TelegramConfig, logger zerolog.Logger, extra ...tgbot.Option) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	opts := []tgbot.Option{
		tgbot.WithDefaultHandler(defaultHandler),
		tgbot.WithAllowedUpdates(AllowedUpdates),
		tgbot.WithNotAsyncHandlers(),
		tgbot.WithMiddlewares(recoverMiddleware(logger)),
		tgbot.WithErrorsHandler(func(err error) {
			logger.Error().Err(err).Msg("Telegram bot error")
		}),
	}
	if cfg.WebhookSecret != "" {
		opts = append(opts, tgbot.WithWebhookSecretToken(cfg.WebhookSecret))
	}
	opts = append(opts, extra...)

	bot, err := tgbot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), InitTimeout)
	defer cancel()

	me, err := bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve telegram bot identity: %w", err)
	}

	b := &Bot{
		bot:      bot,
		id:       me.ID,
		username: me.Username,
		token:    token,
	}
	b.logger = logger.With().Int64("bot_id", b.id).Str("bot_username", b.username).Logger()

	b.logger.Info().Msg("Telegram bot created successfully")

	return b, nil
}

// Raw returns the underlying telegram bot for handler registration
func (b *Bot) Raw() *tgbot.Bot {
	return b.bot
}

// ID returns the bot user id
func (b *Bot) ID() int64 {
	return b.id
}

// Username returns the bot username
func (b *Bot) Username() string {
	return b.username
}

// WebhookPath is the HTTP path this bot receives webhook updates on.
// It is derived from the token so paths of different bots never collide.
func (b *Bot) WebhookPath() string {
	return webhookPath(b.token)
}

func webhookPath(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "/tg/" + hex.EncodeToString(sum[:8])
}

// SetCommands publishes the command menu
func (b *Bot) SetCommands(ctx context.Context, commands []models.BotCommand) error {
	if _, err := b.bot.SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands}); err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}

// Start starts long polling (blocking call)
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info().Msg("Starting Telegram bot with long polling...")

	if _, err := b.bot.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{}); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to delete webhook before polling")
	}

	ctx = b.begin(ctx)
	defer b.end()

	b.bot.Start(ctx)
	b.logger.Info().Msg("Telegram bot stopped")
	return nil
}

// StartWebhook registers the webhook and processes pushed updates (blocking call)
func (b *Bot) StartWebhook(ctx context.Context, baseURL, secret string) error {
	url := baseURL + b.WebhookPath()

	b.logger.Info().Str("url", url).Msg("Starting Telegram bot with webhook...")

	if _, err := b.bot.SetWebhook(ctx, &tgbot.SetWebhookParams{
		URL:            url,
		SecretToken:    secret,
		AllowedUpdates: AllowedUpdates,
	}); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	ctx = b.begin(ctx)
	defer b.end()

	b.bot.StartWebhook(ctx)
	b.logger.Info().Msg("Telegram bot webhook processing stopped")
	return nil
}

// begin derives the context a running bot is cancelled through
func (b *Bot) begin(parent context.Context) context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, cancel := context.WithCancel(parent)
	b.cancel = cancel
	b.stopped = make(chan struct{})
	return ctx
}

func (b *Bot) end() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.cancel()
	close(b.stopped)
	b.cancel = nil
}

// Stop cancels update processing and waits until it has returned or ctx expires.
// Stopping a bot that is not running is a no-op.
func (b *Bot) Stop(ctx context.Context) error {
	b.mu.Lock()
	cancel, stopped := b.cancel, b.stopped
	b.mu.Unlock()

	if cancel == nil {
		return nil
	}

	b.logger.Info().Msg("Stopping Telegram bot...")
	cancel()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("telegram bot %d did not stop in time: %w", b.id, ctx.Err())
	}
}

// Running reports whether the bot is processing updates
func (b *Bot) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cancel != nil
}

// recoverMiddleware keeps one failing update from taking the process down
func recoverMiddleware(logger zerolog.Logger) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error().
						Interface("panic", r).
						Int64("update_id", update.ID).
						Str("stack", string(debug.Stack())).
						Msg("Recovered from panic in update handler")
				}
			}()
			next(ctx, bot, update)
		}
	}
}

// defaultHandler drops updates no route matched
func defaultHandler(_ context.Context, _ *tgbot.Bot, _ *models.Update) {}
