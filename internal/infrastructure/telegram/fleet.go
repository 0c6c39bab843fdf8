package telegram

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Conte777/reaction-monitor/config"
)

// Fleet holds every configured bot identity.
// All bots share one monitor store and setup conversations are kept per bot.
type Fleet struct {
	bots []*Bot
}

// NewFleet creates a bot for every configured token
func NewFleet(cfg *config.TelegramConfig, logger zerolog.Logger) (*Fleet, error) {
	logger = logger.With().Str("component", "telegram").Logger()

	fleet := &Fleet{}
	seen := make(map[int64]bool, len(cfg.Tokens))
	for i, token := range cfg.Tokens {
		bot, err := NewBot(token, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("bot #%d: %w", i+1, err)
		}
		if seen[bot.ID()] {
			logger.Warn().Int64("bot_id", bot.ID()).Msg("Duplicate bot token ignored")
			continue
		}
		seen[bot.ID()] = true
		fleet.bots = append(fleet.bots, bot)
	}

	logger.Info().Int("bots", len(fleet.bots)).Msg("Telegram fleet created")
	return fleet, nil
}

// Bots returns the bots of the fleet
func (f *Fleet) Bots() []*Bot {
	return f.bots
}

// Len returns the number of bots
func (f *Fleet) Len() int {
	return len(f.bots)
}
