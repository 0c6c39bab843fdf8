// Package kafka contains Kafka delivery handlers
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/usecase/business"
)

// Handlers contains Kafka message handlers
type Handlers struct {
	uc     *business.UseCase
	logger zerolog.Logger
}

// NewHandlers creates new Kafka handlers
func NewHandlers(uc *business.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		logger: logger.With().Str("component", "kafka_handlers").Logger(),
	}
}

// HandleReactionCounts handles relayed reaction totals of a channel post
func (h *Handlers) HandleReactionCounts(ctx context.Context, data []byte) error {
	var event dto.RelayedReactionCounts
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error().Err(err).Str("data", string(data)).Msg("Failed to unmarshal relayed reaction counts")
		return err
	}

	if event.ChatID == 0 || event.MessageID <= 0 {
		return fmt.Errorf("relayed reaction counts without a post: chat_id=%d message_id=%d", event.ChatID, event.MessageID)
	}

	upd := dto.ReactionUpdate{
		ChatID:    event.ChatID,
		MessageID: event.MessageID,
		Kind:      dto.UpdateKindRelayed,
	}
	for _, r := range event.Reactions {
		upd.Observations = append(upd.Observations, dto.ReactionObservation{
			Emoji:      r.Emoji,
			Count:      r.Count,
			Aggregated: true,
		})
	}

	h.logger.Debug().
		Int64("chat_id", event.ChatID).
		Int("message_id", event.MessageID).
		Int("reactions", len(event.Reactions)).
		Msg("Processing relayed reaction counts")

	return h.uc.HandleReactionUpdate(ctx, 0, upd)
}
