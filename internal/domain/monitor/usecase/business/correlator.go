package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
)

// Normalize turns a reaction update into per-emoji counts.
// Aggregated observations carry their total; a bare presence counts as one.
func Normalize(upd dto.ReactionUpdate) map[string]int {
	counts := make(map[string]int, len(upd.Observations))
	for _, obs := range upd.Observations {
		if obs.Emoji == "" {
			continue
		}
		if obs.Aggregated {
			counts[obs.Emoji] = obs.Count
			continue
		}
		counts[obs.Emoji] = 1
	}
	return counts
}

// TrackedCounts projects observed counts onto the reactions of m, missing emojis count as zero
func TrackedCounts(m *entities.Monitor, observed map[string]int) map[string]int {
	counts := make(map[string]int, len(m.Reactions))
	for _, r := range m.Reactions {
		counts[r] = observed[r]
	}
	return counts
}

// HandleReactionUpdate correlates a reaction update with an active monitor and fires it
// once a tracked emoji reaches the threshold. Updates for untracked posts are ignored.
// receivingBotID is zero for updates that did not arrive through a bot.
func (uc *UseCase) HandleReactionUpdate(ctx context.Context, receivingBotID int64, upd dto.ReactionUpdate) error {
	key := entities.Key{ChatID: upd.ChatID, MessageID: upd.MessageID}
	kind := string(upd.Kind)

	m, err := uc.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, monerrors.ErrMonitorNotFound) {
			uc.metrics.RecordReactionUpdate(kind, "untracked")
			return nil
		}
		return fmt.Errorf("failed to look up monitor %s: %w", key, err)
	}

	observed := Normalize(upd)
	if err := uc.store.RecordCounts(ctx, key, observed); err != nil && !errors.Is(err, monerrors.ErrMonitorNotFound) {
		uc.logger.Warn().Err(err).Str("key", key.String()).Msg("Failed to record reaction counts")
	}

	uc.logger.Debug().
		Str("monitor_id", m.ID).
		Str("key", key.String()).
		Str("kind", kind).
		Interface("observed", observed).
		Msg("Reaction update matched monitor")

	emoji, count, reached := Evaluate(m, TrackedCounts(m, observed))
	if !reached {
		uc.metrics.RecordReactionUpdate(kind, "below_threshold")
		return nil
	}

	uc.metrics.RecordReactionUpdate(kind, "threshold_reached")
	return uc.fire(ctx, receivingBotID, m, emoji, count)
}
