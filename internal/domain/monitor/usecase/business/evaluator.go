package business

import (
	"context"
	"fmt"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/consts"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
)

// Evaluate returns the first tracked emoji, in selection order, whose count reached the threshold
func Evaluate(m *entities.Monitor, counts map[string]int) (string, int, bool) {
	if m.Threshold <= 0 {
		return "", 0, false
	}
	for _, r := range m.Reactions {
		if c := counts[r]; c >= m.Threshold {
			return r, c, true
		}
	}
	return "", 0, false
}

// fire claims the monitor and performs the notifications.
// Only the caller that removes the monitor performs side effects.
func (uc *UseCase) fire(ctx context.Context, receivingBotID int64, m *entities.Monitor, emoji string, count int) error {
	claimed, err := uc.store.RemoveIfMatch(ctx, m.Key, m.ID)
	if err != nil {
		return fmt.Errorf("failed to claim monitor %s: %w", m.Key, err)
	}
	if !claimed {
		uc.logger.Debug().Str("monitor_id", m.ID).Msg("Monitor already fired or cancelled")
		return nil
	}

	firedAt := uc.now()
	m.Status = entities.StatusFired

	uc.logger.Info().
		Str("monitor_id", m.ID).
		Str("key", m.Key.String()).
		Int64("owner", m.Owner).
		Str("emoji", emoji).
		Int("count", count).
		Int("threshold", m.Threshold).
		Msg("Monitor threshold reached")

	sender, ok := uc.messenger(m.BotID, receivingBotID)
	if !ok {
		uc.logger.Error().Int64("bot_id", m.BotID).Msg("No messenger available for fire notification")
		uc.metrics.RecordBestEffortFailure("notify_owner")
	} else {
		uc.bestEffort(ctx, "notify_owner", func(ctx context.Context) error {
			_, err := sender.SendMessage(ctx, m.Owner, FiredText(m, emoji, count), dto.MessageOptions{})
			return err
		})

		if uc.cfg.AckEnabled {
			uc.bestEffort(ctx, "post_ack", func(ctx context.Context) error {
				_, err := sender.SendMessage(ctx, m.Key.ChatID, AckText(emoji, count),
					dto.MessageOptions{ReplyTo: m.Key.MessageID})
				return err
			})
		}
	}

	uc.bestEffort(ctx, "journal_record", func(ctx context.Context) error {
		return uc.journal.Record(ctx, &entities.FireRecord{
			MonitorID: m.ID,
			Owner:     m.Owner,
			ChatID:    m.Key.ChatID,
			MessageID: m.Key.MessageID,
			Emoji:     emoji,
			Count:     count,
			Threshold: m.Threshold,
			FiredAt:   firedAt,
		})
	})

	uc.publish(ctx, consts.EventMonitorFired, m, emoji, count)

	uc.metrics.RecordFire(emoji, firedAt.Sub(m.ActivatedAt).Seconds())
	uc.refreshActiveGauge(ctx)

	return nil
}
