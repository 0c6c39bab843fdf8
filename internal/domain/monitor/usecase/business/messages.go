package business

import (
	"context"
	"fmt"
	"strings"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
)

// FiredText is sent privately to the owner of a fired monitor
func FiredText(m *entities.Monitor, emoji string, count int) string {
	return fmt.Sprintf(
		"🔔 <b>Threshold reached!</b>\nPost: <code>%s</code>\nReaction %s: %d/%d",
		m.Key, emoji, count, m.Threshold,
	)
}

// AckText is posted in the channel as a reply to the fired post
func AckText(emoji string, count int) string {
	return fmt.Sprintf("🔥 %d × %s", count, emoji)
}

// bestEffort runs an outbound call whose failure must not interrupt the caller
func (uc *UseCase) bestEffort(ctx context.Context, operation string, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		uc.logger.Warn().Err(err).Str("operation", operation).Msg("Best-effort operation failed")
		uc.metrics.RecordBestEffortFailure(operation)
	}
}

// FormatMonitorList renders the /monitors reply
func FormatMonitorList(resp *dto.MonitorListResponse) string {
	if len(resp.Monitors) == 0 {
		return "You have no monitors."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>Your monitors (%d):</b>\n\n", len(resp.Monitors)))
	for i, item := range resp.Monitors {
		sb.WriteString(fmt.Sprintf("%d. <code>%s</code>\n", i+1, item.Key))
		sb.WriteString(fmt.Sprintf("   Reactions: %s\n", strings.Join(item.Reactions, " ")))
		sb.WriteString(fmt.Sprintf("   Trigger: %d", item.Threshold))
		if len(item.LastCounts) > 0 {
			parts := make([]string, 0, len(item.Reactions))
			for _, r := range item.Reactions {
				parts = append(parts, fmt.Sprintf("%s %d", r, item.LastCounts[r]))
			}
			sb.WriteString(fmt.Sprintf(" (now: %s)", strings.Join(parts, ", ")))
		}
		sb.WriteString("\n\n")
	}
	sb.WriteString("Stop one with /cancel &lt;chatId:messageId&gt;")
	return sb.String()
}

// FormatHistory renders the /history reply
func FormatHistory(items []dto.FireItem) string {
	if len(items) == 0 {
		return "No monitor has fired yet."
	}

	var sb strings.Builder
	sb.WriteString("🕘 <b>Recently fired:</b>\n\n")
	for _, it := range items {
		sb.WriteString(fmt.Sprintf("• <code>%s</code> %s %d/%d at %s\n",
			it.Key, it.Emoji, it.Count, it.Threshold, it.FiredAt.UTC().Format("2006-01-02 15:04 MST")))
	}
	return sb.String()
}
