package telegram

import (
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/consts"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/conversation"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
)

// ForwardedPost extracts the origin of a forwarded message.
// FromChannel is false for forwards of anything but a channel post.
func ForwardedPost(msg *models.Message) dto.ForwardedPost {
	if msg == nil || msg.ForwardOrigin == nil {
		return dto.ForwardedPost{}
	}
	if msg.ForwardOrigin.Type != models.MessageOriginTypeChannel || msg.ForwardOrigin.MessageOriginChannel == nil {
		return dto.ForwardedPost{}
	}

	origin := msg.ForwardOrigin.MessageOriginChannel
	return dto.ForwardedPost{
		FromChannel:     true,
		OriginChatID:    origin.Chat.ID,
		OriginMessageID: origin.MessageID,
	}
}

// ParseCallback maps inline button data to a conversation event
func ParseCallback(data string) (conversation.Event, bool) {
	switch {
	case data == consts.CallbackEmojiDone:
		return conversation.DoneSelecting{}, true
	case data == consts.CallbackEmojiCancel, data == consts.CallbackThresholdStop, data == consts.CallbackCancel:
		return conversation.Cancel{}, true
	case data == consts.CallbackConfirm:
		return conversation.Confirm{}, true
	case data == consts.CallbackThresholdAsk:
		return conversation.PickCustomThreshold{}, true
	case strings.HasPrefix(data, consts.CallbackEmojiToggle):
		emoji := strings.TrimPrefix(data, consts.CallbackEmojiToggle)
		if emoji == "" {
			return nil, false
		}
		return conversation.ToggleEmoji{Emoji: emoji}, true
	case strings.HasPrefix(data, consts.CallbackThreshold):
		value, err := strconv.Atoi(strings.TrimPrefix(data, consts.CallbackThreshold))
		if err != nil {
			return nil, false
		}
		return conversation.PickThreshold{Value: value}, true
	}
	return nil, false
}

// emojiOf returns the unicode emoji of a reaction type, empty for custom and paid reactions
func emojiOf(rt models.ReactionType) string {
	if rt.Type != models.ReactionTypeTypeEmoji || rt.ReactionTypeEmoji == nil {
		return ""
	}
	return rt.ReactionTypeEmoji.Emoji
}

// ReactionFromUpdate converts reaction updates into the domain shape.
// Returns false for updates that carry no reaction data.
func ReactionFromUpdate(update *models.Update) (dto.ReactionUpdate, bool) {
	switch {
	case update.MessageReactionCount != nil:
		rc := update.MessageReactionCount
		upd := dto.ReactionUpdate{
			ChatID:    rc.Chat.ID,
			MessageID: rc.MessageID,
			Kind:      dto.UpdateKindReactionCount,
		}
		for _, r := range rc.Reactions {
			if emoji := emojiOf(r.Type); emoji != "" {
				upd.Observations = append(upd.Observations, dto.ReactionObservation{
					Emoji:      emoji,
					Count:      r.TotalCount,
					Aggregated: true,
				})
			}
		}
		return upd, true

	case update.MessageReaction != nil:
		mr := update.MessageReaction
		upd := dto.ReactionUpdate{
			ChatID:    mr.Chat.ID,
			MessageID: mr.MessageID,
			Kind:      dto.UpdateKindReaction,
		}
		for _, r := range mr.NewReaction {
			if emoji := emojiOf(r); emoji != "" {
				upd.Observations = append(upd.Observations, dto.ReactionObservation{Emoji: emoji})
			}
		}
		return upd, true
	}

	return dto.ReactionUpdate{}, false
}

// commandArgs returns the text after the command word
func commandArgs(text string) string {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// isCommand reports whether text starts with a slash command
func isCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}
