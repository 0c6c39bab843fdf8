package conversation

import (
	"fmt"
	"strings"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
)

// User facing texts of the setup wizard
const (
	MsgForwardFirst     = "Forward a post from the monitored channel first."
	MsgNotChannelPost   = "❌ This is not a channel post. Forward a post from the configured channel."
	MsgWrongChannel     = "❌ This post is from another channel. Only posts of the configured channel can be monitored."
	MsgUnknownEmoji     = "This reaction is not available."
	MsgNothingSelected  = "Nothing selected!"
	MsgStepFinished     = "This step is already finished."
	MsgEnterThreshold   = "Type the trigger count (for example: 10)."
	MsgInvalidThreshold = "❌ The trigger count must be a positive whole number. Try again."
	MsgIncomplete       = "Choose reactions and a trigger count first."
	MsgCancelled        = "❌ Setup cancelled."
	MsgNothingToCancel  = "There is nothing to cancel."
)

// FormatReactions renders a reaction list for messages
func FormatReactions(reactions []string) string {
	if len(reactions) == 0 {
		return "(none)"
	}
	return strings.Join(reactions, " ")
}

// PostAcceptedText is sent after a valid forward
func PostAcceptedText(key entities.Key) string {
	return fmt.Sprintf("🟢 Post accepted.\nID: <code>%s</code>\nWhich reactions should be tracked?", key)
}

// AlreadyMonitoredText rejects a forward of a tracked post
func AlreadyMonitoredText(key entities.Key) string {
	return fmt.Sprintf("⚠️ Post <code>%s</code> is already monitored. Cancel it with /cancel %s first.", key, key)
}

// SelectionText shows the current emoji selection
func SelectionText(reactions []string) string {
	return "🟢 Selected reactions: " + FormatReactions(reactions)
}

// ThresholdPromptText asks for a threshold
func ThresholdPromptText(reactions []string) string {
	return fmt.Sprintf("✅ Selected: %s\nNow choose the trigger count:", FormatReactions(reactions))
}

// ConfirmText summarizes a complete draft
func ConfirmText(m *entities.Monitor) string {
	return fmt.Sprintf(
		"👀 Monitoring configured.\nReactions: %s\nTrigger: %d\n\nConfirm?",
		FormatReactions(m.Reactions), m.Threshold,
	)
}

// ActivatedText is shown once a monitor is stored
func ActivatedText(m *entities.Monitor) string {
	return fmt.Sprintf(
		"✅ Monitoring started!\nPost: <code>%s</code>\nReactions: %s\nTrigger: %d",
		m.Key, FormatReactions(m.Reactions), m.Threshold,
	)
}
