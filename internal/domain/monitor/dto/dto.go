// Package dto contains data transfer objects for the monitor domain
package dto

import "time"

// Principal identifies who drives a setup conversation
type Principal struct {
	BotID  int64
	UserID int64
}

// Identity describes a bot account
type Identity struct {
	ID       int64
	Username string
}

// KeyboardKind selects which inline keyboard accompanies a message
type KeyboardKind int

const (
	KeyboardNone KeyboardKind = iota
	KeyboardEmojiPicker
	KeyboardThreshold
	KeyboardConfirm
)

// Keyboard is a transport independent keyboard description
type Keyboard struct {
	Kind     KeyboardKind
	Selected []string
}

// MessageOptions carries optional outbound message settings
type MessageOptions struct {
	Keyboard Keyboard
	// ReplyTo is the message id to reply to inside the target chat
	ReplyTo int
}

// UpdateKind tells which inbound shape produced a reaction update
type UpdateKind string

const (
	UpdateKindReaction      UpdateKind = "reaction"
	UpdateKindReactionCount UpdateKind = "reaction_count"
	UpdateKindRelayed       UpdateKind = "relayed"
)

// ReactionObservation is one emoji seen in a reaction update
type ReactionObservation struct {
	Emoji string
	// Count is meaningful only when Aggregated is set; otherwise the emoji is merely present
	Count      int
	Aggregated bool
}

// ReactionUpdate is an inbound reaction notification for one post
type ReactionUpdate struct {
	ChatID       int64
	MessageID    int
	Kind         UpdateKind
	Observations []ReactionObservation
}

// CommandResponse represents a response for bot commands
type CommandResponse struct {
	Message string `json:"message"`
}

// MonitorItem is one row of the /monitors listing
type MonitorItem struct {
	Key        string         `json:"key"`
	Reactions  []string       `json:"reactions"`
	Threshold  int            `json:"threshold"`
	LastCounts map[string]int `json:"lastCounts"`
}

// MonitorListResponse represents a response for listing monitors
type MonitorListResponse struct {
	Monitors []MonitorItem `json:"monitors"`
}

// CancelMonitorRequest represents a request to cancel a monitor by key
type CancelMonitorRequest struct {
	Principal Principal
	Key       string
}

// FireItem is one row of the /history listing
type FireItem struct {
	Key       string    `json:"key"`
	Emoji     string    `json:"emoji"`
	Count     int       `json:"count"`
	Threshold int       `json:"threshold"`
	FiredAt   time.Time `json:"firedAt"`
}

// MonitorEvent represents a Kafka event describing a monitor lifecycle change
type MonitorEvent struct {
	EventID    string   `json:"event_id"`
	Type       string   `json:"type"`
	MonitorID  string   `json:"monitor_id"`
	Owner      int64    `json:"owner_id"`
	ChatID     int64    `json:"chat_id"`
	MessageID  int      `json:"message_id"`
	Reactions  []string `json:"reactions"`
	Threshold  int      `json:"threshold"`
	Emoji      string   `json:"emoji,omitempty"`
	Count      int      `json:"count,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// RelayedReactionCounts is the payload of the reactions.counts topic
type RelayedReactionCounts struct {
	ChatID    int64                 `json:"chat_id"`
	MessageID int                   `json:"message_id"`
	Reactions []RelayedReactionItem `json:"reactions"`
}

// RelayedReactionItem is one emoji total inside RelayedReactionCounts
type RelayedReactionItem struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// Interaction describes where a user action came from and where to answer it
type Interaction struct {
	Principal Principal
	// ChatID is the private chat with the user
	ChatID int64
	// PromptMessageID is the wizard message a button was pressed on, zero for typed input
	PromptMessageID int
	CallbackID      string
}

// ForwardedPost describes the origin of a forwarded message
type ForwardedPost struct {
	FromChannel     bool
	OriginChatID    int64
	OriginMessageID int
}
