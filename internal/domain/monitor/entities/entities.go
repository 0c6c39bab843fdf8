// Package entities contains domain entities for the monitor domain
package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key identifies one tracked channel post
type Key struct {
	ChatID    int64
	MessageID int
}

// String renders the key as "chatId:messageId"
func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.ChatID, k.MessageID)
}

// ParseKey parses the "chatId:messageId" form produced by Key.String
func ParseKey(raw string) (Key, error) {
	raw = strings.TrimSpace(raw)
	idx := strings.LastIndex(raw, ":")
	if idx <= 0 || idx == len(raw)-1 {
		return Key{}, fmt.Errorf("malformed monitor key %q", raw)
	}

	chatID, err := strconv.ParseInt(raw[:idx], 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("malformed chat id in %q: %w", raw, err)
	}

	messageID, err := strconv.Atoi(raw[idx+1:])
	if err != nil || messageID <= 0 {
		return Key{}, fmt.Errorf("malformed message id in %q", raw)
	}

	return Key{ChatID: chatID, MessageID: messageID}, nil
}

// Status is the lifecycle state of a monitor
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusFired     Status = "fired"
	StatusCancelled Status = "cancelled"
)

// Monitor tracks reaction counts of one post until a threshold is reached
type Monitor struct {
	// ID changes on every activation so a stale fire cannot remove a newer monitor
	ID    string
	Owner int64
	// BotID is the bot identity the owner configured the monitor through
	BotID     int64
	Key       Key
	Reactions []string
	// Threshold is zero until chosen
	Threshold   int
	LastCounts  map[string]int
	Status      Status
	CreatedAt   time.Time
	ActivatedAt time.Time
}

// NewDraft creates an empty draft for a forwarded post
func NewDraft(owner, botID int64, key Key, now time.Time) *Monitor {
	return &Monitor{
		Owner:     owner,
		BotID:     botID,
		Key:       key,
		Status:    StatusDraft,
		CreatedAt: now,
	}
}

// HasReaction reports whether emoji is tracked
func (m *Monitor) HasReaction(emoji string) bool {
	for _, r := range m.Reactions {
		if r == emoji {
			return true
		}
	}
	return false
}

// ToggleReaction flips membership of emoji, keeping insertion order of the rest
func (m *Monitor) ToggleReaction(emoji string) {
	for i, r := range m.Reactions {
		if r == emoji {
			m.Reactions = append(m.Reactions[:i:i], m.Reactions[i+1:]...)
			return
		}
	}
	m.Reactions = append(m.Reactions, emoji)
}

// Ready reports whether the monitor satisfies activation preconditions
func (m *Monitor) Ready() bool {
	return len(m.Reactions) > 0 && m.Threshold > 0
}

// Clone returns a deep copy
func (m *Monitor) Clone() *Monitor {
	if m == nil {
		return nil
	}
	c := *m
	c.Reactions = append([]string(nil), m.Reactions...)
	if m.LastCounts != nil {
		c.LastCounts = make(map[string]int, len(m.LastCounts))
		for k, v := range m.LastCounts {
			c.LastCounts[k] = v
		}
	}
	return &c
}

// FireRecord is a journal entry written when a monitor fires
type FireRecord struct {
	ID        uint      `gorm:"primaryKey"`
	MonitorID string    `gorm:"size:36;index"`
	Owner     int64     `gorm:"index"`
	ChatID    int64
	MessageID int
	Emoji     string    `gorm:"size:32"`
	Count     int
	Threshold int
	FiredAt   time.Time `gorm:"index"`
}

// TableName overrides the gorm table name
func (FireRecord) TableName() string {
	return "fire_records"
}
