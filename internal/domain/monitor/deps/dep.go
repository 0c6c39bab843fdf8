// Package deps contains interface definitions for the monitor domain dependencies
package deps

import (
	"context"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
)

// MonitorStore holds active monitors keyed by post.
// Every method is atomic with respect to the others. A store shared between
// processes must implement RemoveIfMatch as a conditional delete, otherwise a
// monitor may fire more than once.
type MonitorStore interface {
	// Put inserts or replaces the monitor at its key; last writer wins
	Put(ctx context.Context, m *entities.Monitor) error

	// Insert stores the monitor only if its key is free
	Insert(ctx context.Context, m *entities.Monitor) error

	// Get returns a copy of the monitor stored at key
	Get(ctx context.Context, key entities.Key) (*entities.Monitor, error)

	// RemoveIfOwner removes the monitor at key when principal owns it
	RemoveIfOwner(ctx context.Context, key entities.Key, principal int64) (*entities.Monitor, error)

	// RemoveIfMatch removes the monitor at key only if its ID equals id
	RemoveIfMatch(ctx context.Context, key entities.Key, id string) (bool, error)

	// ListByOwner returns monitors of principal in insertion order
	ListByOwner(ctx context.Context, principal int64) ([]*entities.Monitor, error)

	// RecordCounts replaces the last observed counts of the monitor at key
	RecordCounts(ctx context.Context, key entities.Key, observed map[string]int) error

	// Count returns the number of stored monitors
	Count(ctx context.Context) (int, error)
}

// Messenger is the outbound side of one bot identity
type Messenger interface {
	// SendMessage sends a message and returns its id
	SendMessage(ctx context.Context, chatID int64, text string, opts dto.MessageOptions) (int, error)

	// EditMessage replaces text and keyboard of an existing message
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, opts dto.MessageOptions) error

	// SetReaction places the bot's own reaction on a message
	SetReaction(ctx context.Context, chatID int64, messageID int, emoji string, big bool) error

	// AnswerCallback acknowledges a button press, optionally with a toast
	AnswerCallback(ctx context.Context, callbackID, text string) error

	// Self returns the bot identity
	Self(ctx context.Context) (dto.Identity, error)
}

// EventPublisher publishes monitor lifecycle events
type EventPublisher interface {
	// Publish sends one event
	Publish(ctx context.Context, event *dto.MonitorEvent) error

	// Close closes the publisher
	Close() error
}

// FireJournal keeps a history of fired monitors
type FireJournal interface {
	// Record appends a fire record
	Record(ctx context.Context, rec *entities.FireRecord) error

	// ListByOwner returns the newest records of owner first
	ListByOwner(ctx context.Context, owner int64, limit int) ([]entities.FireRecord, error)
}
