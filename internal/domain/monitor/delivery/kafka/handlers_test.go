package kafka

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/reaction-monitor/config"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/deps"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
	kafkaRepo "github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/kafka"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/memory"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/postgres"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/usecase/business"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/metrics"
)

type recordingMessenger struct {
	mu    sync.Mutex
	texts map[int64][]string
}

func (m *recordingMessenger) SendMessage(_ context.Context, chatID int64, text string, _ dto.MessageOptions) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.texts == nil {
		m.texts = make(map[int64][]string)
	}
	m.texts[chatID] = append(m.texts[chatID], text)
	return len(m.texts[chatID]), nil
}

func (m *recordingMessenger) EditMessage(context.Context, int64, int, string, dto.MessageOptions) error {
	return nil
}

func (m *recordingMessenger) SetReaction(context.Context, int64, int, string, bool) error { return nil }

func (m *recordingMessenger) AnswerCallback(context.Context, string, string) error { return nil }

func (m *recordingMessenger) Self(context.Context) (dto.Identity, error) {
	return dto.Identity{ID: 10}, nil
}

func setup(t *testing.T) (*Handlers, deps.MonitorStore, *recordingMessenger) {
	t.Helper()

	store := memory.NewStore(zerolog.Nop())
	cfg := &config.MonitorConfig{SourceChannelID: -100, Emojis: config.DefaultEmojis, AckEnabled: false}
	uc := business.NewUseCase(
		store,
		kafkaRepo.NewNoopProducer(),
		postgres.NewFireJournal(nil),
		cfg,
		metrics.NewMetrics(prometheus.NewRegistry()),
		zerolog.Nop(),
	)
	messenger := &recordingMessenger{}
	require.NoError(t, uc.RegisterMessenger(context.Background(), messenger))

	require.NoError(t, store.Put(context.Background(), &entities.Monitor{
		ID:        "m-1",
		Owner:     1,
		BotID:     10,
		Key:       entities.Key{ChatID: -100, MessageID: 5},
		Reactions: []string{"👍"},
		Threshold: 3,
		Status:    entities.StatusActive,
	}))

	return NewHandlers(uc, zerolog.Nop()), store, messenger
}

func TestHandleReactionCounts_Fires(t *testing.T) {
	h, store, messenger := setup(t)
	ctx := context.Background()

	require.NoError(t, h.HandleReactionCounts(ctx, []byte(`{"chat_id":-100,"message_id":5,"reactions":[{"emoji":"👍","count":2}]}`)))
	assert.Empty(t, messenger.texts[1])

	require.NoError(t, h.HandleReactionCounts(ctx, []byte(`{"chat_id":-100,"message_id":5,"reactions":[{"emoji":"👍","count":3}]}`)))
	require.Len(t, messenger.texts[1], 1)
	assert.Contains(t, messenger.texts[1][0], "3/3")

	_, err := store.Get(ctx, entities.Key{ChatID: -100, MessageID: 5})
	assert.ErrorIs(t, err, monerrors.ErrMonitorNotFound)
}

func TestHandleReactionCounts_Invalid(t *testing.T) {
	h, _, _ := setup(t)

	assert.Error(t, h.HandleReactionCounts(context.Background(), []byte(`not json`)))
	assert.Error(t, h.HandleReactionCounts(context.Background(), []byte(`{"reactions":[]}`)))
}

func TestHandleReactionCounts_UntrackedPost(t *testing.T) {
	h, _, messenger := setup(t)

	require.NoError(t, h.HandleReactionCounts(context.Background(), []byte(`{"chat_id":-100,"message_id":6,"reactions":[{"emoji":"👍","count":50}]}`)))
	assert.Empty(t, messenger.texts)
}
