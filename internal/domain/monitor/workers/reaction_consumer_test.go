package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/reaction-monitor/config"
	kafkaHandlers "github.com/Conte777/reaction-monitor/internal/domain/monitor/delivery/kafka"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
	kafkaRepo "github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/kafka"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/memory"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/repository/postgres"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/usecase/business"
	"github.com/Conte777/reaction-monitor/internal/infrastructure/metrics"
)

// fakeReader serves queued messages and blocks until the context is cancelled
type fakeReader struct {
	messages  chan kafka.Message
	mu        sync.Mutex
	committed []int64
	closed    bool
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.messages:
		return msg, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func TestReactionConsumer_HandlesAndCommits(t *testing.T) {
	store := memory.NewStore(zerolog.Nop())
	uc := business.NewUseCase(
		store,
		kafkaRepo.NewNoopProducer(),
		postgres.NewFireJournal(nil),
		&config.MonitorConfig{SourceChannelID: -100, Emojis: config.DefaultEmojis},
		metrics.NewMetrics(prometheus.NewRegistry()),
		zerolog.Nop(),
	)
	key := entities.Key{ChatID: -100, MessageID: 3}
	require.NoError(t, store.Put(context.Background(), &entities.Monitor{
		ID: "m", Owner: 1, Key: key, Reactions: []string{"🔥"}, Threshold: 2, Status: entities.StatusActive,
	}))

	reader := &fakeReader{messages: make(chan kafka.Message, 2)}
	consumer := newReactionConsumer(reader, kafkaHandlers.NewHandlers(uc, zerolog.Nop()), zerolog.Nop())

	reader.messages <- kafka.Message{Offset: 1, Value: []byte(`broken`)}
	reader.messages <- kafka.Message{Offset: 2, Value: []byte(`{"chat_id":-100,"message_id":3,"reactions":[{"emoji":"🔥","count":2}]}`)}

	consumer.Start()

	require.Eventually(t, func() bool { return reader.commits() == 2 }, 2*time.Second, 10*time.Millisecond)

	_, err := store.Get(context.Background(), key)
	assert.Error(t, err, "monitor should be removed once fired")

	require.NoError(t, consumer.Stop())
	assert.True(t, reader.closed)
}

// failingReader fails every fetch and counts attempts
type failingReader struct {
	mu      sync.Mutex
	fetches int
}

func (r *failingReader) FetchMessage(context.Context) (kafka.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches++
	return kafka.Message{}, errors.New("broker unreachable")
}

func (r *failingReader) CommitMessages(context.Context, ...kafka.Message) error { return nil }

func (r *failingReader) Close() error { return nil }

func (r *failingReader) attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches
}

func TestReactionConsumer_BacksOffOnFetchError(t *testing.T) {
	prev := FetchRetryDelay
	FetchRetryDelay = 50 * time.Millisecond
	t.Cleanup(func() { FetchRetryDelay = prev })

	reader := &failingReader{}
	consumer := newReactionConsumer(reader, nil, zerolog.Nop())

	consumer.Start()
	time.Sleep(220 * time.Millisecond)
	require.NoError(t, consumer.Stop())

	attempts := reader.attempts()
	assert.GreaterOrEqual(t, attempts, 2)
	assert.LessOrEqual(t, attempts, 6, "fetch errors must not be retried in a tight loop")
}
