package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
)

func newMonitor(owner int64, msgID int, id string) *entities.Monitor {
	return &entities.Monitor{
		ID:        id,
		Owner:     owner,
		Key:       entities.Key{ChatID: -100, MessageID: msgID},
		Reactions: []string{"👍"},
		Threshold: 3,
		Status:    entities.StatusActive,
	}
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop())

	_, err := s.Get(ctx, entities.Key{ChatID: -100, MessageID: 1})
	assert.ErrorIs(t, err, monerrors.ErrMonitorNotFound)

	require.NoError(t, s.Put(ctx, newMonitor(1, 1, "a")))
	require.NoError(t, s.Put(ctx, newMonitor(2, 1, "b")))

	got, err := s.Get(ctx, entities.Key{ChatID: -100, MessageID: 1})
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID, "put is last writer wins")

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop())
	require.NoError(t, s.Put(ctx, newMonitor(1, 1, "a")))

	got, err := s.Get(ctx, entities.Key{ChatID: -100, MessageID: 1})
	require.NoError(t, err)
	got.Reactions[0] = "🔥"
	got.Threshold = 99

	again, err := s.Get(ctx, entities.Key{ChatID: -100, MessageID: 1})
	require.NoError(t, err)
	assert.Equal(t, "👍", again.Reactions[0])
	assert.Equal(t, 3, again.Threshold)
}

func TestStore_InsertConflict(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop())

	require.NoError(t, s.Insert(ctx, newMonitor(1, 1, "a")))
	err := s.Insert(ctx, newMonitor(2, 1, "b"))
	assert.ErrorIs(t, err, monerrors.ErrAlreadyMonitored)

	got, err := s.Get(ctx, entities.Key{ChatID: -100, MessageID: 1})
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
}

func TestStore_RemoveIfOwner(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop())
	key := entities.Key{ChatID: -100, MessageID: 1}

	_, err := s.RemoveIfOwner(ctx, key, 1)
	assert.ErrorIs(t, err, monerrors.ErrMonitorNotFound)

	require.NoError(t, s.Put(ctx, newMonitor(1, 1, "a")))

	_, err = s.RemoveIfOwner(ctx, key, 2)
	assert.ErrorIs(t, err, monerrors.ErrNotMonitorOwner)
	_, err = s.Get(ctx, key)
	assert.NoError(t, err, "not-owner must leave the monitor in place")

	removed, err := s.RemoveIfOwner(ctx, key, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", removed.ID)

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, monerrors.ErrMonitorNotFound)
}

func TestStore_RemoveIfMatch(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop())
	key := entities.Key{ChatID: -100, MessageID: 1}
	require.NoError(t, s.Put(ctx, newMonitor(1, 1, "new")))

	ok, err := s.RemoveIfMatch(ctx, key, "stale")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.RemoveIfMatch(ctx, key, "new")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.RemoveIfMatch(ctx, key, "new")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_RemoveIfMatch_SingleWinner(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop())
	key := entities.Key{ChatID: -100, MessageID: 1}
	require.NoError(t, s.Put(ctx, newMonitor(1, 1, "a")))

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.RemoveIfMatch(ctx, key, "a"); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestStore_ListByOwner_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop())

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Put(ctx, newMonitor(1, i, fmt.Sprintf("m%d", i))))
	}
	require.NoError(t, s.Put(ctx, newMonitor(2, 100, "other")))
	_, err := s.RemoveIfOwner(ctx, entities.Key{ChatID: -100, MessageID: 3}, 1)
	require.NoError(t, err)

	list, err := s.ListByOwner(ctx, 1)
	require.NoError(t, err)

	ids := make([]string, len(list))
	for i, m := range list {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"m1", "m2", "m4", "m5"}, ids)

	empty, err := s.ListByOwner(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_RecordCounts(t *testing.T) {
	ctx := context.Background()
	s := NewStore(zerolog.Nop())
	key := entities.Key{ChatID: -100, MessageID: 1}

	assert.ErrorIs(t, s.RecordCounts(ctx, key, map[string]int{"👍": 1}), monerrors.ErrMonitorNotFound)

	require.NoError(t, s.Put(ctx, newMonitor(1, 1, "a")))
	observed := map[string]int{"👍": 2, "😂": 4}
	require.NoError(t, s.RecordCounts(ctx, key, observed))
	observed["👍"] = 100

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"👍": 2, "😂": 4}, got.LastCounts)
}
