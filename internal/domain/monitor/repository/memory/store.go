// Package memory contains the in-memory monitor store
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/deps"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
)

type entry struct {
	monitor *entities.Monitor
	seq     uint64
}

// store implements deps.MonitorStore on a mutex guarded map.
// Monitors are copied on the way in and out so callers never share state.
type store struct {
	mu      sync.RWMutex
	data    map[entities.Key]entry
	nextSeq uint64
	logger  zerolog.Logger
}

// NewStore creates an empty in-memory monitor store
func NewStore(logger zerolog.Logger) deps.MonitorStore {
	return &store{
		data:   make(map[entities.Key]entry),
		logger: logger.With().Str("component", "monitor_store").Logger(),
	}
}

func (s *store) Put(_ context.Context, m *entities.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.putLocked(m)
	return nil
}

func (s *store) Insert(_ context.Context, m *entities.Monitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[m.Key]; exists {
		return monerrors.ErrAlreadyMonitored
	}

	s.putLocked(m)
	return nil
}

func (s *store) putLocked(m *entities.Monitor) {
	s.nextSeq++
	s.data[m.Key] = entry{monitor: m.Clone(), seq: s.nextSeq}

	s.logger.Debug().
		Str("key", m.Key.String()).
		Str("monitor_id", m.ID).
		Msg("stored monitor")
}

func (s *store) Get(_ context.Context, key entities.Key) (*entities.Monitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return nil, monerrors.ErrMonitorNotFound
	}
	return e.monitor.Clone(), nil
}

func (s *store) RemoveIfOwner(_ context.Context, key entities.Key, principal int64) (*entities.Monitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return nil, monerrors.ErrMonitorNotFound
	}
	if e.monitor.Owner != principal {
		return nil, monerrors.ErrNotMonitorOwner
	}

	delete(s.data, key)
	return e.monitor, nil
}

func (s *store) RemoveIfMatch(_ context.Context, key entities.Key, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok || e.monitor.ID != id {
		return false, nil
	}

	delete(s.data, key)
	return true, nil
}

func (s *store) ListByOwner(_ context.Context, principal int64) ([]*entities.Monitor, error) {
	s.mu.RLock()
	owned := make([]entry, 0)
	for _, e := range s.data {
		if e.monitor.Owner == principal {
			owned = append(owned, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool { return owned[i].seq < owned[j].seq })

	result := make([]*entities.Monitor, len(owned))
	for i, e := range owned {
		result[i] = e.monitor.Clone()
	}
	return result, nil
}

func (s *store) RecordCounts(_ context.Context, key entities.Key, observed map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return monerrors.ErrMonitorNotFound
	}

	counts := make(map[string]int, len(observed))
	for emoji, n := range observed {
		counts[emoji] = n
	}
	e.monitor.LastCounts = counts
	return nil
}

func (s *store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data), nil
}
