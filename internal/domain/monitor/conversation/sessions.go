package conversation

import (
	"sync"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
)

// Sessions holds one conversation state per principal
type Sessions struct {
	mu     sync.Mutex
	states map[dto.Principal]State
}

// NewSessions creates an empty session table
func NewSessions() *Sessions {
	return &Sessions{states: make(map[dto.Principal]State)}
}

// Get returns the state of principal, Idle when none is stored
func (s *Sessions) Get(p dto.Principal) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.states[p]
}

// Apply runs Transition for principal and stores the result atomically
func (s *Sessions) Apply(p dto.Principal, rules Rules, ev Event) (State, []Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects := Transition(rules, s.states[p], ev)
	if next.Stage == StageIdle {
		delete(s.states, p)
	} else {
		s.states[p] = next
	}
	return next, effects
}

// Len returns the number of conversations in progress
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.states)
}
