package state

import (
	"sort"
	"sync"

	"github.com/naestep/WebsiteUptimeChecker/internal/domain"
)

// Store holds the latest TargetState per target. Monitors each write only
// their own entry; readers are the status API and the check command.
type Store struct {
	mu     sync.RWMutex
	states map[string]domain.TargetState
}

func New() *Store {
	return &Store{states: make(map[string]domain.TargetState)}
}

func (s *Store) Set(st domain.TargetState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[st.Name] = st
}

func (s *Store) Get(name string) (domain.TargetState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[name]
	return st, ok
}

// All returns every known target state, sorted by name for stable output.
func (s *Store) All() []domain.TargetState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TargetState, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
