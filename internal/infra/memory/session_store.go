package memory

import (
	"sync"

	"hunger-insights/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu   sync.RWMutex
	runs map[string]app.Run
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		runs: make(map[string]app.Run),
	}
}

func (s *SessionStore) Create(run app.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
}

func (s *SessionStore) Get(runID string) (app.Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	return run, ok
}

func (s *SessionStore) Update(runID string, fn func(app.Run) app.Run) (app.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return app.Run{}, false
	}
	run = fn(run)
	s.runs[runID] = run
	return run, true
}

func (s *SessionStore) Delete(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.runs, runID)
}

// Len reports how many runs are live.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
