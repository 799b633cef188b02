package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"hunger-insights/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Runs stay in a local map; Redis only carries a liveness marker per run,
// refreshed on every update. A run whose marker has expired is dropped.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	runs   map[string]app.Run
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		runs:   make(map[string]app.Run),
	}
}

func (s *SessionStore) Create(run app.Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	s.mark(run)
}

func (s *SessionStore) Get(runID string) (app.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(runID)
}

func (s *SessionStore) Update(runID string, fn func(app.Run) app.Run) (app.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.live(runID)
	if !ok {
		return app.Run{}, false
	}
	run = fn(run)
	s.runs[runID] = run
	s.mark(run)
	return run, true
}

func (s *SessionStore) Delete(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return
	}
	delete(s.runs, runID)
	_ = s.client.Del(context.Background(), s.key(runID)).Err()
}

// live returns the local run unless its marker is known to be gone. Redis
// errors keep the run. Callers hold s.mu.
func (s *SessionStore) live(runID string) (app.Run, bool) {
	run, ok := s.runs[runID]
	if !ok {
		return app.Run{}, false
	}
	n, err := s.client.Exists(context.Background(), s.key(runID)).Result()
	if err == nil && n == 0 {
		delete(s.runs, runID)
		return app.Run{}, false
	}
	return run, true
}

// mark is a best-effort liveness marker holding the run's bank.
func (s *SessionStore) mark(run app.Run) {
	_ = s.client.Set(context.Background(), s.key(run.ID), run.BankID, s.ttl).Err()
}

func (s *SessionStore) key(runID string) string {
	return "quiz:run:" + runID
}
