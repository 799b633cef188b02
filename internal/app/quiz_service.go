package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hunger-insights/internal/domain"
	"hunger-insights/internal/metrics"
	"hunger-insights/internal/quiz"
)

// SessionRepository abstracts where quiz runs live (in-memory, Redis-marked, etc).
// Update applies fn atomically for one run.
type SessionRepository interface {
	Create(run Run)
	Get(runID string) (Run, bool)
	Update(runID string, fn func(Run) Run) (Run, bool)
	Delete(runID string)
}

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.Bank, error)
}

// Run is one client's quiz run.
type Run struct {
	ID        string
	BankID    string
	Session   quiz.Session
	StartedAt time.Time
}

// QuizService contains the quiz use cases.
type QuizService struct {
	sessions SessionRepository
	banks    BankRepository
	engine   *quiz.Engine
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewQuizService(store SessionRepository, banks BankRepository, engine *quiz.Engine, m *metrics.Metrics) *QuizService {
	return &QuizService{sessions: store, banks: banks, engine: engine, metrics: m, now: time.Now}
}

// Start shuffles a new run over the bank and registers it.
func (s *QuizService) Start(ctx context.Context, bankID string) (Run, error) {
	session, err := s.shuffle(ctx, bankID)
	if err != nil {
		return Run{}, err
	}
	run := Run{
		ID:        uuid.NewString(),
		BankID:    bankID,
		Session:   session,
		StartedAt: s.now(),
	}
	s.sessions.Create(run)
	s.metrics.QuizStarted(bankID)
	return run, nil
}

// Get returns the current state of a run.
func (s *QuizService) Get(_ context.Context, runID string) (Run, error) {
	run, ok := s.sessions.Get(runID)
	if !ok {
		return Run{}, domain.ErrSessionNotFound
	}
	return run, nil
}

// Select records an option for the current question.
func (s *QuizService) Select(_ context.Context, runID string, option int) (Run, error) {
	return s.update(runID, func(session quiz.Session) quiz.Session {
		return session.Select(option)
	})
}

// Submit locks in the selected option and scores it.
func (s *QuizService) Submit(_ context.Context, runID string) (Run, error) {
	var answered, correct bool
	run, err := s.update(runID, func(session quiz.Session) quiz.Session {
		next := session.Submit()
		answered = !session.IsSubmitted() && next.IsSubmitted()
		correct = next.Score() > session.Score()
		return next
	})
	if err == nil && answered {
		s.metrics.AnswerSubmitted(correct)
	}
	return run, err
}

// Advance moves to the next question or finishes the run.
func (s *QuizService) Advance(_ context.Context, runID string) (Run, error) {
	var finished bool
	run, err := s.update(runID, func(session quiz.Session) quiz.Session {
		next := session.Advance()
		finished = !session.IsFinished() && next.IsFinished()
		return next
	})
	if err == nil && finished {
		s.metrics.QuizFinished(run.BankID)
	}
	return run, err
}

// Retake replaces the run's session with a fresh shuffle of the same bank.
func (s *QuizService) Retake(ctx context.Context, runID string) (Run, error) {
	current, ok := s.sessions.Get(runID)
	if !ok {
		return Run{}, domain.ErrSessionNotFound
	}
	session, err := s.shuffle(ctx, current.BankID)
	if err != nil {
		return Run{}, err
	}
	run, ok := s.sessions.Update(runID, func(r Run) Run {
		r.Session = session
		r.StartedAt = s.now()
		return r
	})
	if !ok {
		return Run{}, domain.ErrSessionNotFound
	}
	s.metrics.QuizStarted(run.BankID)
	return run, nil
}

// End drops the run.
func (s *QuizService) End(_ context.Context, runID string) {
	s.sessions.Delete(runID)
}

func (s *QuizService) shuffle(ctx context.Context, bankID string) (quiz.Session, error) {
	bank, err := s.banks.GetBank(ctx, bankID)
	if err != nil {
		return quiz.Session{}, err
	}
	return s.engine.Start(bank.Questions)
}

func (s *QuizService) update(runID string, fn func(quiz.Session) quiz.Session) (Run, error) {
	run, ok := s.sessions.Update(runID, func(r Run) Run {
		r.Session = fn(r.Session)
		return r
	})
	if !ok {
		return Run{}, domain.ErrSessionNotFound
	}
	return run, nil
}
