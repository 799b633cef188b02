// Package quiz builds randomized quiz runs from a question bank and drives
// the per-question answer flow.
package quiz

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hunger-insights/internal/domain"
)

// Engine produces shuffled quiz runs. It is safe for concurrent use.
type Engine struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewEngine returns an engine seeded from the clock.
func NewEngine() *Engine {
	return NewEngineWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewEngineWithSource allows deterministic shuffles in tests.
func NewEngineWithSource(src rand.Source) *Engine {
	return &Engine{rnd: rand.New(src)}
}

// Start validates the bank and returns a fresh run: question order and each
// question's option order are independent uniform permutations.
func (e *Engine) Start(bank []domain.Question) (Session, error) {
	if err := ValidateBank(bank); err != nil {
		return Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	order := e.permutation(len(bank))
	questions := make([]domain.RunQuestion, 0, len(bank))
	for _, idx := range order {
		questions = append(questions, e.prepare(bank[idx]))
	}
	return newSession(questions), nil
}

// Retake starts a new run over the same bank, unrelated to any previous one.
func (e *Engine) Retake(bank []domain.Question) (Session, error) {
	return e.Start(bank)
}

// prepare shuffles one question's options and tracks the correct answer.
// Callers hold e.mu.
func (e *Engine) prepare(q domain.Question) domain.RunQuestion {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	e.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correct := 0
	for i, opt := range options {
		if opt == q.CorrectOption {
			correct = i
			break
		}
	}
	return domain.RunQuestion{
		ID:           q.ID,
		Prompt:       q.Prompt,
		Options:      options,
		CorrectIndex: correct,
		Explanation:  q.Explanation,
	}
}

// permutation is a Fisher-Yates shuffle of 0..n-1. Callers hold e.mu.
func (e *Engine) permutation(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := e.rnd.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// ValidateBank checks that the bank is non-empty and every question has
// unique options containing its correct answer exactly once. Any option count
// of two or more is accepted; the built-in bank uses four per question.
func ValidateBank(bank []domain.Question) error {
	if len(bank) == 0 {
		return domain.ErrEmptyBank
	}
	for _, q := range bank {
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: %s needs at least two options", domain.ErrInvalidQuestion, q.ID)
		}
		seen := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := seen[opt]; dup {
				return fmt.Errorf("%w: %s has duplicate option %q", domain.ErrInvalidQuestion, q.ID, opt)
			}
			seen[opt] = struct{}{}
		}
		if _, ok := seen[q.CorrectOption]; !ok {
			return fmt.Errorf("%w: %s answer %q not among options", domain.ErrInvalidQuestion, q.ID, q.CorrectOption)
		}
	}
	return nil
}
