package quiz_test

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"testing"

	"hunger-insights/internal/domain"
	"hunger-insights/internal/quiz"
)

func TestStartProducesPermutationWithTrackedAnswers(t *testing.T) {
	bank := quiz.DefaultBank()
	correct := make(map[string]domain.Question, len(bank))
	for _, q := range bank {
		correct[q.ID] = q
	}

	for seed := int64(0); seed < 200; seed++ {
		engine := quiz.NewEngineWithSource(rand.NewSource(seed))
		session, err := engine.Start(bank)
		if err != nil {
			t.Fatalf("start: %v", err)
		}

		run := session.Questions()
		if len(run) != len(bank) {
			t.Fatalf("seed %d: expected %d questions, got %d", seed, len(bank), len(run))
		}
		seen := make(map[string]bool, len(run))
		for _, rq := range run {
			src, ok := correct[rq.ID]
			if !ok || seen[rq.ID] {
				t.Fatalf("seed %d: unexpected or repeated question %q", seed, rq.ID)
			}
			seen[rq.ID] = true

			if rq.CorrectIndex < 0 || rq.CorrectIndex >= len(rq.Options) {
				t.Fatalf("seed %d: correct index %d out of range", seed, rq.CorrectIndex)
			}
			if rq.Options[rq.CorrectIndex] != src.CorrectOption {
				t.Fatalf("seed %d: %s correct index points at %q, want %q", seed, rq.ID, rq.Options[rq.CorrectIndex], src.CorrectOption)
			}
			if !samePermutation(rq.Options, src.Options) {
				t.Fatalf("seed %d: %s options %v are not a permutation of %v", seed, rq.ID, rq.Options, src.Options)
			}
			if rq.Prompt != src.Prompt || rq.Explanation != src.Explanation {
				t.Fatalf("seed %d: %s lost prompt or explanation", seed, rq.ID)
			}
		}

		if session.CurrentIndex() != 0 || session.Score() != 0 || session.Phase() != quiz.Answering {
			t.Fatalf("seed %d: unexpected initial state %+v", seed, session)
		}
		if _, ok := session.Selected(); ok {
			t.Fatalf("seed %d: expected no selection", seed)
		}
	}
}

func TestStartDoesNotMutateBank(t *testing.T) {
	bank := quiz.DefaultBank()
	want := quiz.DefaultBank()
	engine := quiz.NewEngineWithSource(rand.NewSource(7))
	if _, err := engine.Start(bank); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := range bank {
		if strings.Join(bank[i].Options, "|") != strings.Join(want[i].Options, "|") {
			t.Fatalf("bank options reordered for %s", bank[i].ID)
		}
	}
}

func TestShuffleIsUniform(t *testing.T) {
	bank := []domain.Question{
		{ID: "a", Options: []string{"x", "y"}, CorrectOption: "x"},
		{ID: "b", Options: []string{"x", "y"}, CorrectOption: "x"},
		{ID: "c", Options: []string{"x", "y"}, CorrectOption: "x"},
	}
	engine := quiz.NewEngineWithSource(rand.NewSource(42))

	const runs = 6000
	counts := make(map[string]int)
	for i := 0; i < runs; i++ {
		session, err := engine.Start(bank)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		var ids []string
		for _, q := range session.Questions() {
			ids = append(ids, q.ID)
		}
		counts[strings.Join(ids, "")]++
	}

	if len(counts) != 6 {
		t.Fatalf("expected all 6 orderings, got %v", counts)
	}
	for order, n := range counts {
		if n < 800 || n > 1200 {
			t.Fatalf("ordering %s appeared %d times, expected about %d", order, n, runs/6)
		}
	}
}

func TestStartRejectsInvalidBanks(t *testing.T) {
	engine := quiz.NewEngineWithSource(rand.NewSource(1))
	cases := []struct {
		name string
		bank []domain.Question
		want error
	}{
		{name: "empty", bank: nil, want: domain.ErrEmptyBank},
		{
			name: "missing answer",
			bank: []domain.Question{{ID: "q", Options: []string{"a", "b"}, CorrectOption: "c"}},
			want: domain.ErrInvalidQuestion,
		},
		{
			name: "duplicate option",
			bank: []domain.Question{{ID: "q", Options: []string{"a", "a", "b"}, CorrectOption: "b"}},
			want: domain.ErrInvalidQuestion,
		},
		{
			name: "single option",
			bank: []domain.Question{{ID: "q", Options: []string{"a"}, CorrectOption: "a"}},
			want: domain.ErrInvalidQuestion,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.Start(tc.bank); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestStartAcceptsAnyOptionCountFromTwo(t *testing.T) {
	engine := quiz.NewEngineWithSource(rand.NewSource(1))
	for _, options := range [][]string{{"yes", "no"}, {"a", "b", "c"}, {"a", "b", "c", "d", "e"}} {
		bank := []domain.Question{{ID: "q", Prompt: "?", Options: options, CorrectOption: options[1]}}
		session, err := engine.Start(bank)
		if err != nil {
			t.Fatalf("%d options: %v", len(options), err)
		}
		q := session.Current()
		if len(q.Options) != len(options) || q.Options[q.CorrectIndex] != options[1] {
			t.Fatalf("%d options: unexpected run question %+v", len(options), q)
		}
	}
}

func TestDefaultBankIsValid(t *testing.T) {
	bank := quiz.DefaultBank()
	if err := quiz.ValidateBank(bank); err != nil {
		t.Fatalf("default bank invalid: %v", err)
	}
	for _, q := range bank {
		if len(q.Options) != 4 {
			t.Fatalf("%s: expected 4 options, got %d", q.ID, len(q.Options))
		}
	}
}

func TestRetakeStartsFreshRun(t *testing.T) {
	engine := quiz.NewEngineWithSource(rand.NewSource(3))
	bank := quiz.DefaultBank()

	session, _ := engine.Start(bank)
	session = answer(session, true).Advance()
	if session.Score() != 1 || session.CurrentIndex() != 1 {
		t.Fatalf("unexpected state before retake: score=%d index=%d", session.Score(), session.CurrentIndex())
	}

	retaken, err := engine.Retake(bank)
	if err != nil {
		t.Fatalf("retake: %v", err)
	}
	if retaken.Score() != 0 || retaken.CurrentIndex() != 0 || retaken.Phase() != quiz.Answering {
		t.Fatalf("retake should reset state, got score=%d index=%d phase=%s", retaken.Score(), retaken.CurrentIndex(), retaken.Phase())
	}
}

func samePermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]string(nil), a...)
	y := append([]string(nil), b...)
	sort.Strings(x)
	sort.Strings(y)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// answer selects the correct (or a wrong) option of the current question and submits.
func answer(s quiz.Session, correct bool) quiz.Session {
	idx := s.Current().CorrectIndex
	if !correct {
		idx = (idx + 1) % len(s.Current().Options)
	}
	return s.Select(idx).Submit()
}
