package quiz_test

import (
	"math/rand"
	"testing"

	"hunger-insights/internal/quiz"
)

func newRun(t *testing.T) quiz.Session {
	t.Helper()
	session, err := quiz.NewEngineWithSource(rand.NewSource(11)).Start(quiz.DefaultBank())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return session
}

func TestSelectIsLockedAfterSubmit(t *testing.T) {
	session := newRun(t).Select(0).Submit()
	locked := session.Select(3)
	if got, _ := locked.Selected(); got != 0 {
		t.Fatalf("expected selection to stay 0, got %d", got)
	}
}

func TestSelectIgnoresOutOfRange(t *testing.T) {
	session := newRun(t)
	for _, idx := range []int{-1, 4, 99} {
		if _, ok := session.Select(idx).Selected(); ok {
			t.Fatalf("selection %d should be ignored", idx)
		}
	}
	if got, _ := session.Select(2).Select(1).Selected(); got != 1 {
		t.Fatalf("expected reselection to 1, got %d", got)
	}
}

func TestSubmitWithoutSelectionIsNoop(t *testing.T) {
	session := newRun(t).Submit()
	if session.IsSubmitted() || session.Score() != 0 {
		t.Fatalf("submit without selection changed state: phase=%s score=%d", session.Phase(), session.Score())
	}
}

func TestSubmitTwiceScoresOnce(t *testing.T) {
	session := answer(newRun(t), true)
	again := session.Submit()
	if again.Score() != 1 {
		t.Fatalf("expected score 1 after resubmission, got %d", again.Score())
	}
}

func TestWrongAnswerDoesNotScore(t *testing.T) {
	session := answer(newRun(t), false)
	if !session.IsSubmitted() || session.Score() != 0 {
		t.Fatalf("expected submitted with score 0, got phase=%s score=%d", session.Phase(), session.Score())
	}
}

func TestAdvanceBeforeSubmitIsNoop(t *testing.T) {
	session := newRun(t).Select(1).Advance()
	if session.CurrentIndex() != 0 {
		t.Fatalf("advance before submit moved to %d", session.CurrentIndex())
	}
	if got, _ := session.Selected(); got != 1 {
		t.Fatalf("advance before submit cleared selection")
	}
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	start := newRun(t)
	_ = start.Select(2).Submit().Advance()
	if _, ok := start.Selected(); ok || start.IsSubmitted() || start.CurrentIndex() != 0 {
		t.Fatalf("original session mutated: %+v", start)
	}
}

func TestFullRunScoresEveryCorrectAnswer(t *testing.T) {
	session := newRun(t)
	n := session.Len()
	for i := 0; i < n; i++ {
		if session.IsFinished() {
			t.Fatalf("finished early at %d", i)
		}
		session = answer(session, true)
		if _, ok := session.Selected(); !ok {
			t.Fatalf("selection missing after submit")
		}
		session = session.Advance()
	}
	if !session.IsFinished() {
		t.Fatalf("expected finished run, got phase %s", session.Phase())
	}
	if session.Score() != n {
		t.Fatalf("expected score %d, got %d", n, session.Score())
	}
	if session.CurrentIndex() != n-1 {
		t.Fatalf("expected index to stay at %d, got %d", n-1, session.CurrentIndex())
	}
	if session.ScoreLabel() != "6/6" {
		t.Fatalf("unexpected score label %q", session.ScoreLabel())
	}
}

func TestFinishedIsTerminal(t *testing.T) {
	session := newRun(t)
	for !session.IsFinished() {
		session = answer(session, false).Advance()
	}
	after := session.Select(0).Submit().Advance()
	if !after.IsFinished() || after.Score() != 0 || after.CurrentIndex() != session.CurrentIndex() {
		t.Fatalf("finished session changed: phase=%s score=%d index=%d", after.Phase(), after.Score(), after.CurrentIndex())
	}
}

func TestMixedRunScore(t *testing.T) {
	session := newRun(t)
	pattern := []bool{true, false, true, true, false, true}
	for _, correct := range pattern {
		session = answer(session, correct).Advance()
	}
	if session.Score() != 4 {
		t.Fatalf("expected 4 correct, got %d", session.Score())
	}
}

func TestProgressPercentUsesCompletedQuestions(t *testing.T) {
	session := newRun(t)
	want := []int{0, 17, 33, 50, 67, 83}
	for i, pct := range want {
		if got := session.ProgressPercent(); got != pct {
			t.Fatalf("question %d: expected %d%%, got %d%%", i+1, pct, got)
		}
		session = answer(session, true).Advance()
	}
	if got := session.ProgressPercent(); got != 83 {
		t.Fatalf("finished run should keep last progress 83%%, got %d%%", got)
	}
}

func TestScoreLabel(t *testing.T) {
	session := answer(newRun(t), true)
	if session.ScoreLabel() != "1/6" {
		t.Fatalf("expected 1/6, got %q", session.ScoreLabel())
	}
}

func TestVerdict(t *testing.T) {
	cases := map[int]string{
		6: "Excellent! You're well-informed about hunger facts.",
		5: "Excellent! You're well-informed about hunger facts.",
		4: "Not bad, there's room to grow your knowledge.",
		3: "Not bad, there's room to grow your knowledge.",
		2: "Keep learning! Understanding hunger is the first step to fighting it.",
		0: "Keep learning! Understanding hunger is the first step to fighting it.",
	}
	for score, want := range cases {
		if got := quiz.Verdict(score); got != want {
			t.Fatalf("score %d: expected %q, got %q", score, want, got)
		}
	}
}
