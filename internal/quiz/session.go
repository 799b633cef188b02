package quiz

import (
	"fmt"
	"math"

	"hunger-insights/internal/domain"
)

// Phase is the state of the current question within a run.
type Phase int

const (
	// Answering accepts option selection and submission.
	Answering Phase = iota
	// Submitted locks the current answer until the run advances.
	Submitted
	// Finished is terminal; only a new run leaves it.
	Finished
)

func (p Phase) String() string {
	switch p {
	case Answering:
		return "answering"
	case Submitted:
		return "submitted"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// NoSelection marks a question without a selected option.
const NoSelection = -1

// Session is one quiz run. It is a value: every transition returns the next
// session and leaves the receiver untouched. Calls that are not allowed in
// the current phase return the session unchanged.
type Session struct {
	questions []domain.RunQuestion
	current   int
	selected  int
	phase     Phase
	score     int
}

func newSession(questions []domain.RunQuestion) Session {
	return Session{
		questions: questions,
		selected:  NoSelection,
		phase:     Answering,
	}
}

// Select records the chosen option for the current question.
func (s Session) Select(option int) Session {
	if s.phase != Answering || option < 0 || option >= len(s.Current().Options) {
		return s
	}
	s.selected = option
	return s
}

// Submit scores the selected option. Score grows by at most one per question.
func (s Session) Submit() Session {
	if s.phase != Answering || s.selected == NoSelection {
		return s
	}
	if s.selected == s.questions[s.current].CorrectIndex {
		s.score++
	}
	s.phase = Submitted
	return s
}

// Advance moves to the next question, or finishes the run after the last one.
func (s Session) Advance() Session {
	if s.phase != Submitted {
		return s
	}
	if s.current+1 < len(s.questions) {
		s.current++
		s.selected = NoSelection
		s.phase = Answering
		return s
	}
	s.phase = Finished
	return s
}

// Current returns the question at the current index.
func (s Session) Current() domain.RunQuestion {
	if len(s.questions) == 0 {
		return domain.RunQuestion{}
	}
	return s.questions[s.current]
}

// Questions returns a copy of the run's question order.
func (s Session) Questions() []domain.RunQuestion {
	out := make([]domain.RunQuestion, len(s.questions))
	copy(out, s.questions)
	return out
}

// CurrentIndex is the zero-based position of the current question.
func (s Session) CurrentIndex() int { return s.current }

// Len is the number of questions in the run.
func (s Session) Len() int { return len(s.questions) }

// Score counts correctly answered questions so far.
func (s Session) Score() int { return s.score }

// Phase reports where the current question is in the answer flow.
func (s Session) Phase() Phase { return s.phase }

// Selected returns the selected option, if any.
func (s Session) Selected() (int, bool) {
	return s.selected, s.selected != NoSelection
}

// IsSubmitted reports whether the current question's answer is locked in.
func (s Session) IsSubmitted() bool { return s.phase != Answering }

// IsFinished reports whether the last question has been submitted and advanced past.
func (s Session) IsFinished() bool { return s.phase == Finished }

// ProgressPercent is the share of questions before the current one, rounded.
// The first question reads 0%.
func (s Session) ProgressPercent() int {
	if len(s.questions) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.current) / float64(len(s.questions))))
}

// ScoreLabel renders the score as "score/total".
func (s Session) ScoreLabel() string {
	return fmt.Sprintf("%d/%d", s.score, len(s.questions))
}

// Verdict summarizes a finished run's score for display.
func Verdict(score int) string {
	switch {
	case score >= 5:
		return "Excellent! You're well-informed about hunger facts."
	case score >= 3:
		return "Not bad, there's room to grow your knowledge."
	default:
		return "Keep learning! Understanding hunger is the first step to fighting it."
	}
}
