package app

import "hunger-insights/internal/quiz"

// QuestionView is the current question as shown to a participant.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// RunView is the presentation state of a run. The correct option and
// explanation are only revealed once the answer is submitted.
type RunView struct {
	RunID           string       `json:"runId"`
	BankID          string       `json:"bankId"`
	Phase           string       `json:"phase"`
	Number          int          `json:"number"`
	Total           int          `json:"total"`
	ProgressPercent int          `json:"progressPercent"`
	Score           int          `json:"score"`
	ScoreLabel      string       `json:"scoreLabel"`
	Question        QuestionView `json:"question"`
	Selected        *int         `json:"selected,omitempty"`
	CorrectIndex    *int         `json:"correctIndex,omitempty"`
	Explanation     string       `json:"explanation,omitempty"`
	Verdict         string       `json:"verdict,omitempty"`
}

// View renders a run for clients.
func View(run Run) RunView {
	s := run.Session
	current := s.Current()
	view := RunView{
		RunID:           run.ID,
		BankID:          run.BankID,
		Phase:           s.Phase().String(),
		Number:          s.CurrentIndex() + 1,
		Total:           s.Len(),
		ProgressPercent: s.ProgressPercent(),
		Score:           s.Score(),
		ScoreLabel:      s.ScoreLabel(),
		Question: QuestionView{
			ID:      current.ID,
			Prompt:  current.Prompt,
			Options: current.Options,
		},
	}
	if selected, ok := s.Selected(); ok {
		view.Selected = &selected
	}
	if s.IsSubmitted() {
		correct := current.CorrectIndex
		view.CorrectIndex = &correct
		view.Explanation = current.Explanation
	}
	if s.IsFinished() {
		view.Verdict = quiz.Verdict(s.Score())
	}
	return view
}
