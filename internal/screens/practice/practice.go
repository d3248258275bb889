package practice

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/luoyeETH/gogov/internal/bank"
	prac "github.com/luoyeETH/gogov/internal/practice"
	"github.com/luoyeETH/gogov/internal/router"
	"github.com/luoyeETH/gogov/internal/screen"
	summaryscreen "github.com/luoyeETH/gogov/internal/screens/summary"
	"github.com/luoyeETH/gogov/internal/store"
	"github.com/luoyeETH/gogov/internal/ui/components"
	"github.com/luoyeETH/gogov/internal/ui/layout"
)

// feedbackState holds what the drill feedback panel shows for the answer
// just submitted.
type feedbackState struct {
	eval        prac.EvaluationResult
	answer      string
	retryQueued bool
}

// PracticeScreen drives one practice run. All session state lives in the
// engine; the screen translates key presses into engine calls and engine
// outcomes into commands.
type PracticeScreen struct {
	engine *prac.Engine
	source bank.Source
	repo   store.SubmissionRepo

	category  prac.Category
	batchSize int
	mode      prac.Mode

	input       components.TextInput
	choices     components.ChoiceList
	feedback    *feedbackState
	showConfirm bool
	errMsg      string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen and its engine. The full category
// collection is needed for grading; category is the one being practiced.
func New(source bank.Source, repo store.SubmissionRepo, categories []prac.Category, category prac.Category, size int, mode prac.Mode, autoNext bool) *PracticeScreen {
	engine := prac.NewEngine(categories)
	engine.SetAutoNext(autoNext)
	return &PracticeScreen{
		engine:    engine,
		source:    source,
		repo:      repo,
		category:  category,
		batchSize: size,
		mode:      mode,
		input:     components.NewTextInput("Type your answer...", true, 20),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	token, size, ok := s.engine.StartSession(s.category, s.batchSize, s.mode)
	if !ok {
		return nil
	}
	return tea.Batch(s.fetchBatch(token, size), s.input.Init())
}

func (s *PracticeScreen) Title() string {
	if s.engine.Mode() == prac.ModeQuiz {
		return "Quiz"
	}
	return "Drill"
}

func (s *PracticeScreen) HeaderStatus() string {
	if s.engine.Status() != prac.StatusActive {
		return ""
	}
	return fmt.Sprintf("Q %d/%d  %s",
		s.engine.CurrentIndex()+1,
		len(s.engine.Questions()),
		layout.FormatClock(s.engine.ElapsedSeconds()),
	)
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.showConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.feedback != nil {
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
	}
	if s.engine.Mode() == prac.ModeQuiz {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Skip"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
	return hints
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case batchLoadedMsg:
		return s.handleBatch(msg)

	case timerTickMsg:
		s.engine.Tick(time.Time(msg))
		if s.engine.Status() == prac.StatusActive {
			return s, tickCmd()
		}
		return s, nil

	case autoAdvanceMsg:
		return s.handleAutoAdvance(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Forward everything else to the text input while answering.
	if s.answering() && !s.multipleChoice() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// answering reports whether the learner can currently type an answer.
func (s *PracticeScreen) answering() bool {
	return s.engine.Status() == prac.StatusActive &&
		s.feedback == nil && !s.showConfirm && s.errMsg == ""
}

func (s *PracticeScreen) multipleChoice() bool {
	q := s.engine.Current()
	return q != nil && q.MultipleChoice()
}

func (s *PracticeScreen) handleBatch(msg batchLoadedMsg) (screen.Screen, tea.Cmd) {
	s.engine.ApplyBatch(msg.Token, msg.Questions, msg.Err)

	if e := s.engine.Err(); e != "" {
		s.errMsg = e
		return s, nil
	}
	if s.engine.Status() != prac.StatusActive {
		// Stale delivery; nothing to do.
		return s, nil
	}
	if s.engine.Current() == nil {
		// Empty batch: the run is immediately completable.
		s.engine.FinishSession()
		return s, s.goSummary()
	}

	s.setupQuestion("")
	return s, tea.Batch(s.input.Init(), tickCmd())
}

func (s *PracticeScreen) handleAutoAdvance(msg autoAdvanceMsg) (screen.Screen, tea.Cmd) {
	before := s.engine.CurrentIndex()
	if s.engine.AutoAdvance(msg.Token) {
		return s, s.goSummary()
	}
	if s.engine.Status() == prac.StatusActive && s.engine.CurrentIndex() != before {
		s.feedback = nil
		s.setupQuestion("")
		return s, s.input.Init()
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.showConfirm {
		switch key {
		case "y", "Y":
			s.showConfirm = false
			s.engine.FinishSession()
			return s, s.goSummary()
		case "n", "N", "esc":
			s.showConfirm = false
			return s, nil
		}
		return s, nil
	}

	// Drill feedback panel: any key moves on.
	if s.feedback != nil {
		s.feedback = nil
		completed, prefill := s.engine.NextQuestion()
		if completed {
			return s, s.goSummary()
		}
		s.setupQuestion(prefill)
		return s, s.input.Init()
	}

	if s.engine.Status() != prac.StatusActive {
		if key == "esc" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.showConfirm = true
		return s, nil
	case "enter":
		return s.submit()
	case "tab":
		if s.engine.Mode() == prac.ModeQuiz {
			completed, prefill := s.engine.NextQuestion()
			if completed {
				return s, s.goSummary()
			}
			s.setupQuestion(prefill)
			return s, s.input.Init()
		}
		return s, nil
	}

	if s.multipleChoice() {
		q := s.engine.Current()
		switch key {
		case "1", "2", "3", "4", "5", "6":
			idx := int(key[0] - '1')
			if idx < len(q.Choices) {
				s.choices.Selected = idx
				return s.submit()
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.choices, cmd = s.choices.Update(msg)
		return s, cmd
	}

	s.input.ClearMark()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit records the current answer and maps the outcome onto UI state.
func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	q := s.engine.Current()
	if q == nil {
		return s, nil
	}

	var raw string
	if s.multipleChoice() {
		raw = s.choices.Choose()
	} else {
		raw = s.input.Value()
	}

	out := s.engine.SubmitAnswer(raw)
	if !out.Recorded {
		if s.multipleChoice() {
			s.choices.Submitted = false
			s.choices.ChosenIndex = -1
		} else if raw != "" {
			s.input.Submit(false)
		}
		return s, nil
	}

	if s.engine.Mode() == prac.ModeQuiz {
		if out.Completed {
			return s, s.goSummary()
		}
		s.setupQuestion("")
		return s, s.input.Init()
	}

	// Drill: show feedback, optionally arming the delayed advance.
	s.feedback = &feedbackState{
		eval:        out.Eval,
		answer:      raw,
		retryQueued: out.RetryQueued,
	}
	if s.multipleChoice() {
		s.choices.Mark(q.Answer)
	} else {
		s.input.Submit(out.Eval.Correct)
	}
	if out.AutoAdvance != 0 {
		return s, autoAdvanceCmd(out.AutoAdvance)
	}
	return s, nil
}

// setupQuestion rebuilds the input widgets for the question under the
// pointer. prefill rehydrates a previously recorded answer.
func (s *PracticeScreen) setupQuestion(prefill string) {
	q := s.engine.Current()
	if q == nil {
		return
	}
	if q.MultipleChoice() {
		s.choices = components.NewChoiceList(q.Choices)
		return
	}
	s.input = components.NewTextInput("Type your answer...", true, 20)
	if prefill != "" {
		s.input.SetValue(prefill)
	}
}

// fetchBatch requests questions from the bank asynchronously.
func (s *PracticeScreen) fetchBatch(token, size int) tea.Cmd {
	return func() tea.Msg {
		questions, err := s.source.QuestionBatch(context.Background(), s.category.ID, size)
		return batchLoadedMsg{Token: token, Questions: questions, Err: err}
	}
}

// goSummary hands the completed engine to the summary screen.
func (s *PracticeScreen) goSummary() tea.Cmd {
	engine := s.engine
	repo := s.repo
	return func() tea.Msg {
		return router.ReplaceScreenMsg{
			Screen: summaryscreen.New(engine, repo),
		}
	}
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

// autoAdvanceCmd schedules the delayed advance for a correct answer.
func autoAdvanceCmd(token int) tea.Cmd {
	return tea.Tick(prac.AutoAdvanceDelay, func(time.Time) tea.Msg {
		return autoAdvanceMsg{Token: token}
	})
}
