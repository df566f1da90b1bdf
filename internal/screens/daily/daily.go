// Package daily is the daily quiz screen.
package daily

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/nexthire/nexthire/internal/dailyquiz"
	"github.com/nexthire/nexthire/internal/router"
	"github.com/nexthire/nexthire/internal/screen"
	"github.com/nexthire/nexthire/internal/ui/components"
	"github.com/nexthire/nexthire/internal/ui/layout"
)

// opDoneMsg is sent when a blocking quiz operation returns.
type opDoneMsg struct {
	err error
}

// QuizScreen drives a dailyquiz.Quiz.
type QuizScreen struct {
	quiz *dailyquiz.Quiz

	state   dailyquiz.State
	shown   int
	choices components.MultiChoice
	spinner components.Spinner
	ticking bool
	busy    bool
	review  bool
	hint    string
	err     error
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.EscapeHandler   = (*QuizScreen)(nil)
)

// New creates a screen for q. Init loads today's status.
func New(q *dailyquiz.Quiz) *QuizScreen {
	return &QuizScreen{quiz: q, state: dailyquiz.Loading{}, shown: -1}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.run(s.quiz.Load)
}

func (s *QuizScreen) Title() string {
	return "Daily Quiz"
}

func (s *QuizScreen) HandlesEscape() bool {
	return true
}

func (s *QuizScreen) run(op func(ctx context.Context) error) tea.Cmd {
	s.busy = true
	s.hint = ""
	cmds := []tea.Cmd{func() tea.Msg {
		return opDoneMsg{err: op(context.Background())}
	}}
	if !s.ticking {
		s.ticking = true
		cmds = append(cmds, s.spinner.Tick())
	}
	return tea.Batch(cmds...)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		s.busy = false
		if !errors.Is(msg.err, dailyquiz.ErrStale) {
			s.err = msg.err
		}
		s.sync()
		if res, ok := s.state.(dailyquiz.Results); ok && !res.SaveFailed {
			days := res.Streak.DailyQuizStreak
			return s, func() tea.Msg { return screen.StreakMsg{Days: days} }
		}
		return s, nil

	case components.SpinnerTickMsg:
		if !s.busy {
			s.ticking = false
			return s, nil
		}
		// Generating reports progress while Start is still running.
		s.sync()
		s.spinner = s.spinner.Advance()
		return s, s.spinner.Tick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// sync copies the quiz state and rebuilds the option list when the
// current question changes.
func (s *QuizScreen) sync() {
	s.state = s.quiz.Snapshot()
	a, ok := s.state.(dailyquiz.Active)
	if !ok {
		s.shown = -1
		return
	}
	if a.Index == s.shown {
		s.choices.Chosen = -1
		for i, opt := range s.choices.Options {
			if opt == a.Answers[a.Index] {
				s.choices.Chosen = i
			}
		}
		return
	}
	s.shown = a.Index
	s.choices = components.NewMultiChoice(a.Current().Options, a.Answers[a.Index])
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		if _, ok := s.state.(dailyquiz.Results); !ok {
			s.quiz.Reset()
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.busy {
		return s, nil
	}

	switch st := s.state.(type) {
	case dailyquiz.Idle:
		if key == "enter" {
			return s, s.run(s.quiz.Start)
		}

	case dailyquiz.Active:
		return s.handleActiveKey(st, msg)

	case dailyquiz.Results:
		switch key {
		case "r":
			if len(st.Review) > 0 {
				s.review = !s.review
			}
		case "enter":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *QuizScreen) handleActiveKey(a dailyquiz.Active, msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := s.quiz.Select(s.choices.Value()); err != nil {
			return s, nil
		}
		if a.IsLast() {
			s.sync()
			return s, s.run(s.quiz.Finish)
		}
		if err := s.quiz.Next(); err != nil {
			return s, nil
		}
		s.sync()
	case "left", "h":
		if s.quiz.Previous() == nil {
			s.sync()
		}
	case "right", "l":
		if err := s.quiz.Next(); errors.Is(err, dailyquiz.ErrNoAnswer) {
			s.hint = "Pick an answer first."
		} else if err == nil {
			s.sync()
		}
	default:
		s.choices = s.choices.Update(msg)
	}
	return s, nil
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch st := s.state.(type) {
	case dailyquiz.Idle:
		return []layout.KeyHint{{Key: "Enter", Description: "Start"}, {Key: "Esc", Description: "Back"}}
	case dailyquiz.Active:
		action := "Answer"
		if st.IsLast() {
			action = "Finish"
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: action},
			{Key: "←→", Description: "Move"},
			{Key: "Esc", Description: "Abandon"},
		}
	case dailyquiz.Results:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
		if len(st.Review) > 0 {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Review"})
		}
		return hints
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}
