package practice

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/nexthire/nexthire/internal/netcheck"
	"github.com/nexthire/nexthire/internal/orchestrator"
	sess "github.com/nexthire/nexthire/internal/practice"
	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/router"
	"github.com/nexthire/nexthire/internal/screen"
	"github.com/nexthire/nexthire/internal/ui/components"
	"github.com/nexthire/nexthire/internal/ui/layout"
)

// SessionScreen drives a practice.Session. Blocking operations run as
// commands; the view always renders the latest Snapshot.
type SessionScreen struct {
	session *sess.Session
	cfg     question.SessionConfig

	state   sess.State
	shownID string
	input   components.TextInput
	choices components.MultiChoice
	spinner components.Spinner
	ticking bool
	busy    bool

	// busyLabel describes the operation in flight.
	busyLabel string

	// startErr is set when the session could not start at all.
	startErr string
	hint     string
}

var (
	_ screen.Screen          = (*SessionScreen)(nil)
	_ screen.KeyHintProvider = (*SessionScreen)(nil)
	_ screen.EscapeHandler   = (*SessionScreen)(nil)
)

// NewSession creates a screen that starts s with cfg.
func NewSession(s *sess.Session, cfg question.SessionConfig) *SessionScreen {
	return &SessionScreen{
		session: s,
		cfg:     cfg,
		state:   sess.NotStarted{},
		input:   components.NewTextInput("Type your answer...", 4000),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	cfg := s.cfg
	return s.run("Preparing your session...", func(ctx context.Context) error { return s.session.Start(ctx, cfg) })
}

func (s *SessionScreen) Title() string {
	cat, err := question.LookupCategory(s.cfg.Category)
	if err != nil {
		return "Practice"
	}
	return cat.Name
}

func (s *SessionScreen) HandlesEscape() bool {
	return true
}

// run executes op in a command and keeps the spinner going meanwhile.
func (s *SessionScreen) run(label string, op func(ctx context.Context) error) tea.Cmd {
	s.busy = true
	s.busyLabel = label
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

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case opDoneMsg:
		s.busy = false
		s.sync()
		if _, notStarted := s.state.(sess.NotStarted); notStarted && msg.err != nil && !errors.Is(msg.err, sess.ErrStale) {
			s.startErr = startMessage(msg.err, s.Title())
		}
		return s, nil

	case components.SpinnerTickMsg:
		if !s.waiting() {
			s.ticking = false
			return s, nil
		}
		s.spinner = s.spinner.Advance()
		return s, s.spinner.Tick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// sync copies the session state and resets the answer widgets when a new
// question, or a new translation of it, is shown.
func (s *SessionScreen) sync() {
	s.state = s.session.Snapshot()
	a, ok := s.state.(sess.Active)
	if !ok || a.Question == nil {
		return
	}
	id := a.Question.ID + "/" + a.Language
	if id == s.shownID {
		return
	}
	s.shownID = id
	s.choices = components.NewMultiChoice(a.Question.Options, "")
	s.input.Reset()
}

func (s *SessionScreen) waiting() bool {
	if s.busy {
		return true
	}
	a, ok := s.state.(sess.Active)
	return ok && (a.Step == sess.StepLoading || a.Step == sess.StepTranslating)
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if key == "esc" {
		s.session.Restart()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.busy {
		return s, nil
	}

	switch st := s.state.(type) {
	case sess.NotStarted:
		if s.startErr != "" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}

	case sess.Complete:
		if st.PopupVisible {
			s.session.DismissPopup()
			s.sync()
			return s, nil
		}
		if key == "enter" {
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}

	case sess.Active:
		return s.handleActiveKey(st, msg)
	}
	return s, nil
}

func (s *SessionScreen) handleActiveKey(a sess.Active, msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch a.Step {
	case sess.StepFailed:
		if key == "r" || key == "enter" {
			return s, s.run(labelGenerating, s.session.Retry)
		}

	case sess.StepFeedback:
		if key == "enter" {
			return s, s.next(a)
		}

	case sess.StepAnswering:
		if key == "tab" && a.Config.Category == question.CategoryDSA {
			lang := nextLanguage(a.Language)
			return s, s.run("Translating to "+lang+"...", func(ctx context.Context) error {
				return s.session.ChangeLanguage(ctx, lang)
			})
		}
		q := a.Question
		switch {
		case q.Type == question.TypeTip:
			if key == "enter" {
				return s, s.next(a)
			}
		case q.HasChoices():
			if key == "enter" {
				return s.submit(s.choices.Value())
			}
			s.choices = s.choices.Update(msg)
		default:
			if key == "enter" {
				return s.submit(s.input.Value())
			}
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

const labelGenerating = "Generating question..."

func (s *SessionScreen) next(a sess.Active) tea.Cmd {
	label := labelGenerating
	if cat, _ := question.LookupCategory(a.Config.Category); !cat.Endless && a.QuestionNumber >= a.Total {
		label = "Finishing session..."
	}
	return s.run(label, s.session.Next)
}

func (s *SessionScreen) submit(answer string) (screen.Screen, tea.Cmd) {
	if err := s.session.SetAnswer(answer); err != nil {
		return s, nil
	}
	if _, err := s.session.Submit(); err != nil {
		if errors.Is(err, sess.ErrEmptyAnswer) {
			s.hint = "Type an answer first."
		}
		return s, nil
	}
	s.sync()
	return s, nil
}

// nextLanguage cycles through the supported languages.
func nextLanguage(current string) string {
	for i, l := range question.Languages {
		if l == current {
			return question.Languages[(i+1)%len(question.Languages)]
		}
	}
	return question.DefaultLanguage
}

// startMessage explains why a session could not start.
func startMessage(err error, category string) string {
	switch {
	case errors.Is(err, sess.ErrAlreadyCompleted):
		return fmt.Sprintf("You have already completed %s today. Come back tomorrow!", category)
	case errors.Is(err, netcheck.ErrOffline):
		return orchestrator.MsgPracticeOffline
	case errors.Is(err, question.ErrInvalidConfig):
		return err.Error()
	}
	return orchestrator.FetchMessage(err)
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	switch st := s.state.(type) {
	case sess.Complete:
		if st.PopupVisible {
			return []layout.KeyHint{{Key: "any key", Description: "Close"}}
		}
		return []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	case sess.Active:
		switch st.Step {
		case sess.StepFailed:
			return []layout.KeyHint{{Key: "R", Description: "Retry"}, {Key: "Esc", Description: "Quit"}}
		case sess.StepFeedback:
			return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Quit"}}
		case sess.StepAnswering:
			hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
			if st.Question != nil && st.Question.Type == question.TypeTip {
				hints = []layout.KeyHint{{Key: "Enter", Description: "Next tip"}}
			}
			if st.Config.Category == question.CategoryDSA {
				hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Language"})
			}
			return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit"})
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}
