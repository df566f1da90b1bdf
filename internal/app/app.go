package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/nexthire/nexthire/internal/dailyquiz"
	"github.com/nexthire/nexthire/internal/practice"
	"github.com/nexthire/nexthire/internal/router"
	"github.com/nexthire/nexthire/internal/screen"
	"github.com/nexthire/nexthire/internal/screens/daily"
	"github.com/nexthire/nexthire/internal/screens/home"
	practicescreen "github.com/nexthire/nexthire/internal/screens/practice"
	"github.com/nexthire/nexthire/internal/tracker"
	"github.com/nexthire/nexthire/internal/ui/layout"
)

// Options holds the dependencies the screens are built from.
type Options struct {
	UserID  string
	Tracker *tracker.Tracker

	// NewSession and NewQuiz build a fresh state machine for each visit.
	NewSession func() *practice.Session
	NewQuiz    func() *dailyquiz.Quiz

	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	logger *zap.Logger
	width  int
	height int

	// streak is -1 until the first status load.
	streak int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	homeScreen := home.New(home.Options{
		UserID: opts.UserID,
		Status: opts.Tracker,
		NewPractice: func() screen.Screen {
			return practicescreen.NewSetup(opts.UserID, opts.Tracker, opts.NewSession)
		},
		NewDaily: func() screen.Screen {
			return daily.New(opts.NewQuiz())
		},
	})
	return AppModel{
		router: router.New(homeScreen),
		logger: logger,
		streak: -1,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.StreakMsg:
		m.streak = msg.Days
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.frame())
	v.AltScreen = true
	return v
}

// frame renders the whole terminal: header, active screen and footer.
func (m AppModel) frame() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.streak, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
