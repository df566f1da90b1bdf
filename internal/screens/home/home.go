// Package home is the landing screen: today's status and the main menu.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/router"
	"github.com/nexthire/nexthire/internal/screen"
	"github.com/nexthire/nexthire/internal/store"
	"github.com/nexthire/nexthire/internal/ui/components"
	"github.com/nexthire/nexthire/internal/ui/layout"
	"github.com/nexthire/nexthire/internal/ui/theme"
)

// StatusSource reads the day's progress.
type StatusSource interface {
	Streak(ctx context.Context, userID string) (store.StreakState, error)
	Alive(st store.StreakState) bool
	TodaysScore(ctx context.Context, userID string) (*store.DailyScoreRecord, error)
	Completions(ctx context.Context, userID string) (map[string]bool, error)
}

// Options configures the home screen.
type Options struct {
	UserID string
	Status StatusSource

	// NewPractice and NewDaily build the screens pushed from the menu.
	NewPractice func() screen.Screen
	NewDaily    func() screen.Screen
}

// statusMsg carries the loaded day status.
type statusMsg struct {
	streak    int
	score     *store.DailyScoreRecord
	completed int
	err       error
}

// HomeScreen shows the streak, today's daily score and the main menu.
type HomeScreen struct {
	opts   Options
	menu   components.Menu
	status statusMsg
	loaded bool
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Practice", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: opts.NewPractice()} }
		}},
		{Label: "Daily Quiz", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: opts.NewDaily()} }
		}},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{opts: opts, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStatus()
}

// Resume reloads the status after a practice session or quiz.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStatus()
}

func (h *HomeScreen) loadStatus() tea.Cmd {
	src, user := h.opts.Status, h.opts.UserID
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		st, err := src.Streak(ctx, user)
		if err != nil {
			return statusMsg{err: err}
		}
		msg := statusMsg{}
		if src.Alive(st) {
			msg.streak = st.DailyQuizStreak
		}
		if msg.score, err = src.TodaysScore(ctx, user); err != nil {
			return statusMsg{err: err}
		}
		done, err := src.Completions(ctx, user)
		if err != nil {
			return statusMsg{err: err}
		}
		msg.completed = len(done)
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statusMsg); ok {
		h.status = msg
		h.loaded = true
		if msg.err != nil {
			return h, nil
		}
		streak := msg.streak
		return h, func() tea.Msg { return screen.StreakMsg{Days: streak} }
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("NextHire"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Interview practice, one question at a time"))
	b.WriteString("\n\n")
	b.WriteString(theme.Card.Width(min(width-4, 50)).Render(h.renderStatus()))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (h *HomeScreen) renderStatus() string {
	if !h.loaded {
		return theme.Hint.Render("Loading today's progress...")
	}
	if h.status.err != nil {
		return theme.Warning.Render("Could not load today's progress.")
	}

	daily := theme.Hint.Render("not taken yet")
	if rec := h.status.score; rec != nil {
		daily = theme.Correct.Render(fmt.Sprintf("%d/%d", rec.Score, rec.Total))
	}
	lines := []string{
		fmt.Sprintf("Streak       %s", lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d", h.status.streak))),
		fmt.Sprintf("Daily quiz   %s", daily),
		fmt.Sprintf("Practice     %d/%d categories done today", h.status.completed, countBounded()),
	}
	return strings.Join(lines, "\n")
}

// countBounded returns the number of categories that can be completed.
func countBounded() int {
	n := 0
	for _, c := range question.Categories {
		if !c.Endless {
			n++
		}
	}
	return n
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// KeyHints implements screen.KeyHintProvider.
func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}
