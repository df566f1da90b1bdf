// Package practice holds the screens for a standard practice session:
// the setup wizard and the session itself.
package practice

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	sess "github.com/nexthire/nexthire/internal/practice"
	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/router"
	"github.com/nexthire/nexthire/internal/screen"
	"github.com/nexthire/nexthire/internal/ui/components"
	"github.com/nexthire/nexthire/internal/ui/layout"
	"github.com/nexthire/nexthire/internal/ui/theme"
)

// mixedLabel is the language option that asks for a mix of languages.
const mixedLabel = "Mixed"

// CompletionSource reads the categories completed today.
type CompletionSource interface {
	Completions(ctx context.Context, userID string) (map[string]bool, error)
}

type setupStep int

const (
	stepCategory setupStep = iota
	stepDifficulty
	stepLanguage
)

// SetupScreen walks through category, difficulty and language, then
// replaces itself with a SessionScreen.
type SetupScreen struct {
	userID     string
	source     CompletionSource
	newSession func() *sess.Session

	step   setupStep
	menu   components.Menu
	cfg    question.SessionConfig
	done   map[string]bool
	loaded bool
	hint   string
}

var (
	_ screen.Screen        = (*SetupScreen)(nil)
	_ screen.EscapeHandler = (*SetupScreen)(nil)
)

// NewSetup creates the setup wizard. newSession builds the session the
// chosen configuration is started on.
func NewSetup(userID string, source CompletionSource, newSession func() *sess.Session) *SetupScreen {
	return &SetupScreen{userID: userID, source: source, newSession: newSession}
}

func (s *SetupScreen) Init() tea.Cmd {
	src, user := s.source, s.userID
	return func() tea.Msg {
		done, err := src.Completions(context.Background(), user)
		return completionsMsg{done: done, err: err}
	}
}

func (s *SetupScreen) Title() string {
	return "Practice"
}

func (s *SetupScreen) HandlesEscape() bool {
	return s.step != stepCategory
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case completionsMsg:
		s.loaded = true
		s.done = msg.done
		if msg.err != nil {
			s.hint = "Could not load today's progress."
		}
		s.showCategories()
		return s, nil

	case categoryChosenMsg:
		s.cfg = question.SessionConfig{Category: msg.id}
		if msg.id == question.CategoryTips {
			return s, s.start()
		}
		s.showDifficulties()
		return s, nil

	case difficultyChosenMsg:
		s.cfg.Difficulty = msg.difficulty
		cat, _ := question.LookupCategory(s.cfg.Category)
		if !cat.NeedsLanguage {
			return s, s.start()
		}
		s.showLanguages()
		return s, nil

	case languageChosenMsg:
		s.cfg.Language = msg.language
		return s, s.start()

	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.back()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SetupScreen) back() {
	switch s.step {
	case stepLanguage:
		s.showDifficulties()
	case stepDifficulty:
		s.showCategories()
	}
}

func (s *SetupScreen) start() tea.Cmd {
	next := NewSession(s.newSession(), s.cfg)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *SetupScreen) showCategories() {
	s.step = stepCategory
	items := make([]components.MenuItem, 0, len(question.Categories))
	for _, c := range question.Categories {
		id := c.ID
		item := components.MenuItem{
			Label:  c.Name,
			Action: func() tea.Cmd { return func() tea.Msg { return categoryChosenMsg{id: id} } },
		}
		if !c.Endless && s.done[string(c.ID)] {
			item.Disabled = true
			item.Note = "completed today"
		}
		items = append(items, item)
	}
	s.menu = components.NewMenu(items)
}

func (s *SetupScreen) showDifficulties() {
	s.step = stepDifficulty
	items := make([]components.MenuItem, 0, len(question.Difficulties))
	for _, d := range question.Difficulties {
		items = append(items, components.MenuItem{
			Label:  string(d),
			Action: func() tea.Cmd { return func() tea.Msg { return difficultyChosenMsg{difficulty: d} } },
		})
	}
	s.menu = components.NewMenu(items)
}

func (s *SetupScreen) showLanguages() {
	s.step = stepLanguage
	var items []components.MenuItem
	if s.cfg.Category == question.CategoryCoding {
		items = append(items, components.MenuItem{
			Label:  mixedLabel,
			Note:   "a mix of languages",
			Action: func() tea.Cmd { return func() tea.Msg { return languageChosenMsg{} } },
		})
	}
	for _, lang := range question.Languages {
		items = append(items, components.MenuItem{
			Label:  lang,
			Action: func() tea.Cmd { return func() tea.Msg { return languageChosenMsg{language: lang} } },
		})
	}
	s.menu = components.NewMenu(items)
}

func (s *SetupScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading categories..."))
	}

	var prompt string
	switch s.step {
	case stepCategory:
		prompt = "Choose a category"
	case stepDifficulty:
		prompt = "Choose a difficulty"
	case stepLanguage:
		prompt = "Choose a language"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(prompt))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	if s.hint != "" {
		b.WriteString("\n" + theme.Warning.Render(s.hint))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}
