package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/nexthire/nexthire/internal/ui/theme"
)

// SpinnerInterval is the delay between spinner frames.
const SpinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerTickMsg advances a Spinner.
type SpinnerTickMsg time.Time

// Spinner is a text loading indicator.
type Spinner struct {
	frame int
}

// Tick schedules the next frame.
func (s Spinner) Tick() tea.Cmd {
	return tea.Tick(SpinnerInterval, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// Advance moves to the next frame.
func (s Spinner) Advance() Spinner {
	s.frame = (s.frame + 1) % len(spinnerFrames)
	return s
}

// View renders the current frame followed by label.
func (s Spinner) View(label string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(spinnerFrames[s.frame]) +
		" " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
}
