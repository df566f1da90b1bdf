package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/nexthire/nexthire/internal/ui/theme"
)

// MultiChoice is a cursor over a question's options. Chosen marks an
// option picked earlier; Correct is set once the answer is revealed.
type MultiChoice struct {
	Options []string
	Cursor  int

	// Chosen is the picked option index, or -1.
	Chosen int

	// Correct is the index of the right option once revealed, or -1.
	Correct int
}

// NewMultiChoice creates a selector with the cursor on chosen, or on the
// first option when nothing was chosen yet.
func NewMultiChoice(options []string, chosen string) MultiChoice {
	m := MultiChoice{Options: options, Chosen: -1, Correct: -1}
	for i, opt := range options {
		if opt == chosen && chosen != "" {
			m.Chosen = i
			m.Cursor = i
		}
	}
	return m
}

// Update moves the cursor. Number keys 1-9 jump to an option.
func (m MultiChoice) Update(msg tea.Msg) MultiChoice {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Correct >= 0 {
		return m
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Cursor = i
			}
		}
	}
	return m
}

// Value returns the option under the cursor.
func (m MultiChoice) Value() string {
	if m.Cursor < 0 || m.Cursor >= len(m.Options) {
		return ""
	}
	return m.Options[m.Cursor]
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && m.Correct < 0 {
			prefix = "▸ "
		}
		mark := " "
		if i == m.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %c)  %s", prefix, mark, 'A'+rune(i), opt)

		var style lipgloss.Style
		switch {
		case m.Correct >= 0 && i == m.Correct:
			style = theme.Correct
		case m.Correct >= 0 && i == m.Chosen:
			style = theme.Incorrect
		case m.Correct >= 0:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
