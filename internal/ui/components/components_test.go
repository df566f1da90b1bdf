package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "DSA", Disabled: true},
		{Label: "Coding"},
		{Label: "Aptitude", Disabled: true},
		{Label: "Tips"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("after up Selected = %d, want 1", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "Go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !ran {
		t.Error("expected action to run on enter")
	}
}

func TestMenu_ViewShowsNote(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "Coding", Note: "completed today"}})
	if !strings.Contains(m.View(), "completed today") {
		t.Error("expected note in view")
	}
}

func TestMultiChoice_Navigation(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c", "d"}, "")
	if m.Value() != "a" {
		t.Fatalf("Value = %q, want a", m.Value())
	}
	m = m.Update(key('3'))
	if m.Value() != "c" {
		t.Errorf("after 3 Value = %q, want c", m.Value())
	}
	m = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Value() != "d" {
		t.Errorf("Value = %q, want d (clamped)", m.Value())
	}
	m = m.Update(key('9'))
	if m.Value() != "d" {
		t.Errorf("out of range key moved cursor to %q", m.Value())
	}
}

func TestMultiChoice_RestoresChosen(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b", "c"}, "b")
	if m.Chosen != 1 || m.Cursor != 1 {
		t.Errorf("Chosen=%d Cursor=%d, want 1 1", m.Chosen, m.Cursor)
	}
}

func TestMultiChoice_RevealedIgnoresKeys(t *testing.T) {
	m := NewMultiChoice([]string{"a", "b"}, "a")
	m.Correct = 1
	m = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Cursor != 0 {
		t.Errorf("cursor moved after reveal")
	}
}

func TestProgressBar_Fraction(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 20, 0},
		{5, 20, 0.25},
		{25, 20, 1},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := NewProgressBar("", tt.done, tt.total, 40).Fraction(); got != tt.want {
			t.Errorf("Fraction(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}
