package practice

import "github.com/nexthire/nexthire/internal/question"

// completionsMsg carries the categories finished today.
type completionsMsg struct {
	done map[string]bool
	err  error
}

type categoryChosenMsg struct{ id question.CategoryID }

type difficultyChosenMsg struct{ difficulty question.Difficulty }

type languageChosenMsg struct{ language string }

// opDoneMsg is sent when a blocking session operation returns.
type opDoneMsg struct {
	err error
}
