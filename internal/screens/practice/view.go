package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/nexthire/nexthire/internal/grading"
	sess "github.com/nexthire/nexthire/internal/practice"
	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/ui/components"
	"github.com/nexthire/nexthire/internal/ui/layout"
	"github.com/nexthire/nexthire/internal/ui/theme"
)

const textWidth = 76

func (s *SessionScreen) View(width, height int) string {
	if s.startErr != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render(s.startErr)+"\n\n"+theme.Hint.Render("Press any key to go back."))
	}

	switch st := s.state.(type) {
	case sess.Active:
		return s.renderActive(st, width)
	case sess.Complete:
		return renderComplete(st, width, height)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		s.spinner.View(s.busyLabel))
}

func (s *SessionScreen) renderActive(a sess.Active, width int) string {
	var b strings.Builder
	b.WriteString(renderInfoLine(a, width))
	b.WriteString("\n\n")

	if s.busy {
		b.WriteString(layout.Centered(s.spinner.View(s.busyLabel), width))
		return b.String()
	}

	switch a.Step {
	case sess.StepLoading, sess.StepTranslating:
		b.WriteString(layout.Centered(s.spinner.View(labelGenerating), width))
		return b.String()
	case sess.StepFailed:
		b.WriteString(layout.Centered(theme.Incorrect.Render(layout.Wrap(a.Message, width, textWidth)), width))
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Hint.Render("Press R to try again."), width))
		return b.String()
	}

	if a.Question == nil {
		return b.String()
	}
	q := a.Question
	b.WriteString(renderQuestion(q, width))
	b.WriteString("\n")

	switch a.Step {
	case sess.StepAnswering:
		b.WriteString(s.renderAnswerArea(q))
	case sess.StepFeedback:
		b.WriteString(renderFeedback(q, a.Answer, a.Feedback, width))
	}

	if a.Message != "" {
		b.WriteString("\n\n" + theme.Warning.Render(a.Message))
	}
	if s.hint != "" {
		b.WriteString("\n\n" + theme.Hint.Render(s.hint))
	}
	return b.String()
}

func renderInfoLine(a sess.Active, width int) string {
	progress := fmt.Sprintf("Question %d/%d", a.QuestionNumber, a.Total)
	if cat, _ := question.LookupCategory(a.Config.Category); cat.Endless {
		progress = fmt.Sprintf("Question %d", a.QuestionNumber)
	}

	parts := []string{string(a.Config.Difficulty)}
	if a.Language != "" {
		parts = append(parts, a.Language)
	}
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render("  " + strings.Join(parts, " · "))
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s   Score %d", progress, a.Score))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

func renderQuestion(q *question.Question, width int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(layout.Wrap(q.Text, width, textWidth)))
	b.WriteString("\n")

	if q.CodeSnippet != "" {
		b.WriteString("\n" + theme.Code.Render(q.CodeSnippet) + "\n")
	}
	if q.SampleInputs != "" {
		b.WriteString("\n" + theme.Subtitle.Render("Sample input:") + "\n" + theme.Code.Render(q.SampleInputs) + "\n")
	}
	if q.SampleOutputs != "" {
		b.WriteString("\n" + theme.Subtitle.Render("Sample output:") + "\n" + theme.Code.Render(q.SampleOutputs) + "\n")
	}
	if len(q.CompanyTags) > 0 {
		tags := make([]string, len(q.CompanyTags))
		for i, t := range q.CompanyTags {
			tags[i] = theme.Tag.Render(t)
		}
		b.WriteString("\n" + strings.Join(tags, " ") + "\n")
	}
	return b.String()
}

func (s *SessionScreen) renderAnswerArea(q *question.Question) string {
	switch {
	case q.Type == question.TypeTip:
		return theme.Hint.Render("Press Enter for the next tip.")
	case q.HasChoices():
		return s.choices.View()
	}
	return "Answer: " + s.input.View()
}

func renderFeedback(q *question.Question, answer string, fb *sess.Feedback, width int) string {
	var b strings.Builder
	if q.HasChoices() {
		mc := components.NewMultiChoice(q.Options, answer)
		for i, opt := range q.Options {
			if grading.EqualChoice(opt, q.CorrectAnswer) {
				mc.Correct = i
			}
		}
		b.WriteString(mc.View() + "\n")
	}

	if fb != nil && fb.IsCorrect {
		b.WriteString(theme.Correct.Render("Correct!"))
		if fb.Encouragement != "" {
			b.WriteString("  " + theme.Body.Render(fb.Encouragement))
		}
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite."))
		if !q.HasChoices() {
			b.WriteString("\n" + theme.Subtitle.Render("Expected: ") + theme.Body.Render(q.CorrectAnswer))
		}
	}
	if q.Explanation != "" {
		b.WriteString("\n\n" + theme.Body.Render(layout.Wrap(q.Explanation, width, textWidth)))
	}
	b.WriteString("\n\n" + theme.Hint.Render("Press Enter to continue."))
	return b.String()
}

func renderComplete(c sess.Complete, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Session complete"))
	b.WriteString("\n\n")
	if c.Config.Category == question.CategoryTips {
		b.WriteString(theme.Body.Render(fmt.Sprintf("You read %d tips.", c.Total)))
	} else {
		b.WriteString(theme.Body.Render(fmt.Sprintf("You scored %d out of %d.", c.Score, c.Total)))
	}
	if c.SaveWarning != "" {
		b.WriteString("\n\n" + theme.Warning.Render(c.SaveWarning))
	}
	b.WriteString("\n\n" + theme.Hint.Render("Press Enter to return home."))

	content := b.String()
	if c.PopupVisible {
		content = theme.Popup.Render(
			theme.Correct.Render("Perfect score!") + "\n\n" +
				theme.Body.Render(fmt.Sprintf("%d/%d. Outstanding work.", c.Score, c.Total)))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
