package daily

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/nexthire/nexthire/internal/dailyquiz"
	"github.com/nexthire/nexthire/internal/ui/components"
	"github.com/nexthire/nexthire/internal/ui/layout"
	"github.com/nexthire/nexthire/internal/ui/theme"
)

const textWidth = 76

func (s *QuizScreen) View(width, height int) string {
	var content string
	switch st := s.state.(type) {
	case dailyquiz.Loading:
		content = s.spinner.View("Checking today's quiz...")
	case dailyquiz.Idle:
		content = s.renderIdle(st)
	case dailyquiz.Generating:
		content = renderGenerating(st, s.spinner, width)
	case dailyquiz.Active:
		return s.renderActive(st, width)
	case dailyquiz.Results:
		if s.review {
			return renderReview(st, width)
		}
		content = renderResults(st)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *QuizScreen) renderIdle(st dailyquiz.Idle) string {
	if s.busy {
		return s.spinner.View("Starting...")
	}
	var b strings.Builder
	b.WriteString(theme.Title.Render("Today's quiz"))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("Twenty questions across aptitude, algorithms,\ncoding concepts and top company favourites.\nYou get one attempt per day."))
	if st.Message != "" {
		b.WriteString("\n\n" + theme.Incorrect.Render(st.Message))
	}
	b.WriteString("\n\n" + theme.Hint.Render("Press Enter to start."))
	return b.String()
}

func renderGenerating(st dailyquiz.Generating, sp components.Spinner, width int) string {
	bar := components.NewProgressBar("Questions", st.Done, st.Total, min(width-8, 60))
	return sp.View("Generating today's quiz...") + "\n\n" + bar.View()
}

func (s *QuizScreen) renderActive(a dailyquiz.Active, width int) string {
	var b strings.Builder
	bar := components.NewProgressBar(fmt.Sprintf("Question %d/%d", a.Index+1, len(a.Questions)),
		a.Answered(), len(a.Questions), min(width-4, 80))
	b.WriteString("  " + bar.View())
	b.WriteString("\n\n")

	q := a.Current()
	b.WriteString(theme.Body.Bold(true).Render(layout.Wrap(q.Text, width, textWidth)))
	b.WriteString("\n")
	if q.CodeSnippet != "" {
		b.WriteString("\n" + theme.Code.Render(q.CodeSnippet) + "\n")
	}
	b.WriteString("\n")

	if s.busy {
		b.WriteString(s.spinner.View("Scoring your quiz..."))
		return b.String()
	}
	b.WriteString(s.choices.View())
	if s.hint != "" {
		b.WriteString("\n" + theme.Hint.Render(s.hint))
	}
	return b.String()
}

func renderResults(r dailyquiz.Results) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Today's result"))
	b.WriteString("\n\n")
	b.WriteString(theme.Correct.Render(fmt.Sprintf("%d / %d", r.Record.Score, r.Record.Total)))
	b.WriteString("\n\n")

	if r.SaveFailed {
		b.WriteString(theme.Warning.Render(r.Message))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).
			Render(fmt.Sprintf("★ %d day streak", r.Streak.DailyQuizStreak)))
	}
	if !r.Record.CompletedAt.IsZero() {
		b.WriteString("\n" + theme.Subtitle.Render("Completed "+r.Record.CompletedAt.Local().Format("15:04")))
	}
	b.WriteString("\n\n" + theme.Hint.Render("Come back tomorrow for a new quiz."))
	return b.String()
}

func renderReview(r dailyquiz.Results, width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("  Review  %d/%d", r.Record.Score, r.Record.Total)))
	b.WriteString("\n\n")
	for i, item := range r.Review {
		mark := theme.Correct.Render("✓")
		if !item.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		text := []rune(item.Question.Text)
		if limit := max(width-12, 10); len(text) > limit {
			text = append(text[:limit-1], '…')
		}
		fmt.Fprintf(&b, "  %s %2d. %s\n", mark, i+1, theme.Body.Render(string(text)))
		if !item.Correct {
			answer := item.Answer
			if answer == "" {
				answer = "no answer"
			}
			fmt.Fprintf(&b, "        %s %s   %s %s\n",
				theme.Subtitle.Render("yours:"), answer,
				theme.Subtitle.Render("correct:"), theme.Correct.Render(item.Question.CorrectAnswer))
		}
	}
	return b.String()
}
