// Package grading compares submitted answers against a question's correct
// answer. Grading is purely syntactic: choice questions compare
// case-insensitively, code answers compare after normalization.
package grading

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/nexthire/nexthire/internal/question"
)

// ErrUngradable is returned for questions that carry no answer to grade,
// such as tips.
var ErrUngradable = errors.New("question type cannot be graded")

// Result is the outcome of grading one answer.
type Result struct {
	IsCorrect bool
}

// commentPattern matches block comments, and line comments whose "//" is
// not preceded by a backslash or colon (so escaped slashes and URLs such as
// "http://" survive). The character before "//" is captured so it can be
// put back.
var commentPattern = regexp.MustCompile(`(?m)/\*[\s\S]*?\*/|([^\\:]|^)//.*$`)

// Normalize canonicalizes a code or free-text answer: comments are
// stripped, all whitespace is removed and the result is lower-cased.
func Normalize(s string) string {
	s = commentPattern.ReplaceAllString(s, "$1")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.ToLower(s)
}

// Grade checks raw against q's correct answer. Multiple-choice questions
// compare case-insensitively; every other gradable type compares the
// normalized forms. Callers reject empty answers before grading.
func Grade(q *question.Question, raw string) (Result, error) {
	switch q.Type {
	case question.TypeTip:
		return Result{}, ErrUngradable
	case question.TypeMultipleChoice:
		return Result{IsCorrect: EqualChoice(raw, q.CorrectAnswer)}, nil
	default:
		return Result{IsCorrect: Normalize(raw) == Normalize(q.CorrectAnswer)}, nil
	}
}

// EqualChoice reports whether a selected option matches the correct one,
// ignoring case and surrounding whitespace.
func EqualChoice(selected, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(selected), strings.TrimSpace(correct))
}

// ScoreChoices grades index-aligned answers against multiple-choice
// questions. It returns the number correct and each question's outcome.
// Missing answers count as wrong.
func ScoreChoices(qs []question.Question, answers []string) (int, []bool) {
	score := 0
	correct := make([]bool, len(qs))
	for i := range qs {
		if i < len(answers) && answers[i] != "" && EqualChoice(answers[i], qs[i].CorrectAnswer) {
			correct[i] = true
			score++
		}
	}
	return score, correct
}

// Accuracy returns score/total as a rounded percentage.
func Accuracy(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// SummaryMessage returns the headline shown on a results screen.
func SummaryMessage(score, total int) string {
	acc := Accuracy(score, total)
	switch {
	case total > 0 && acc == 100:
		return "Perfect score! You're a quiz master!"
	case acc >= 75:
		return "Great job! You're on the right track."
	default:
		return "Good effort! Review your answers to learn and improve."
	}
}
