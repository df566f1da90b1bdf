package daily

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/nexthire/nexthire/internal/clock"
	"github.com/nexthire/nexthire/internal/dailyquiz"
	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/router"
	"github.com/nexthire/nexthire/internal/screen"
	"github.com/nexthire/nexthire/internal/store"
	"github.com/nexthire/nexthire/internal/store/storetest"
	"github.com/nexthire/nexthire/internal/tracker"
	"github.com/nexthire/nexthire/internal/ui/components"
)

type fakeAssembler struct{ n int }

func (f *fakeAssembler) AssembleDailyQuiz(_ context.Context, progress func(done, total int)) ([]question.Question, error) {
	qs := make([]question.Question, f.n)
	for i := range qs {
		qs[i] = question.Question{
			ID:            fmt.Sprintf("q%d", i),
			Text:          fmt.Sprintf("Daily question %d", i),
			Type:          question.TypeMultipleChoice,
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "a",
		}
		if progress != nil {
			progress(i+1, f.n)
		}
	}
	return qs, nil
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// runCmd executes cmd and feeds completed operations back into s,
// skipping spinner ticks. Other messages are returned.
func runCmd(t *testing.T, s screen.Screen, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case components.SpinnerTickMsg:
		case opDoneMsg:
			_, next := s.Update(msg)
			queue = append(queue, next)
		default:
			out = append(out, msg)
		}
	}
	return out
}

func newTestScreen(t *testing.T, n int) (*QuizScreen, *storetest.Memory) {
	t.Helper()
	mem := storetest.NewMemory()
	now := &clock.Fixed{T: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)}
	tr := tracker.New(mem, clock.NewCalendar(now, time.UTC), nil)
	q := dailyquiz.New(&fakeAssembler{n: n}, tr, dailyquiz.Options{UserID: "u1"})

	s := New(q)
	runCmd(t, s, s.Init())
	return s, mem
}

func TestLoadShowsIdle(t *testing.T) {
	s, _ := newTestScreen(t, 3)
	if _, ok := s.state.(dailyquiz.Idle); !ok {
		t.Fatalf("expected Idle, got %T", s.state)
	}
	if !strings.Contains(s.View(100, 30), "Press Enter to start") {
		t.Error("expected start prompt")
	}
}

func TestFullQuiz(t *testing.T) {
	s, _ := newTestScreen(t, 3)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	runCmd(t, s, cmd)
	a, ok := s.state.(dailyquiz.Active)
	if !ok || len(a.Questions) != 3 {
		t.Fatalf("expected 3 active questions, got %#v", s.state)
	}

	// Right without an answer is refused.
	s.Update(specialKey(tea.KeyRight))
	if s.hint == "" {
		t.Error("expected hint when skipping ahead unanswered")
	}

	// a, b, a: two correct.
	s.Update(specialKey(tea.KeyEnter))
	s.Update(keyPress('2'))
	s.Update(specialKey(tea.KeyEnter))

	a = s.state.(dailyquiz.Active)
	if a.Index != 2 || a.Answers[1] != "b" {
		t.Fatalf("unexpected state %+v", a)
	}

	// Go back and check the earlier answer is restored.
	s.Update(specialKey(tea.KeyLeft))
	if s.choices.Chosen != 1 {
		t.Errorf("expected chosen option restored, got %d", s.choices.Chosen)
	}
	s.Update(specialKey(tea.KeyRight))

	_, cmd = s.Update(specialKey(tea.KeyEnter))
	msgs := runCmd(t, s, cmd)

	res, ok := s.state.(dailyquiz.Results)
	if !ok {
		t.Fatalf("expected Results, got %T", s.state)
	}
	if res.Record.Score != 2 || res.Record.Total != 3 {
		t.Errorf("score = %d/%d, want 2/3", res.Record.Score, res.Record.Total)
	}
	if res.Streak.DailyQuizStreak != 1 {
		t.Errorf("streak = %d, want 1", res.Streak.DailyQuizStreak)
	}

	var streak *screen.StreakMsg
	for _, m := range msgs {
		if sm, ok := m.(screen.StreakMsg); ok {
			streak = &sm
		}
	}
	if streak == nil || streak.Days != 1 {
		t.Errorf("expected StreakMsg{1}, got %v", streak)
	}

	s.Update(keyPress('r'))
	if !strings.Contains(s.View(100, 30), "correct:") {
		t.Error("expected review to show the wrong answer")
	}
}

func TestRecordedTodayShowsResults(t *testing.T) {
	s, mem := newTestScreen(t, 3)
	if _, err := mem.CreateDailyScore(context.Background(), "u1", store.DailyScoreRecord{
		Score: 14, Total: 20, Date: "2024-01-02", CompletedAt: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatal(err)
	}
	runCmd(t, s, s.Init())

	if _, ok := s.state.(dailyquiz.Results); !ok {
		t.Fatalf("expected Results for recorded day, got %T", s.state)
	}
	if !strings.Contains(s.View(100, 30), "14 / 20") {
		t.Error("expected stored score in view")
	}
}

func TestEscapeResetsAndPops(t *testing.T) {
	s, _ := newTestScreen(t, 3)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	runCmd(t, s, cmd)

	_, cmd = s.Update(specialKey(tea.KeyEscape))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected pop on esc")
	}
	if _, ok := s.quiz.Snapshot().(dailyquiz.Idle); !ok {
		t.Error("expected quiz reset to Idle")
	}
}
