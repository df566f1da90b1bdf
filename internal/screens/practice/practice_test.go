package practice

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/nexthire/nexthire/internal/netcheck"
	"github.com/nexthire/nexthire/internal/orchestrator"
	sess "github.com/nexthire/nexthire/internal/practice"
	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/router"
	"github.com/nexthire/nexthire/internal/screen"
	"github.com/nexthire/nexthire/internal/ui/components"
)

type fakeFetcher struct {
	calls int
	qtype question.Type
}

func (f *fakeFetcher) FetchOne(_ context.Context, _ question.CategoryID, _ question.Difficulty, lang string) (question.Question, error) {
	f.calls++
	q := question.Question{
		ID:            fmt.Sprintf("q%d", f.calls),
		Text:          fmt.Sprintf("Question %d?", f.calls),
		Type:          f.qtype,
		CorrectAnswer: "B",
		Explanation:   "because",
		Language:      lang,
	}
	if f.qtype == question.TypeMultipleChoice {
		q.Options = []string{"A", "B", "C", "D"}
	}
	return q, nil
}

func (f *fakeFetcher) Translate(_ context.Context, q question.Question, lang string) (question.Question, error) {
	q.Language = lang
	return q, nil
}

type fakeRecorder struct {
	done map[string]bool
}

func (r *fakeRecorder) Completions(context.Context, string) (map[string]bool, error) {
	return r.done, nil
}

func (r *fakeRecorder) RecordCompletion(_ context.Context, _ string, category string) error {
	if r.done == nil {
		r.done = map[string]bool{}
	}
	r.done[category] = true
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// runCmd executes cmd and feeds resulting messages back into s, skipping
// spinner ticks.
func runCmd(t *testing.T, s screen.Screen, cmd tea.Cmd) (screen.Screen, []tea.Msg) {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case components.SpinnerTickMsg:
		case opDoneMsg:
			var next tea.Cmd
			s, next = s.Update(msg)
			queue = append(queue, next)
		default:
			out = append(out, msg)
		}
	}
	return s, out
}

func newSessionScreen(t *testing.T, f *fakeFetcher, r *fakeRecorder, online bool, cfg question.SessionConfig) *SessionScreen {
	t.Helper()
	s := sess.New(f, r, sess.Options{UserID: "u1", Network: netcheck.Static(online)})
	scr := NewSession(s, cfg)
	runCmd(t, scr, scr.Init())
	return scr
}

func TestSetup_DisablesCompletedCategories(t *testing.T) {
	r := &fakeRecorder{done: map[string]bool{"coding": true}}
	setup := NewSetup("u1", r, nil)
	setup.Update(setup.Init()())

	for _, item := range setup.menu.Items {
		if item.Label == "Coding" && !item.Disabled {
			t.Error("expected coding disabled after completion")
		}
		if item.Label == "Data Structures & Algorithms" && item.Disabled {
			t.Error("endless category must stay enabled")
		}
	}
	if !strings.Contains(setup.View(100, 30), "completed today") {
		t.Error("expected completed note in view")
	}
}

func TestSetup_AptitudeFlow(t *testing.T) {
	f := &fakeFetcher{qtype: question.TypeMultipleChoice}
	r := &fakeRecorder{}
	setup := NewSetup("u1", r, func() *sess.Session { return sess.New(f, r, sess.Options{}) })
	setup.Update(setup.Init()())

	setup.Update(setup.menu.Items[2].Action()())
	if setup.step != stepDifficulty {
		t.Fatalf("expected difficulty step, got %d", setup.step)
	}
	_, cmd := setup.Update(setup.menu.Items[1].Action()())
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	next := replace.Screen.(*SessionScreen)
	if next.cfg.Category != question.CategoryAptitude || next.cfg.Difficulty != question.Moderate {
		t.Errorf("unexpected config %+v", next.cfg)
	}
}

func TestSetup_TipsSkipsDifficulty(t *testing.T) {
	r := &fakeRecorder{}
	setup := NewSetup("u1", r, func() *sess.Session { return sess.New(&fakeFetcher{}, r, sess.Options{}) })
	setup.Update(setup.Init()())

	_, cmd := setup.Update(categoryChosenMsg{id: question.CategoryTips})
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected tips to start immediately")
	}
}

func TestSetup_CodingOffersMixed(t *testing.T) {
	setup := NewSetup("u1", &fakeRecorder{}, nil)
	setup.Update(setup.Init()())
	setup.Update(categoryChosenMsg{id: question.CategoryCoding})
	setup.Update(difficultyChosenMsg{difficulty: question.Easy})

	if setup.step != stepLanguage {
		t.Fatalf("expected language step, got %d", setup.step)
	}
	if setup.menu.Items[0].Label != mixedLabel {
		t.Errorf("expected %q first, got %q", mixedLabel, setup.menu.Items[0].Label)
	}

	if !setup.HandlesEscape() {
		t.Fatal("expected setup to handle esc past the first step")
	}
	setup.Update(specialKey(tea.KeyEscape))
	if setup.step != stepDifficulty {
		t.Errorf("esc should go back to difficulty, got %d", setup.step)
	}
}

func TestSession_AnswerAndAdvance(t *testing.T) {
	f := &fakeFetcher{qtype: question.TypeMultipleChoice}
	scr := newSessionScreen(t, f, &fakeRecorder{}, true,
		question.SessionConfig{Category: question.CategoryAptitude, Difficulty: question.Easy})

	a, ok := scr.state.(sess.Active)
	if !ok || a.Step != sess.StepAnswering {
		t.Fatalf("expected answering, got %#v", scr.state)
	}
	if !strings.Contains(scr.View(100, 30), "Question 1?") {
		t.Error("expected question text in view")
	}

	scr.Update(keyPress('2'))
	scr.Update(specialKey(tea.KeyEnter))

	a = scr.state.(sess.Active)
	if a.Step != sess.StepFeedback || !a.Feedback.IsCorrect {
		t.Fatalf("expected correct feedback, got %+v", a)
	}
	if !strings.Contains(scr.View(100, 30), "Correct!") {
		t.Error("expected feedback in view")
	}

	_, cmd := scr.Update(specialKey(tea.KeyEnter))
	runCmd(t, scr, cmd)
	a = scr.state.(sess.Active)
	if a.QuestionNumber != 2 || a.Question.ID != "q2" {
		t.Errorf("expected question 2, got %d %s", a.QuestionNumber, a.Question.ID)
	}
	if scr.choices.Cursor != 0 {
		t.Error("expected choices reset for new question")
	}
}

func TestSession_EmptyFreeTextAnswer(t *testing.T) {
	f := &fakeFetcher{qtype: question.TypeCoding}
	scr := newSessionScreen(t, f, &fakeRecorder{}, true,
		question.SessionConfig{Category: question.CategoryCoding, Difficulty: question.Easy, Language: "Python"})

	scr.Update(specialKey(tea.KeyEnter))
	if scr.hint == "" {
		t.Error("expected hint for empty answer")
	}
	if a := scr.state.(sess.Active); a.Step != sess.StepAnswering {
		t.Errorf("expected still answering, got %s", a.Step)
	}
}

func TestSession_AlreadyCompleted(t *testing.T) {
	r := &fakeRecorder{done: map[string]bool{"aptitude": true}}
	scr := newSessionScreen(t, &fakeFetcher{}, r, true,
		question.SessionConfig{Category: question.CategoryAptitude, Difficulty: question.Easy})

	if !strings.Contains(scr.startErr, "already completed") {
		t.Errorf("unexpected start error %q", scr.startErr)
	}
	_, cmd := scr.Update(keyPress('x'))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected any key to go back")
	}
}

func TestSession_Offline(t *testing.T) {
	f := &fakeFetcher{}
	scr := newSessionScreen(t, f, &fakeRecorder{}, false,
		question.SessionConfig{Category: question.CategoryAptitude, Difficulty: question.Easy})

	if scr.startErr != orchestrator.MsgPracticeOffline {
		t.Errorf("startErr = %q, want offline message", scr.startErr)
	}
	if f.calls != 0 {
		t.Error("no question should be requested while offline")
	}
}

func TestSession_EscapeRestarts(t *testing.T) {
	f := &fakeFetcher{qtype: question.TypeMultipleChoice}
	scr := newSessionScreen(t, f, &fakeRecorder{}, true,
		question.SessionConfig{Category: question.CategoryAptitude, Difficulty: question.Easy})

	_, cmd := scr.Update(specialKey(tea.KeyEscape))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected pop on esc")
	}
	if _, ok := scr.session.Snapshot().(sess.NotStarted); !ok {
		t.Error("expected session restarted")
	}
}

func TestSession_DSALanguageCycle(t *testing.T) {
	f := &fakeFetcher{qtype: question.TypeCoding}
	scr := newSessionScreen(t, f, &fakeRecorder{}, true,
		question.SessionConfig{Category: question.CategoryDSA, Difficulty: question.Hard})

	_, cmd := scr.Update(specialKey(tea.KeyTab))
	runCmd(t, scr, cmd)

	a := scr.state.(sess.Active)
	if a.Language != "Python" {
		t.Errorf("Language = %q, want Python after JavaScript", a.Language)
	}
}

func TestNextLanguage(t *testing.T) {
	if got := nextLanguage("C++"); got != "JavaScript" {
		t.Errorf("nextLanguage(C++) = %q, want wrap to JavaScript", got)
	}
	if got := nextLanguage("Rust"); got != question.DefaultLanguage {
		t.Errorf("nextLanguage(Rust) = %q", got)
	}
}
