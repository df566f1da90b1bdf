// Package practice implements the standard practice session: a single
// category answered one generated question at a time.
package practice

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nexthire/nexthire/internal/grading"
	"github.com/nexthire/nexthire/internal/metrics"
	"github.com/nexthire/nexthire/internal/netcheck"
	"github.com/nexthire/nexthire/internal/orchestrator"
	"github.com/nexthire/nexthire/internal/question"
)

var (
	// ErrInvalidState is returned for operations not allowed in the
	// current state.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrAlreadyCompleted is returned by Start for a category finished
	// earlier today.
	ErrAlreadyCompleted = errors.New("category already completed today")

	// ErrEmptyAnswer is returned by Submit without an answer.
	ErrEmptyAnswer = errors.New("answer is empty")

	// ErrStale is returned when the session was restarted while a request
	// was in flight; the result was discarded.
	ErrStale = errors.New("session changed while request was in flight")
)

// MsgSaveWarning is shown when a finished session could not be recorded.
const MsgSaveWarning = "Your session finished but could not be saved. It may be offered again today."

// Fetcher supplies questions.
type Fetcher interface {
	FetchOne(ctx context.Context, category question.CategoryID, difficulty question.Difficulty, language string) (question.Question, error)
	Translate(ctx context.Context, q question.Question, language string) (question.Question, error)
}

// Recorder tracks completed categories for the current day.
type Recorder interface {
	Completions(ctx context.Context, userID string) (map[string]bool, error)
	RecordCompletion(ctx context.Context, userID, category string) error
}

// Options configures a Session.
type Options struct {
	UserID  string
	Network netcheck.Checker
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// Rand picks encouragements. Nil uses the global source.
	Rand *rand.Rand
}

type phase int

const (
	phaseNotStarted phase = iota
	phaseActive
	phaseComplete
)

// Session is a standard practice session. It is safe for concurrent use;
// blocking operations run without holding the lock and results that
// arrive after a Restart are discarded.
type Session struct {
	fetcher  Fetcher
	recorder Recorder
	network  netcheck.Checker
	userID   string
	logger   *zap.Logger
	metrics  *metrics.Metrics
	rng      *rand.Rand

	mu       sync.Mutex
	phase    phase
	starting bool
	active   Active
	complete Complete

	// epoch increments on every Restart; in-flight work compares it
	// before applying its result.
	epoch  uint64
	cancel context.CancelFunc
}

// New creates a Session in NotStarted.
func New(f Fetcher, r Recorder, opts Options) *Session {
	s := &Session{
		fetcher:  f,
		recorder: r,
		network:  opts.Network,
		userID:   opts.UserID,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		rng:      opts.Rand,
	}
	if s.network == nil {
		s.network = netcheck.Always
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	switch s.phase {
	case phaseActive:
		a := s.active
		if a.Question != nil {
			q := a.Question.Clone()
			a.Question = &q
		}
		if a.Feedback != nil {
			fb := *a.Feedback
			a.Feedback = &fb
		}
		return a
	case phaseComplete:
		return s.complete
	default:
		return NotStarted{}
	}
}

// Start validates cfg and begins a session with its first question.
// Connectivity is checked before anything is requested; a category
// already completed today cannot be started again.
func (s *Session) Start(ctx context.Context, cfg question.SessionConfig) error {
	cfg, err := cfg.Normalize()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.phase != phaseNotStarted || s.starting {
		s.mu.Unlock()
		return fmt.Errorf("start: %w", ErrInvalidState)
	}
	s.starting = true
	epoch := s.epoch
	s.mu.Unlock()

	ready := false
	defer func() {
		if !ready {
			s.mu.Lock()
			// After a Restart the flag belongs to a newer Start.
			if s.epoch == epoch {
				s.starting = false
			}
			s.mu.Unlock()
		}
	}()

	if !s.network.Online(ctx) {
		return fmt.Errorf("start: %w", netcheck.ErrOffline)
	}

	done, err := s.recorder.Completions(ctx, s.userID)
	if err != nil {
		s.logger.Warn("load completions failed", zap.Error(err))
	} else if done[string(cfg.Category)] {
		return fmt.Errorf("start %s: %w", cfg.Category, ErrAlreadyCompleted)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrStale
	}
	ready = true
	s.starting = false
	s.phase = phaseActive
	s.active = Active{
		Config:         cfg,
		Language:       cfg.Language,
		QuestionNumber: 1,
		Total:          question.TotalQuestions(cfg.Category),
		Step:           StepLoading,
	}
	fctx := s.beginLocked(ctx)
	s.mu.Unlock()

	s.logger.Info("practice session started",
		zap.String("category", string(cfg.Category)),
		zap.String("difficulty", string(cfg.Difficulty)),
		zap.String("language", cfg.Language),
	)
	return s.fetch(fctx, epoch)
}

// beginLocked cancels any in-flight request and returns a context for a
// new one.
func (s *Session) beginLocked(parent context.Context) context.Context {
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return ctx
}

// fetch requests the question for the current number and applies it if
// the session was not restarted meanwhile.
func (s *Session) fetch(ctx context.Context, epoch uint64) error {
	s.mu.Lock()
	cfg, lang := s.active.Config, s.active.Language
	s.mu.Unlock()

	q, err := s.fetcher.FetchOne(ctx, cfg.Category, cfg.Difficulty, lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.phase != phaseActive || s.active.Step != StepLoading {
		return ErrStale
	}
	if err != nil {
		s.active.Step = StepFailed
		s.active.Err = err
		s.active.Message = orchestrator.FetchMessage(err)
		return err
	}
	s.active.Step = StepAnswering
	s.active.Question = &q
	s.active.Answer = ""
	s.active.Feedback = nil
	s.active.Err = nil
	s.active.Message = ""
	return nil
}

// SetAnswer records the candidate's current answer.
func (s *Session) SetAnswer(answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseActive || s.active.Step != StepAnswering {
		return fmt.Errorf("set answer: %w", ErrInvalidState)
	}
	s.active.Answer = answer
	return nil
}

// Submit grades the current answer.
func (s *Session) Submit() (Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != phaseActive || s.active.Step != StepAnswering {
		return Feedback{}, fmt.Errorf("submit: %w", ErrInvalidState)
	}
	if strings.TrimSpace(s.active.Answer) == "" {
		return Feedback{}, ErrEmptyAnswer
	}

	q := s.active.Question
	res, err := grading.Grade(q, s.active.Answer)
	if err != nil {
		return Feedback{}, fmt.Errorf("submit: %w", err)
	}

	fb := Feedback{IsCorrect: res.IsCorrect, Explanation: q.Explanation}
	if res.IsCorrect {
		s.active.Score++
		fb.Encouragement = grading.Encouragement(s.rng)
	}
	s.active.Step = StepFeedback
	s.active.Feedback = &fb
	s.active.Err = nil
	s.active.Message = ""
	s.metrics.ObserveAnswer("practice", res.IsCorrect)
	return fb, nil
}

// Next advances to the next question, or completes a bounded session
// after its last question. It requires feedback, except on tips which
// are read rather than answered.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != phaseActive || !s.canAdvanceLocked() {
		s.mu.Unlock()
		return fmt.Errorf("next: %w", ErrInvalidState)
	}

	cat, _ := question.LookupCategory(s.active.Config.Category)
	if cat.Endless || s.active.QuestionNumber < s.active.Total {
		s.active.QuestionNumber++
		s.active.Step = StepLoading
		s.active.Question = nil
		s.active.Answer = ""
		s.active.Feedback = nil
		epoch := s.epoch
		fctx := s.beginLocked(ctx)
		s.mu.Unlock()
		return s.fetch(fctx, epoch)
	}

	a := s.active
	s.phase = phaseComplete
	s.complete = Complete{
		Config:       a.Config,
		Score:        a.Score,
		Total:        a.Total,
		PerfectScore: a.Score == a.Total && a.Config.Category != question.CategoryTips,
	}
	s.complete.PopupVisible = s.complete.PerfectScore
	epoch := s.epoch
	s.mu.Unlock()

	s.metrics.ObserveCompletion("practice")
	s.logger.Info("practice session complete",
		zap.String("category", string(a.Config.Category)),
		zap.Int("score", a.Score),
		zap.Int("total", a.Total),
	)

	if err := s.recorder.RecordCompletion(ctx, s.userID, string(a.Config.Category)); err != nil {
		s.logger.Warn("record completion failed", zap.Error(err))
		s.mu.Lock()
		if s.epoch == epoch && s.phase == phaseComplete {
			s.complete.SaveWarning = MsgSaveWarning
		}
		s.mu.Unlock()
	}
	return nil
}

func (s *Session) canAdvanceLocked() bool {
	switch s.active.Step {
	case StepFeedback:
		return true
	case StepAnswering:
		return s.active.Question != nil && s.active.Question.Type == question.TypeTip
	}
	return false
}

// ChangeLanguage translates the current question of a dsa session. On
// failure the previous question and language are kept.
func (s *Session) ChangeLanguage(ctx context.Context, language string) error {
	if !question.ValidLanguage(language) {
		return fmt.Errorf("change language: %w: unsupported language %q", question.ErrInvalidConfig, language)
	}

	s.mu.Lock()
	if s.phase != phaseActive || s.active.Config.Category != question.CategoryDSA || s.active.Step != StepAnswering {
		s.mu.Unlock()
		return fmt.Errorf("change language: %w", ErrInvalidState)
	}
	if language == s.active.Language {
		s.mu.Unlock()
		return nil
	}
	current := s.active.Question.Clone()
	s.active.Step = StepTranslating
	s.active.Err = nil
	s.active.Message = ""
	epoch := s.epoch
	fctx := s.beginLocked(ctx)
	s.mu.Unlock()

	translated, err := s.fetcher.Translate(fctx, current, language)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.phase != phaseActive || s.active.Step != StepTranslating {
		return ErrStale
	}
	s.active.Step = StepAnswering
	if err != nil {
		s.active.Err = err
		s.active.Message = orchestrator.FetchMessage(err)
		return err
	}
	s.active.Language = language
	s.active.Question = &translated
	s.active.Answer = ""
	return nil
}

// Retry fetches the current question again after a failure.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.phase != phaseActive || s.active.Step != StepFailed {
		s.mu.Unlock()
		return fmt.Errorf("retry: %w", ErrInvalidState)
	}
	s.active.Step = StepLoading
	s.active.Err = nil
	s.active.Message = ""
	epoch := s.epoch
	fctx := s.beginLocked(ctx)
	s.mu.Unlock()
	return s.fetch(fctx, epoch)
}

// DismissPopup hides the perfect score overlay.
func (s *Session) DismissPopup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == phaseComplete {
		s.complete.PopupVisible = false
	}
}

// Restart abandons the session, cancelling any in-flight request.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.epoch++
	s.phase = phaseNotStarted
	s.starting = false
	s.active = Active{}
	s.complete = Complete{}
}
