// Package dailyquiz implements the once-a-day quiz: twenty generated
// multiple-choice questions answered in any order and scored once.
package dailyquiz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/nexthire/nexthire/internal/grading"
	"github.com/nexthire/nexthire/internal/metrics"
	"github.com/nexthire/nexthire/internal/netcheck"
	"github.com/nexthire/nexthire/internal/orchestrator"
	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/store"
)

var (
	// ErrInvalidState is returned for operations not allowed in the
	// current state.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrNotAnOption is returned by Select for an answer that is not one
	// of the current question's options.
	ErrNotAnOption = errors.New("answer is not one of the options")

	// ErrNoAnswer is returned when moving on without selecting an answer.
	ErrNoAnswer = errors.New("no answer selected")

	// ErrStale is returned when the quiz was reset while a request was in
	// flight; the result was discarded.
	ErrStale = errors.New("quiz changed while request was in flight")
)

// MsgLoadFailed is shown when today's status cannot be read.
const MsgLoadFailed = "Could not load your daily quiz status."

// Assembler builds the day's questions.
type Assembler interface {
	AssembleDailyQuiz(ctx context.Context, progress func(done, total int)) ([]question.Question, error)
}

// ScoreKeeper persists today's score and the streak.
type ScoreKeeper interface {
	TodaysScore(ctx context.Context, userID string) (*store.DailyScoreRecord, error)
	SaveTodaysScore(ctx context.Context, userID string, score, total int) (store.DailyScoreRecord, error)
	UpdateStreak(ctx context.Context, userID string) (store.StreakState, error)
	Streak(ctx context.Context, userID string) (store.StreakState, error)
}

// Options configures a Quiz.
type Options struct {
	UserID  string
	Network netcheck.Checker
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// OnComplete is called once per finished quiz with the local score
	// and the submitted answers. It runs without the quiz lock held.
	OnComplete func(score int, answers []string)
}

type phase int

const (
	phaseLoading phase = iota
	phaseIdle
	phaseGenerating
	phaseActive
	phaseResults
)

// Quiz is the daily quiz state machine. It is safe for concurrent use;
// blocking operations run without holding the lock.
type Quiz struct {
	assembler  Assembler
	keeper     ScoreKeeper
	network    netcheck.Checker
	userID     string
	logger     *zap.Logger
	metrics    *metrics.Metrics
	onComplete func(score int, answers []string)

	mu         sync.Mutex
	phase      phase
	idle       Idle
	generating Generating
	active     Active
	finishing  bool
	results    Results

	epoch  uint64
	cancel context.CancelFunc
}

// New creates a Quiz in Loading. Call Load to resolve today's status.
func New(a Assembler, k ScoreKeeper, opts Options) *Quiz {
	q := &Quiz{
		assembler:  a,
		keeper:     k,
		network:    opts.Network,
		userID:     opts.UserID,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		onComplete: opts.OnComplete,
	}
	if q.network == nil {
		q.network = netcheck.Always
	}
	if q.logger == nil {
		q.logger = zap.NewNop()
	}
	return q
}

// Snapshot returns a copy of the current state.
func (q *Quiz) Snapshot() State {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch q.phase {
	case phaseIdle:
		return q.idle
	case phaseGenerating:
		return q.generating
	case phaseActive:
		a := q.active
		a.Questions = cloneQuestions(a.Questions)
		a.Answers = slices.Clone(a.Answers)
		return a
	case phaseResults:
		r := q.results
		r.Review = slices.Clone(r.Review)
		for i := range r.Review {
			r.Review[i].Question = r.Review[i].Question.Clone()
		}
		return r
	default:
		return Loading{}
	}
}

func cloneQuestions(qs []question.Question) []question.Question {
	out := make([]question.Question, len(qs))
	for i := range qs {
		out[i] = qs[i].Clone()
	}
	return out
}

// begin cancels in-flight work and returns a context for new work along
// with its epoch. Callers hold q.mu.
func (q *Quiz) begin(parent context.Context) (context.Context, uint64) {
	if q.cancel != nil {
		q.cancel()
	}
	q.epoch++
	ctx, cancel := context.WithCancel(parent)
	q.cancel = cancel
	return ctx, q.epoch
}

// Load resolves today's status: Results when a score exists, Idle
// otherwise.
func (q *Quiz) Load(ctx context.Context) error {
	q.mu.Lock()
	if q.phase != phaseLoading && q.phase != phaseIdle {
		q.mu.Unlock()
		return fmt.Errorf("load: %w", ErrInvalidState)
	}
	q.phase = phaseLoading
	ctx, epoch := q.begin(ctx)
	q.mu.Unlock()

	rec, err := q.keeper.TodaysScore(ctx, q.userID)
	var streak store.StreakState
	if err == nil && rec != nil {
		streak, err = q.keeper.Streak(ctx, q.userID)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.epoch != epoch {
		return ErrStale
	}
	switch {
	case err != nil:
		q.logger.Warn("load daily status failed", zap.Error(err))
		q.toIdle(Idle{Err: err, Message: MsgLoadFailed})
		return err
	case rec != nil:
		q.phase = phaseResults
		q.results = Results{Record: *rec, Streak: streak}
	default:
		q.toIdle(Idle{})
	}
	return nil
}

func (q *Quiz) toIdle(st Idle) {
	q.phase = phaseIdle
	q.idle = st
	q.generating = Generating{}
	q.active = Active{}
	q.finishing = false
	q.results = Results{}
}

// Start generates today's quiz. Today's record is checked first, so a quiz
// already taken shows its results instead; then connectivity is checked
// before any generation is attempted. Any generation failure returns to
// Idle with a message.
func (q *Quiz) Start(ctx context.Context) error {
	q.mu.Lock()
	if q.phase != phaseIdle {
		q.mu.Unlock()
		return fmt.Errorf("start: %w", ErrInvalidState)
	}
	q.phase = phaseGenerating
	q.generating = Generating{Total: question.DailyQuestionCount}
	q.idle = Idle{}
	ctx, epoch := q.begin(ctx)
	q.mu.Unlock()

	rec, err := q.keeper.TodaysScore(ctx, q.userID)
	if err != nil {
		return q.failStart(epoch, err, MsgLoadFailed)
	}
	if rec != nil {
		streak, serr := q.keeper.Streak(ctx, q.userID)
		if serr != nil {
			q.logger.Warn("load streak failed", zap.Error(serr))
		}
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.epoch != epoch {
			return ErrStale
		}
		q.phase = phaseResults
		q.results = Results{Record: *rec, Streak: streak}
		return nil
	}

	if !q.network.Online(ctx) {
		err := fmt.Errorf("start: %w", netcheck.ErrOffline)
		return q.failStart(epoch, err, orchestrator.UserMessage(err))
	}

	progress := func(done, total int) {
		q.mu.Lock()
		defer q.mu.Unlock()
		if q.epoch == epoch && q.phase == phaseGenerating {
			q.generating = Generating{Done: done, Total: total}
		}
	}
	qs, err := q.assembler.AssembleDailyQuiz(ctx, progress)
	if err != nil {
		return q.failStart(epoch, err, orchestrator.UserMessage(err))
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.epoch != epoch {
		return ErrStale
	}
	q.phase = phaseActive
	q.active = Active{Questions: qs, Answers: make([]string, len(qs))}
	q.logger.Info("daily quiz ready", zap.Int("questions", len(qs)))
	return nil
}

func (q *Quiz) failStart(epoch uint64, err error, msg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.epoch != epoch {
		return ErrStale
	}
	q.toIdle(Idle{Err: err, Message: msg})
	return err
}

// Select records answer for the current question.
func (q *Quiz) Select(answer string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.phase != phaseActive || q.finishing {
		return fmt.Errorf("select: %w", ErrInvalidState)
	}
	cur := &q.active.Questions[q.active.Index]
	i := slices.IndexFunc(cur.Options, func(o string) bool { return grading.EqualChoice(o, answer) })
	if i < 0 {
		return fmt.Errorf("select %q: %w", answer, ErrNotAnOption)
	}
	q.active.Answers[q.active.Index] = cur.Options[i]
	return nil
}

// Next moves to the following question. The current question must be
// answered; on the last question use Finish.
func (q *Quiz) Next() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.phase != phaseActive || q.finishing || q.active.IsLast() {
		return fmt.Errorf("next: %w", ErrInvalidState)
	}
	if q.active.Answers[q.active.Index] == "" {
		return ErrNoAnswer
	}
	q.active.Index++
	return nil
}

// Previous moves back one question.
func (q *Quiz) Previous() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.phase != phaseActive || q.finishing || q.active.Index == 0 {
		return fmt.Errorf("previous: %w", ErrInvalidState)
	}
	q.active.Index--
	return nil
}

// GoTo jumps to question i.
func (q *Quiz) GoTo(i int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.phase != phaseActive || q.finishing {
		return fmt.Errorf("go to: %w", ErrInvalidState)
	}
	if i < 0 || i >= len(q.active.Questions) {
		return fmt.Errorf("go to %d: %w", i, ErrInvalidState)
	}
	q.active.Index = i
	return nil
}

// Finish scores the quiz. It is allowed on the last question once it has
// an answer; unanswered questions count as wrong. The score is stored
// unless today already has one, in which case the stored record is shown.
// A persistence failure still shows the local result.
func (q *Quiz) Finish(ctx context.Context) error {
	q.mu.Lock()
	if q.phase != phaseActive || q.finishing || !q.active.IsLast() {
		q.mu.Unlock()
		return fmt.Errorf("finish: %w", ErrInvalidState)
	}
	if q.active.Answers[q.active.Index] == "" {
		q.mu.Unlock()
		return ErrNoAnswer
	}
	q.finishing = true
	qs := cloneQuestions(q.active.Questions)
	answers := slices.Clone(q.active.Answers)
	epoch := q.epoch
	q.mu.Unlock()

	score, correct := grading.ScoreChoices(qs, answers)
	review := make([]ReviewItem, len(qs))
	for i := range qs {
		review[i] = ReviewItem{Question: qs[i], Answer: answers[i], Correct: correct[i]}
		q.metrics.ObserveAnswer("daily", correct[i])
	}

	res := q.persist(ctx, score, len(qs))
	res.Review = review

	q.mu.Lock()
	if q.epoch != epoch {
		q.mu.Unlock()
		return ErrStale
	}
	q.phase = phaseResults
	q.finishing = false
	q.active = Active{}
	q.results = res
	q.mu.Unlock()

	q.metrics.ObserveCompletion("daily")
	q.logger.Info("daily quiz finished",
		zap.Int("score", score),
		zap.Int("total", len(qs)),
		zap.Bool("save_failed", res.SaveFailed),
	)
	if q.onComplete != nil {
		q.onComplete(score, answers)
	}
	return nil
}

// persist stores the score, counts the streak and re-reads both.
func (q *Quiz) persist(ctx context.Context, score, total int) Results {
	rec, err := q.keeper.SaveTodaysScore(ctx, q.userID, score, total)
	switch {
	case errors.Is(err, store.ErrAlreadyRecorded):
		q.logger.Info("daily score already recorded", zap.Int("stored_score", rec.Score))
		streak, serr := q.keeper.Streak(ctx, q.userID)
		if serr != nil {
			q.logger.Warn("load streak failed", zap.Error(serr))
		}
		return Results{Record: rec, Streak: streak}
	case err != nil:
		return q.saveFailed(rec, err)
	}

	streak, err := q.keeper.UpdateStreak(ctx, q.userID)
	if err != nil {
		return q.saveFailed(rec, err)
	}

	if stored, err := q.keeper.TodaysScore(ctx, q.userID); err == nil && stored != nil {
		rec = *stored
	}
	if st, err := q.keeper.Streak(ctx, q.userID); err == nil {
		streak = st
	}
	return Results{Record: rec, Streak: streak}
}

func (q *Quiz) saveFailed(rec store.DailyScoreRecord, err error) Results {
	q.logger.Error("save daily score failed", zap.Error(err))
	err = fmt.Errorf("%w: %w", orchestrator.ErrPersistence, err)
	return Results{
		Record:     rec,
		SaveFailed: true,
		Err:        err,
		Message:    orchestrator.UserMessage(err),
	}
}

// Reset abandons the current quiz or results and returns to Idle,
// cancelling in-flight work. A later Start finds today's record and shows
// it again.
func (q *Quiz) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.epoch++
	q.toIdle(Idle{})
}
