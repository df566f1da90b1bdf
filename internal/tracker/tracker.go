// Package tracker keeps per-day bookkeeping for a user: today's daily quiz
// score, completed practice categories and the daily quiz streak.
package tracker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nexthire/nexthire/internal/clock"
	"github.com/nexthire/nexthire/internal/store"
)

// Tracker scopes ScoreStore operations to the current day.
type Tracker struct {
	store  store.ScoreStore
	cal    clock.Calendar
	logger *zap.Logger

	// streakMu serializes the read-modify-write of UpdateStreak.
	streakMu sync.Mutex
}

// New creates a Tracker.
func New(s store.ScoreStore, cal clock.Calendar, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cal.Clock == nil || cal.Location == nil {
		cal = clock.NewCalendar(cal.Clock, cal.Location)
	}
	return &Tracker{store: s, cal: cal, logger: logger}
}

// Today returns the current day.
func (t *Tracker) Today() clock.Day {
	return t.cal.Today()
}

// UpdateStreak counts today toward the user's streak. A streak already
// counted today is unchanged, one last counted yesterday grows by one and
// anything older restarts at one.
func (t *Tracker) UpdateStreak(ctx context.Context, userID string) (store.StreakState, error) {
	t.streakMu.Lock()
	defer t.streakMu.Unlock()

	st, err := t.store.Streak(ctx, userID)
	if err != nil {
		return store.StreakState{}, fmt.Errorf("load streak: %w", err)
	}

	today := t.cal.Today()
	next := nextStreak(st, today)
	if next == st {
		return st, nil
	}

	if err := t.store.SaveStreak(ctx, userID, next); err != nil {
		return st, fmt.Errorf("save streak: %w", err)
	}
	t.logger.Info("streak updated",
		zap.String("user", userID),
		zap.Int("streak", next.DailyQuizStreak),
		zap.Stringer("day", today),
	)
	return next, nil
}

func nextStreak(st store.StreakState, today clock.Day) store.StreakState {
	switch st.LastQuizDate {
	case today:
		return st
	case today.AddDays(-1):
		return store.StreakState{DailyQuizStreak: st.DailyQuizStreak + 1, LastQuizDate: today}
	default:
		return store.StreakState{DailyQuizStreak: 1, LastQuizDate: today}
	}
}

// Streak returns the stored streak.
func (t *Tracker) Streak(ctx context.Context, userID string) (store.StreakState, error) {
	return t.store.Streak(ctx, userID)
}

// Alive reports whether st can still be extended, i.e. it was last counted
// today or yesterday.
func (t *Tracker) Alive(st store.StreakState) bool {
	if st.DailyQuizStreak == 0 {
		return false
	}
	today := t.cal.Today()
	return st.LastQuizDate == today || st.LastQuizDate == today.AddDays(-1)
}

// RecordCompletion marks category completed today. Recording it again is
// not an error.
func (t *Tracker) RecordCompletion(ctx context.Context, userID, category string) error {
	if err := t.store.SaveCompletion(ctx, userID, t.cal.Today(), category); err != nil {
		return fmt.Errorf("record completion: %w", err)
	}
	return nil
}

// Completions returns the categories completed today.
func (t *Tracker) Completions(ctx context.Context, userID string) (map[string]bool, error) {
	return t.store.Completions(ctx, userID, t.cal.Today())
}

// TodaysScore returns today's daily quiz record, or nil if none exists.
func (t *Tracker) TodaysScore(ctx context.Context, userID string) (*store.DailyScoreRecord, error) {
	return t.store.TodaysScore(ctx, userID, t.cal.Today())
}

// SaveTodaysScore stores today's daily quiz result unless one already
// exists. When it does, the stored record is returned together with
// store.ErrAlreadyRecorded.
func (t *Tracker) SaveTodaysScore(ctx context.Context, userID string, score, total int) (store.DailyScoreRecord, error) {
	rec := store.DailyScoreRecord{
		Score:       score,
		Total:       total,
		Date:        t.cal.Today(),
		CompletedAt: t.cal.Now().UTC(),
	}

	created, err := t.store.CreateDailyScore(ctx, userID, rec)
	if err != nil {
		return rec, fmt.Errorf("save daily score: %w", err)
	}
	if created {
		return rec, nil
	}

	existing, err := t.store.TodaysScore(ctx, userID, rec.Date)
	if err != nil {
		return rec, fmt.Errorf("load daily score: %w", err)
	}
	if existing == nil {
		return rec, fmt.Errorf("load daily score: record for %s vanished", rec.Date)
	}
	return *existing, store.ErrAlreadyRecorded
}
