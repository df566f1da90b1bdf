package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nexthire/nexthire/internal/clock"
	"github.com/nexthire/nexthire/internal/store"
	"github.com/nexthire/nexthire/internal/store/storetest"
)

func at(day string, hour int) time.Time {
	t, err := time.Parse(clock.DayLayout, day)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

func newTestTracker(t *testing.T, now time.Time) (*Tracker, *storetest.Memory, *clock.Fixed) {
	t.Helper()
	mem := storetest.NewMemory()
	fixed := &clock.Fixed{T: now}
	return New(mem, clock.NewCalendar(fixed, time.UTC), zaptest.NewLogger(t)), mem, fixed
}

func TestUpdateStreak_Sequence(t *testing.T) {
	ctx := context.Background()
	tr, mem, fixed := newTestTracker(t, at("2024-01-02", 10))
	require.NoError(t, mem.SaveStreak(ctx, "u1", store.StreakState{DailyQuizStreak: 3, LastQuizDate: "2024-01-01"}))

	st, err := tr.UpdateStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, store.StreakState{DailyQuizStreak: 4, LastQuizDate: "2024-01-02"}, st, "yesterday extends")

	st, err = tr.UpdateStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, store.StreakState{DailyQuizStreak: 4, LastQuizDate: "2024-01-02"}, st, "same day is a no-op")

	fixed.T = at("2024-01-05", 8)
	st, err = tr.UpdateStreak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, store.StreakState{DailyQuizStreak: 1, LastQuizDate: "2024-01-05"}, st, "a gap restarts")

	stored, err := tr.Streak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, st, stored)
}

func TestUpdateStreak_FirstQuiz(t *testing.T) {
	tr, _, _ := newTestTracker(t, at("2024-03-01", 0))
	st, err := tr.UpdateStreak(context.Background(), "new")
	require.NoError(t, err)
	assert.Equal(t, store.StreakState{DailyQuizStreak: 1, LastQuizDate: "2024-03-01"}, st)
}

func TestUpdateStreak_AcrossYearAndLeapDay(t *testing.T) {
	tests := []struct {
		name string
		last clock.Day
		now  time.Time
		want int
	}{
		{"new year", "2023-12-31", at("2024-01-01", 1), 6},
		{"leap day", "2024-02-28", at("2024-02-29", 1), 6},
		{"after leap day", "2024-02-29", at("2024-03-01", 1), 6},
		{"skipped leap day", "2024-02-28", at("2024-03-01", 1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tr, mem, _ := newTestTracker(t, tt.now)
			require.NoError(t, mem.SaveStreak(ctx, "u", store.StreakState{DailyQuizStreak: 5, LastQuizDate: tt.last}))

			st, err := tr.UpdateStreak(ctx, "u")
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.DailyQuizStreak)
		})
	}
}

func TestUpdateStreak_StoreFailure(t *testing.T) {
	tr, mem, _ := newTestTracker(t, at("2024-01-02", 0))
	mem.SetFail(false, false, false, true)

	_, err := tr.UpdateStreak(context.Background(), "u1")
	assert.ErrorIs(t, err, storetest.ErrInjected)
}

func TestAlive(t *testing.T) {
	tr, _, _ := newTestTracker(t, at("2024-01-10", 12))
	assert.True(t, tr.Alive(store.StreakState{DailyQuizStreak: 2, LastQuizDate: "2024-01-10"}))
	assert.True(t, tr.Alive(store.StreakState{DailyQuizStreak: 2, LastQuizDate: "2024-01-09"}))
	assert.False(t, tr.Alive(store.StreakState{DailyQuizStreak: 2, LastQuizDate: "2024-01-08"}))
	assert.False(t, tr.Alive(store.StreakState{}))
}

func TestCompletions_ScopedToToday(t *testing.T) {
	ctx := context.Background()
	tr, _, fixed := newTestTracker(t, at("2024-01-02", 9))

	require.NoError(t, tr.RecordCompletion(ctx, "u1", "coding"))
	require.NoError(t, tr.RecordCompletion(ctx, "u1", "coding"))

	got, err := tr.Completions(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"coding": true}, got)

	fixed.T = at("2024-01-03", 0)
	got, err = tr.Completions(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got, "a new day starts with no completions")
}

func TestSaveTodaysScore(t *testing.T) {
	ctx := context.Background()
	tr, mem, _ := newTestTracker(t, at("2024-01-02", 9))

	rec, err := tr.SaveTodaysScore(ctx, "u1", 14, 20)
	require.NoError(t, err)
	assert.Equal(t, 14, rec.Score)
	assert.Equal(t, clock.Day("2024-01-02"), rec.Date)
	assert.True(t, at("2024-01-02", 9).Equal(rec.CompletedAt))

	rec, err = tr.SaveTodaysScore(ctx, "u1", 20, 20)
	require.True(t, errors.Is(err, store.ErrAlreadyRecorded))
	assert.Equal(t, 14, rec.Score, "the stored record is returned")
	assert.Equal(t, 2, mem.CreateCalls)

	today, err := tr.TodaysScore(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, 14, today.Score)
}

func TestSaveTodaysScore_Failure(t *testing.T) {
	tr, mem, _ := newTestTracker(t, at("2024-01-02", 9))
	mem.SetFail(true, false, false, false)

	rec, err := tr.SaveTodaysScore(context.Background(), "u1", 9, 20)
	require.ErrorIs(t, err, storetest.ErrInjected)
	assert.Equal(t, 9, rec.Score, "local record is still returned")
}

func TestToday_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	fixed := &clock.Fixed{T: time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)}
	tr := New(storetest.NewMemory(), clock.NewCalendar(fixed, loc), nil)
	assert.Equal(t, clock.Day("2024-01-02"), tr.Today())
}
