package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexthire/nexthire/internal/clock"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.ScoreStore().SaveCompletion(ctx, "u1", "2024-01-01", "coding"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.ScoreStore().Completions(ctx, "u1", "2024-01-01")
	require.NoError(t, err)
	assert.True(t, got["coding"])
}

func TestDailyScore_CreateIfAbsent(t *testing.T) {
	repo := openTestStore(t).ScoreStore()
	ctx := context.Background()
	day := clock.Day("2024-01-02")

	rec, err := repo.TodaysScore(ctx, "u1", day)
	require.NoError(t, err)
	assert.Nil(t, rec, "no record yet")

	completed := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
	created, err := repo.CreateDailyScore(ctx, "u1", DailyScoreRecord{Score: 14, Total: 20, Date: day, CompletedAt: completed})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateDailyScore(ctx, "u1", DailyScoreRecord{Score: 20, Total: 20, Date: day, CompletedAt: completed})
	require.NoError(t, err)
	assert.False(t, created, "second write for the same day must not create")

	rec, err = repo.TodaysScore(ctx, "u1", day)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 14, rec.Score, "first record wins")
	assert.Equal(t, 20, rec.Total)
	assert.Equal(t, day, rec.Date)
	assert.True(t, completed.Equal(rec.CompletedAt))

	// Another user on the same day is independent.
	created, err = repo.CreateDailyScore(ctx, "u2", DailyScoreRecord{Score: 3, Total: 20, Date: day, CompletedAt: completed})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestDailyScore_RequiresDay(t *testing.T) {
	repo := openTestStore(t).ScoreStore()
	_, err := repo.CreateDailyScore(context.Background(), "u1", DailyScoreRecord{Score: 1})
	assert.Error(t, err)
}

func TestDailyScores_NewestFirst(t *testing.T) {
	repo := openTestStore(t).ScoreStore()
	ctx := context.Background()

	for i, day := range []clock.Day{"2024-01-01", "2024-01-03", "2024-01-02"} {
		_, err := repo.CreateDailyScore(ctx, "u1", DailyScoreRecord{Score: i, Total: 20, Date: day, CompletedAt: time.Now()})
		require.NoError(t, err)
	}

	recs, err := repo.DailyScores(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, clock.Day("2024-01-03"), recs[0].Date)
	assert.Equal(t, clock.Day("2024-01-02"), recs[1].Date)
}

func TestCompletions_Idempotent(t *testing.T) {
	repo := openTestStore(t).ScoreStore()
	ctx := context.Background()
	day := clock.Day("2024-01-02")

	require.NoError(t, repo.SaveCompletion(ctx, "u1", day, "coding"))
	require.NoError(t, repo.SaveCompletion(ctx, "u1", day, "coding"))
	require.NoError(t, repo.SaveCompletion(ctx, "u1", day, "aptitude"))
	require.NoError(t, repo.SaveCompletion(ctx, "u1", day.AddDays(1), "dsa"))

	got, err := repo.Completions(ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"coding": true, "aptitude": true}, got)

	empty, err := repo.Completions(ctx, "u2", day)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStreak_SaveAndLoad(t *testing.T) {
	repo := openTestStore(t).ScoreStore()
	ctx := context.Background()

	st, err := repo.Streak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StreakState{}, st)

	require.NoError(t, repo.SaveStreak(ctx, "u1", StreakState{DailyQuizStreak: 3, LastQuizDate: "2024-01-01"}))
	require.NoError(t, repo.SaveStreak(ctx, "u1", StreakState{DailyQuizStreak: 4, LastQuizDate: "2024-01-02"}))

	st, err = repo.Streak(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, StreakState{DailyQuizStreak: 4, LastQuizDate: "2024-01-02"}, st)

	assert.Error(t, repo.SaveStreak(ctx, "u1", StreakState{DailyQuizStreak: -1}))
}

func TestLLMEvents(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "practice-question", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "daily-batch", InputTokens: 300, OutputTokens: 900, LatencyMs: 1000, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "daily-batch", InputTokens: 100, OutputTokens: 100, LatencyMs: 500, Success: false, ErrorMessage: "429"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "429", got[0].ErrorMessage, "newest first")
	assert.False(t, got[0].Success)

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "practice-question"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	one, err := repo.GetLLMEvent(ctx, filtered[0].ID)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, 100, one.InputTokens)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	usage, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, "daily-batch", usage[0].Key)
	assert.Equal(t, 2, usage[0].Calls)
	assert.Equal(t, 400, usage[0].InputTokens)
	assert.Equal(t, int64(750), usage[0].AvgLatencyMs)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1)
	assert.Equal(t, 3, byModel[0].Calls)
}
