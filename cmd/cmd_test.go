package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"

	"github.com/nexthire/nexthire/internal/clock"
	"github.com/nexthire/nexthire/internal/llm"
	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/questiongen"
	"github.com/nexthire/nexthire/internal/store"
)

// execute runs the root command with args against a fresh database and
// returns its stdout.
func execute(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NEXTHIRE_LLM_PROVIDER", "mock")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--db", dbPath}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func seed(t *testing.T, dbPath string, fn func(ctx context.Context, s *store.Store)) {
	t.Helper()
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()
	fn(context.Background(), s)
}

func TestDailyHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nexthire.db")

	assert.Contains(t, execute(t, db, "daily", "history"), "No daily quizzes taken yet.")

	seed(t, db, func(ctx context.Context, s *store.Store) {
		for i, day := range []clock.Day{"2024-01-01", "2024-01-02"} {
			_, err := s.ScoreStore().CreateDailyScore(ctx, "local", store.DailyScoreRecord{
				Score: 10 + i, Total: 20, Date: day, CompletedAt: time.Now(),
			})
			require.NoError(t, err)
		}
	})

	out := execute(t, db, "daily", "history", "-n", "1")
	assert.Contains(t, out, "2024-01-02")
	assert.NotContains(t, out, "2024-01-01")
	assert.Contains(t, out, " 11/20")
}

func TestDailyStatus_NotTaken(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nexthire.db")
	out := execute(t, db, "daily", "status")
	assert.Contains(t, out, "not taken yet")
	assert.Contains(t, out, "Streak:  0")
}

func TestStats_ListsCategories(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nexthire.db")
	out := execute(t, db, "stats")
	assert.Contains(t, out, "Aptitude")
	assert.Contains(t, out, "∞ Data Structures & Algorithms")
	assert.Contains(t, out, "Daily quiz: no results yet")
}

func TestLLMList_FiltersByPurpose(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nexthire.db")
	seed(t, db, func(ctx context.Context, s *store.Store) {
		for _, purpose := range []string{"practice-question", "daily-batch"} {
			require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, store.LLMRequestEventData{
				Provider: "gemini", Model: "gemini-2.5-flash", Purpose: purpose, Success: true,
			}))
		}
	})

	out := execute(t, db, "llm", "list", "-p", "daily-batch")
	assert.Contains(t, out, "daily-batch")
	assert.NotContains(t, out, "practice-question")

	stats := execute(t, db, "llm", "stats")
	assert.Contains(t, stats, "TOTAL")
	assert.Contains(t, stats, "gemini-2.5-flash")
}

func TestConfig_ShowsProvider(t *testing.T) {
	db := filepath.Join(t.TempDir(), "nexthire.db")
	out := execute(t, db, "config")
	assert.Contains(t, out, "LLM provider:  mock")
	assert.Contains(t, out, "API key:       configured")
	assert.Contains(t, out, db)
}

func TestNewProvider_MockServesDemoQuestions(t *testing.T) {
	cfg := llm.DefaultConfig()
	cfg.Provider = "mock"
	cfg.RequestsPerMinute = 0

	p, err := newProvider(context.Background(), cfg, nil, zap.NewNop())
	require.NoError(t, err)
	gen := questiongen.New(p, questiongen.DefaultConfig())

	q, err := gen.GenerateOne(context.Background(), questiongen.OneRequest{Category: "Aptitude", Difficulty: question.Easy})
	require.NoError(t, err)
	assert.NotEmpty(t, q.Text)

	for _, b := range question.DailyBatches {
		qs, err := gen.GenerateBatch(context.Background(), questiongen.BatchRequest{Topic: b.Topic, Difficulty: b.Difficulty, Count: b.Count})
		require.NoError(t, err, b.Topic)
		assert.GreaterOrEqual(t, len(qs), b.Count, b.Topic)
	}
}

func TestScoreBar(t *testing.T) {
	assert.Equal(t, "", scoreBar(1, 0, 10))
	assert.Equal(t, "█████░░░░░", scoreBar(10, 20, 10))
	assert.Equal(t, "██████████", scoreBar(20, 20, 10))
}
