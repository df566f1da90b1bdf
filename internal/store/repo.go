package store

import (
	"context"
	"errors"
	"time"

	"github.com/nexthire/nexthire/internal/clock"
)

// ErrAlreadyRecorded is returned when a daily score already exists for the
// requested user and day.
var ErrAlreadyRecorded = errors.New("daily score already recorded")

// DailyScoreRecord is the stored result of one daily quiz.
type DailyScoreRecord struct {
	Score       int
	Total       int
	Date        clock.Day
	CompletedAt time.Time
}

// StreakState is the user's consecutive-day daily quiz streak.
type StreakState struct {
	DailyQuizStreak int

	// LastQuizDate is the day the streak was last counted, zero if never.
	LastQuizDate clock.Day
}

// ScoreStore persists daily quiz scores, standard practice completions and
// streaks. Days are always passed explicitly; the store has no notion of
// "today".
type ScoreStore interface {
	// TodaysScore returns the score recorded for user on day, or nil if none.
	TodaysScore(ctx context.Context, userID string, day clock.Day) (*DailyScoreRecord, error)

	// CreateDailyScore atomically stores rec unless one already exists for
	// the same user and day. It reports whether a row was created.
	CreateDailyScore(ctx context.Context, userID string, rec DailyScoreRecord) (bool, error)

	// DailyScores returns the most recent daily scores, newest first.
	DailyScores(ctx context.Context, userID string, limit int) ([]DailyScoreRecord, error)

	// Completions returns the set of categories completed by user on day.
	Completions(ctx context.Context, userID string, day clock.Day) (map[string]bool, error)

	// SaveCompletion marks category completed for user on day. Saving the
	// same completion twice is not an error.
	SaveCompletion(ctx context.Context, userID string, day clock.Day, category string) error

	// Streak returns the user's streak; a user with no streak gets the zero value.
	Streak(ctx context.Context, userID string) (StreakState, error)

	// SaveStreak replaces the user's streak.
	SaveStreak(ctx context.Context, userID string, st StreakState) error
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // filter by purpose when set
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one grouping key.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
