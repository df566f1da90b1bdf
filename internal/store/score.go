package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/nexthire/nexthire/internal/clock"
)

// scoreRepo implements ScoreStore on SQLite using ent's SQL builders.
type scoreRepo struct {
	db *sql.DB
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *scoreRepo) TodaysScore(ctx context.Context, userID string, day clock.Day) (*DailyScoreRecord, error) {
	query, args := builder().
		Select("score", "total", "day", "completed_at").
		From(entsql.Table(tableDailyScores)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("day", string(day)),
		)).
		Query()

	rec, err := scanDailyScore(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query daily score: %w", err)
	}
	return rec, nil
}

func (r *scoreRepo) CreateDailyScore(ctx context.Context, userID string, rec DailyScoreRecord) (bool, error) {
	if rec.Date.IsZero() {
		return false, fmt.Errorf("create daily score: day is required")
	}
	query, args := builder().
		Insert(tableDailyScores).
		Columns("user_id", "day", "score", "total", "completed_at").
		Values(userID, string(rec.Date), rec.Score, rec.Total, rec.CompletedAt.UnixMilli()).
		OnConflict(entsql.ConflictColumns("user_id", "day"), entsql.DoNothing()).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert daily score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert daily score: %w", err)
	}
	return n == 1, nil
}

func (r *scoreRepo) DailyScores(ctx context.Context, userID string, limit int) ([]DailyScoreRecord, error) {
	sel := builder().
		Select("score", "total", "day", "completed_at").
		From(entsql.Table(tableDailyScores)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("day"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily scores: %w", err)
	}
	defer rows.Close()

	var out []DailyScoreRecord
	for rows.Next() {
		rec, err := scanDailyScore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily score: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *scoreRepo) Completions(ctx context.Context, userID string, day clock.Day) (map[string]bool, error) {
	query, args := builder().
		Select("category").
		From(entsql.Table(tablePracticeCompletions)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("day", string(day)),
		)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		out[category] = true
	}
	return out, rows.Err()
}

func (r *scoreRepo) SaveCompletion(ctx context.Context, userID string, day clock.Day, category string) error {
	query, args := builder().
		Insert(tablePracticeCompletions).
		Columns("user_id", "day", "category", "completed_at").
		Values(userID, string(day), category, time.Now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("user_id", "day", "category"), entsql.DoNothing()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert completion: %w", err)
	}
	return nil
}

func (r *scoreRepo) Streak(ctx context.Context, userID string) (StreakState, error) {
	query, args := builder().
		Select("daily_quiz_streak", "last_quiz_day").
		From(entsql.Table(tableStreaks)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var (
		st   StreakState
		last string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&st.DailyQuizStreak, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return StreakState{}, nil
	}
	if err != nil {
		return StreakState{}, fmt.Errorf("query streak: %w", err)
	}
	st.LastQuizDate = clock.Day(last)
	return st, nil
}

func (r *scoreRepo) SaveStreak(ctx context.Context, userID string, st StreakState) error {
	if st.DailyQuizStreak < 0 {
		return fmt.Errorf("save streak: negative streak %d", st.DailyQuizStreak)
	}
	query, args := builder().
		Insert(tableStreaks).
		Columns("user_id", "daily_quiz_streak", "last_quiz_day", "updated_at").
		Values(userID, st.DailyQuizStreak, string(st.LastQuizDate), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("daily_quiz_streak")
				u.SetExcluded("last_quiz_day")
				u.SetExcluded("updated_at")
			}),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert streak: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDailyScore(row rowScanner) (*DailyScoreRecord, error) {
	var (
		rec         DailyScoreRecord
		day         string
		completedMs int64
	)
	if err := row.Scan(&rec.Score, &rec.Total, &day, &completedMs); err != nil {
		return nil, err
	}
	rec.Date = clock.Day(day)
	rec.CompletedAt = time.UnixMilli(completedMs).UTC()
	return &rec, nil
}
