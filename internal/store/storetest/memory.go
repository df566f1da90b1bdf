// Package storetest provides an in-memory ScoreStore for tests.
package storetest

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/nexthire/nexthire/internal/clock"
	"github.com/nexthire/nexthire/internal/store"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("injected store failure")

// Memory is a goroutine-safe in-memory store.ScoreStore. Setting a Fail*
// field makes the matching operation return ErrInjected.
type Memory struct {
	mu sync.Mutex

	scores      map[string]map[clock.Day]store.DailyScoreRecord
	completions map[string]map[clock.Day]map[string]bool
	streaks     map[string]store.StreakState

	FailCreate     bool
	FailRead       bool
	FailCompletion bool
	FailStreak     bool

	// CreateCalls counts CreateDailyScore calls.
	CreateCalls int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		scores:      map[string]map[clock.Day]store.DailyScoreRecord{},
		completions: map[string]map[clock.Day]map[string]bool{},
		streaks:     map[string]store.StreakState{},
	}
}

var _ store.ScoreStore = (*Memory)(nil)

// SetFail sets the failure flags under the store lock.
func (m *Memory) SetFail(create, read, completion, streak bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailCreate, m.FailRead, m.FailCompletion, m.FailStreak = create, read, completion, streak
}

func (m *Memory) TodaysScore(_ context.Context, userID string, day clock.Day) (*store.DailyScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRead {
		return nil, ErrInjected
	}
	rec, ok := m.scores[userID][day]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *Memory) CreateDailyScore(_ context.Context, userID string, rec store.DailyScoreRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	if m.FailCreate {
		return false, ErrInjected
	}
	if m.scores[userID] == nil {
		m.scores[userID] = map[clock.Day]store.DailyScoreRecord{}
	}
	if _, ok := m.scores[userID][rec.Date]; ok {
		return false, nil
	}
	m.scores[userID][rec.Date] = rec
	return true, nil
}

func (m *Memory) DailyScores(_ context.Context, userID string, limit int) ([]store.DailyScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRead {
		return nil, ErrInjected
	}
	var out []store.DailyScoreRecord
	for _, rec := range m.scores[userID] {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b store.DailyScoreRecord) int {
		switch {
		case a.Date > b.Date:
			return -1
		case a.Date < b.Date:
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) Completions(_ context.Context, userID string, day clock.Day) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRead {
		return nil, ErrInjected
	}
	out := map[string]bool{}
	for c := range m.completions[userID][day] {
		out[c] = true
	}
	return out, nil
}

func (m *Memory) SaveCompletion(_ context.Context, userID string, day clock.Day, category string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCompletion {
		return ErrInjected
	}
	if m.completions[userID] == nil {
		m.completions[userID] = map[clock.Day]map[string]bool{}
	}
	if m.completions[userID][day] == nil {
		m.completions[userID][day] = map[string]bool{}
	}
	m.completions[userID][day][category] = true
	return nil
}

func (m *Memory) Streak(_ context.Context, userID string) (store.StreakState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailStreak {
		return store.StreakState{}, ErrInjected
	}
	return m.streaks[userID], nil
}

func (m *Memory) SaveStreak(_ context.Context, userID string, st store.StreakState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailStreak {
		return ErrInjected
	}
	m.streaks[userID] = st
	return nil
}
