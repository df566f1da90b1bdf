package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nexthire/nexthire/internal/store"
)

type recordingEventRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed", &ErrRateLimit{Err: errors.New("quota")}, true},
		{"wrapped typed", fmt.Errorf("batch 2: %w", &ErrRateLimit{}), true},
		{"status code text", errors.New("googleapi: Error 429: Too Many Requests"), true},
		{"resource exhausted text", errors.New("rpc error: code = RESOURCE_EXHAUSTED"), true},
		{"generic", errors.New("connection reset"), false},
		{"unavailable", &ErrProviderUnavailable{Err: errors.New("503")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimited(tt.err))
		})
	}
}

func TestFromStatus(t *testing.T) {
	cause := errors.New("boom")

	var rl *ErrRateLimit
	require.ErrorAs(t, fromStatus(http.StatusTooManyRequests, 3*time.Second, cause), &rl)
	assert.Equal(t, 3*time.Second, rl.RetryAfter)
	assert.ErrorIs(t, rl, cause)

	for _, status := range []int{0, 400, 500, 503} {
		var u *ErrProviderUnavailable
		assert.ErrorAs(t, fromStatus(status, 0, cause), &u, "status %d", status)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"absent", "", 0},
		{"seconds", "12", 12 * time.Second},
		{"http date", now.Add(30 * time.Second).Format(http.TimeFormat), 30 * time.Second},
		{"past date", now.Add(-time.Minute).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Retry-After", tt.header)
			}
			assert.Equal(t, tt.want, parseRetryAfter(h, now))
		})
	}
}

func TestLogging_RecordsEvent(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
	)
	repo := &recordingEventRepo{}
	p := WithLogging(mock, "gemini", repo, zaptest.NewLogger(t))

	ctx := WithPurpose(context.Background(), PurposePracticeQuestion)
	_, err := p.Generate(ctx, UserPrompt("sys", "hello", &Schema{Name: "s", Definition: map[string]any{"type": "object"}}, 100))
	require.NoError(t, err)
	_, err = p.Generate(ctx, UserPrompt("", "again", nil, 100))
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	ok := repo.events[0]
	assert.Equal(t, "gemini", ok.Provider)
	assert.Equal(t, "mock", ok.Model)
	assert.Equal(t, PurposePracticeQuestion, ok.Purpose)
	assert.Equal(t, 12, ok.InputTokens)
	assert.True(t, ok.Success)
	assert.Contains(t, ok.RequestBody, "[system]\nsys")
	assert.Contains(t, ok.RequestBody, "[schema: s]")
	assert.Equal(t, `{"ok":true}`, ok.ResponseBody)

	failed := repo.events[1]
	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "rate limited")
}

func TestLogging_RepoFailureDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, "mock", &recordingEventRepo{err: errors.New("disk full")}, nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.NoError(t, err)
}

func TestRateLimit_SpacesCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
		MockResponse{Content: json.RawMessage(`{}`)},
	)
	// 1200/min is one call every 50ms.
	p := WithRateLimit(mock, 1200)

	start := time.Now()
	for range 2 {
		_, err := p.Generate(context.Background(), Request{})
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, "mock", p.ModelID())
}

func TestRateLimit_DisabledReturnsInner(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, Provider(mock), WithRateLimit(mock, 0))
}

func TestRateLimit_ContextCanceled(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)}, MockResponse{Content: json.RawMessage(`{}`)})
	p := WithRateLimit(mock, 1) // one per minute

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.Generate(ctx, Request{})
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount(), "second call must not reach the provider")
}

func TestTimeout_BoundsCall(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Wait: block})
	p := WithTimeout(mock, 10*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	cfg.Provider = "gemini"
	_, err = NewProvider(context.Background(), cfg, nil, nil)
	assert.Error(t, err, "gemini without key must fail validation")
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.5-flash")
	require.NotNil(t, c)
	assert.InDelta(t, 0.3+2.5, c.Cost(1_000_000, 1_000_000), 1e-9)

	require.NotNil(t, LookupCost("google/gemini-2.5-flash"), "vendor prefix is stripped")
	assert.Nil(t, LookupCost("unknown-model"))
}
