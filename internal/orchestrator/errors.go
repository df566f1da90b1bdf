package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexthire/nexthire/internal/llm"
	"github.com/nexthire/nexthire/internal/netcheck"
	"github.com/nexthire/nexthire/internal/questiongen"
)

// ErrPersistence marks a failed score store write. Session machines wrap
// store errors with it so Classify can tell them apart.
var ErrPersistence = errors.New("persistence failure")

// Kind classifies an engine error for user-facing reporting.
type Kind int

const (
	KindNone Kind = iota
	KindNetworkUnavailable
	KindRateLimited
	KindGenerationFormat
	KindPersistence
	KindCanceled
	KindGeneric
)

var kindNames = map[Kind]string{
	KindNone:               "ok",
	KindNetworkUnavailable: "offline",
	KindRateLimited:        "rate_limited",
	KindGenerationFormat:   "format",
	KindPersistence:        "persistence",
	KindCanceled:           "canceled",
	KindGeneric:            "generic",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Classify maps err onto a Kind. Connectivity is checked first, then
// throttling, which is matched both by type and by message signature.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, netcheck.ErrOffline) {
		return KindNetworkUnavailable
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if llm.IsRateLimited(err) {
		return KindRateLimited
	}

	var fe *questiongen.FormatError
	var inv *llm.ErrInvalidResponse
	var trunc *llm.ErrMaxTokensExceeded
	if errors.As(err, &fe) || errors.As(err, &inv) || errors.As(err, &trunc) {
		return KindGenerationFormat
	}
	if errors.Is(err, ErrPersistence) {
		return KindPersistence
	}
	return KindGeneric
}

// User-facing messages.
const (
	MsgServiceBusy     = "The AI service is currently busy. Please wait a few moments and try starting the quiz again."
	MsgFetchBusy       = "The AI service is currently busy. Please wait a few moments and try again."
	MsgDailyOffline    = "You must be online to start the daily quiz."
	MsgPracticeOffline = "Practice requires an internet connection."
	MsgSaveFailed      = "Could not save your quiz score. Your results are shown but may not be saved."
)

// UserMessage renders a daily quiz generation failure.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindNetworkUnavailable:
		return MsgDailyOffline
	case KindRateLimited:
		return MsgServiceBusy
	case KindPersistence:
		return MsgSaveFailed
	}
	return fmt.Sprintf("Failed to generate quiz: %s. Please try again later.", detail(err))
}

// FetchMessage renders a practice question fetch failure.
func FetchMessage(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindNetworkUnavailable:
		return MsgPracticeOffline
	case KindRateLimited:
		return MsgFetchBusy
	}
	return fmt.Sprintf("Failed to fetch question: %s. Please try again.", detail(err))
}

// detail prefers the short format message over the wrapped chain.
func detail(err error) string {
	var fe *questiongen.FormatError
	if errors.As(err, &fe) {
		return fe.Msg
	}
	return err.Error()
}
