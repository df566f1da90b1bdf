package dailyquiz

import (
	"github.com/nexthire/nexthire/internal/question"
	"github.com/nexthire/nexthire/internal/store"
)

// State is a snapshot of a Quiz: one of Loading, Idle, Generating, Active
// or Results.
type State interface {
	isState()
}

// Loading is the initial state while today's record is looked up.
type Loading struct{}

// Idle waits for Start. Message explains the last failure, if any.
type Idle struct {
	Err     error
	Message string
}

// Generating assembles the quiz. Done counts questions received so far.
type Generating struct {
	Done  int
	Total int
}

// Active is a quiz being answered. Answers is index-aligned with
// Questions; an empty string means unanswered.
type Active struct {
	Questions []question.Question
	Answers   []string
	Index     int
}

// Current returns the question at Index.
func (a Active) Current() question.Question { return a.Questions[a.Index] }

// IsLast reports whether Index is the final question.
func (a Active) IsLast() bool { return a.Index == len(a.Questions)-1 }

// Answered returns the number of questions with an answer.
func (a Active) Answered() int {
	n := 0
	for _, ans := range a.Answers {
		if ans != "" {
			n++
		}
	}
	return n
}

// ReviewItem pairs a question with the answer given to it.
type ReviewItem struct {
	Question question.Question
	Answer   string
	Correct  bool
}

// Results shows today's score. Review is empty when the record was loaded
// rather than produced by this session.
type Results struct {
	Record store.DailyScoreRecord
	Streak store.StreakState
	Review []ReviewItem

	// SaveFailed is set when the score could not be persisted; Record then
	// holds the local result.
	SaveFailed bool
	Err        error
	Message    string
}

func (Loading) isState()    {}
func (Idle) isState()       {}
func (Generating) isState() {}
func (Active) isState()     {}
func (Results) isState()    {}
