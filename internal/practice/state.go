package practice

import "github.com/nexthire/nexthire/internal/question"

// State is a snapshot of a Session. It is one of NotStarted, Active or
// Complete.
type State interface {
	isState()
}

// NotStarted is the initial state, and the state after Restart.
type NotStarted struct{}

// Step is the sub-state of an active session.
type Step int

const (
	// StepLoading waits for the next question. Question is nil.
	StepLoading Step = iota
	// StepTranslating waits for the current question in a new language.
	// Question still holds the previous version.
	StepTranslating
	// StepAnswering shows Question and collects Answer.
	StepAnswering
	// StepFeedback shows the graded result of Answer.
	StepFeedback
	// StepFailed shows Err; Retry fetches again.
	StepFailed
)

var stepNames = [...]string{"loading", "translating", "answering", "feedback", "failed"}

func (s Step) String() string {
	if int(s) < len(stepNames) {
		return stepNames[s]
	}
	return "unknown"
}

// Feedback is the graded result of one answer.
type Feedback struct {
	IsCorrect   bool
	Explanation string

	// Encouragement is set for correct answers only.
	Encouragement string
}

// Active is an in-progress session.
type Active struct {
	Config question.SessionConfig

	// Language is the language questions are currently requested in. It
	// differs from Config.Language after a ChangeLanguage.
	Language string

	// QuestionNumber is 1-based and never decreases.
	QuestionNumber int
	Score          int

	// Total is the session length; for endless categories it is only a
	// display denominator.
	Total int

	Step     Step
	Question *question.Question
	Answer   string

	// Feedback is non-nil only in StepFeedback.
	Feedback *Feedback

	// Err is the last failure. It is set in StepFailed, and in
	// StepAnswering after a failed translation.
	Err     error
	Message string
}

// Complete is a finished session.
type Complete struct {
	Config question.SessionConfig
	Score  int
	Total  int

	// PerfectScore is true when every question was answered correctly
	// in a graded category.
	PerfectScore bool

	// PopupVisible is the celebration overlay; DismissPopup hides it.
	PopupVisible bool

	// SaveWarning is set when the completion could not be recorded.
	SaveWarning string
}

func (NotStarted) isState() {}
func (Active) isState()     {}
func (Complete) isState()   {}
