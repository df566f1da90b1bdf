package questiongen

// Messages reported when the model output cannot be used.
const (
	MsgInvalidQuestion = "The AI returned an invalid practice question format."
	MsgInvalidBatch    = "The AI returned an invalid format for multiple questions."
)

// FormatError reports a generator response that could not be turned into
// questions.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return e.Msg + " (" + e.Err.Error() + ")"
	}
	return e.Msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
