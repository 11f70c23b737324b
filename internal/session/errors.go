package session

import "errors"

var (
	ErrSessionLocked       = errors.New("session is submitted or read-only")
	ErrIndexOutOfRange     = errors.New("question index out of range")
	ErrOptionNotFound      = errors.New("option does not belong to question")
	ErrWrongQuestionType   = errors.New("operation does not apply to question type")
	ErrAlreadySubmitted    = errors.New("session already submitted")
	ErrSubmissionInFlight  = errors.New("submission already in progress")
	ErrNoPendingEscape     = errors.New("no escape attempt awaiting confirmation")
	ErrUnsupportedQuestion = errors.New("question record is malformed")
)
