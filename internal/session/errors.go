package session

import "errors"

var (
	ErrNotActive             = errors.New("session is not active")
	ErrNotLoading            = errors.New("session already loaded")
	ErrUnknownQuestion       = errors.New("question is not part of this test")
	ErrQuestionBusy          = errors.New("a run or submit is already in flight for this question")
	ErrEmptySource           = errors.New("source code is empty")
	ErrNoPendingConfirmation = errors.New("no submission is awaiting confirmation")
	ErrNothingToRetry        = errors.New("nothing to retry")
	// ErrQuestionResolution marks a question reference that could not be loaded.
	// The controller recovers by leaving the question out of the session.
	ErrQuestionResolution = errors.New("question resolution failed")
)
