package app

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrPromptEmpty  = errors.New("prompt is empty")

	// ErrCompletion wraps a non-retryable failure from the completion
	// collaborator. The underlying detail is kept for the caller.
	ErrCompletion = errors.New("completion request failed")
)
