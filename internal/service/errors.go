package service

import "errors"

var (
	// ErrMalformedGeneration means the AI provider's question-set response
	// could not be parsed even after repair. No interview is created; the
	// caller must resubmit.
	ErrMalformedGeneration = errors.New("question generation response was malformed")

	// ErrMalformedFeedback means the feedback response could not be parsed.
	// The session stays completed without feedback; feedback generation can
	// be retried independently.
	ErrMalformedFeedback = errors.New("feedback response was malformed")

	ErrFeedbackExists = errors.New("feedback already generated for this session")
)
