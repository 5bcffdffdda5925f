package alignment

import "errors"

var (
	// ErrTooFewSamples is returned when fewer than two samples are supplied
	ErrTooFewSamples = errors.New("alignment requires at least two samples")

	// ErrNilScorer is returned when no similarity scorer is supplied
	ErrNilScorer = errors.New("similarity scorer is nil")

	// ErrNonFiniteScore is returned when the scorer produces NaN or an infinity
	ErrNonFiniteScore = errors.New("similarity score is not finite")

	// ErrInvalidOptions wraps every option validation failure
	ErrInvalidOptions = errors.New("invalid alignment options")
)
