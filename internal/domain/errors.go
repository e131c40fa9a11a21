package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInputMissing is returned when a file a stage reads does not exist.
	ErrInputMissing = errors.New("chainreport: input missing")

	// ErrTransport is returned when a remote service could not be reached
	// or answered with an error.
	ErrTransport = errors.New("chainreport: transport failure")

	// ErrInvalidStatsResponse is returned when the stats API answers with a
	// body that does not have the expected chart layout.
	ErrInvalidStatsResponse = errors.New("chainreport: invalid stats response")

	// ErrMetricUnavailable is returned when the stats API does not serve a
	// metric (non-200 answer). Collectors skip the metric.
	ErrMetricUnavailable = errors.New("chainreport: metric unavailable")

	// ErrCompletionFailed is returned when the language model did not
	// produce an answer.
	ErrCompletionFailed = errors.New("chainreport: completion failed")

	// ErrAlreadyPublished is returned when the report was posted before and
	// duplicate skipping is enabled. It is not a failure.
	ErrAlreadyPublished = errors.New("chainreport: report already published")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("chainreport: invalid configuration")
)

// ErrorKind classifies a failed run so callers can map it to an exit code.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInputMissing
	KindTransportFailure
	KindUnexpectedFailure
)

// String returns a human-readable representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindInputMissing:
		return "InputMissing"
	case KindTransportFailure:
		return "TransportFailure"
	case KindUnexpectedFailure:
		return "UnexpectedFailure"
	default:
		return "Unknown"
	}
}

// KindOf maps err to its kind by looking for the sentinel errors above.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil, errors.Is(err, ErrAlreadyPublished):
		return KindNone
	case errors.Is(err, ErrInputMissing):
		return KindInputMissing
	case errors.Is(err, ErrTransport),
		errors.Is(err, ErrInvalidStatsResponse),
		errors.Is(err, ErrCompletionFailed):
		return KindTransportFailure
	default:
		return KindUnexpectedFailure
	}
}

// Stage names a step of the pipeline.
type Stage string

const (
	StageCollect   Stage = "collect"
	StageSummarize Stage = "summarize"
	StagePost      Stage = "post"
)

// RunError is the result of a failed pipeline stage.
type RunError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

// NewRunError wraps err for stage, deriving the kind from err.
// It returns nil when err is nil.
func NewRunError(stage Stage, err error) *RunError {
	if err == nil {
		return nil
	}
	return &RunError{Stage: stage, Kind: KindOf(err), Err: err}
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
