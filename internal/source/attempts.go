package source

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Outcome classifies how one source attempt ended.
type Outcome string

// Known attempt outcomes.
const (
	OutcomeSuccess   Outcome = "success"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeMalformed Outcome = "malformed"
	OutcomeUpstream  Outcome = "upstream-error"
)

// Attempt records one (source, outcome) pair during orchestration. Used
// only for diagnostics and the final aggregate-error message; attempt
// detail never crosses the API boundary.
type Attempt struct {
	Source  Name
	Outcome Outcome
	Err     error
	Elapsed time.Duration
}

// AttemptLog accumulates attempts in the order they were made.
type AttemptLog []Attempt

// Record appends an attempt, deriving the outcome from err.
func (l *AttemptLog) Record(src Name, err error, elapsed time.Duration) {
	*l = append(*l, Attempt{
		Source:  src,
		Outcome: classifyOutcome(err),
		Err:     err,
		Elapsed: elapsed,
	})
}

// String renders the log for operator-facing error messages.
func (l AttemptLog) String() string {
	if len(l) == 0 {
		return "no sources attempted"
	}
	parts := make([]string, 0, len(l))
	for _, a := range l {
		parts = append(parts, fmt.Sprintf("%s=%s", a.Source, a.Outcome))
	}
	return strings.Join(parts, ", ")
}

// classifyOutcome maps an attempt error to its diagnostic outcome.
func classifyOutcome(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var timeout *ErrTimeout
	if errors.As(err, &timeout) {
		return OutcomeTimeout
	}
	var upstream *ErrUpstream
	if errors.As(err, &upstream) {
		return OutcomeUpstream
	}
	return OutcomeMalformed
}
