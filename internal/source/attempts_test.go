package source

import (
	"errors"
	"testing"
	"time"
)

func TestAttemptLogRecordsOutcomes(t *testing.T) {
	var log AttemptLog

	log.Record(NameBrowse, &ErrTimeout{Source: NameBrowse, Elapsed: time.Second}, time.Second)
	log.Record(NamePiped, &ErrUpstream{Source: NamePiped, Status: 502}, 40*time.Millisecond)
	log.Record(NameInvidious, &ErrMalformed{Source: NameInvidious, Cause: errors.New("no items")}, time.Millisecond)
	log.Record(NameWatchPage, nil, time.Millisecond)

	want := []Outcome{OutcomeTimeout, OutcomeUpstream, OutcomeMalformed, OutcomeSuccess}
	if len(log) != len(want) {
		t.Fatalf("got %d attempts, want %d", len(log), len(want))
	}
	for i, outcome := range want {
		if log[i].Outcome != outcome {
			t.Errorf("attempt %d outcome = %s, want %s", i, log[i].Outcome, outcome)
		}
	}
}

func TestAttemptLogWrappedErrors(t *testing.T) {
	// Outcome classification sees through wrapping.
	var log AttemptLog
	wrapped := &ErrMalformed{
		Source: NamePiped,
		Cause:  &ErrUpstream{Source: NamePiped, Status: 500},
	}
	log.Record(NamePiped, wrapped, 0)

	if log[0].Outcome != OutcomeUpstream {
		t.Errorf("outcome = %s, want %s", log[0].Outcome, OutcomeUpstream)
	}
}

func TestAttemptLogString(t *testing.T) {
	var log AttemptLog
	if got := log.String(); got != "no sources attempted" {
		t.Errorf("empty log String() = %q", got)
	}

	log.Record(NameBrowse, &ErrTimeout{Source: NameBrowse}, time.Second)
	log.Record(NamePiped, nil, time.Millisecond)

	want := "browse=timeout, piped=success"
	if got := log.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
