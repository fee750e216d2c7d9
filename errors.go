package realvalue

import (
	"errors"
	"fmt"
)

// InsufficientDataError reports a series that cannot seed or sustain alignment.
type InsufficientDataError struct {
	Series string // series identifier
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data in series %q: %s", e.Series, e.Reason)
}

// BaselineNotFoundError reports a baseline month outside of the available data.
type BaselineNotFoundError struct {
	Baseline   Month
	Start, End Month
}

func (e *BaselineNotFoundError) Error() string {
	return fmt.Sprintf("baseline month %s is outside of available data %s..%s", e.Baseline, e.Start, e.End)
}

// IndexMismatchError reports aligned series that do not share the same months.
//
// It always points at an alignment bug upstream of the computation.
type IndexMismatchError struct {
	What      string // name of the offending series
	Want, Got MonthRange
}

func (e *IndexMismatchError) Error() string {
	return fmt.Sprintf("month index mismatch for %s: got %s want %s", e.What, e.Got, e.Want)
}

// ErrNoResults is returned when there is nothing to assemble.
var ErrNoResults = errors.New("no results to report")

// NoResultsError wraps ErrNoResults with the context that produced it.
type NoResultsError struct {
	Failures int // number of pairs that failed, if any
}

func (e *NoResultsError) Error() string {
	if e.Failures > 0 {
		return fmt.Sprintf("%v: all %d pairs failed", ErrNoResults, e.Failures)
	}
	return ErrNoResults.Error()
}

func (e *NoResultsError) Unwrap() error { return ErrNoResults }
