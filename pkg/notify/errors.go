package notify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyName is returned when a change notification is requested with an
// empty member name. This check always runs, in every build mode.
var ErrEmptyName = errors.New("notify: member name is empty")

// ErrUnknownMember is returned by ValidateName when a member name does not
// resolve to any readable member of the target's shape.
var ErrUnknownMember = errors.New("notify: member name does not resolve to a readable member")

// ErrIsIndexer is returned by ValidateName when a plain member name (no "[]"
// suffix) resolves to an indexed member. Indexed members must be notified
// using the indexer marker, e.g. "Items[]".
var ErrIsIndexer = errors.New("notify: member is indexed, name must carry the \"[]\" marker")

// ErrNotIndexer is returned by ValidateName when a name carrying the "[]"
// marker resolves to a member that is not indexed.
var ErrNotIndexer = errors.New("notify: member is not indexed, name must not carry the \"[]\" marker")

// ErrReentrantMutation is returned when a structural mutation is attempted
// from within a notification handler of the same entity. This is a
// programmer error; no mutation occurred.
var ErrReentrantMutation = errors.New("notify: structural mutation attempted from within a notification handler")

// ErrIndexOutOfRange is returned by indexed operations when the index falls
// outside the valid range. No mutation occurred.
var ErrIndexOutOfRange = errors.New("notify: index out of range")

// ValidationError is returned by Set when the caller-supplied validate
// function rejected the candidate value. The field was not mutated and no
// notification fired.
type ValidationError struct {
	Name    string // member name the Set targeted
	Message string // rejection message from the validate function
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("notify: validation of %q failed: %s", e.Name, e.Message)
}

// RangeError is returned by Set when the candidate value falls outside the
// configured inclusive bounds. The field was not mutated and no notification
// fired.
type RangeError struct {
	Name      string
	Candidate any
	Min       any
	Max       any
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("notify: value %v for %q outside range [%v, %v]", e.Candidate, e.Name, e.Min, e.Max)
}

// AggregateError carries every listener failure collected during a single
// notification dispatch, in invocation order. It is surfaced only after all
// listeners have run and, for Set, after the mutation and change callbacks
// have completed. Callers should treat it as information about listener
// health, not as a reason to retry the mutation: the mutation committed.
type AggregateError struct {
	Errors []error
}

// Error implements the error interface.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("notify: 1 listener failed: %v", e.Errors[0])
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("notify: %d listeners failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns all collected errors so errors.Is and errors.As traverse
// every listener failure, not just the first.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// Aggregate flattens a list of errors into a single *AggregateError,
// splicing the contents of any nested *AggregateError so that per-listener
// ordering is preserved end to end. Returns nil when the list is empty.
func Aggregate(errs ...error) error {
	if len(errs) == 0 {
		return nil
	}
	var flat []error
	for _, err := range errs {
		if agg, ok := err.(*AggregateError); ok {
			flat = append(flat, agg.Errors...)
		} else {
			flat = append(flat, err)
		}
	}
	return &AggregateError{Errors: flat}
}
