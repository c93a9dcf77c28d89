package reviewpipe

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotFound is returned by object store reads for absent keys.
	ErrNotFound = errors.New("reviewpipe: object not found")

	// ErrConfigMissing marks an absent configuration value. Callers fall
	// back to a documented default and log a warning rather than fail.
	ErrConfigMissing = errors.New("reviewpipe: configuration value missing")

	// ErrStageConflict is returned when a transition would regress a
	// document to an earlier stage.
	ErrStageConflict = errors.New("reviewpipe: document stage conflict")

	// ErrStoreNotConfigured is returned when a required collaborator is
	// missing from the pipeline options.
	ErrStoreNotConfigured = errors.New("reviewpipe: store not configured")
)

// MalformedInputError marks a document that cannot be parsed as the
// expected schema. It is not retried; the review is skipped.
type MalformedInputError struct {
	Key string // Storage key of the offending document, if known
	Err error
}

func (e *MalformedInputError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("reviewpipe: malformed input %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("reviewpipe: malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// NewMalformedInputError creates a new malformed input error.
func NewMalformedInputError(key string, err error) *MalformedInputError {
	return &MalformedInputError{Key: key, Err: err}
}

// CollaboratorError marks a failed call to an external collaborator
// (object store, counter store, config store) due to availability.
// It is distinguishable so the invocation layer can retry the whole
// review, which is safe because storage keys are deterministic.
type CollaboratorError struct {
	Collaborator string // "objstore", "counter", "config"
	Operation    string // "get", "put", "increment", ...
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("reviewpipe: %s %s failed: %v", e.Collaborator, e.Operation, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// NewCollaboratorError creates a new collaborator error.
func NewCollaboratorError(collaborator, operation string, err error) *CollaboratorError {
	return &CollaboratorError{Collaborator: collaborator, Operation: operation, Err: err}
}

// CounterError marks a failed violation count. The review still
// completes and routes to flagged storage; the author's cumulative
// count is under-counted for this one review.
type CounterError struct {
	ReviewerID string
	Err        error
}

func (e *CounterError) Error() string {
	return fmt.Sprintf("reviewpipe: violation count for reviewer %s failed: %v", e.ReviewerID, e.Err)
}

func (e *CounterError) Unwrap() error {
	return e.Err
}

// IsMalformed checks if an error marks unparseable input.
func IsMalformed(err error) bool {
	var me *MalformedInputError
	return errors.As(err, &me)
}

// IsTransient checks if an error marks a transient collaborator
// failure, i.e. whether retrying the whole review may succeed.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if IsMalformed(err) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrStageConflict) {
		return false
	}
	var ce *CollaboratorError
	return errors.As(err, &ce)
}

// IsNotFound checks if an error marks an absent object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
