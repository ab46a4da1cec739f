package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid caller input: blank names, unknown activity
// types, malformed payloads. Nothing has been written when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError for a field.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConflictError reports an operation refused before any write: a duplicate
// category name/key, or a move that would make a category its own ancestor.
type ConflictError struct {
	Resource string
	Key      string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %q: %s", e.Resource, e.Key, e.Reason)
}

// Conflictf builds a ConflictError.
func Conflictf(resource, key, format string, args ...any) error {
	return &ConflictError{Resource: resource, Key: key, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a reference to an identity absent from the store.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// NotFound builds a NotFoundError.
func NotFound(resource, key string) error {
	return &NotFoundError{Resource: resource, Key: key}
}

// StoreError wraps a failed document-store call. It is propagated as-is with
// the store's diagnostic; no retry happens below the UI layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store wraps err as a StoreError for the named operation.
func Store(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// PartialFailure reports that the first step of a two-step write succeeded but
// the second failed, leaving derived state stale. The activity log and the
// daily summary are not atomically linked; callers get the completed result
// alongside this error and must surface the warning rather than hide it.
type PartialFailure struct {
	Completed string
	Err       error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s succeeded but follow-up failed: %v", e.Completed, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// Partial builds a PartialFailure.
func Partial(completed string, err error) error {
	return &PartialFailure{Completed: completed, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsPartialFailure reports whether err is a PartialFailure.
func IsPartialFailure(err error) bool {
	var target *PartialFailure
	return errors.As(err, &target)
}
