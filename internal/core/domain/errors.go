package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	// ErrConfiguration marks startup misconfiguration. It must abort the process.
	ErrConfiguration = errors.New("configuration error")
	// ErrDependency wraps failures of the backing store or cache.
	ErrDependency = errors.New("dependency unavailable")
)

// ValidationError carries field-level reasons. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError with a single field reason.
func NewValidationError(field, reason string) *ValidationError {
	ve := &ValidationError{}
	ve.Add(field, reason)
	return ve
}

// Add records a reason for field. The first reason per field wins.
func (e *ValidationError) Add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = reason
	}
}

// OrNil returns nil when no field was recorded.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+" "+e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
