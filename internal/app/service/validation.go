package service

import "sort"

// ValidationError aggregates field-level problems so a client sees every
// issue in one response instead of the first one hit.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// ErrOrNil returns the error when any field failed, nil otherwise.
// Returning the concrete type directly would make a non-nil interface
// out of a nil pointer.
func (e *ValidationError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// First returns one of the collected messages, for callers that render
// a single message instead of the field map. Field order follows sorted
// field names so the choice is stable.
func (e *ValidationError) First() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if len(e.Fields[field]) > 0 {
			return e.Fields[field][0]
		}
	}
	return "validation failed"
}

func (e *ValidationError) Error() string {
	for field, messages := range e.Fields {
		if len(messages) > 0 {
			return field + ": " + messages[0]
		}
	}
	return "validation failed"
}
