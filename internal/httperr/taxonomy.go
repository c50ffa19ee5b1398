package httperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the non-validation failure classes. Operations
// return these (possibly wrapped); the handler boundary maps them to
// HTTP outcomes and nothing above it ever sees a raw store error.
var (
	ErrNotFound    = errors.New("not_found")
	ErrForbidden   = errors.New("forbidden")
	ErrConcurrency = errors.New("concurrent_modification")
	ErrDependency  = errors.New("has_dependent_records")
)

// ValidationError carries field-scoped messages. The empty field key
// holds form-level messages (e.g. slot conflicts).
type ValidationError struct {
	Fields map[string]string
}

func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = message
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for f, m := range e.Fields {
		if f == "" {
			parts = append(parts, m)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f, m))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
