package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrValidation is matched by every ValidationErrors value.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials is returned when the upstream refuses a login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound is returned when a record id is not in the upstream list.
	ErrNotFound = errors.New("not found")
	// ErrResetOutOfOrder is returned when a password-reset step is attempted
	// before the step it depends on.
	ErrResetOutOfOrder = errors.New("password reset step out of order")
)

// FormField is the key used for messages that do not belong to a single field.
const FormField = "form"

// ValidationErrors maps a form field to its message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrValidation }

// orNil returns v as an error, or nil when it holds no messages.
func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// AsValidation extracts field messages from err, or nil.
func AsValidation(err error) ValidationErrors {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v
	}
	return nil
}
