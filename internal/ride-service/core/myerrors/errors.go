package myerrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrDBConnClosed    = errors.New("failed to connect to db")
	ErrDBConnClosedMsg = errors.New("internal error, please try again later")

	ErrNotFound           = errors.New("not found")
	ErrInvalidPage        = errors.New("invalid page")
	ErrUnauthorized       = errors.New("authentication credentials were not provided or are invalid")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrEmailRegistered    = errors.New("email already registered")
)

// NonFieldErrors is the key used for rules spanning several fields.
const NonFieldErrors = "non_field_errors"

// ValidationError is a client error with per-field messages.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// FieldError builds a ValidationError with a single message.
func FieldError(field, msg string) *ValidationError {
	return NewValidationError().Add(field, msg)
}

func (v *ValidationError) Add(field, msg string) *ValidationError {
	v.Fields[field] = append(v.Fields[field], msg)
	return v
}

func (v *ValidationError) Empty() bool {
	return len(v.Fields) == 0
}

// OrNil returns nil when no field was added, so callers can `return v.OrNil()`.
func (v *ValidationError) OrNil() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(v.Fields[k], "; ")))
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
