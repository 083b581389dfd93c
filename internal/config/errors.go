package config

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeCoercion is returned when a supplied value cannot be converted to its field's declared type.
	ErrTypeCoercion = errors.New("value cannot be coerced to the declared type")
	// ErrUnknownFormat is returned when the definitions file exists but cannot be parsed.
	ErrUnknownFormat = errors.New("definitions file has an unknown format")
	// ErrOutOfRange is returned by Validate when a value lies outside its permitted range.
	ErrOutOfRange = errors.New("settings out of range")
)

// FieldError reports the field, source layer and value that failed coercion.
// Values of secret fields are never recorded.
type FieldError struct {
	Field  string
	Source Source
	Value  string
	Err    error

	secret bool
}

func newFieldError(f field, src Source, raw any, err error) *FieldError {
	fe := &FieldError{
		Field:  f.name,
		Source: src,
		Err:    err,
		secret: f.secret,
	}
	if !f.secret {
		fe.Value = fmt.Sprint(raw)
	}
	return fe
}

func (e *FieldError) Error() string {
	if e.secret {
		return fmt.Sprintf("field %s from %s: %v", e.Field, e.Source, e.Err)
	}
	return fmt.Sprintf("field %s from %s: cannot use %q: %v", e.Field, e.Source, e.Value, e.Err)
}

// Unwrap lets errors.Is match both ErrTypeCoercion and the underlying cause.
func (e *FieldError) Unwrap() []error {
	return []error{ErrTypeCoercion, e.Err}
}
