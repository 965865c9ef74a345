package stock

import (
	"errors"
	"strings"
)

var (
	// Validation errors
	ErrInvalidInput = errors.New("invalid stock input")
	ErrInvalidID    = errors.New("invalid stock id")
	ErrInvalidDate  = errors.New("invalid purchase date")

	// Data errors
	ErrStockNotFound = errors.New("stock not found")
)

// FieldError describes a single rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field errors for a rejected CreateInput.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// Add records a field error. Only the first error per field is kept.
func (e *ValidationError) Add(field, message string) {
	if e.Has(field) {
		return
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Has reports whether field already carries an error
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Merge copies the fields of other that are not already present
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for _, f := range other.Fields {
		e.Add(f.Field, f.Message)
	}
}

// ErrOrNil returns nil when no field error was recorded
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
