package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for unknown template or session ids.
var ErrNotFound = errors.New("not found")

// ValidationError reports a malformed externally-supplied value, such as an
// unknown report section type or an inverted date range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validationf builds a ValidationError with a formatted reason.
func Validationf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InsufficientData is the structured result returned by pattern and trend
// queries that fall below their minimum-sample thresholds. It is a value,
// not an error: callers present it, they do not recover from it.
type InsufficientData struct {
	Required int    `json:"required"`
	Actual   int    `json:"actual"`
	What     string `json:"what"`
}

func (d InsufficientData) Message() string {
	return fmt.Sprintf("insufficient data: need %d %s, have %d", d.Required, d.What, d.Actual)
}
