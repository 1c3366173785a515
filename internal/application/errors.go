package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound    = errors.New("not found")
	ErrEmptyInput  = errors.New("no tickets in the snapshot")
	ErrInvalidPath = errors.New("invalid path")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BuildError represents a failure of one variant build. It keeps the
// variant so the caller can tell which half of the document broke.
type BuildError struct {
	Variant string
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building the %s variant: %v", e.Variant, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
