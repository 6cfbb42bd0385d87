package collector

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/cptspacemanspiff/abat/internal/ioreg"
)

var (
	// ErrUnsupportedPlatform is returned when the OS has no ioreg.
	ErrUnsupportedPlatform = errors.New("battery info is only available on macOS")
	// ErrMissingField matches every *MissingFieldError.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidFieldValue matches every *InvalidFieldValueError.
	ErrInvalidFieldValue = errors.New("invalid field value")
)

// MissingFieldError reports a field never seen on AppleSmartBattery,
// including when the object itself is absent.
type MissingFieldError struct {
	Field Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// InvalidFieldValueError reports a recognized property whose value is not a
// non-negative base-10 integer.
type InvalidFieldValueError struct {
	Field    Field
	Property string
	Value    string
}

func (e *InvalidFieldValueError) Error() string {
	return fmt.Sprintf("invalid %s value %q for %s", e.Field, e.Value, e.Property)
}

func (e *InvalidFieldValueError) Is(target error) bool {
	return target == ErrInvalidFieldValue
}

// Error codes returned by Classify.
const (
	CodeMalformedProperty   = "malformed_property"
	CodeMalformedObject     = "malformed_object"
	CodeUnrecognizedLine    = "unrecognized_line"
	CodeInvalidField        = "invalid_field"
	CodeMissingField        = "missing_field"
	CodeUnsupportedPlatform = "unsupported_platform"
	CodeCommand             = "command"
	CodeCanceled            = "canceled"
	CodeUnknown             = "unknown"
)

// Classify maps err to a short code for logs and metric labels.
func Classify(err error) string {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	case errors.Is(err, ErrUnsupportedPlatform):
		return CodeUnsupportedPlatform
	case errors.Is(err, ioreg.ErrMalformedProperty):
		return CodeMalformedProperty
	case errors.Is(err, ioreg.ErrMalformedObject):
		return CodeMalformedObject
	case errors.Is(err, ioreg.ErrUnrecognizedLine):
		return CodeUnrecognizedLine
	case errors.Is(err, ErrInvalidFieldValue):
		return CodeInvalidField
	case errors.Is(err, ErrMissingField):
		return CodeMissingField
	}

	var exitErr *exec.ExitError
	var execErr *exec.Error
	if errors.As(err, &exitErr) || errors.As(err, &execErr) {
		return CodeCommand
	}
	return CodeUnknown
}
