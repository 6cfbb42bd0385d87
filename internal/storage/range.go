package storage

import (
	"errors"
	"fmt"
)

// MaxRangeSeconds bounds a history query.
const MaxRangeSeconds = 366 * 24 * 60 * 60

// ErrInvalidRange is returned by ValidateRange.
var ErrInvalidRange = errors.New("invalid time range")

// ValidateRange checks a [from, to] query in unix seconds.
func ValidateRange(from, to int64) error {
	switch {
	case from < 0:
		return fmt.Errorf("%w: from must not be negative, got %d", ErrInvalidRange, from)
	case to < from:
		return fmt.Errorf("%w: to (%d) is before from (%d)", ErrInvalidRange, to, from)
	case to-from > MaxRangeSeconds:
		return fmt.Errorf("%w: span of %ds exceeds %ds", ErrInvalidRange, to-from, MaxRangeSeconds)
	}
	return nil
}
