package engine

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound         = errors.New("objective not found")
	ErrConflict         = errors.New("objective already exists")
	ErrInvalidName      = errors.New("invalid objective name")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrTooSoon          = errors.New("submission window not open yet")
)

// TooSoonError is the error form of a TooSoon rejection.
type TooSoonError struct {
	Name    string
	RetryAt time.Time
}

func (e *TooSoonError) Error() string {
	return fmt.Sprintf("objective %q cannot be submitted again until %s", e.Name, e.RetryAt.Format(time.RFC3339))
}

func (e *TooSoonError) Is(target error) bool { return target == ErrTooSoon }
