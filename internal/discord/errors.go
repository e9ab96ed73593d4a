package discord

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// JSON error codes returned by the Discord API that callers act on.
const (
	CodeUnknownUser              = 10013
	CodeCannotSendMessagesToUser = 50007
)

// APIError is a non-2xx response from the Discord REST API. Code is the
// JSON error code from the body and is zero when the body had none.
type APIError struct {
	Status     int
	Code       int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("discord: HTTP %d: %s (code %d)", e.Status, e.Message, e.Code)
	}
	if e.Message != "" {
		return fmt.Sprintf("discord: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("discord: HTTP %d", e.Status)
}

// HasCode reports whether err is an APIError carrying the given JSON code.
func HasCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsRateLimited reports whether err is a 429 response, and how long
// Discord asked the caller to wait.
func IsRateLimited(err error) (time.Duration, bool) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusTooManyRequests {
		return 0, false
	}
	return apiErr.RetryAfter, true
}
