package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrorKind classifies a failed GitHub request.
type ErrorKind string

const (
	KindNotFound           ErrorKind = "not_found"
	KindRateLimited        ErrorKind = "rate_limited"
	KindForbidden          ErrorKind = "forbidden"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindUnexpectedStatus   ErrorKind = "unexpected_status"
	KindNetwork            ErrorKind = "network_error"
	KindInvalidResponse    ErrorKind = "invalid_response"
)

// Rate-limit headers sent by GitHub on every response.
const (
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// Error is a classified GitHub failure. Message is meant for end users.
type Error struct {
	Kind       ErrorKind
	StatusCode int    // zero for network and decode failures
	ResetAt    string // rate-limit reset hint, "later" when unknown
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps a response status and headers to an Error.
// It returns nil for 2xx statuses and never returns nil otherwise.
func Classify(status int, statusText string, header http.Header, loc *time.Location) *Error {
	if status >= 200 && status < 300 {
		return nil
	}

	switch {
	case status == http.StatusNotFound:
		return &Error{
			Kind:       KindNotFound,
			StatusCode: status,
			Message:    "User not found. Please check the username and try again.",
		}
	case status == http.StatusForbidden && header.Get(HeaderRateLimitRemaining) == "0":
		reset := resetTime(header.Get(HeaderRateLimitReset), loc)
		return &Error{
			Kind:       KindRateLimited,
			StatusCode: status,
			ResetAt:    reset,
			Message:    fmt.Sprintf("API rate limit exceeded. Reset at %s.", reset),
		}
	case status == http.StatusForbidden:
		return &Error{
			Kind:       KindForbidden,
			StatusCode: status,
			Message:    "Access forbidden. You may have been blocked by GitHub.",
		}
	case status >= 500:
		return &Error{
			Kind:       KindServiceUnavailable,
			StatusCode: status,
			Message:    "GitHub API is experiencing issues. Please try again later.",
		}
	default:
		return &Error{
			Kind:       KindUnexpectedStatus,
			StatusCode: status,
			Message:    fmt.Sprintf("GitHub API Error (%d): %s", status, statusText),
		}
	}
}

// resetTime formats the epoch-seconds reset header as HH:MM in loc.
func resetTime(value string, loc *time.Location) string {
	epoch, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || epoch <= 0 {
		return "later"
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(epoch, 0).In(loc).Format("15:04")
}

// StatusText returns the reason phrase of resp ("I'm a teapot" for 418).
func StatusText(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if text := strings.TrimPrefix(resp.Status, prefix); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// NewNetworkError tags a transport failure. Errors that already carry a kind
// and context cancellations are returned unchanged.
func NewNetworkError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &Error{
		Kind:    KindNetwork,
		Message: "Network error. Please check your internet connection.",
		Err:     err,
	}
}

// NewInvalidResponseError tags a successful response whose body could not be decoded.
func NewInvalidResponseError(err error) error {
	return &Error{
		Kind:    KindInvalidResponse,
		Message: "GitHub API returned an unreadable response.",
		Err:     err,
	}
}

// KindOf returns the kind carried anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return "", false
}
