package models

import (
	"errors"
	"fmt"
)

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout      = "SCRAPE_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrInvalidInput is the only error Acquire ever returns to its caller.
var ErrInvalidInput = errors.New("invalid input")

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// NewInvalidInput creates an INVALID_INPUT ScrapeError that matches
// ErrInvalidInput under errors.Is.
func NewInvalidInput(message string) *ScrapeError {
	return NewScrapeError(ErrCodeInvalidInput, message, ErrInvalidInput)
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// FetchErrorKind classifies why a backend could not return usable HTML.
type FetchErrorKind int

const (
	FetchNetwork FetchErrorKind = iota
	FetchForbidden
	FetchTimeout
	FetchBlocked
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchNetwork:
		return "network"
	case FetchForbidden:
		return "forbidden"
	case FetchTimeout:
		return "timeout"
	case FetchBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// FetchError is returned by acquisition backends. The dispatcher treats every
// FetchError as a soft failure.
type FetchError struct {
	Kind    FetchErrorKind
	Engine  string
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Engine, e.Message, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Engine, e.Message, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError.
func NewFetchError(kind FetchErrorKind, engine, message string, err error) *FetchError {
	return &FetchError{Kind: kind, Engine: engine, Message: message, Err: err}
}

// IsBlocked reports whether err is a FetchError caused by bot protection.
// Other 4xx responses (FetchForbidden) are plain refusals, not a bot wall.
func IsBlocked(err error) bool {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return false
	}
	return fe.Kind == FetchBlocked
}
