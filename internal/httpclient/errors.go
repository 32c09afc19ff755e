// ABOUTME: Error taxonomy for API calls: business errors from the envelope and classified transport failures
// ABOUTME: Cancellation is never wrapped so callers can test it with errors.Is(err, context.Canceled)
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Kind classifies a failed call for user-facing messaging.
type Kind string

const (
	KindAPI          Kind = "api"
	KindUnauthorized Kind = "unauthorized"
	KindNetwork      Kind = "network"
	KindTimeout      Kind = "timeout"
	KindServer       Kind = "server"
	KindNotFound     Kind = "not_found"
	KindRateLimited  Kind = "rate_limited"
	KindOther        Kind = "other"
)

// Default codes and messages applied when the server omits them.
const (
	CodeUnknown      = "UNKNOWN_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	MessageGeneric   = "request failed"
)

// ErrSessionExpired is returned when a 401 cannot be recovered by a token refresh.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError is the single error type surfaced by Client for non-cancellation failures.
type APIError struct {
	Kind       Kind
	Status     int
	Code       string
	Message    string
	Details    []byte
	RetryAfter time.Duration
	Method     string
	Path       string
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Title is a short heading suitable for a toast or CLI banner.
func (e *APIError) Title() string {
	switch e.Kind {
	case KindNetwork:
		return "Network error"
	case KindTimeout:
		return "Request timed out"
	case KindServer:
		return "Server error"
	case KindNotFound:
		return "Not found"
	case KindRateLimited:
		return "Too many requests"
	case KindUnauthorized:
		return "Login required"
	default:
		return "Request failed"
	}
}

// Blocking reports whether the failure should interrupt the user rather than be shown softly.
func (e *APIError) Blocking() bool {
	switch e.Kind {
	case KindNotFound:
		return false
	}
	return true
}

func newTransportError(method, path string, kind Kind, timeout time.Duration, err error) *APIError {
	e := &APIError{Kind: kind, Method: method, Path: path, Err: err}
	switch kind {
	case KindTimeout:
		if timeout >= time.Second {
			timeout = timeout.Round(time.Second)
		}
		e.Message = fmt.Sprintf("request timed out after %s", timeout)
	case KindNetwork:
		e.Message = "cannot reach the server, check that the backend is running and reachable"
	default:
		e.Message = MessageGeneric
	}
	return e
}

func newStatusError(method, path string, status int, header http.Header, env *errorBody) *APIError {
	e := &APIError{Status: status, Method: method, Path: path, Code: CodeUnknown}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
		e.RetryAfter = parseRetryAfter(header.Get("Retry-After"))
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindOther
	}
	if env != nil {
		env.applyTo(e)
	}
	if e.Message == "" || e.Message == MessageGeneric {
		e.Message = statusMessage(e)
	}
	return e
}

// newEnvelopeError builds the error for a success:false envelope. Codes that name
// a transport condition take its kind so not-found stays soft.
func newEnvelopeError(method, path string, status int, env *errorBody) *APIError {
	e := &APIError{Kind: KindAPI, Status: status, Code: CodeUnknown, Method: method, Path: path}
	env.applyTo(e)
	switch strings.ToUpper(e.Code) {
	case CodeNotFound:
		e.Kind = KindNotFound
	case CodeUnauthorized:
		e.Kind = KindUnauthorized
	}
	if e.Message == "" {
		e.Message = MessageGeneric
	}
	return e
}

func statusMessage(e *APIError) string {
	switch e.Kind {
	case KindNotFound:
		return "the requested resource does not exist"
	case KindServer:
		return fmt.Sprintf("server error (%d), please try again later", e.Status)
	case KindRateLimited:
		if e.RetryAfter > 0 {
			return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
		}
		return "too many requests, please slow down"
	case KindUnauthorized:
		return ErrSessionExpired.Error()
	default:
		if e.Code != "" && e.Code != CodeUnknown {
			return e.Code
		}
		return MessageGeneric
	}
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	var secs int
	if _, err := fmt.Sscanf(v, "%d", &secs); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}

func kindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNotFound reports a 404; callers typically treat it as an expected empty state.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsTimeout reports a per-call deadline expiry.
func IsTimeout(err error) bool { return kindOf(err) == KindTimeout }

// IsNetwork reports an unreachable backend.
func IsNetwork(err error) bool { return kindOf(err) == KindNetwork }

// IsUnauthorized reports a terminal authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrSessionExpired) || kindOf(err) == KindUnauthorized
}

// IsCanceled reports caller-initiated cancellation, which must not be surfaced to users.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
