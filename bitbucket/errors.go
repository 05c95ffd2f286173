package bitbucket

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid bitbucket configuration")
	// ErrRequestFailed is matched by every *RequestError
	ErrRequestFailed = errors.New("bitbucket request failed")
	// ErrCanceled indicates the caller canceled the call before it completed
	ErrCanceled = errors.New("bitbucket request canceled")
	// ErrUnexpectedContent indicates a non-empty body on an operation that returns nothing
	ErrUnexpectedContent = errors.New("unexpected response content")
)

// ErrorMessage is a single entry of a Bitbucket error payload
type ErrorMessage struct {
	Context       string `json:"context,omitempty"`
	Message       string `json:"message"`
	ExceptionName string `json:"exceptionName,omitempty"`
}

// ErrorResponse is the body Bitbucket returns with non-2xx responses
type ErrorResponse struct {
	Errors []ErrorMessage `json:"errors"`
}

// Messages returns the message of every entry in server order
func (r *ErrorResponse) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// RequestError represents a response with a status code of 300 or above
type RequestError struct {
	StatusCode int
	Status     string
	Messages   []string
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return fmt.Sprintf("http request failed (%d - %s):\n%s", e.StatusCode, e.Status, e.Message())
}

// Message returns the server messages joined with newlines
func (e *RequestError) Message() string {
	return strings.Join(e.Messages, "\n")
}

// Is lets errors.Is match ErrRequestFailed
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// IsNotFound checks if the error indicates a not found response
func (e *RequestError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *RequestError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// DecodeError indicates a body that does not match the expected JSON shape
type DecodeError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TransportError wraps a network level failure from the HTTP client
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// canceled wraps a context error so callers can match both ErrCanceled and
// context.Canceled / context.DeadlineExceeded.
func canceled(cause error) error {
	return fmt.Errorf("%w: %w", ErrCanceled, cause)
}

// IsNotFound reports whether err is a RequestError with status 404
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.IsNotFound()
}
