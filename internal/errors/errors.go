// Package errors provides centralized error definitions and error handling utilities
// for procdash. It defines domain-specific errors, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent failures of a specific subsystem:
//   - APIError: a request to the purchase-request API failed
//   - SessionError: the login session is missing, expired or unusable
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// # Usage
//
//	err := errors.NewAPIError("list purchase requests", errors.ErrRequestFailed).
//	    WithEndpoint("/purchase-requests").
//	    WithStatus(502)
//
//	if errors.Is(err, errors.ErrUnauthorized) { ... }
//
//	var apiErr *errors.APIError
//	if errors.As(err, &apiErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Session-related sentinel errors
var (
	// ErrNoSession indicates that nobody is logged in.
	ErrNoSession = New("no active session")
	// ErrSessionExpired indicates that the stored session token has expired.
	ErrSessionExpired = New("session expired")
	// ErrSessionVersion indicates that the stored session was written by an
	// incompatible version and must be recreated.
	ErrSessionVersion = New("session version mismatch")
	// ErrUnauthorized indicates that the API rejected the session token.
	ErrUnauthorized = New("unauthorized")
)

// API-related sentinel errors
var (
	// ErrRequestFailed indicates that the API answered with a non-success status.
	ErrRequestFailed = New("request failed")
	// ErrDecode indicates that an API response body could not be decoded.
	ErrDecode = New("malformed response")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// ProcdashError is the base interface for all procdash errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type ProcdashError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) IsRetryable() bool  { return e.retryable }
func (e *baseError) IsUserFacing() bool { return e.userFacing }

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// APIError represents a failed call to the purchase-request API.
//
// Example:
//
//	err := errors.NewAPIError("count purchase requests", errors.ErrRequestFailed).
//	    WithEndpoint("/purchase-requests").WithStatus(503)
//	fmt.Println(err) // "api error [endpoint=/purchase-requests, status=503]: count purchase requests: request failed"
type APIError struct {
	baseError
	Endpoint   string
	StatusCode int
	RequestID  string
}

// NewAPIError creates a new APIError.
func NewAPIError(message string, cause error) *APIError {
	return &APIError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithEndpoint adds the request path to the error context.
func (e *APIError) WithEndpoint(endpoint string) *APIError {
	e.Endpoint = endpoint
	return e
}

// WithStatus records the HTTP status code. Server errors and throttling
// responses are marked retryable.
func (e *APIError) WithStatus(code int) *APIError {
	e.StatusCode = code
	e.retryable = code >= 500 || code == http.StatusTooManyRequests
	return e
}

// WithRequestID records the X-Request-ID sent with the failed request.
func (e *APIError) WithRequestID(id string) *APIError {
	e.RequestID = id
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *APIError) WithRetryable(r bool) *APIError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *APIError) Error() string {
	var parts []string
	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if e.RequestID != "" {
		parts = append(parts, fmt.Sprintf("request=%s", e.RequestID))
	}

	prefix := "api error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("api error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *APIError) Is(target error) bool {
	if _, ok := target.(*APIError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// SessionError represents errors related to the login session.
//
// Example:
//
//	err := errors.NewSessionError("load session", errors.ErrSessionExpired).WithUsername("ana")
//	fmt.Println(err) // "session error [user=ana]: load session: session expired"
type SessionError struct {
	baseError
	Username string
}

// NewSessionError creates a new SessionError.
func NewSessionError(message string, cause error) *SessionError {
	return &SessionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithUsername adds the session owner to the error context.
func (e *SessionError) WithUsername(name string) *SessionError {
	e.Username = name
	return e
}

// Error returns the formatted error message.
func (e *SessionError) Error() string {
	prefix := "session error"
	if e.Username != "" {
		prefix = fmt.Sprintf("session error [user=%s]", e.Username)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SessionError) Is(target error) bool {
	if _, ok := target.(*SessionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("unknown filter field").WithField("filter").WithValue("colour")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// NotFoundError reports a resource the caller named that does not exist,
// such as a theme or an API endpoint.
//
// Example:
//
//	err := errors.NewNotFoundError("theme", "neon")
//	fmt.Println(err) // "theme 'neon' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Is matches any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pErr ProcdashError
	if As(err, &pErr) {
		return pErr.IsRetryable()
	}

	return Is(err, ErrTimeout)
}

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    m.errorMessage = err.Error()
//	} else {
//	    m.errorMessage = "An internal error occurred"
//	    logger.Error("internal error", "error", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var pErr ProcdashError
	if As(err, &pErr) {
		return pErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement ProcdashError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var pErr ProcdashError
	if As(err, &pErr) {
		return pErr.Severity()
	}

	return SeverityError
}

// Describe returns a one-line message for the status bar. Errors that are
// not user facing collapse to a pointer at the log, which has the detail.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if Is(err, ErrUnauthorized) || Is(err, ErrNoSession) || Is(err, ErrSessionExpired) || Is(err, ErrSessionVersion) {
		return "session rejected, run 'procdash login'"
	}
	if Is(err, ErrCanceled) {
		return "request canceled"
	}

	var timeout *TimeoutError
	if As(err, &timeout) {
		return fmt.Sprintf("%s timed out after %s", timeout.Operation, timeout.Duration)
	}
	var apiErr *APIError
	if As(err, &apiErr) {
		if apiErr.StatusCode != 0 {
			return fmt.Sprintf("%s: HTTP %d %s", apiErr.message, apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
		}
		if apiErr.cause != nil {
			return fmt.Sprintf("%s: %v", apiErr.message, apiErr.cause)
		}
		return apiErr.message
	}
	if IsUserFacing(err) {
		return err.Error()
	}
	return "unexpected error, see 'procdash logs'"
}

// -----------------------------------------------------------------------------
// Wrapping
// -----------------------------------------------------------------------------

// Wrap prefixes err with message, keeping it reachable through Is and As.
// A nil err stays nil.
//
// Example:
//
//	return errors.Wrap(err, "reading session file")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
