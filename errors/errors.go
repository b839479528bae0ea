package errors

import (
	"fmt"
	"net/http"
)

// AppError is the error type every storekit package returns. It travels
// through the store as data and is rendered to HTTP clients by Body.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += " (cause: " + e.Cause.Error() + ")"
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches cause and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets one detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// WithDetails merges details into e and returns e.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// New returns an AppError with an explicit status. Retryable follows code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// newf builds an AppError whose status and retryability come from the code table.
func newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...), code.Status())
}

// Wrap returns the AppError in err's chain, or err as INTERNAL_ERROR.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

func ServiceUnavailable(service string) *AppError {
	return newf(ErrCodeServiceUnavailable, "The %s is temporarily unavailable. Please try again.", service).
		WithDetail("service", service)
}

func ConnectionFailed(service string) *AppError {
	return newf(ErrCodeConnectionFailed, "Unable to connect to %s.", service).
		WithDetail("service", service)
}

func Timeout(operation string) *AppError {
	return newf(ErrCodeTimeout, "The request took too long. Please try again.").
		WithDetail("operation", operation)
}

func RateLimited() *AppError {
	return newf(ErrCodeRateLimited, "Too many requests. Please wait a moment and try again.")
}

// FetchFailed reports an upstream call to url that failed on the upstream side.
func FetchFailed(url string, cause error) *AppError {
	return newf(ErrCodeFetchFailed, "Fetching %s failed.", url).
		WithDetail("url", url).
		WithCause(cause)
}

// NotFound reports a missing resource. id is optional.
func NotFound(resource, id string) *AppError {
	e := newf(ErrCodeNotFound, "The requested %s was not found.", resource).WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

func Unauthorized(reason string) *AppError {
	return newf(ErrCodeUnauthorized, "%s", reason)
}

// InvalidInput reports a rejected input. field is optional.
func InvalidInput(field, reason string) *AppError {
	e := newf(ErrCodeInvalidInput, "Invalid input: %s", reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation is InvalidInput with a preformatted message.
func Validation(message string) *AppError {
	return newf(ErrCodeInvalidInput, "%s", message)
}

// Misconfigured reports a provider option that cannot be used.
func Misconfigured(option, reason string) *AppError {
	return newf(ErrCodeMisconfigured, "%s: %s", option, reason).WithDetail("option", option)
}

func Closed(what string) *AppError {
	return newf(ErrCodeClosed, "The %s is closed.", what)
}

func Internal(cause error) *AppError {
	return newf(ErrCodeInternal, "An unexpected error occurred.").WithCause(cause)
}

// FromHTTPStatus maps an upstream response status to an AppError, or nil
// below 400.
func FromHTTPStatus(status int, url string) *AppError {
	if status < 400 {
		return nil
	}
	switch status {
	case http.StatusNotFound:
		return NotFound("upstream resource", url)
	case http.StatusTooManyRequests:
		return RateLimited()
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return Timeout(url)
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return ServiceUnavailable(url)
	}
	if status >= 500 {
		return FetchFailed(url, nil).WithDetail("status", status)
	}
	return InvalidInput("", fmt.Sprintf("upstream rejected request with status %d", status)).WithDetail("url", url)
}
