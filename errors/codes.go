package errors

import "net/http"

// ErrorCode is the machine-readable kind of an AppError.
type ErrorCode string

const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeConnectionFailed   ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeFetchFailed        ErrorCode = "FETCH_FAILED"

	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeMisconfigured ErrorCode = "MISCONFIGURED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeClosed is returned for operations on a closed store.
	ErrCodeClosed ErrorCode = "CLOSED"
)

type codeInfo struct {
	status    int
	retryable bool
}

// Every code the package constructs has an entry. Upstream availability
// problems are the only retryable kind.
var codes = map[ErrorCode]codeInfo{
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeConnectionFailed:   {http.StatusServiceUnavailable, true},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, true},
	ErrCodeRateLimited:        {http.StatusTooManyRequests, true},
	ErrCodeFetchFailed:        {http.StatusBadGateway, true},
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeUnauthorized:       {http.StatusUnauthorized, false},
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodeMisconfigured:      {http.StatusInternalServerError, false},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
	ErrCodeClosed:             {http.StatusServiceUnavailable, false},
}

// IsRetryableCode reports whether errors with code are worth retrying.
func IsRetryableCode(code ErrorCode) bool {
	return codes[code].retryable
}

// Status returns the HTTP status for code, 500 for unknown codes.
func (c ErrorCode) Status() int {
	if info, ok := codes[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}
