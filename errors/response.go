package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON envelope for failed requests: {"error": {...}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the client-visible part of an AppError. The cause is never
// exposed.
type ErrorBody struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Status    int                    `json:"status"`
	Retryable bool                   `json:"retryable"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Body returns the client-visible fields of e.
func (e *AppError) Body() ErrorBody {
	return ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Status:    e.HTTPStatus,
		Retryable: e.Retryable,
		Details:   e.Details,
	}
}

// ToResponse wraps Body in the response envelope.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Body()}
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
