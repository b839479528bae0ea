// Package errors provides the structured error type used across storekit.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable code, an HTTP status for the server layer and a
// retryable flag consumed by the fetch retry middleware. Errors render as
// RFC 7807 style bodies through ToResponse.
package errors
