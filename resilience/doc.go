// Package resilience retries failed fetches with exponential backoff.
//
// Whether an error is worth another attempt is decided by the Retryable
// flag of *errors.AppError; context cancellation always stops the loop.
//
//	resp, err := resilience.Retry(ctx, cfg, func() (*fetch.Response, error) {
//	    return client.Execute(ctx, req)
//	})
package resilience
