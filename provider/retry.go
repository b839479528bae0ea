package provider

import (
	"context"

	"github.com/kbukum/storekit/resilience"
)

// WithRetry re-executes failed calls with exponential backoff. Errors are
// filtered by cfg.RetryIf, which defaults to the Retryable flag of
// *errors.AppError.
func WithRetry[I, O any](cfg resilience.RetryConfig) Middleware[I, O] {
	return Around(func(ctx context.Context, next RequestResponse[I, O], input I) (O, error) {
		return resilience.Retry(ctx, cfg, func() (O, error) {
			return next.Execute(ctx, input)
		})
	})
}
