package provider

import (
	"context"
	"time"

	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/observability"
)

// WithMetrics records the count and duration of every call. Failures are
// also counted by error code, "unknown" for errors that are not AppErrors.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return Around(func(ctx context.Context, next RequestResponse[I, O], input I) (O, error) {
		start := time.Now()
		output, err := next.Execute(ctx, input)

		status := "ok"
		if err != nil {
			status = "error"
			code := "unknown"
			if appErr, ok := errors.AsAppError(err); ok {
				code = string(appErr.Code)
			}
			metrics.RecordError(ctx, code, next.Name())
		}
		metrics.RecordOperation(ctx, next.Name(), "execute", status, time.Since(start))
		return output, err
	})
}
