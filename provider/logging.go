package provider

import (
	"context"
	"time"

	"github.com/kbukum/storekit/logger"
)

// WithLogging logs every call with the provider name and duration.
// Failures log at error level, successes at debug.
func WithLogging[I, O any](log *logger.Logger) Middleware[I, O] {
	return Around(func(ctx context.Context, next RequestResponse[I, O], input I) (O, error) {
		start := time.Now()
		output, err := next.Execute(ctx, input)

		fields := logger.DurationFields("execute", time.Since(start))
		fields["provider"] = next.Name()
		if err != nil {
			fields[logger.FieldError] = err.Error()
			log.Error("provider execute failed", fields)
		} else {
			log.Debug("provider execute ok", fields)
		}
		return output, err
	})
}
