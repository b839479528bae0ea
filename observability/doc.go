// Package observability provides OpenTelemetry tracing and metrics for
// storekit.
//
// Setup installs OTLP/HTTP trace and metric providers from a
// TelemetryConfig and returns one shutdown function:
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, version.Short(), cfg.Environment)
//	defer shutdown(ctx)
//
// Spans go through the global provider:
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanFetch)
//	defer span.End()
//
// Metrics:
//
//	metrics, err := observability.NewMetrics(observability.Meter("storekit"))
//	hooks := observability.NewStoreHooks(metrics)
//
// StoreHooks satisfies store.Hooks, so a provider built with it reports
// dispatches, notification fan-out and selector signals as OTel counters.
package observability
