package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

func newMeterProvider(ctx context.Context, cfg TelemetryConfig, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.ExportInterval))
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res)), nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the OpenTelemetry instruments storekit records into.
type Metrics struct {
	dispatches metric.Int64Counter
	fanout     metric.Int64Histogram
	signals    metric.Int64Counter
	operations metric.Int64Counter
	latency    metric.Float64Histogram
	failures   metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m    Metrics
		errs []error
	)
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
		return c
	}

	m.dispatches = counter("storekit.dispatch.total", "Actions dispatched to the store, by action type")
	m.signals = counter("storekit.selector.signals", "Change signals delivered to selections")
	m.operations = counter("storekit.fetch.total", "Upstream fetches, by provider and status")
	m.failures = counter("storekit.fetch.errors", "Failed upstream fetches, by error code")

	var err error
	if m.fanout, err = meter.Int64Histogram("storekit.notify.subscribers",
		metric.WithDescription("Subscribers invoked per notification pass")); err != nil {
		errs = append(errs, fmt.Errorf("storekit.notify.subscribers: %w", err))
	}
	if m.latency, err = meter.Float64Histogram("storekit.fetch.duration",
		metric.WithDescription("Upstream fetch latency"), metric.WithUnit("s")); err != nil {
		errs = append(errs, fmt.Errorf("storekit.fetch.duration: %w", err))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("creating instruments: %v", errs)
	}
	return &m, nil
}

// RecordDispatch counts one dispatched action.
func (m *Metrics) RecordDispatch(ctx context.Context, actionType string) {
	m.dispatches.Add(ctx, 1, metric.WithAttributes(attribute.String("action", actionType)))
}

// RecordNotify records how many subscribers one notification pass reached.
func (m *Metrics) RecordNotify(ctx context.Context, subscribers int) {
	m.fanout.Record(ctx, int64(subscribers))
}

// RecordSignal counts one change signal delivered to a selection.
func (m *Metrics) RecordSignal(ctx context.Context) {
	m.signals.Add(ctx, 1)
}

// RecordOperation counts one provider call and records its latency.
func (m *Metrics) RecordOperation(ctx context.Context, provider, operation, status string, d time.Duration) {
	p := attribute.String("provider", provider)
	op := attribute.String("operation", operation)
	m.operations.Add(ctx, 1, metric.WithAttributes(p, op, attribute.String("status", status)))
	m.latency.Record(ctx, d.Seconds(), metric.WithAttributes(p, op))
}

// RecordError counts one failed provider call by error code.
func (m *Metrics) RecordError(ctx context.Context, code, provider string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("provider", provider),
	))
}
