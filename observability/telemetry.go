package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/kbukum/storekit/logger"
)

// TelemetryConfig is the telemetry section of the storekit config.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled" json:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure" json:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" json:"sample_rate" validate:"gte=0,lte=1"`
	ExportInterval time.Duration `yaml:"export_interval" mapstructure:"export_interval" json:"export_interval"`
	ServiceName    string        `yaml:"service_name" mapstructure:"service_name" json:"service_name"`
}

// ApplyDefaults fills unset fields. serviceName is used when ServiceName is empty.
func (c *TelemetryConfig) ApplyDefaults(serviceName string) {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.ExportInterval <= 0 {
		c.ExportInterval = 15 * time.Second
	}
	if c.ServiceName == "" {
		c.ServiceName = serviceName
	}
}

// Validate checks the settings that matter when telemetry is enabled.
func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}
	return nil
}

// Setup installs global OTLP trace and metric providers built from cfg,
// sharing one resource, plus the W3C trace context propagator. The returned
// function flushes and shuts both down. When telemetry is disabled nothing
// is installed and the shutdown function is a no-op.
func Setup(ctx context.Context, cfg TelemetryConfig, version, environment string) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := newResource(cfg.ServiceName, version, environment)
	if err != nil {
		return nil, fmt.Errorf("telemetry resource: %w", err)
	}
	tp, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, err
	}
	mp, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Info("telemetry initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
		"export_interval", cfg.ExportInterval.String(),
	))

	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

func newResource(serviceName, version, environment string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String(AttrServiceName, serviceName),
			attribute.String("service.version", version),
			attribute.String("deployment.environment", environment),
		),
	)
}
