package provider_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/logger"
	"github.com/kbukum/storekit/observability"
	"github.com/kbukum/storekit/provider"
	"github.com/kbukum/storekit/resilience"
)

type echoProvider struct {
	name string
}

func (p *echoProvider) Name() string                       { return p.name }
func (p *echoProvider) IsAvailable(_ context.Context) bool { return true }
func (p *echoProvider) Execute(_ context.Context, input string) (string, error) {
	return "echo:" + input, nil
}

func failing(err error) provider.RequestResponse[string, string] {
	return provider.Func("fail", func(context.Context, string) (string, error) {
		return "", err
	})
}

// --- Func ---

func TestFunc(t *testing.T) {
	p := provider.Func("upper", func(_ context.Context, in string) (string, error) {
		return strings.ToUpper(in), nil
	})
	if p.Name() != "upper" || !p.IsAvailable(context.Background()) {
		t.Fatalf("unexpected provider metadata %q", p.Name())
	}
	out, err := p.Execute(context.Background(), "abc")
	if err != nil || out != "ABC" {
		t.Fatalf("expected ABC, got %q, err %v", out, err)
	}
}

// --- Chain ---

func TestChain_Empty(t *testing.T) {
	wrapped := provider.Chain[string, string]()(&echoProvider{name: "test"})
	if wrapped.Name() != "test" {
		t.Fatalf("expected 'test', got %q", wrapped.Name())
	}
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return &orderTracker[string, string]{inner: inner, tag: tag, order: &order}
		}
	}

	wrapped := provider.Chain(mw("A"), mw("B"), mw("C"))(&echoProvider{name: "test"})
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	want := []string{"A:before", "B:before", "C:before", "C:after", "B:after", "A:after"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, order)
	}
}

type orderTracker[I, O any] struct {
	inner provider.RequestResponse[I, O]
	tag   string
	order *[]string
}

func (o *orderTracker[I, O]) Name() string                         { return o.inner.Name() }
func (o *orderTracker[I, O]) IsAvailable(ctx context.Context) bool { return o.inner.IsAvailable(ctx) }
func (o *orderTracker[I, O]) Execute(ctx context.Context, input I) (O, error) {
	*o.order = append(*o.order, o.tag+":before")
	result, err := o.inner.Execute(ctx, input)
	*o.order = append(*o.order, o.tag+":after")
	return result, err
}

// --- WithLogging ---

func TestWithLogging_Success(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	wrapped := provider.WithLogging[string, string](log)(&echoProvider{name: "log-test"})

	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
	if !strings.Contains(buf.String(), `"provider":"log-test"`) {
		t.Errorf("expected provider field in log, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "provider execute ok") {
		t.Errorf("expected debug success line, got %q", buf.String())
	}
}

func TestWithLogging_Error(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &buf)
	wrapped := provider.WithLogging[string, string](log)(failing(stderrors.New("intentional failure")))

	if _, err := wrapped.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), "intentional failure") {
		t.Errorf("expected error in log, got %q", buf.String())
	}
}

func TestWithLogging_DelegatesIsAvailable(t *testing.T) {
	wrapped := provider.WithLogging[string, string](logger.Nop())(&echoProvider{name: "avail-test"})
	if !wrapped.IsAvailable(context.Background()) {
		t.Fatal("expected IsAvailable to delegate to inner provider")
	}
}

// --- WithTracing ---

func TestWithTracing_RecordsSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	wrapped := provider.WithTracing[string, string]("storekit")(failing(stderrors.New("boom")))
	if _, err := wrapped.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "storekit.fail" {
		t.Errorf("unexpected span name %q", spans[0].Name)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected error event on span")
	}
}

func TestWithTracing_Success(t *testing.T) {
	wrapped := provider.WithTracing[string, string]("storekit")(&echoProvider{name: "trace-test"})
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
	if !wrapped.IsAvailable(context.Background()) {
		t.Fatal("expected IsAvailable to delegate to inner provider")
	}
}

// --- WithMetrics ---

func TestWithMetrics(t *testing.T) {
	metrics, err := observability.NewMetrics(observability.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	ok := provider.WithMetrics[string, string](metrics)(&echoProvider{name: "metrics-test"})
	if result, err := ok.Execute(context.Background(), "hello"); err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}

	bad := provider.WithMetrics[string, string](metrics)(failing(stderrors.New("boom")))
	if _, err := bad.Execute(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
}

// --- WithRetry ---

func TestWithRetry_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	inner := provider.Func("flaky", func(context.Context, string) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.ServiceUnavailable("upstream")
		}
		return "ok", nil
	})

	wrapped := provider.WithRetry[string, string](resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	})(inner)

	out, err := wrapped.Execute(context.Background(), "x")
	if err != nil || out != "ok" {
		t.Fatalf("expected ok, got %q, err %v", out, err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if wrapped.Name() != "flaky" {
		t.Errorf("expected name passthrough, got %q", wrapped.Name())
	}
}

func TestWithRetry_StopsOnPermanentErrors(t *testing.T) {
	calls := 0
	inner := provider.Func("strict", func(context.Context, string) (string, error) {
		calls++
		return "", errors.InvalidInput("url", "empty")
	})

	wrapped := provider.WithRetry[string, string](resilience.RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
	})(inner)

	if _, err := wrapped.Execute(context.Background(), "x"); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

// --- Composition ---

func TestChain_AllMiddlewares(t *testing.T) {
	metrics, err := observability.NewMetrics(observability.Meter("test"))
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}

	wrapped := provider.Chain(
		provider.WithLogging[string, string](logger.Nop()),
		provider.WithMetrics[string, string](metrics),
		provider.WithTracing[string, string]("storekit"),
		provider.WithRetry[string, string](resilience.DefaultRetryConfig()),
	)(&echoProvider{name: "full-stack"})

	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
}

// --- Around ---

func TestAround(t *testing.T) {
	var seen []string
	mw := provider.Around(func(ctx context.Context, next provider.RequestResponse[string, string], in string) (string, error) {
		seen = append(seen, next.Name()+":"+in)
		out, err := next.Execute(ctx, strings.ToUpper(in))
		return out + "!", err
	})

	wrapped := mw(&echoProvider{name: "around"})
	out, err := wrapped.Execute(context.Background(), "hi")
	if err != nil || out != "echo:HI!" {
		t.Fatalf("got %q, err %v", out, err)
	}
	if wrapped.Name() != "around" || !wrapped.IsAvailable(context.Background()) {
		t.Error("expected Name and IsAvailable to pass through")
	}
	if len(seen) != 1 || seen[0] != "around:hi" {
		t.Errorf("seen = %v", seen)
	}
}
