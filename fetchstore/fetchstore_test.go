package fetchstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/storekit/cache"
	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/fetch"
	"github.com/kbukum/storekit/logger"
	"github.com/kbukum/storekit/observability"
	"github.com/kbukum/storekit/provider"
	"github.com/kbukum/storekit/resilience"
	"github.com/kbukum/storekit/store"
	"github.com/kbukum/storekit/testutil"
)

func jsonServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"path":"` + r.URL.Path + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := New(append([]Option{WithLogger(logger.Nop())}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func stubClient(fn func(ctx context.Context, req fetch.Request) (*fetch.Response, error)) fetch.Client {
	return provider.Func[fetch.Request, *fetch.Response]("stub", fn)
}

func TestFetch_StoresPayload(t *testing.T) {
	var hits atomic.Int32
	srv := jsonServer(t, &hits)
	s := newStore(t, WithConfig(fetch.Config{BaseURL: srv.URL}))

	req := fetch.Request{URL: "/users"}
	got, err := Fetch(context.Background(), s.Config(), req)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Loading || got.Error != nil {
		t.Fatalf("unexpected projection %+v", got)
	}
	payload, ok := got.Data.(*fetch.Payload)
	if !ok {
		t.Fatalf("expected *fetch.Payload, got %T", got.Data)
	}
	body := payload.Body.(map[string]any)
	if body["path"] != "/users" {
		t.Errorf("path = %v", body["path"])
	}

	stored := s.Config().UseSelector(cache.ComputeKey(req))
	if stored.Data != got.Data {
		t.Error("expected the store to hold the returned payload")
	}
}

func TestFetch_CachedUnlessForced(t *testing.T) {
	var hits atomic.Int32
	srv := jsonServer(t, &hits)
	s := newStore(t, WithConfig(fetch.Config{BaseURL: srv.URL}))
	ctx := context.Background()
	req := fetch.Request{URL: "/cached"}

	first, _ := Fetch(ctx, s.Config(), req)
	second, _ := Fetch(ctx, s.Config(), req)
	if hits.Load() != 1 {
		t.Fatalf("expected 1 request, got %d", hits.Load())
	}
	if first.Data != second.Data {
		t.Error("expected cached payload to be returned")
	}

	third, _ := Fetch(ctx, s.Config(), req, WithForce())
	if hits.Load() != 2 {
		t.Fatalf("expected forced refetch, got %d requests", hits.Load())
	}
	if third.Data == first.Data {
		t.Error("expected a fresh payload after force")
	}
}

func TestFetch_TransportErrorIsStoredAndReturned(t *testing.T) {
	var calls atomic.Int32
	client := stubClient(func(ctx context.Context, req fetch.Request) (*fetch.Response, error) {
		calls.Add(1)
		return nil, errors.ConnectionFailed("upstream")
	})
	s := newStore(t, WithClient(client))
	ctx := context.Background()
	req := fetch.Request{URL: "http://upstream/x"}

	got, err := Fetch(ctx, s.Config(), req)
	if !errors.IsCode(err, errors.ErrCodeConnectionFailed) {
		t.Fatalf("expected CONNECTION_FAILED, got %v", err)
	}
	if got.Error == nil || got.Loading {
		t.Fatalf("expected stored error, got %+v", got)
	}

	// errors are not served from cache
	_, _ = Fetch(ctx, s.Config(), req)
	if calls.Load() != 2 {
		t.Errorf("expected a retry of the failed key, got %d calls", calls.Load())
	}
}

func TestFetch_RecordsSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	client := stubClient(func(ctx context.Context, req fetch.Request) (*fetch.Response, error) {
		return nil, errors.ConnectionFailed("upstream")
	})
	s := newStore(t, WithClient(client))
	_, _ = Fetch(context.Background(), s.Config(), fetch.Request{URL: "http://upstream/span"}, WithKey("span-key"))

	// the client span ends first, then the fetch span
	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	fetchSpan := spans[1]
	if fetchSpan.Name != observability.SpanFetch {
		t.Errorf("span name = %q", fetchSpan.Name)
	}
	if spans[0].Parent.SpanID() != fetchSpan.SpanContext.SpanID() {
		t.Error("expected the client span to be a child of the fetch span")
	}
	var key string
	for _, kv := range fetchSpan.Attributes {
		if kv.Key == attribute.Key(observability.AttrCacheKey) {
			key = kv.Value.AsString()
		}
	}
	if key != "span-key" {
		t.Errorf("expected key attribute span-key, got %q", key)
	}
	if len(fetchSpan.Events) == 0 {
		t.Error("expected the failure to be recorded on the span")
	}
}

func TestFetch_LoadingKeyIsNotRefetched(t *testing.T) {
	var calls atomic.Int32
	client := stubClient(func(ctx context.Context, req fetch.Request) (*fetch.Response, error) {
		calls.Add(1)
		return &fetch.Response{Status: http.StatusOK}, nil
	})
	s := newStore(t, WithClient(client))
	req := fetch.Request{URL: "http://upstream/slow"}
	s.Dispatch(cache.LoadingAction(cache.ComputeKey(req)))

	got, err := Fetch(context.Background(), s.Config(), req)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !got.Loading {
		t.Errorf("expected loading projection, got %+v", got)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no request, got %d", calls.Load())
	}
}

func TestFetch_SignalsLoadingThenData(t *testing.T) {
	var hits atomic.Int32
	srv := jsonServer(t, &hits)
	s := newStore(t, WithConfig(fetch.Config{BaseURL: srv.URL}))
	req := fetch.Request{URL: "/watched"}

	var (
		mu   sync.Mutex
		seen []store.Projection
		sel  *store.Selection[string, store.Projection]
	)
	sel = s.Select(cache.ComputeKey(req), func() {
		mu.Lock()
		seen = append(seen, sel.Value())
		mu.Unlock()
	})
	defer sel.Close()

	if _, err := Fetch(context.Background(), s.Config(), req); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(seen))
	}
	if !seen[0].Loading {
		t.Errorf("first signal should be loading, got %+v", seen[0])
	}
	if seen[1].Loading || seen[1].Data == nil {
		t.Errorf("second signal should carry data, got %+v", seen[1])
	}
}

func TestFetch_InvalidInput(t *testing.T) {
	s := newStore(t)
	if _, err := Fetch(context.Background(), s.Config(), fetch.Request{}); err == nil {
		t.Error("expected error for request without URL")
	}
	if _, err := Fetch(context.Background(), s.Config(), fetch.Request{URL: "/x", Method: "FETCH"}); err == nil {
		t.Error("expected error for unknown method")
	}
	if _, err := Fetch(context.Background(), nil, fetch.Request{URL: "/x"}); !errors.IsCode(err, errors.ErrCodeMisconfigured) {
		t.Errorf("expected MISCONFIGURED for nil config, got %v", err)
	}
}

func TestFetch_WithKey(t *testing.T) {
	var hits atomic.Int32
	srv := jsonServer(t, &hits)
	s := newStore(t, WithConfig(fetch.Config{BaseURL: srv.URL}))

	if _, err := Fetch(context.Background(), s.Config(), fetch.Request{URL: "/named"}, WithKey("named")); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if s.Config().UseSelector("named").Data == nil {
		t.Error("expected data under the explicit key")
	}
}

func TestFetch_ReturnsOwnResultUnderConcurrentDispatch(t *testing.T) {
	s := newStore(t, WithClient(stubClient(func(context.Context, fetch.Request) (*fetch.Response, error) {
		return &fetch.Response{Status: http.StatusOK, Body: []byte("ok")}, nil
	})))

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	unsubscribe := s.Subscribe(func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	})
	defer unsubscribe()

	go s.Dispatch(cache.SetDataAction("other", 1))
	<-entered

	type result struct {
		projection store.Projection
		err        error
	}
	done := make(chan result, 1)
	go func() {
		p, err := Fetch(context.Background(), s.Config(), fetch.Request{URL: "/k"}, WithKey("k"))
		done <- result{p, err}
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	res := <-done
	if res.err != nil {
		t.Fatalf("Fetch: %v", res.err)
	}
	payload, ok := res.projection.Data.(*fetch.Payload)
	if !ok || payload.Body != "ok" || res.projection.Loading {
		t.Fatalf("expected the fetched payload, got %+v", res.projection)
	}
}

func TestNew_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	s := newStore(t, WithConfig(fetch.Config{
		BaseURL: srv.URL,
		Retry: resilience.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     5 * time.Millisecond,
		},
	}))

	got, err := Fetch(context.Background(), s.Config(), fetch.Request{URL: "/flaky"})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if hits.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", hits.Load())
	}
	if p := got.Data.(*fetch.Payload); !p.OK {
		t.Errorf("expected final payload to be OK, got %+v", p)
	}
}

func TestNew_ExhaustedRetryKeepsErrorPayload(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := newStore(t, WithConfig(fetch.Config{
		BaseURL: srv.URL,
		Retry:   resilience.RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond},
	}))

	got, err := Fetch(context.Background(), s.Config(), fetch.Request{URL: "/down"})
	if err != nil {
		t.Fatalf("error statuses are data, got %v", err)
	}
	p := got.Data.(*fetch.Payload)
	if p.OK || p.Status != http.StatusBadGateway {
		t.Errorf("unexpected payload %+v", p)
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", hits.Load())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(WithLogger(logger.Nop()), WithConfig(fetch.Config{BaseURL: "not a url"})); err == nil {
		t.Error("expected invalid base URL to fail")
	}
}

func TestNew_HooksAndEquality(t *testing.T) {
	hooks := &testutil.CountingHooks{}
	calls := 0
	s := newStore(t,
		WithHooks(hooks),
		WithEqualityChecker(func(prev, next store.Projection) bool {
			calls++
			return prev.Loading == next.Loading
		}),
		WithInitialState(cache.State{Data: map[string]any{"seed": 1}}),
	)

	if got := s.Config().UseSelector("seed").Data; got != 1 {
		t.Fatalf("expected seeded data, got %v", got)
	}

	rec := testutil.NewRecorder()
	sel := s.Select("seed", rec.Signal("seed"))
	defer sel.Close()

	s.Dispatch(cache.SetDataAction("seed", 2))
	if rec.Count("seed") != 0 {
		t.Error("custom checker ignores data, expected no signal")
	}
	if calls == 0 {
		t.Error("expected custom checker to run")
	}
	if hooks.Dispatches.Load() != 1 || hooks.Notifies.Load() != 1 {
		t.Errorf("hooks = dispatches %d notifies %d", hooks.Dispatches.Load(), hooks.Notifies.Load())
	}
}
