package fetchstore

import (
	"github.com/kbukum/storekit/cache"
	"github.com/kbukum/storekit/fetch"
	"github.com/kbukum/storekit/logger"
	"github.com/kbukum/storekit/observability"
	"github.com/kbukum/storekit/store"
)

// Option configures New.
type Option func(*options)

type options struct {
	serviceName string
	config      fetch.Config
	client      fetch.Client
	fetcher     fetch.Fetcher
	equal       store.EqualityChecker[store.Projection]
	hooks       []store.Hooks
	metrics     *observability.Metrics
	log         *logger.Logger
	initial     *cache.State
}

func defaultOptions() options {
	return options{serviceName: "storekit"}
}

// WithServiceName sets the service name used in fetch spans.
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = name }
}

// WithConfig sets the HTTP client configuration.
func WithConfig(cfg fetch.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithClient replaces the HTTP client. Middleware is still applied.
func WithClient(client fetch.Client) Option {
	return func(o *options) { o.client = client }
}

// WithFetcher replaces fetch.DefaultFetcher.
func WithFetcher(f fetch.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithEqualityChecker replaces store.DefaultEqualityChecker.
func WithEqualityChecker(eq store.EqualityChecker[store.Projection]) Option {
	return func(o *options) { o.equal = eq }
}

// WithHooks adds store hooks. Multiple calls accumulate.
func WithHooks(hooks ...store.Hooks) Option {
	return func(o *options) { o.hooks = append(o.hooks, hooks...) }
}

// WithMetrics records fetch calls and store activity into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the logger for the store and its fetch client. Defaults
// to the global logger tagged per component.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithInitialState seeds the cache.
func WithInitialState(state cache.State) Option {
	return func(o *options) { o.initial = &state }
}
