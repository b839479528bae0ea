package fetchstore

import (
	"github.com/kbukum/storekit/cache"
	"github.com/kbukum/storekit/fetch"
	"github.com/kbukum/storekit/logger"
	"github.com/kbukum/storekit/observability"
	"github.com/kbukum/storekit/provider"
	"github.com/kbukum/storekit/store"
)

// Store is a provider over the simple cache, keyed by request key.
type Store = store.Provider[cache.State, string, store.Projection]

// Config is the composed view of a Store.
type Config = store.Config[cache.State, string, store.Projection]

var _ store.Hooks = (*observability.StoreHooks)(nil)

// New builds a Store with the simple cache, the default equality checker
// and the default fetcher. The fetch client is an HTTP client wrapped with
// logging and tracing, plus metrics when WithMetrics is set and retry when
// the config enables it.
func New(opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	client, err := buildClient(o)
	if err != nil {
		return nil, err
	}

	hooks := o.hooks
	if o.metrics != nil {
		hooks = append(hooks, observability.NewStoreHooks(o.metrics))
	}

	return store.NewProvider(store.Dependencies[cache.State, string, store.Projection]{
		Adapter:     cache.New(),
		Equal:       o.equal,
		FetchClient: client,
		Fetcher:     o.fetcher,
	}, store.Options[cache.State]{
		InitialState: o.initial,
		Hooks:        store.JoinHooks(hooks...),
		Logger:       o.log,
	})
}

func buildClient(o options) (fetch.Client, error) {
	client := o.client
	if client == nil {
		cfg := o.config
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		httpClient, err := fetch.NewHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
		client = httpClient
	}

	log := o.log
	if log == nil {
		log = logger.WithComponent("fetch")
	}
	middleware := []provider.Middleware[fetch.Request, *fetch.Response]{
		provider.WithLogging[fetch.Request, *fetch.Response](log),
		provider.WithTracing[fetch.Request, *fetch.Response](o.serviceName),
	}
	if o.metrics != nil {
		middleware = append(middleware, provider.WithMetrics[fetch.Request, *fetch.Response](o.metrics))
	}
	if o.config.RetryEnabled() {
		middleware = append(middleware, provider.WithRetry[fetch.Request, *fetch.Response](o.config.Retry))
	}
	return provider.Chain(middleware...)(client), nil
}
