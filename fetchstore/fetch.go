package fetchstore

import (
	"context"

	"github.com/kbukum/storekit/cache"
	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/fetch"
	"github.com/kbukum/storekit/observability"
	"github.com/kbukum/storekit/store"
	"github.com/kbukum/storekit/validation"
)

// FetchOption tunes a single Fetch call.
type FetchOption func(*fetchOptions)

type fetchOptions struct {
	force bool
	key   string
}

// WithForce fetches even when the key already holds data or is loading.
func WithForce() FetchOption {
	return func(o *fetchOptions) { o.force = true }
}

// WithKey stores the result under key instead of cache.ComputeKey(req).
func WithKey(key string) FetchOption {
	return func(o *fetchOptions) { o.key = key }
}

// Fetch loads req into the store behind cfg and returns the resulting
// projection. A key that holds data without an error, or that is already
// loading, is returned as is unless WithForce is given. Otherwise Fetch
// dispatches IS_LOADING, runs the configured fetcher with the configured
// client and dispatches SET_DATA or ERROR. Transport failures are stored on
// the key and also returned.
func Fetch(ctx context.Context, cfg *Config, req fetch.Request, opts ...FetchOption) (store.Projection, error) {
	if cfg == nil {
		return store.Projection{}, errors.Misconfigured("config", "store config is nil")
	}
	var o fetchOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := validation.Validate(req); err != nil {
		return store.Projection{}, err
	}

	key := o.key
	if key == "" {
		key = cache.ComputeKey(req)
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanFetch)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrCacheKey, key)
	observability.SetSpanAttribute(ctx, observability.AttrForced, o.force)

	if !o.force {
		current := cfg.UseSelector(key)
		if current.Loading || (current.Data != nil && current.Error == nil) {
			observability.SetSpanAttribute(ctx, observability.AttrCacheHit, true)
			return current, nil
		}
	}

	cfg.Dispatch(cache.LoadingAction(key))
	result := cfg.DefaultFetcher(ctx, cfg.FetchClient, req)
	if result.Err != nil {
		observability.SetSpanError(ctx, result.Err)
		cfg.Dispatch(cache.ErrorAction(key, result.Err))
		return cfg.UseSelector(key), result.Err
	}
	cfg.Dispatch(cache.SetDataAction(key, result.Data))
	return cfg.UseSelector(key), nil
}
