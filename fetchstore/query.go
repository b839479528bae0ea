package fetchstore

import (
	"context"

	"github.com/kbukum/storekit/cache"
	"github.com/kbukum/storekit/fetch"
	"github.com/kbukum/storekit/store"
)

// QueryOption configures NewQuery.
type QueryOption func(*Query)

// Lazy defers the first fetch until Run.
func Lazy() QueryOption {
	return func(q *Query) { q.lazy = true }
}

// OnChange is called whenever the projection for the query's key changes.
func OnChange(fn func()) QueryOption {
	return func(q *Query) { q.onChange = fn }
}

// Query binds one request to its cache key: a selection that follows the
// key plus Run to refetch.
type Query struct {
	cfg      *Config
	req      fetch.Request
	key      string
	lazy     bool
	onChange func()
	sel      *store.Selection[string, store.Projection]
}

// NewQuery selects the key of req and, unless Lazy is set, fetches it. A
// failed initial fetch still returns the query; the error is stored on the
// key and returned alongside.
func NewQuery(ctx context.Context, cfg *Config, req fetch.Request, opts ...QueryOption) (*Query, error) {
	q := &Query{cfg: cfg, req: req, key: cache.ComputeKey(req)}
	for _, opt := range opts {
		opt(q)
	}
	q.sel = cfg.Selectors.Select(q.key, q.onChange)

	if q.lazy {
		return q, nil
	}
	_, err := Fetch(ctx, cfg, req, WithKey(q.key))
	return q, err
}

// Key returns the cache key of the request.
func (q *Query) Key() string { return q.key }

// Request returns the request the query was built for.
func (q *Query) Request() fetch.Request { return q.req }

// Value returns the last projection seen by the selection.
func (q *Query) Value() store.Projection {
	return q.sel.Use(q.key)
}

// Run refetches the request regardless of what is cached.
func (q *Query) Run(ctx context.Context) (store.Projection, error) {
	return Fetch(ctx, q.cfg, q.req, WithKey(q.key), WithForce())
}

// Close stops change signals.
func (q *Query) Close() {
	q.sel.Close()
}
