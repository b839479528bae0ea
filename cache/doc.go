// Package cache is the default store adapter.
//
// Simple keeps fetched data, errors and loading flags in a persistent
// State keyed by string, and projects each key into a store.Projection.
// ComputeKey turns a fetch.Request into such a key:
//
//	key := cache.ComputeKey(fetch.Request{URL: "/users", Query: map[string]string{"page": "2"}})
//	cfg.Dispatch(cache.LoadingAction(key))
package cache
