package store

import "github.com/kbukum/storekit/errors"

// Adapter owns the shape of state S. Both methods must be pure. Reducer must
// return the prior state for action types it does not know and a new value,
// never a mutated one, for every change.
type Adapter[S any, K comparable, P any] interface {
	Reducer(state S, action Action) S
	GetCacheByKey(state S, key K) P
}

// AdapterFuncs builds an Adapter from two functions.
type AdapterFuncs[S any, K comparable, P any] struct {
	Reduce  func(state S, action Action) S
	Project func(state S, key K) P
}

// Reducer implements Adapter.
func (a AdapterFuncs[S, K, P]) Reducer(state S, action Action) S {
	return a.Reduce(state, action)
}

// GetCacheByKey implements Adapter.
func (a AdapterFuncs[S, K, P]) GetCacheByKey(state S, key K) P {
	return a.Project(state, key)
}

// Validate reports a missing function.
func (a AdapterFuncs[S, K, P]) Validate() error {
	if a.Reduce == nil {
		return errors.Misconfigured("adapter", "reducer is required")
	}
	if a.Project == nil {
		return errors.Misconfigured("adapter", "GetCacheByKey is required")
	}
	return nil
}
