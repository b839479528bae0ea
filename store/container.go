package store

import (
	"sync"
	"sync/atomic"
)

// Container holds the current state in a single cell. Writes go through the
// reducer and are serialized; reads are lock-free.
type Container[S any] struct {
	mu      sync.Mutex
	state   atomic.Pointer[S]
	reducer func(S, Action) S
}

// NewContainer creates a container holding initial.
func NewContainer[S any](initial S, reducer func(S, Action) S) *Container[S] {
	c := &Container[S]{reducer: reducer}
	c.state.Store(&initial)
	return c
}

// State returns the current state.
func (c *Container[S]) State() S {
	return *c.state.Load()
}

// Reduce replaces the state with reducer(current, action) and returns it
// along with whether it changed. A reducer handing back the state it was
// given leaves the container as it was; maps, slices and pointers, also as
// struct fields, are compared by reference, so reducers must return a new
// value for every change. A panicking reducer leaves the state untouched.
func (c *Container[S]) Reduce(action Action) (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := *c.state.Load()
	next := c.reducer(prev, action)
	if sameState(prev, next) {
		return prev, false
	}
	c.state.Store(&next)
	return next, true
}

// Set replaces the state without the reducer.
func (c *Container[S]) Set(state S) {
	c.mu.Lock()
	c.state.Store(&state)
	c.mu.Unlock()
}
