package testutil

import "sync/atomic"

// CountingHooks counts store hook calls.
type CountingHooks struct {
	Dispatches  atomic.Int64
	Notifies    atomic.Int64
	Signals     atomic.Int64
	Subscribers atomic.Int64
}

// Dispatched implements store.Hooks.
func (h *CountingHooks) Dispatched(string) { h.Dispatches.Add(1) }

// Notified implements store.Hooks. Subscribers holds the last pass size.
func (h *CountingHooks) Notified(subscribers int) {
	h.Notifies.Add(1)
	h.Subscribers.Store(int64(subscribers))
}

// Signaled implements store.Hooks.
func (h *CountingHooks) Signaled() { h.Signals.Add(1) }
