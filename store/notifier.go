package store

import (
	"sync"
	"sync/atomic"
)

type subscription struct {
	fn     func()
	active atomic.Bool
	once   sync.Once
}

// Notifier is a broadcast channel of zero-argument callbacks. It is safe for
// concurrent use; its lock is never held while a callback runs.
type Notifier struct {
	mu   sync.Mutex
	subs []*subscription
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers callback and returns the func that removes exactly
// this registration. The returned func may be called any number of times,
// from any goroutine, including from inside callback.
func (n *Notifier) Subscribe(callback func()) (unsubscribe func()) {
	s := &subscription{fn: callback}
	s.active.Store(true)

	n.mu.Lock()
	n.subs = append(n.subs, s)
	n.mu.Unlock()

	return func() {
		s.once.Do(func() {
			s.active.Store(false)
			n.remove(s)
		})
	}
}

// Notify invokes every callback registered when the call began, once, in
// registration order. Callbacks unsubscribed before their turn are skipped;
// callbacks registered during the pass wait for the next one.
//
// A panicking callback does not stop the pass. The first panic value is
// re-raised once every remaining callback has run.
func (n *Notifier) Notify() {
	n.mu.Lock()
	snapshot := make([]*subscription, len(n.subs))
	copy(snapshot, n.subs)
	n.mu.Unlock()

	var (
		firstPanic any
		panicked   bool
	)
	for _, s := range snapshot {
		if !s.active.Load() {
			continue
		}
		if r, ok := invoke(s.fn); ok && !panicked {
			firstPanic, panicked = r, true
		}
	}
	if panicked {
		panic(firstPanic)
	}
}

// Len returns the number of registered callbacks.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Clear drops every registration. Unsubscribe funcs handed out earlier stay
// safe to call.
func (n *Notifier) Clear() {
	n.mu.Lock()
	subs := n.subs
	n.subs = nil
	n.mu.Unlock()

	for _, s := range subs {
		s.active.Store(false)
	}
}

func (n *Notifier) remove(target *subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, s := range n.subs {
		if s == target {
			n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
			return
		}
	}
}

func invoke(fn func()) (recovered any, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			recovered, panicked = r, true
		}
	}()
	fn()
	return nil, false
}
