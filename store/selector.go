package store

import (
	"sync"

	"github.com/kbukum/storekit/errors"
)

// SelectorFactory produces keyed selections over a state source. Every
// selection holds one subscription and signals its consumer only when the
// projection for its key changes under the equality checker.
type SelectorFactory[S any, K comparable, P any] struct {
	state     func() S
	subscribe func(func()) func()
	project   func(S, K) P
	equal     EqualityChecker[P]
	signaled  func()
}

// NewSelectorFactory wires a factory from a state accessor, a subscribe
// func (usually Notifier.Subscribe), a projection and an equality checker.
func NewSelectorFactory[S any, K comparable, P any](
	state func() S,
	subscribe func(func()) func(),
	project func(S, K) P,
	equal EqualityChecker[P],
) (*SelectorFactory[S, K, P], error) {
	switch {
	case state == nil:
		return nil, errors.Misconfigured("selector", "state accessor is required")
	case subscribe == nil:
		return nil, errors.Misconfigured("selector", "subscribe func is required")
	case project == nil:
		return nil, errors.Misconfigured("selector", "projection is required")
	case equal == nil:
		return nil, errors.Misconfigured("selector", "equality checker is required")
	}
	return &SelectorFactory[S, K, P]{
		state:     state,
		subscribe: subscribe,
		project:   project,
		equal:     equal,
	}, nil
}

// Read projects the current state for key without subscribing.
func (f *SelectorFactory[S, K, P]) Read(key K) P {
	return f.project(f.state(), key)
}

// Select creates a selection watching key. onChange, which may be nil, is
// called after every change of the cached projection, without any selection
// lock held. Panics from the projection propagate to the caller.
func (f *SelectorFactory[S, K, P]) Select(key K, onChange func()) *Selection[K, P] {
	s := &Selection[K, P]{
		read:      f.Read,
		subscribe: f.subscribe,
		equal:     f.equal,
		signaled:  f.signaled,
		onChange:  onChange,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bind(key)
	return s
}

// Selection is one consumer's view of one key.
type Selection[K comparable, P any] struct {
	read      func(K) P
	subscribe func(func()) func()
	equal     EqualityChecker[P]
	signaled  func()
	onChange  func()

	mu          sync.Mutex
	key         K
	value       P
	gen         uint64
	unsubscribe func()
	closed      bool
}

// Use returns the cached projection for key. When key differs from the
// current key, a fresh projection is computed and watched for the new key
// and the old subscription is released. If projecting the new key panics,
// the selection stays bound to the old one. After Close, Use is a one-shot
// read.
func (s *Selection[K, P]) Use(key K) P {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.read(key)
	}
	if key == s.key {
		return s.value
	}
	s.bind(key)
	return s.value
}

// Value returns the cached projection.
func (s *Selection[K, P]) Value() P {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Key returns the key currently watched.
func (s *Selection[K, P]) Key() K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// Close releases the subscription. It is safe to call more than once.
func (s *Selection[K, P]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.release()
}

// bind subscribes for key, then caches its projection, so a dispatch racing
// with the read is rechecked once the lock is released. The previous
// subscription is released only once the new one is in place; a panicking
// projection leaves the selection as it was. Callers hold s.mu.
func (s *Selection[K, P]) bind(key K) {
	gen := s.gen + 1
	unsubscribe := s.subscribe(func() { s.check(gen) })

	bound := false
	defer func() {
		if !bound {
			unsubscribe()
		}
	}()
	value := s.read(key)

	previous := s.unsubscribe
	s.gen, s.key, s.value, s.unsubscribe = gen, key, value, unsubscribe
	bound = true
	if previous != nil {
		previous()
	}
}

// release drops the current subscription. Callers hold s.mu.
func (s *Selection[K, P]) release() {
	s.gen++
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Selection[K, P]) check(gen uint64) {
	if !s.refresh(gen) {
		return
	}
	if s.signaled != nil {
		s.signaled()
	}
	if s.onChange != nil {
		s.onChange()
	}
}

// refresh re-projects the current state and reports whether the cached
// projection was replaced. Callbacks of abandoned keys carry a stale
// generation and are ignored.
func (s *Selection[K, P]) refresh(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return false
	}
	next := s.read(s.key)
	if s.equal(s.value, next) {
		return false
	}
	s.value = next
	return true
}
