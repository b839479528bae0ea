package store

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/fetch"
	"github.com/kbukum/storekit/logger"
)

// Dependencies is the injected capability set of a Provider. The composed
// Config is rebuilt only when it changes.
type Dependencies[S any, K comparable, P any] struct {
	// Adapter owns the state shape. Required.
	Adapter Adapter[S, K, P]
	// Equal compares projections. Defaults to DefaultEqualityChecker when P
	// is Projection and is required otherwise.
	Equal EqualityChecker[P]
	// FetchClient defaults to a fetch.HTTPClient with default settings.
	FetchClient fetch.Client
	// Fetcher defaults to fetch.DefaultFetcher.
	Fetcher fetch.Fetcher
}

// Options tunes a Provider beyond its dependencies.
type Options[S any] struct {
	// InitialState seeds the container. When nil the initial state is the
	// reducer applied to the zero S with the ActionInit sentinel.
	InitialState *S
	// Hooks observe dispatches, notify passes and selection signals.
	Hooks Hooks
	// Logger defaults to the global logger tagged with component "store".
	Logger *logger.Logger
}

// Config is the composed view handed to consumers.
type Config[S any, K comparable, P any] struct {
	// Dispatch reduces an action and broadcasts once.
	Dispatch func(Action)
	// Cache is the adapter in use.
	Cache Adapter[S, K, P]
	// Selectors creates keyed selections.
	Selectors *SelectorFactory[S, K, P]
	// UseSelector is a one-shot read of the projection for a key.
	UseSelector func(K) P
	// DefaultFetcher shapes fetch results into cache values.
	DefaultFetcher fetch.Fetcher
	// FetchClient executes requests for DefaultFetcher.
	FetchClient fetch.Client
}

// Provider is the composition root: it owns the state container and the
// notifier and broadcasts once per state replacement.
type Provider[S any, K comparable, P any] struct {
	container *Container[S]
	notifier  *Notifier
	selectors *SelectorFactory[S, K, P]
	hooks     Hooks
	log       *logger.Logger
	closed    atomic.Bool

	queueMu sync.Mutex
	queue   []*step[S]
	drainer uint64 // goroutine applying the queue, 0 when idle

	cfgMu  sync.RWMutex
	given  Dependencies[S, K, P]
	deps   Dependencies[S, K, P]
	config *Config[S, K, P]
}

// NewProvider validates deps and builds a provider. A missing adapter, an
// adapter reporting missing functions, or a missing equality checker for a
// projection type other than Projection yield a MISCONFIGURED AppError.
func NewProvider[S any, K comparable, P any](deps Dependencies[S, K, P], opts Options[S]) (*Provider[S, K, P], error) {
	resolved, err := resolve(deps)
	if err != nil {
		return nil, err
	}

	p := &Provider[S, K, P]{
		notifier: NewNotifier(),
		hooks:    opts.Hooks,
		log:      opts.Logger,
		given:    deps,
		deps:     resolved,
	}
	if p.hooks == nil {
		p.hooks = NopHooks{}
	}
	if p.log == nil {
		p.log = logger.WithComponent("store")
	}

	var initial S
	if opts.InitialState != nil {
		initial = *opts.InitialState
	} else {
		initial = resolved.Adapter.Reducer(initial, Action{Type: ActionInit})
	}
	p.container = NewContainer(initial, p.reduce)

	p.selectors, err = NewSelectorFactory(p.container.State, p.notifier.Subscribe, p.project, p.equal)
	if err != nil {
		return nil, err
	}
	p.selectors.signaled = p.hooks.Signaled
	p.config = p.compose()

	p.log.Debug("store provider created", logger.Fields("state", fmt.Sprintf("%T", initial)))
	return p, nil
}

// Config returns the composed configuration. The same pointer is returned
// until Reconfigure changes the dependencies.
func (p *Provider[S, K, P]) Config() *Config[S, K, P] {
	p.cfgMu.RLock()
	defer p.cfgMu.RUnlock()
	return p.config
}

// Reconfigure swaps the dependency set. State and existing selections are
// kept; selections pick up the new adapter and equality checker on their
// next check. Passing the current dependencies again is a no-op.
func (p *Provider[S, K, P]) Reconfigure(deps Dependencies[S, K, P]) error {
	p.cfgMu.Lock()
	defer p.cfgMu.Unlock()

	if sameDependencies(p.given, deps) {
		return nil
	}
	resolved, err := resolve(deps)
	if err != nil {
		return err
	}
	p.given = deps
	p.deps = resolved
	p.config = p.compose()

	p.log.Info("store reconfigured")
	return nil
}

// State returns the current state.
func (p *Provider[S, K, P]) State() S {
	return p.container.State()
}

// Select is shorthand for Config().Selectors.Select.
func (p *Provider[S, K, P]) Select(key K, onChange func()) *Selection[K, P] {
	return p.selectors.Select(key, onChange)
}

// Subscribe registers a raw broadcast callback.
func (p *Provider[S, K, P]) Subscribe(callback func()) func() {
	return p.notifier.Subscribe(callback)
}

// Subscribers returns the number of registered callbacks.
func (p *Provider[S, K, P]) Subscribers() int {
	return p.notifier.Len()
}

// Dispatch reduces action and notifies subscribers once, unless the reducer
// hands back the state unchanged. Dispatches are applied one at a time: a
// call from another goroutine while one is in progress waits until its own
// action has been applied and notified. A call from inside a notification
// callback is queued and applied after the current pass, before the outer
// Dispatch returns. Panics from the reducer, the projections or the equality
// checkers propagate to the caller whose action raised them.
//
// A callback must not wait for a Dispatch running on another goroutine.
func (p *Provider[S, K, P]) Dispatch(action Action) {
	p.enqueue(&step[S]{action: action})
}

// Replace swaps the whole state, bypassing the reducer, and notifies once.
// It is serialized with Dispatch.
func (p *Provider[S, K, P]) Replace(state S) {
	p.enqueue(&step[S]{action: Action{Type: ActionReplace}, replace: &state})
}

// step is a queued state replacement: a reduced action or, when replace is
// set, a whole new state. Steps queued behind another goroutine carry done,
// closed once the step is applied, and the panic raised while applying it.
type step[S any] struct {
	action  Action
	replace *S

	done      chan struct{}
	recovered any
	panicked  bool
}

func (p *Provider[S, K, P]) enqueue(next *step[S]) {
	if p.closed.Load() {
		p.log.Warn("dispatch on closed store ignored", logger.Fields(logger.FieldAction, next.action.Type))
		return
	}
	self := goroutineID()

	p.queueMu.Lock()
	switch p.drainer {
	case 0:
		p.drainer = self
		p.queue = append(p.queue, next)
		p.queueMu.Unlock()
		p.drain()
	case self:
		p.queue = append(p.queue, next)
		p.queueMu.Unlock()
	default:
		next.done = make(chan struct{})
		p.queue = append(p.queue, next)
		p.queueMu.Unlock()
		<-next.done
		if next.panicked {
			panic(next.recovered)
		}
	}
}

// drain applies queued steps until the queue is empty. A panic never strands
// the steps behind it: a waiting caller receives the panic of its own step,
// and the first panic among the drainer's steps is re-raised once the queue
// is empty.
func (p *Provider[S, K, P]) drain() {
	var (
		firstPanic any
		panicked   bool
	)
	for {
		p.queueMu.Lock()
		if len(p.queue) == 0 {
			p.drainer = 0
			p.queueMu.Unlock()
			break
		}
		next := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.queueMu.Unlock()

		r, failed := invoke(func() { p.apply(next) })
		switch {
		case next.done != nil:
			next.recovered, next.panicked = r, failed
			close(next.done)
		case failed && !panicked:
			firstPanic, panicked = r, true
		}
	}
	if panicked {
		panic(firstPanic)
	}
}

// Close drops all subscribers and turns Dispatch into a no-op. Callers still
// waiting on a queued dispatch are released without it being applied. It is
// safe to call more than once.
func (p *Provider[S, K, P]) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	dropped := p.notifier.Len()
	p.notifier.Clear()

	p.queueMu.Lock()
	pending := p.queue
	p.queue = nil
	p.queueMu.Unlock()
	for _, s := range pending {
		if s.done != nil {
			close(s.done)
		}
	}

	p.log.Info("store closed", logger.Fields(logger.FieldSubscribers, dropped))
	return nil
}

// Closed reports whether Close was called.
func (p *Provider[S, K, P]) Closed() bool {
	return p.closed.Load()
}

// apply replaces the state and notifies once. A reducer returning the state
// it was given replaces nothing, so no pass runs.
func (p *Provider[S, K, P]) apply(next *step[S]) {
	action := next.action
	changed := true
	if next.replace != nil {
		p.container.Set(*next.replace)
	} else {
		_, changed = p.container.Reduce(action)
	}
	p.hooks.Dispatched(action.Type)
	if !changed {
		p.log.Debug("state unchanged", logger.Fields(logger.FieldAction, action.Type, logger.FieldKey, action.Key))
		return
	}

	subscribers := p.notifier.Len()
	p.log.Debug("dispatched", logger.Fields(
		logger.FieldAction, action.Type,
		logger.FieldKey, action.Key,
		logger.FieldSubscribers, subscribers,
	))

	p.notifier.Notify()
	p.hooks.Notified(subscribers)
}

func (p *Provider[S, K, P]) current() Dependencies[S, K, P] {
	p.cfgMu.RLock()
	defer p.cfgMu.RUnlock()
	return p.deps
}

func (p *Provider[S, K, P]) reduce(state S, action Action) S {
	return p.current().Adapter.Reducer(state, action)
}

func (p *Provider[S, K, P]) project(state S, key K) P {
	return p.current().Adapter.GetCacheByKey(state, key)
}

func (p *Provider[S, K, P]) equal(prev, next P) bool {
	return p.current().Equal(prev, next)
}

// compose builds a fresh Config from p.deps. Callers hold cfgMu or own p.
func (p *Provider[S, K, P]) compose() *Config[S, K, P] {
	return &Config[S, K, P]{
		Dispatch:       p.Dispatch,
		Cache:          p.deps.Adapter,
		Selectors:      p.selectors,
		UseSelector:    p.selectors.Read,
		DefaultFetcher: p.deps.Fetcher,
		FetchClient:    p.deps.FetchClient,
	}
}

func resolve[S any, K comparable, P any](deps Dependencies[S, K, P]) (Dependencies[S, K, P], error) {
	if deps.Adapter == nil {
		return deps, errors.Misconfigured("adapter", "a cache adapter is required")
	}
	if v, ok := deps.Adapter.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return deps, err
		}
	}

	if deps.Equal == nil {
		def, ok := any(EqualityChecker[Projection](DefaultEqualityChecker)).(EqualityChecker[P])
		if !ok {
			return deps, errors.Misconfigured("equality checker",
				fmt.Sprintf("required for projection type %v", reflect.TypeFor[P]()))
		}
		deps.Equal = def
	}

	if deps.Fetcher == nil {
		deps.Fetcher = fetch.DefaultFetcher
	}
	if deps.FetchClient == nil {
		client, err := fetch.NewHTTPClient(fetch.Config{})
		if err != nil {
			return deps, err
		}
		deps.FetchClient = client
	}
	return deps, nil
}

func sameDependencies[S any, K comparable, P any](a, b Dependencies[S, K, P]) bool {
	return sameDependency(a.Adapter, b.Adapter) &&
		sameDependency(a.Equal, b.Equal) &&
		sameDependency(a.FetchClient, b.FetchClient) &&
		sameDependency(a.Fetcher, b.Fetcher)
}
