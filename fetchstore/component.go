package fetchstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/storekit/cache"
	"github.com/kbukum/storekit/component"
	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/logger"
)

// Component runs a Store under the component lifecycle.
type Component struct {
	opts []Option
	log  *logger.Logger

	mu    sync.RWMutex
	store *Store
}

// NewComponent returns a component that builds its Store on Start.
func NewComponent(opts ...Option) *Component {
	return &Component{
		opts: opts,
		log:  logger.WithComponent("fetchstore"),
	}
}

func (c *Component) Name() string { return "store" }

// Start builds the store. Starting a running component is an error.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store != nil && !c.store.Closed() {
		return errors.InvalidInput("store", "already started")
	}
	s, err := New(c.opts...)
	if err != nil {
		return err
	}
	c.store = s
	c.log.Info("store started")
	return nil
}

// Stop closes the store and drops every subscriber.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.RLock()
	s := c.store
	c.mu.RUnlock()
	if s == nil {
		return nil
	}
	return s.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name()}
	s := c.Store()
	switch {
	case s == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case s.Closed():
		h.Status = component.StatusUnhealthy
		h.Message = "closed"
	default:
		h.Status = component.StatusHealthy
		h.Message = c.details(s)
	}
	return h
}

func (c *Component) Describe() component.Description {
	d := component.Description{Type: "store"}
	if s := c.Store(); s != nil {
		d.Details = c.details(s)
	}
	return d
}

// Store returns the running store, or nil before Start.
func (c *Component) Store() *Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// Reset empties the cache and notifies subscribers.
func (c *Component) Reset(ctx context.Context) error {
	s, err := c.running()
	if err != nil {
		return err
	}
	s.Replace(cache.State{})
	return nil
}

// Snapshot returns the current cache.State.
func (c *Component) Snapshot(ctx context.Context) (interface{}, error) {
	s, err := c.running()
	if err != nil {
		return nil, err
	}
	return s.State(), nil
}

// Restore replaces the cache with a cache.State taken by Snapshot.
func (c *Component) Restore(ctx context.Context, snapshot interface{}) error {
	s, err := c.running()
	if err != nil {
		return err
	}
	state, ok := snapshot.(cache.State)
	if !ok {
		return errors.InvalidInput("snapshot", fmt.Sprintf("expected cache.State, got %T", snapshot))
	}
	s.Replace(state)
	return nil
}

func (c *Component) running() (*Store, error) {
	s := c.Store()
	if s == nil || s.Closed() {
		return nil, errors.Closed("store")
	}
	return s, nil
}

func (c *Component) details(s *Store) string {
	return fmt.Sprintf("keys=%d subscribers=%d", s.State().Len(), s.Subscribers())
}
