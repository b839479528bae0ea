package sse

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kbukum/storekit/component"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component ties a Hub to the service lifecycle: Stop closes every watch
// stream so the HTTP server can drain.
type Component struct {
	hub     *Hub
	path    string
	started atomic.Bool
}

// NewComponent wraps hub. path only shows up in Describe.
func NewComponent(hub *Hub, path string) *Component {
	return &Component{hub: hub, path: path}
}

func (c *Component) Hub() *Hub { return c.hub }

func (c *Component) Name() string { return "sse" }

func (c *Component) Start(context.Context) error {
	c.started.Store(true)
	return nil
}

func (c *Component) Stop(context.Context) error {
	c.hub.Close()
	c.started.Store(false)
	return nil
}

func (c *Component) Health(context.Context) component.Health {
	if !c.started.Load() {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "hub not running"}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.ClientCount()),
	}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Watch streams",
		Type:    "sse",
		Details: "path=" + c.path,
	}
}
