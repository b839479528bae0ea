package sse

import (
	"sync"

	"github.com/kbukum/storekit/logger"
)

const defaultClientBuffer = 16

// Client is one connected stream.
type Client struct {
	id       string
	metadata map[string]string

	mu     sync.Mutex
	closed bool
	events chan Event
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMetadata adds a metadata key-value pair to the client.
func WithMetadata(key, value string) ClientOption {
	return func(c *Client) { c.metadata[key] = value }
}

// WithKey records the store key the client watches.
func WithKey(key string) ClientOption {
	return WithMetadata("key", key)
}

// WithBuffer sets how many events may queue before Send drops.
func WithBuffer(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.events = make(chan Event, n)
		}
	}
}

// NewClient creates a client.
func NewClient(id string, opts ...ClientOption) *Client {
	c := &Client{
		id:       id,
		metadata: make(map[string]string),
		events:   make(chan Event, defaultClientBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ID() string { return c.id }

// Key returns the watched store key.
func (c *Client) Key() string { return c.metadata["key"] }

// Metadata returns all client metadata.
func (c *Client) Metadata() map[string]string { return c.metadata }

// Events returns the channel the stream loop reads from. It is closed when
// the client is closed.
func (c *Client) Events() <-chan Event { return c.events }

// Send queues ev without blocking. It returns false when the client is
// closed or its buffer is full, in which case ev is dropped.
func (c *Client) Send(ev Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.events <- ev:
		return true
	default:
		logger.WithComponent("sse").Warn("client buffer full, dropping event", logger.Fields(
			logger.FieldClientID, c.id,
			"event", ev.Type,
		))
		return false
	}
}

// Close closes the events channel. It is safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.events)
}

// Closed reports whether Close was called.
func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
