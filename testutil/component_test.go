package testutil_test

import (
	"context"
	"errors"
	"sync"

	"github.com/kbukum/storekit/component"
	"github.com/kbukum/storekit/testutil"
)

// memComponent keeps a list of values so snapshots can be taken and put
// back, and records the order of lifecycle calls in a shared log.
type memComponent struct {
	name     string
	log      *[]string
	mu       sync.Mutex
	values   []string
	running  bool
	startErr error
	stopErr  error
}

var _ testutil.TestComponent = (*memComponent)(nil)

func newMemComponent(name string, log *[]string) *memComponent {
	return &memComponent{name: name, log: log}
}

func (m *memComponent) record(event string) {
	if m.log != nil {
		*m.log = append(*m.log, m.name+":"+event)
	}
}

func (m *memComponent) Name() string { return m.name }

func (m *memComponent) Start(context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.running = true
	m.record("start")
	return nil
}

func (m *memComponent) Stop(context.Context) error {
	m.record("stop")
	if m.stopErr != nil {
		return m.stopErr
	}
	m.running = false
	return nil
}

func (m *memComponent) Health(context.Context) component.Health {
	status := component.StatusHealthy
	if !m.running {
		status = component.StatusUnhealthy
	}
	return component.Health{Name: m.name, Status: status}
}

func (m *memComponent) Add(v string) {
	m.mu.Lock()
	m.values = append(m.values, v)
	m.mu.Unlock()
}

func (m *memComponent) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

func (m *memComponent) Reset(context.Context) error {
	m.mu.Lock()
	m.values = nil
	m.mu.Unlock()
	m.record("reset")
	return nil
}

func (m *memComponent) Snapshot(context.Context) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.values...), nil
}

func (m *memComponent) Restore(_ context.Context, snapshot interface{}) error {
	values, ok := snapshot.([]string)
	if !ok {
		return errors.New("unexpected snapshot type")
	}
	m.mu.Lock()
	m.values = append([]string(nil), values...)
	m.mu.Unlock()
	return nil
}
