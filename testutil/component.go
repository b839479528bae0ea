package testutil

import (
	"context"

	"github.com/kbukum/storekit/component"
)

// TestComponent is a component whose state can be reset, captured and put
// back between test cases.
type TestComponent interface {
	component.Component

	// Reset returns the component to its initial state.
	Reset(ctx context.Context) error

	// Snapshot captures the current state. The result can be passed to
	// Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore puts back a state captured by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}
