package testutil

import (
	"context"
	"testing"
)

// THelper runs TestComponent lifecycle calls and fails the test on error.
//
//	func TestFetch(t *testing.T) {
//	    h := testutil.T(t)
//	    h.Setup(comp) // stopped when the test ends
//	    snap := h.Snapshot(comp)
//	    ...
//	    h.Restore(comp, snap)
//	}
type THelper struct {
	t   testing.TB
	ctx context.Context
}

func T(t testing.TB) *THelper {
	return &THelper{t: t, ctx: context.Background()}
}

// WithContext sets the context passed to every lifecycle call.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

func (h *THelper) must(op string, c TestComponent, err error) {
	h.t.Helper()
	if err != nil {
		h.t.Fatalf("%s %s: %v", op, c.Name(), err)
	}
}

// Setup starts c and registers its Stop as a test cleanup.
func (h *THelper) Setup(c TestComponent) {
	h.t.Helper()
	h.must("start", c, c.Start(h.ctx))
	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("stop %s: %v", c.Name(), err)
		}
	})
}

func (h *THelper) Reset(c TestComponent) {
	h.t.Helper()
	h.must("reset", c, c.Reset(h.ctx))
}

func (h *THelper) Snapshot(c TestComponent) interface{} {
	h.t.Helper()
	snap, err := c.Snapshot(h.ctx)
	h.must("snapshot", c, err)
	return snap
}

func (h *THelper) Restore(c TestComponent, snapshot interface{}) {
	h.t.Helper()
	h.must("restore", c, c.Restore(h.ctx, snapshot))
}
