// Package testutil holds fixtures for testing stores and the components
// built on them.
//
// MapAdapter is a small store.Adapter over a map of projections. Recorder
// counts change signals per selection and CountingHooks counts store hook
// calls:
//
//	rec := testutil.NewRecorder()
//	p, _ := store.NewProvider(store.Dependencies[testutil.MapState, string, store.Projection]{
//	    Adapter: testutil.MapAdapter{},
//	}, store.Options[testutil.MapState]{})
//	sel := p.Select("a", rec.Signal("a"))
//	p.Dispatch(testutil.Loading("a"))
//	// rec.Count("a") == 1
//
// TestComponent extends component.Component with Reset, Snapshot and
// Restore so a store can be put back between cases. T ties those
// lifecycles to a test.
package testutil
