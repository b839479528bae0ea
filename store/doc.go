// Package store is a shared state container with keyed change
// notification.
//
// State S lives in a single Container and only changes through an Adapter's
// Reducer. Every state replacement triggers exactly one Notifier pass. Each
// Selection registers one callback that re-projects its key with
// GetCacheByKey and compares the result with the last projection it saw, so
// a consumer is signaled only when its own key changed:
//
//	p, err := store.NewProvider(store.Dependencies[cache.State, string, store.Projection]{
//	    Adapter: cache.New(),
//	}, store.Options[cache.State]{})
//	if err != nil {
//	    return err
//	}
//	cfg := p.Config()
//
//	sel := cfg.Selectors.Select("users", func() { render() })
//	defer sel.Close()
//
//	cfg.Dispatch(cache.LoadingAction("users"))
//	_ = sel.Value().Loading // true
//
// The equality checker decides what counts as a change. The default,
// DefaultEqualityChecker, compares by identity; package equality offers
// deep and expression based checkers.
package store
