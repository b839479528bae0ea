// Package equality provides equality checkers for store.Projection beyond
// the identity based store.DefaultEqualityChecker.
//
// Deep compares data by value. Expr and CEL compile a boolean expression
// over prev and next, which lets a consumer decide which fields matter:
//
//	eq, err := equality.CEL(`prev.loading == next.loading && prev.data.version == next.data.version`)
//	if err != nil {
//	    return err
//	}
//	p, err := store.NewProvider(store.Dependencies[cache.State, string, store.Projection]{
//	    Adapter: cache.New(),
//	    Equal:   eq,
//	}, store.Options[cache.State]{})
package equality
