package equality

import (
	"fmt"
	"strings"

	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/store"
)

// Modes accepted by Parse besides the expr: and cel: prefixes.
const (
	ModeIdentity = "identity"
	ModeDeep     = "deep"

	exprPrefix = "expr:"
	celPrefix  = "cel:"
)

// Parse builds the checker named by a configuration setting: "identity" (or
// empty) for store.DefaultEqualityChecker, "deep" for Deep, and
// "expr:<source>" or "cel:<source>" for a compiled expression.
func Parse(setting string) (store.EqualityChecker[store.Projection], error) {
	setting = strings.TrimSpace(setting)
	switch {
	case setting == "" || setting == ModeIdentity:
		return store.DefaultEqualityChecker, nil
	case setting == ModeDeep:
		return Deep, nil
	case strings.HasPrefix(setting, exprPrefix):
		return Expr(strings.TrimSpace(strings.TrimPrefix(setting, exprPrefix)))
	case strings.HasPrefix(setting, celPrefix):
		return CEL(strings.TrimSpace(strings.TrimPrefix(setting, celPrefix)))
	}
	return nil, errors.InvalidInput("equality",
		fmt.Sprintf("unknown mode %q, want identity, deep, expr:<source> or cel:<source>", setting))
}
