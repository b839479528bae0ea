package equality

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/store"
)

// Expr compiles an expr-lang expression into an equality checker. The
// expression sees prev and next as maps with data, error and loading keys
// and must return a bool:
//
//	eq, err := equality.Expr(`prev.loading == next.loading && prev.data?.id == next.data?.id`)
//
// A run-time failure panics, and the panic reaches the dispatcher like any
// other checker panic.
func Expr(expression string) (store.EqualityChecker[store.Projection], error) {
	if expression == "" {
		return nil, errors.InvalidInput("expression", "expression must not be empty")
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{VarPrev: map[string]any{}, VarNext: map[string]any{}}),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, errors.InvalidInput("expression", fmt.Sprintf("compile %q", expression)).WithCause(err)
	}
	return func(prev, next store.Projection) bool {
		return runExpr(program, expression, prev, next)
	}, nil
}

func runExpr(program *exprvm.Program, expression string, prev, next store.Projection) bool {
	out, err := exprlang.Run(program, map[string]any{
		VarPrev: toEnv(prev),
		VarNext: toEnv(next),
	})
	if err != nil {
		panic(fmt.Errorf("equality: expr %q: %w", expression, err))
	}
	equal, ok := out.(bool)
	if !ok {
		panic(fmt.Errorf("equality: expr %q returned %T, want bool", expression, out))
	}
	return equal
}
