package equality

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"

	"github.com/kbukum/storekit/errors"
	"github.com/kbukum/storekit/store"
)

// CEL compiles a Common Expression Language expression into an equality
// checker. prev and next are dynamic maps with data, error and loading
// keys:
//
//	eq, err := equality.CEL(`prev.loading == next.loading && prev.data == next.data`)
//
// Like Expr, evaluation failures panic.
func CEL(expression string) (store.EqualityChecker[store.Projection], error) {
	if expression == "" {
		return nil, errors.InvalidInput("expression", "expression must not be empty")
	}
	env, err := celgo.NewEnv(
		celgo.Variable(VarPrev, celgo.DynType),
		celgo.Variable(VarNext, celgo.DynType),
	)
	if err != nil {
		return nil, errors.Internal(err)
	}

	ast, issues := env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return nil, compileError(expression, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, compileError(expression, issues.Err())
	}
	if out := checked.OutputType(); !out.IsExactType(celgo.BoolType) && !out.IsExactType(celgo.DynType) {
		return nil, errors.InvalidInput("expression", fmt.Sprintf("%q returns %s, want bool", expression, out))
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, compileError(expression, err)
	}

	return func(prev, next store.Projection) bool {
		out, _, err := program.Eval(map[string]any{
			VarPrev: toEnv(prev),
			VarNext: toEnv(next),
		})
		if err != nil {
			panic(fmt.Errorf("equality: cel %q: %w", expression, err))
		}
		equal, ok := out.Value().(bool)
		if !ok {
			panic(fmt.Errorf("equality: cel %q returned %T, want bool", expression, out.Value()))
		}
		return equal
	}, nil
}

func compileError(expression string, err error) error {
	return errors.InvalidInput("expression", fmt.Sprintf("compile %q", expression)).WithCause(err)
}
