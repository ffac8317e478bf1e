package resolve

import (
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
)

// When compiles a boolean expression evaluated against the render environment
// (for example `values.plan == "pro"`). Undefined variables evaluate to nil so
// an expression can reference values that are not always present.
func When(expression string) (Func, error) {
	trimmed := strings.TrimSpace(expression)
	if trimmed == "" {
		return nil, fmt.Errorf("resolve: expression must not be empty")
	}
	program, err := exprlang.Compile(trimmed,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("resolve: compile %q: %w", trimmed, err)
	}
	return func(env map[string]any) (any, error) {
		if env == nil {
			env = map[string]any{}
		}
		result, err := exprlang.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("resolve: evaluate %q: %w", trimmed, err)
		}
		return result, nil
	}, nil
}

// MustWhen is like When but panics on compile errors. Useful for static
// builder declarations.
func MustWhen(expression string) Func {
	fn, err := When(expression)
	if err != nil {
		panic(err)
	}
	return fn
}
