// Package expr evaluates visibility rules with expr-lang.
//
// Values are exposed both as top-level identifiers and under "values", so
// `enabled`, `role == "admin"` and `values.plan != nil` all work. Extras are
// available under "extras". Missing identifiers evaluate to nil.
package expr

import (
	"fmt"
	"strings"
	"sync"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// Evaluator compiles each distinct rule once and caches the program.
type Evaluator struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

var _ visibility.Evaluator = (*Evaluator)(nil)

func New() *Evaluator {
	return &Evaluator{programs: make(map[string]*vm.Program)}
}

// Eval reports whether rule holds. Empty rules are always visible; results
// that are not booleans follow the usual truthiness (nil, "", 0 are false).
func (e *Evaluator) Eval(fieldID, rule string, ctx visibility.Context) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}
	program, err := e.compile(trimmed)
	if err != nil {
		return false, fmt.Errorf("visibility: field %q: %w", fieldID, err)
	}
	result, err := exprlang.Run(program, environment(ctx))
	if err != nil {
		return false, fmt.Errorf("visibility: field %q: evaluate %q: %w", fieldID, trimmed, err)
	}
	return truthy(result), nil
}

func (e *Evaluator) compile(rule string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[rule]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := exprlang.Compile(rule, exprlang.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", rule, err)
	}
	e.mu.Lock()
	e.programs[rule] = program
	e.mu.Unlock()
	return program, nil
}

// environment exposes values at the top level. Flattened dotted keys such as
// "cta.headline" are expanded into nested maps so member access works.
func environment(ctx visibility.Context) map[string]any {
	env := make(map[string]any, len(ctx.Values)+2)
	for key, value := range ctx.Values {
		if !strings.Contains(key, ".") {
			env[key] = value
		}
	}
	for key, value := range ctx.Values {
		if strings.Contains(key, ".") {
			setPath(env, strings.Split(key, "."), value)
		}
	}
	env["values"] = ctx.Values
	env["extras"] = ctx.Extras
	return env
}

func setPath(env map[string]any, segments []string, value any) {
	current := env
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	last := segments[len(segments)-1]
	if _, exists := current[last]; !exists {
		current[last] = value
	}
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0" && v != "false"
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}
