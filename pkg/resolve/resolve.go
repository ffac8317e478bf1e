// Package resolve provides lazy values that builders store in snapshots and
// the render pipeline evaluates against the render environment.
package resolve

import (
	"fmt"
	"maps"
)

// Func computes a value from the render environment. Resolvers are plain
// function values so snapshot copies share them by reference.
type Func func(env map[string]any) (any, error)

// String adapts a zero-argument string producer.
func String(fn func() string) Func {
	return func(map[string]any) (any, error) {
		if fn == nil {
			return "", nil
		}
		return fn(), nil
	}
}

// Bool adapts a zero-argument predicate.
func Bool(fn func() bool) Func {
	return func(map[string]any) (any, error) {
		if fn == nil {
			return false, nil
		}
		return fn(), nil
	}
}

// IsResolver reports whether value is something Value would evaluate.
func IsResolver(value any) bool {
	switch value.(type) {
	case Func, func(map[string]any) (any, error), func() string, func() bool:
		return true
	default:
		return false
	}
}

// Value evaluates value when it is a resolver and returns it unchanged
// otherwise.
func Value(value any, env map[string]any) (any, error) {
	switch v := value.(type) {
	case Func:
		if v == nil {
			return nil, nil
		}
		return v(env)
	case func(map[string]any) (any, error):
		if v == nil {
			return nil, nil
		}
		return v(env)
	case func() string:
		if v == nil {
			return "", nil
		}
		return v(), nil
	case func() bool:
		if v == nil {
			return false, nil
		}
		return v(), nil
	default:
		return value, nil
	}
}

// Text evaluates value and renders the result as a string. Nil becomes "".
func Text(value any, env map[string]any) (string, error) {
	resolved, err := Value(value, env)
	if err != nil {
		return "", err
	}
	switch v := resolved.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}

// Truthy evaluates value and reports its boolean meaning.
func Truthy(value any, env map[string]any) (bool, error) {
	resolved, err := Value(value, env)
	if err != nil {
		return false, err
	}
	switch v := resolved.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		return v != "" && v != "0" && v != "false", nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return true, nil
	}
}

// Map returns a copy of in where every top-level resolver has been evaluated.
// Nested maps are walked so resolvers inside attribute maps are honoured too.
func Map(in map[string]any, env map[string]any) (map[string]any, error) {
	if in == nil {
		return nil, nil
	}
	out := maps.Clone(in)
	for key, value := range in {
		switch v := value.(type) {
		case map[string]any:
			nested, err := Map(v, env)
			if err != nil {
				return nil, fmt.Errorf("resolve: %s: %w", key, err)
			}
			out[key] = nested
		default:
			if !IsResolver(value) {
				continue
			}
			resolved, err := Value(value, env)
			if err != nil {
				return nil, fmt.Errorf("resolve: %s: %w", key, err)
			}
			out[key] = resolved
		}
	}
	return out, nil
}
