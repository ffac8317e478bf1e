package model

import (
	"maps"
	"reflect"

	"github.com/mitchellh/copystructure"
)

// CloneContext copies a context map so stored snapshots never alias builder
// state. Container shapes (maps, slices) are copied recursively; every other
// value, including structs and pointers, is kept by reference so opaque
// values survive unchanged.
func CloneContext(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	return cloneMap(in)
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []map[string]any:
		if v == nil {
			return v
		}
		out := make([]map[string]any, len(v))
		for i, item := range v {
			out[i] = cloneMap(item)
		}
		return out
	}

	if isScalarCollection(reflect.TypeOf(value)) {
		if copied, err := copystructure.Copy(value); err == nil {
			return copied
		}
	}
	return value
}

// isScalarCollection reports unnamed slices and maps holding only scalar
// kinds, such as []string or map[string]int. Named types keep their identity
// and are shared.
func isScalarCollection(t reflect.Type) bool {
	if t == nil || t.Name() != "" {
		return false
	}
	switch t.Kind() {
	case reflect.Slice:
		return isScalarKind(t.Elem().Kind())
	case reflect.Map:
		return isScalarKind(t.Key().Kind()) && isScalarKind(t.Elem().Kind())
	default:
		return false
	}
}

func isScalarKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func cloneContainer(in ContainerSnapshot) ContainerSnapshot {
	return in
}

func cloneField(in FieldSnapshot) FieldSnapshot {
	out := in
	out.Context = CloneContext(in.Context)
	return out
}

func cloneOverride(in TemplateOverride) TemplateOverride {
	out := in
	out.Overrides = maps.Clone(in.Overrides)
	return out
}
