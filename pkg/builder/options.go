package builder

import (
	"maps"

	"github.com/go-viper/mapstructure/v2"

	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/scope"
)

// FieldOptions is the decoded form of the options map accepted by
// Container.Field.
type FieldOptions struct {
	Context  map[string]any `mapstructure:"context"`
	Template any            `mapstructure:"template"`
	Group    string         `mapstructure:"group"`
	Order    *int           `mapstructure:"order"`
}

func decodeFieldOptions(fieldID string, raw map[string]any) (FieldOptions, error) {
	var out FieldOptions
	if len(raw) == 0 {
		return out, nil
	}
	if value, ok := raw["context"]; ok && value != nil {
		ctx, isMap := toAttributes(value)
		if !isMap {
			return out, invalidArgument("field %q: context must be a map, got %T", fieldID, value)
		}
		raw = maps.Clone(raw)
		raw["context"] = ctx
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(raw); err != nil {
		return out, invalidArgument("field %q: %v", fieldID, err)
	}
	return out, nil
}

// Option configures a Root.
type Option func(*Root)

// WithRegistry sets the component factory registry. Defaults to
// component.NewDefaultRegistry().
func WithRegistry(registry *component.Registry) Option {
	return func(r *Root) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithScope derives default input names from the storage scope.
func WithScope(s scope.Scope) Option {
	return func(r *Root) {
		r.scope = s
	}
}

// WithLabeler replaces the function deriving labels from field ids.
func WithLabeler(labeler func(id string) string) Option {
	return func(r *Root) {
		if labeler != nil {
			r.labeler = labeler
		}
	}
}
