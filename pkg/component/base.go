package component

import (
	"maps"
	"slices"
)

// Base is a general purpose Definition. Component types either use it
// directly or embed it and call Bind so fluent methods return the outer value.
type Base struct {
	self    Definition
	id      string
	label   string
	alias   string
	context map[string]any
	order   *int
	methods map[string]Method
}

var (
	_ Definition   = (*Base)(nil)
	_ Attributable = (*Base)(nil)
	_ Describable  = (*Base)(nil)
	_ Orderable    = (*Base)(nil)
)

// NewBase constructs a definition with the common description, placeholder
// and label setters registered.
func NewBase(alias, id, label string) *Base {
	b := &Base{
		id:      id,
		label:   label,
		alias:   alias,
		context: make(map[string]any),
		methods: make(map[string]Method),
	}
	b.self = b
	b.Define("description", func(args ...any) error {
		b.SetDescription(stringArg(args))
		return nil
	})
	b.Define("label", func(args ...any) error {
		b.label = stringArg(args)
		return nil
	})
	b.DefineSetter("placeholder", "placeholder")
	return b
}

// Bind makes fluent methods return outer instead of the embedded Base.
func (b *Base) Bind(outer Definition) *Base {
	if outer != nil {
		b.self = outer
	}
	return b
}

// Define registers a fluent method. The method returns the bound definition
// after fn succeeds.
func (b *Base) Define(name string, fn func(args ...any) error) *Base {
	b.methods[name] = Method{
		Fluent: true,
		Call: func(args ...any) (any, error) {
			if err := fn(args...); err != nil {
				return nil, err
			}
			return b.self, nil
		},
	}
	return b
}

// DefineQuery registers a method that returns a value instead of the
// definition. Builders refuse to chain through such methods.
func (b *Base) DefineQuery(name string, fn func(args ...any) (any, error)) *Base {
	b.methods[name] = Method{Call: fn}
	return b
}

// DefineSetter registers a fluent method storing its argument under key in
// the definition context. Several arguments are stored as a slice.
func (b *Base) DefineSetter(name, key string) *Base {
	return b.Define(name, func(args ...any) error {
		b.context[key] = valueArg(args)
		return nil
	})
}

// Method implements Definition.
func (b *Base) Method(name string) (Method, bool) {
	method, ok := b.methods[name]
	return method, ok
}

// Methods lists the registered method names.
func (b *Base) Methods() []string {
	names := slices.Collect(maps.Keys(b.methods))
	slices.Sort(names)
	return names
}

// Snapshot implements Definition.
func (b *Base) Snapshot() Snapshot {
	snapshot := Snapshot{
		ID:        b.id,
		Label:     b.label,
		Component: b.alias,
		Context:   cloneContext(b.context),
	}
	if b.order != nil {
		order := *b.order
		snapshot.Order = &order
	}
	return snapshot
}

// Set stores a context value.
func (b *Base) Set(key string, value any) {
	b.context[key] = value
}

// Get reads a context value.
func (b *Base) Get(key string) (any, bool) {
	value, ok := b.context[key]
	return value, ok
}

// SetAttribute implements Attributable. Attributes live under the
// "attributes" context key.
func (b *Base) SetAttribute(name string, value any) {
	attrs, _ := b.context["attributes"].(map[string]any)
	if attrs == nil {
		attrs = make(map[string]any)
		b.context["attributes"] = attrs
	}
	attrs[name] = value
}

// SetDescription implements Describable.
func (b *Base) SetDescription(text string) {
	if text == "" {
		delete(b.context, "description")
		return
	}
	b.context["description"] = text
}

// SetOrder implements Orderable.
func (b *Base) SetOrder(order int) {
	b.order = &order
}

func cloneContext(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		if nested, ok := value.(map[string]any); ok {
			out[key] = cloneContext(nested)
			continue
		}
		out[key] = value
	}
	return out
}

func valueArg(args []any) any {
	switch len(args) {
	case 0:
		return true
	case 1:
		return args[0]
	default:
		return slices.Clone(args)
	}
}

func stringArg(args []any) string {
	if len(args) == 0 {
		return ""
	}
	if text, ok := args[0].(string); ok {
		return text
	}
	return ""
}
