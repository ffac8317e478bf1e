// Package component defines the contract builders use to talk to leaf
// component definitions, a reusable Base implementation, and the registry of
// definition factories keyed by component alias.
package component

// Snapshot is the complete current state of a definition. Order is nil when
// the definition does not carry an order of its own.
type Snapshot struct {
	ID        string
	Label     string
	Component string
	Context   map[string]any
	Order     *int
}

// Method is a named operation exposed by a definition. Fluent methods return
// the definition itself so calls can be chained; builders only hydrate context
// through fluent methods.
type Method struct {
	Fluent bool
	Call   func(args ...any) (any, error)
}

// Definition is the leaf component state wrapped by a field proxy. Method
// exposes the definition's named operations so callers can query capabilities
// without reflection.
type Definition interface {
	Snapshot() Snapshot
	Method(name string) (Method, bool)
}

// Attributable definitions keep a generic attribute map.
type Attributable interface {
	SetAttribute(name string, value any)
}

// Describable definitions store their own description text.
type Describable interface {
	SetDescription(text string)
}

// Orderable definitions carry a default order.
type Orderable interface {
	SetOrder(order int)
}

// Factory builds a definition for a field id and label.
type Factory func(id, label string) Definition

// IsFluentResult reports whether a method result honours the chaining
// contract, i.e. it is a Definition.
func IsFluentResult(result any) bool {
	_, ok := result.(Definition)
	return ok
}
