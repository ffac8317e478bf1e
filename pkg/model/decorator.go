package model

// Decorator adjusts the folded model right before rendering, for example to
// inject computed fields or rewrite labels.
type Decorator interface {
	Decorate(*Model) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Model) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(m *Model) error {
	return fn(m)
}
