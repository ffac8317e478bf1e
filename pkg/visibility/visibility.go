// Package visibility decides whether a field is shown for the current
// request. Rules are strings interpreted by an Evaluator; the expr
// subpackage provides the default implementation.
package visibility

// Evaluator determines whether a field should be visible based on a rule
// string and context such as current values or form metadata.
type Evaluator interface {
	Eval(fieldID, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values typically comes from
// render options (submitted or stored values) while Extras carries anything
// else a rule may reference, such as mapped errors or user roles.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldID, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldID, rule string, ctx Context) (bool, error) {
	return fn(fieldID, rule, ctx)
}
