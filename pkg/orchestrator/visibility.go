package orchestrator

import (
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/resolve"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// VisibleWhenKey is the field context entry holding a visibility rule: a
// resolver, a boolean or an expression string such as `values.plan == "pro"`.
const VisibleWhenKey = builder.ContextVisibleWhen

// visible evaluates the visibility rule of field. String rules go through
// evaluator; resolvers and booleans are evaluated against env. Fields without
// a rule are always visible.
func visible(field model.FieldSnapshot, env map[string]any, evaluator visibility.Evaluator, ctx visibility.Context) (bool, error) {
	rule, ok := field.Context[VisibleWhenKey]
	if !ok || rule == nil {
		return true, nil
	}
	if expression, isString := rule.(string); isString {
		return evaluator.Eval(field.ID, expression, ctx)
	}
	shown, err := resolve.Truthy(rule, env)
	if err != nil {
		return false, fmt.Errorf("field %q: %w", field.ID, err)
	}
	return shown, nil
}

// VisibleWhen returns a decorator attaching expression as the visibility rule
// of each listed field. Unknown field ids fail.
func VisibleWhen(expression string, fieldIDs ...string) model.Decorator {
	return model.DecoratorFunc(func(m *model.Model) error {
		if _, err := resolve.When(expression); err != nil {
			return err
		}
		for _, id := range fieldIDs {
			field, ok := m.Field(id)
			if !ok {
				return fmt.Errorf("visibility: field %q not found", id)
			}
			field.Context = model.CloneContext(field.Context)
			if field.Context == nil {
				field.Context = make(map[string]any)
			}
			field.Context[VisibleWhenKey] = expression
			if err := m.Apply(model.EventField, field); err != nil {
				return err
			}
		}
		return nil
	})
}
