package builder

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

type match int

const (
	matchNone match = iota
	matchExact
	matchNormalized
	matchAmbiguous
)

// lookup resolves key against the definition's methods using the literal
// name and its camel-cased form. A literal that is not fluent falls through
// to the camel-cased candidate.
func lookup(def component.Definition, key string) (string, component.Method, match) {
	literal, hasLiteral := def.Method(key)

	normalized := model.CamelKey(key)
	var (
		camel    component.Method
		hasCamel bool
	)
	if normalized != key {
		camel, hasCamel = def.Method(normalized)
	}

	switch {
	case hasLiteral && hasCamel:
		return "", component.Method{}, matchAmbiguous
	case hasLiteral && literal.Fluent:
		return key, literal, matchExact
	case hasCamel:
		return normalized, camel, matchNormalized
	default:
		return "", component.Method{}, matchNone
	}
}

type stepKind int

const (
	stepCall stepKind = iota
	stepOrder
	stepAttributes
	stepTemplate
	stepFlag
	stepAttribute
	stepOverlay
)

type step struct {
	kind     stepKind
	key      string
	method   string
	call     component.Method
	value    any
	order    int
	attrs    map[string]any
	override model.Override
}

var flagKeys = map[string]struct{}{
	"disabled": {},
	"required": {},
	"readonly": {},
}

// Context keys read at render time. They always stay in the overlay so a
// string rule is never mistaken for an HTML attribute.
const (
	ContextVisibleWhen    = "visible_when"
	ContextTags           = "tags"
	ContextLabelKey       = "label_key"
	ContextDescriptionKey = "description_key"
	ContextPlaceholderKey = "placeholder_key"
)

var overlayKeys = map[string]struct{}{
	ContextVisibleWhen:    {},
	ContextTags:           {},
	ContextLabelKey:       {},
	ContextDescriptionKey: {},
	ContextPlaceholderKey: {},
}

// ApplyContext hydrates the definition from a context map. Keys are matched
// against definition methods by literal and camel-cased name; a key matching
// both is rejected before anything is mutated. Scalars without a setter
// become attributes and other values stay in the pending context overlay.
//
// The special keys "order", "attributes" and "field_template" set the
// context order, bulk attributes and the field-wrapper template.
//
// Definition methods run first. When one fails nothing is emitted and the
// proxy's own state (overlay, attributes, order, template) is left as it
// was; methods that already ran keep their effect on the definition and show
// up in the next emission.
func (p *FieldProxy) ApplyContext(values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	steps, err := p.plan(values)
	if err != nil {
		return err
	}
	if err := p.apply(steps); err != nil {
		return err
	}
	p.emit()
	if hasTemplateStep(steps) {
		p.emitOverrides()
	}
	return nil
}

// MustApplyContext mirrors ApplyContext but panics on error.
func (p *FieldProxy) MustApplyContext(values map[string]any) *FieldProxy {
	if err := p.ApplyContext(values); err != nil {
		panic(err)
	}
	return p
}

func (p *FieldProxy) plan(values map[string]any) ([]step, error) {
	keys := slices.Collect(maps.Keys(values))
	slices.Sort(keys)

	steps := make([]step, 0, len(keys))
	for _, key := range keys {
		value := values[key]
		switch key {
		case "order":
			if _, method, m := lookup(p.def, key); m == matchExact {
				steps = append(steps, step{kind: stepCall, key: key, method: key, call: method, value: value})
				continue
			}
			order, ok := toInt(value)
			if !ok {
				return nil, invalidArgument("field %q: order must be an integer, got %T", p.id, value)
			}
			steps = append(steps, step{kind: stepOrder, key: key, order: order})
			continue
		case "attributes":
			attrs, ok := toAttributes(value)
			if !ok {
				return nil, invalidArgument("field %q: attributes must be a map, got %T", p.id, value)
			}
			steps = append(steps, step{kind: stepAttributes, key: key, attrs: attrs})
			continue
		case "field_template":
			override, err := toOverride(value)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step{kind: stepTemplate, key: key, override: override})
			continue
		}

		name, method, m := lookup(p.def, key)
		switch m {
		case matchAmbiguous:
			return nil, p.callError(key, fmt.Sprintf("%s (%s, %s)", ReasonAmbiguous, key, model.CamelKey(key)), ErrAmbiguousHydration)
		case matchExact, matchNormalized:
			steps = append(steps, step{kind: stepCall, key: key, method: name, call: method, value: value})
		default:
			if _, ok := flagKeys[key]; ok {
				steps = append(steps, step{kind: stepFlag, key: key, value: value})
				continue
			}
			if _, ok := overlayKeys[key]; ok {
				steps = append(steps, step{kind: stepOverlay, key: key, value: value})
				continue
			}
			if isScalar(value) {
				steps = append(steps, step{kind: stepAttribute, key: key, value: value})
				continue
			}
			steps = append(steps, step{kind: stepOverlay, key: key, value: value})
		}
	}
	return steps, nil
}

func (p *FieldProxy) apply(steps []step) error {
	forwarded := make(map[string]bool)
	for _, s := range steps {
		switch s.kind {
		case stepCall:
			if err := p.forward(s.method, s.call, s.value); err != nil {
				return err
			}
		case stepFlag:
			method, ok := p.flagMethod(s.key, s.value)
			if !ok {
				continue
			}
			if err := p.forward(s.key, method, s.value); err != nil {
				return err
			}
			forwarded[s.key] = true
		}
	}

	for _, s := range steps {
		switch s.kind {
		case stepOrder:
			p.contextOrder = clampPtr(s.order)
		case stepAttributes:
			keys := slices.Collect(maps.Keys(s.attrs))
			slices.Sort(keys)
			for _, key := range keys {
				p.setAttribute(key, s.attrs[key])
			}
		case stepTemplate:
			p.setTemplate(s.override)
		case stepFlag:
			if forwarded[s.key] {
				delete(p.overlay, s.key)
			} else {
				p.overlay[s.key] = s.value
			}
		case stepAttribute:
			p.setAttribute(s.key, s.value)
		case stepOverlay:
			p.overlay[s.key] = s.value
		}
	}
	return nil
}

func hasTemplateStep(steps []step) bool {
	return slices.ContainsFunc(steps, func(s step) bool { return s.kind == stepTemplate })
}

func isScalar(value any) bool {
	switch value.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}

func toAttributes(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case map[string]string:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = item
		}
		return out, true
	default:
		return nil, false
	}
}
