package orchestrator

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/resolve"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// walker renders the model tree depth first. Children render before their
// container so a failing container still falls back to its content.
type walker struct {
	session    *render.Session
	resolver   *templates.Resolver
	visibility visibility.Evaluator
	visCtx     visibility.Context
	values     map[string]any
	errors     map[string][]string
	env        map[string]any
	i18n       map[string]any
	logger     hclog.Logger
}

func (w *walker) container(ctx context.Context, node model.Node) string {
	snapshot := node.Container

	var content strings.Builder
	for _, child := range node.Children {
		switch {
		case child.Node != nil:
			content.WriteString(w.container(ctx, *child.Node))
		case child.Field != nil:
			content.WriteString(w.field(ctx, *child.Field))
		}
	}

	description, err := resolve.Text(snapshot.Description, w.env)
	if err != nil {
		w.logger.Warn("container description failed", "container", snapshot.ID, "error", err)
	}
	style, err := resolve.Text(snapshot.Style, w.env)
	if err != nil {
		w.logger.Warn("container style failed", "container", snapshot.ID, "error", err)
	}

	templateType := string(snapshot.Kind)
	markup := w.session.RenderElement(ctx, templateType, render.Element{
		Type:    snapshot.Kind,
		ID:      snapshot.ID,
		Default: templateType,
		Config:  map[string]any{render.ConfigContent: content.String()},
	}, withI18n(map[string]any{
		"container": map[string]any{
			"id":          snapshot.ID,
			"kind":        templateType,
			"heading":     snapshot.Heading,
			"description": description,
			"style":       style,
			"committed":   node.Committed,
		},
		"content": content.String(),
		"values":  w.values,
	}, w.i18n))
	return w.callback(snapshot.ID, snapshot.Before) + markup + w.callback(snapshot.ID, snapshot.After)
}

func (w *walker) field(ctx context.Context, field model.FieldSnapshot) string {
	shown, err := visible(field, w.env, w.visibility, w.visCtx)
	if err != nil {
		w.logger.Warn("visibility rule failed, rendering field", "field", field.ID, "error", err)
		shown = true
	}
	if !shown {
		return ""
	}

	fieldCtx, err := resolve.Map(field.Context, w.env)
	if err != nil {
		w.logger.Warn("field context resolution failed", "field", field.ID, "error", err)
		fieldCtx = maps.Clone(field.Context)
	}
	delete(fieldCtx, VisibleWhenKey)
	delete(fieldCtx, builder.ContextLabelKey)
	delete(fieldCtx, builder.ContextDescriptionKey)
	delete(fieldCtx, builder.ContextPlaceholderKey)

	data := withI18n(map[string]any{
		"field":   w.fieldData(field, fieldCtx),
		"context": fieldCtx,
		"value":   w.values[field.ID],
		"errors":  w.errors[field.ID],
		"values":  w.values,
	}, w.i18n)

	// A callback registered for the field id renders the whole field once.
	var control string
	if !w.resolver.HasCallback(field.ID) {
		control = w.session.RenderElement(ctx, model.TemplateField, render.Element{
			Type:      model.ElementField,
			ID:        field.ID,
			Default:   field.Component,
			Component: field.Component,
			FieldID:   field.ID,
		}, data)
	}

	wrapperData := maps.Clone(data)
	wrapperData["control"] = control
	wrapped := w.session.RenderElement(ctx, model.TemplateFieldWrapper, render.Element{
		Type:      model.ElementField,
		ID:        field.ID,
		Default:   model.TemplateFieldWrapper,
		Component: field.Component,
		FieldID:   field.ID,
		Config:    map[string]any{render.ConfigComponentHTML: control},
	}, wrapperData)

	return w.callback(field.ID, field.Before) + wrapped + w.callback(field.ID, field.After)
}

func (w *walker) fieldData(field model.FieldSnapshot, fieldCtx map[string]any) map[string]any {
	attrs, _ := fieldCtx["attributes"].(map[string]any)
	attrs = maps.Clone(attrs)
	flag := func(name string) bool {
		value, ok := fieldCtx[name]
		if !ok {
			value = attrs[name]
		}
		delete(attrs, name)
		set, err := resolve.Truthy(value, w.env)
		if err != nil {
			w.logger.Warn("field flag failed", "field", field.ID, "flag", name, "error", err)
			return false
		}
		return set
	}
	style, err := resolve.Text(field.Style, w.env)
	if err != nil {
		w.logger.Warn("field style failed", "field", field.ID, "error", err)
	}
	description, _ := resolve.Text(fieldCtx["description"], w.env)

	return map[string]any{
		"id":          field.ID,
		"label":       field.Label,
		"component":   field.Component,
		"description": description,
		"required":    flag("required"),
		"disabled":    flag("disabled"),
		"readonly":    flag("readonly"),
		"style":       style,
		"group_id":    field.GroupID,
		"section_id":  field.SectionID,
		"attributes":  attrs,
	}
}

// callback runs a before/after hook. A panicking hook is logged and skipped.
func (w *walker) callback(id string, cb model.Callback) (out string) {
	if cb == nil {
		return ""
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			w.logger.Error("element callback panicked", "element", id, "error", fmt.Sprint(recovered))
			out = ""
		}
	}()
	return cb(maps.Clone(w.env))
}
