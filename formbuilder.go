// Package formbuilder declares settings forms through fluent builders and
// renders them to HTML with deduplicated script and style declarations.
//
//	form := formbuilder.NewForm("settings", orchestrator.WithAction("/save"))
//	form.Builder().Section("general").
//		Heading("General").
//		MustField("title", "", component.AliasText, nil).Required()
//	out, err := form.Render(ctx, formbuilder.RenderOptions{})
package formbuilder

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// RenderOptions describes per-request values, server errors, hidden inputs
// and partial rendering.
type RenderOptions = render.RenderOptions

// FieldSubset aliases render.FieldSubset for callers configuring partial
// rendering by section, group or tag.
type FieldSubset = render.FieldSubset

// Output is the rendered form with its asset declarations.
type Output = orchestrator.Output

// Form aliases orchestrator.Form.
type Form = orchestrator.Form

// NewForm exposes the orchestrator constructor from the top-level module.
func NewForm(id string, options ...orchestrator.Option) *Form {
	return orchestrator.New(id, options...)
}

// RenderHTML declares a form with declare and renders it in one step. It is
// the simplest entry point for callers that only want markup and assets.
func RenderHTML(ctx context.Context, id string, declare func(*Form), opts RenderOptions, options ...orchestrator.Option) (Output, error) {
	form := orchestrator.New(id, options...)
	if declare != nil {
		declare(form)
	}
	return form.Render(ctx, opts)
}
