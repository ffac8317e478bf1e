package render

// RenderOptions describe per-request data used while rendering a form without
// touching the declared structure.
type RenderOptions struct {
	// Method overrides the form's declared HTTP method for this render.
	// PUT, PATCH and DELETE submit as POST with a hidden _method input.
	Method string
	// Values pre-populates controls keyed by field id. Lazy values and
	// conditions see them under the "values" key of the render environment.
	Values map[string]any
	// Errors surfaces server-side validation feedback. Keys may be field ids,
	// scoped input names ("settings[title]") or JSON pointer paths; see
	// MapErrorPayload.
	Errors map[string][]string
	// Hidden inputs emitted inside the form element.
	Hidden []HiddenField
	// Subset limits rendering to matching sections, groups or tags.
	Subset FieldSubset
	// Locale is passed to Translator and exposed to templates as "locale".
	Locale string
	// Translator resolves translation keys declared on containers and
	// fields. Templates reach it through translate(key, args...).
	Translator Translator
	// OnMissing formats keys without a translation. By default the declared
	// text is used, then the key itself.
	OnMissing MissingTranslationHandler
}
