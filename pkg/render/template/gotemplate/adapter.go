// Package gotemplate adapts pongo2 to the template.TemplateRenderer contract.
// Templates use Django syntax; the engine registers a few filters that form
// markup relies on (attrs, classnames, trim).
package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/go-viper/mapstructure/v2"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-formbuilder/pkg/render/template"
)

// DefaultExtension is appended to template names that carry no extension.
const DefaultExtension = ".tmpl"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  []fs.FS
	extension  string
	filters    map[string]func(input any, param any) (any, error)
	globalData map[string]any
	hooks      *gotemplatepkg.HookManager
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files. Repeated options stack; earlier file
// systems win when names collide, so pass overrides first.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = append(cfg.templates, files)
		}
	}
}

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithFilter registers a filter when the engine is built.
func WithFilter(name string, fn func(input any, param any) (any, error)) Option {
	return func(cfg *config) {
		if cfg.filters == nil {
			cfg.filters = make(map[string]func(any, any) (any, error))
		}
		cfg.filters[strings.TrimSpace(name)] = fn
	}
}

// WithGlobalData seeds values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithPreHook runs hook before each render. Hooks may replace the data, the
// template name or the inline template body. Lower priorities run first.
func WithPreHook(hook gotemplatepkg.PreHook, priority ...int) Option {
	return func(cfg *config) {
		if hook != nil {
			cfg.hookManager().AddPreHook(hook, priority...)
		}
	}
}

// WithPostHook runs hook on each rendered output. Lower priorities run first.
func WithPostHook(hook gotemplatepkg.PostHook, priority ...int) Option {
	return func(cfg *config) {
		if hook != nil {
			cfg.hookManager().AddPostHook(hook, priority...)
		}
	}
}

func (cfg *config) hookManager() *gotemplatepkg.HookManager {
	if cfg.hooks == nil {
		cfg.hooks = gotemplatepkg.NewHooksManager()
	}
	return cfg.hooks
}

// Engine renders pongo2 templates from a template set. Parsed templates are
// cached by path.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
	hooks     *gotemplatepkg.HookManager
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. At least one template source is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: DefaultExtension}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && len(cfg.templates) == 0 {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	for _, files := range cfg.templates {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}

	engine := &Engine{
		set:       pongo2.NewSet("formbuilder", loaders...),
		templates: make(map[string]*pongo2.Template),
		ext:       cfg.extension,
		hooks:     cfg.hookManager(),
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for _, name := range slices.Sorted(maps.Keys(cfg.filters)) {
		if err := engine.RegisterFilter(name, cfg.filters[name]); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// Render renders inline template content when name looks like a template
// body, and a named template otherwise.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate renders the named template. The extension is optional.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	hctx := &gotemplatepkg.HookContext{
		TemplateName: name,
		Data:         data,
		Metadata:     map[string]any{"ext": e.ext},
		IsPreHook:    true,
	}
	if err := e.runPreHooks(hctx); err != nil {
		return "", err
	}

	path := e.path(hctx.TemplateName)
	tmpl, err := e.lookup(path)
	if err != nil {
		return "", err
	}
	rendered, err := e.execute(tmpl, hctx.Data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", path, err)
	}
	if rendered, err = e.runPostHooks(hctx, rendered); err != nil {
		return "", err
	}
	return rendered, writeAll(rendered, out)
}

// RenderString parses and renders templateContent without caching it.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	hctx := &gotemplatepkg.HookContext{
		Template:  templateContent,
		Data:      data,
		Metadata:  map[string]any{},
		IsPreHook: true,
	}
	if err := e.runPreHooks(hctx); err != nil {
		return "", err
	}

	tmpl, err := e.set.FromString(hctx.Template)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	rendered, err := e.execute(tmpl, hctx.Data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}
	if rendered, err = e.runPostHooks(hctx, rendered); err != nil {
		return "", err
	}
	return rendered, writeAll(rendered, out)
}

// RegisterPreHook adds a pre-render hook after construction.
func (e *Engine) RegisterPreHook(hook gotemplatepkg.PreHook) {
	if e != nil && hook != nil {
		e.hooks.AddPreHook(hook)
	}
}

// RegisterPostHook adds a post-render hook after construction.
func (e *Engine) RegisterPostHook(hook gotemplatepkg.PostHook) {
	if e != nil && hook != nil {
		e.hooks.AddPostHook(hook)
	}
}

func (e *Engine) runPreHooks(hctx *gotemplatepkg.HookContext) error {
	for _, hook := range e.hooks.PreHooks() {
		if err := hook(hctx); err != nil {
			return fmt.Errorf("gotemplate: pre-hook: %w", err)
		}
	}
	hctx.IsPreHook = false
	return nil
}

// runPostHooks threads the output through each hook. Every hook sees the
// output returned by the previous one.
func (e *Engine) runPostHooks(hctx *gotemplatepkg.HookContext, rendered string) (string, error) {
	for _, hook := range e.hooks.PostHooks() {
		hctx.Output = rendered
		out, err := hook(hctx)
		if err != nil {
			return "", fmt.Errorf("gotemplate: post-hook: %w", err)
		}
		rendered = out
	}
	return rendered, nil
}

// Has reports whether the named template can be loaded.
func (e *Engine) Has(name string) bool {
	if e == nil || e.set == nil {
		return false
	}
	_, err := e.lookup(e.path(name))
	return err == nil
}

// RegisterFilter registers a filter. pongo2 filters are process-wide, so
// registering a name twice fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

// GlobalContext merges data into the values every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.set == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	globals, err := toContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	e.set.Globals.Update(globals)
	return nil
}

func (e *Engine) path(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(name, e.ext) {
		return name
	}
	return name + e.ext
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("convert data: %w", err)
	}
	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeAll(rendered string, out []io.Writer) error {
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return err
		}
	}
	return nil
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}

// toContext accepts maps directly and decodes structs into maps keyed by
// their mapstructure tags or field names.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		var out map[string]any
		if err := mapstructure.Decode(v, &out); err != nil {
			return nil, err
		}
		return pongo2.Context(out), nil
	}
}

func registerDefaultFilters() {
	defaults := map[string]pongo2.FilterFunction{
		"trim":       filterTrim,
		"attrs":      filterAttrs,
		"classnames": filterClassNames,
	}
	for name, fn := range defaults {
		if !pongo2.FilterExists(name) {
			_ = pongo2.RegisterFilter(name, fn)
		}
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterAttrs renders a map as HTML attributes with a leading space. Keys are
// sorted; true renders a bare attribute; false and nil are skipped.
func filterAttrs(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	attrs := make(map[string]any)
	switch v := in.Interface().(type) {
	case map[string]any:
		attrs = v
	case map[string]string:
		for key, value := range v {
			attrs[key] = value
		}
	case pongo2.Context:
		attrs = v
	}
	return pongo2.AsSafeValue(FormatAttributes(attrs)), nil
}

// FormatAttributes renders attrs the same way the attrs filter does.
func FormatAttributes(attrs map[string]any) string {
	var b strings.Builder
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		name := strings.TrimSpace(key)
		if name == "" || strings.ContainsAny(name, " \"'<>=/") {
			continue
		}
		switch value := attrs[key].(type) {
		case nil:
			continue
		case bool:
			if value {
				b.WriteString(" " + html.EscapeString(name))
			}
		default:
			fmt.Fprintf(&b, ` %s="%s"`, html.EscapeString(name), html.EscapeString(fmt.Sprint(value)))
		}
	}
	return b.String()
}

// filterClassNames joins the input and parameter class lists dropping blanks
// and duplicates.
func filterClassNames(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	var tokens []string
	for _, value := range []*pongo2.Value{in, param} {
		if value == nil || value.IsNil() {
			continue
		}
		tokens = append(tokens, strings.Fields(value.String())...)
	}
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return pongo2.AsValue(strings.Join(out, " ")), nil
}
