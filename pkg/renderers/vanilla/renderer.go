// Package vanilla renders form elements as plain HTML with pongo2 templates.
// It implements render.ComponentRenderer: component aliases map to component
// templates and contribute their assets, any other key names a template.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	gotemplate "github.com/goliatone/go-formbuilder/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla/components"
)

// DefaultAssetBaseURL prefixes relative asset sources.
const DefaultAssetBaseURL = "/assets/formbuilder"

type Option func(*config)

type config struct {
	templateFS       []fs.FS
	engineOptions    []gotemplate.Option
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	theme            *theme.RendererConfig
	sanitizer        *bluemonday.Policy
	assetBaseURL     string
	classes          map[string]string
}

// WithTemplatesFS adds a template bundle searched before the built-in one, so
// it can override individual templates.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templateFS = append(cfg.templateFS, files)
		}
	}
}

// WithTemplatesDir loads override templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = append(cfg.templateFS, os.DirFS(path))
	}
}

// WithEngineOptions passes options to the built-in template engine, such as
// render hooks or extra filters. Ignored with WithTemplateRenderer.
func WithEngineOptions(opts ...gotemplate.Option) Option {
	return func(cfg *config) {
		cfg.engineOptions = append(cfg.engineOptions, opts...)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
// Template bundles passed with WithTemplatesFS are then ignored.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithRegistry replaces the component descriptor registry.
func WithRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithTheme applies a go-theme renderer config: component partials, CSS
// variables on the form element and asset URLs keyed by asset handle.
func WithTheme(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = themeCfg
	}
}

// WithSanitizer replaces the policy applied to descriptions. Defaults to
// bluemonday's UGC policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.sanitizer = policy
		}
	}
}

// WithAssetBaseURL prefixes relative asset sources.
func WithAssetBaseURL(url string) Option {
	return func(cfg *config) {
		cfg.assetBaseURL = strings.TrimSpace(url)
	}
}

// WithChromeClasses overrides the CSS classes exposed to templates, keyed by
// role ("form", "section", "control", ...).
func WithChromeClasses(classes map[string]string) Option {
	return func(cfg *config) {
		if cfg.classes == nil {
			cfg.classes = make(map[string]string, len(classes))
		}
		maps.Copy(cfg.classes, classes)
	}
}

// Renderer is the plain HTML component renderer.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	registry     *components.Registry
	theme        *theme.RendererConfig
	sanitizer    *bluemonday.Policy
	assetBaseURL string
}

var _ render.ComponentRenderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{assetBaseURL: DefaultAssetBaseURL}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}
	if cfg.sanitizer == nil {
		cfg.sanitizer = bluemonday.UGCPolicy()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engineOpts := make([]gotemplate.Option, 0, len(cfg.templateFS)+len(cfg.engineOptions)+1)
		for _, files := range cfg.templateFS {
			engineOpts = append(engineOpts, gotemplate.WithFS(files))
		}
		engineOpts = append(engineOpts, gotemplate.WithFS(TemplatesFS()))
		engineOpts = append(engineOpts, cfg.engineOptions...)
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}
	if err := templates.GlobalContext(map[string]any{"classes": chromeClasses(cfg.classes)}); err != nil {
		return nil, fmt.Errorf("vanilla renderer: template globals: %w", err)
	}

	return &Renderer{
		templates:    templates,
		registry:     cfg.registry,
		theme:        cfg.theme,
		sanitizer:    cfg.sanitizer,
		assetBaseURL: cfg.assetBaseURL,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Components exposes the descriptor registry.
func (r *Renderer) Components() *components.Registry {
	return r.registry
}

// Render implements render.ComponentRenderer.
func (r *Renderer) Render(ctx context.Context, key string, data map[string]any) (render.Result, error) {
	if err := ctx.Err(); err != nil {
		return render.Result{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return render.Result{}, fmt.Errorf("vanilla renderer: template key is required")
	}

	descriptor, isComponent := r.registry.Descriptor(key)
	templateName := key
	if isComponent {
		templateName = descriptor.Template
		if r.theme != nil {
			if partial := strings.TrimSpace(r.theme.Partials[key]); partial != "" {
				templateName = partial
			}
		}
	}

	markup, err := r.templates.RenderTemplate(templateName, r.prepare(data, isComponent))
	if err != nil {
		return render.Result{}, fmt.Errorf("vanilla renderer: render %q: %w", key, err)
	}

	result := render.Result{Markup: markup}
	if isComponent {
		result.Assets = r.resolveAssets(descriptor.Assets)
		result.RequiresMedia = descriptor.RequiresMedia
	}
	return result, nil
}

func (r *Renderer) resolveAssets(assets []render.Asset) []render.Asset {
	out := make([]render.Asset, 0, len(assets))
	for _, asset := range assets {
		if r.theme != nil && r.theme.AssetURL != nil {
			if url := r.theme.AssetURL(asset.Handle); url != "" {
				asset.Source = url
				out = append(out, asset)
				continue
			}
		}
		if !isAbsoluteURL(asset.Source) && r.assetBaseURL != "" {
			asset.Source = strings.TrimRight(r.assetBaseURL, "/") + "/" + strings.TrimLeft(asset.Source, "/")
		}
		out = append(out, asset)
	}
	return out
}

func isAbsoluteURL(source string) bool {
	return strings.Contains(source, "://") || strings.HasPrefix(source, "/")
}
