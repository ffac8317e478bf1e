package orchestrator

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/scope"
	"github.com/goliatone/go-formbuilder/pkg/templates"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// Option customises a Form.
type Option func(*Form)

// WithComponents replaces the component registry used by the builder.
func WithComponents(registry *component.Registry) Option {
	return func(f *Form) {
		if registry != nil {
			f.components = registry
		}
	}
}

// WithScope derives input names and hidden storage fields from s.
func WithScope(s scope.Scope) Option {
	return func(f *Form) {
		if err := s.Validate(); err != nil && !s.IsZero() {
			f.fail(fmt.Errorf("orchestrator: scope: %w", err))
			return
		}
		f.scope = s
	}
}

// WithLogger routes diagnostics from the model and the render session.
func WithLogger(logger hclog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithResolver seeds the form resolver. The resolver is cloned at render time
// so a shared resolver is never mutated by builder overrides.
func WithResolver(resolver *templates.Resolver) Option {
	return func(f *Form) {
		if resolver != nil {
			f.resolver = resolver
		}
	}
}

// WithRenderer sets the component renderer. Defaults to the vanilla renderer.
func WithRenderer(renderer render.ComponentRenderer) Option {
	return func(f *Form) {
		if renderer != nil {
			f.renderer = renderer
		}
	}
}

// WithRendererRegistry supplies the registry the renderer is picked from when
// WithRenderer is not used.
func WithRendererRegistry(registry *render.Registry) Option {
	return func(f *Form) {
		if registry != nil {
			f.renderers = registry
		}
	}
}

// WithDefaultRenderer names the registry entry to render with.
func WithDefaultRenderer(name string) Option {
	return func(f *Form) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			f.rendererName = trimmed
		}
	}
}

// WithVanillaOptions passes options to the default vanilla renderer.
func WithVanillaOptions(opts ...vanilla.Option) Option {
	return func(f *Form) {
		f.vanillaOptions = append(f.vanillaOptions, opts...)
	}
}

// WithDecorators registers decorators run against the model right before
// rendering, in order.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(f *Form) {
		for _, decorator := range decorators {
			if decorator != nil {
				f.decorators = append(f.decorators, decorator)
			}
		}
	}
}

// WithTransformer registers a transformer run before the decorators.
func WithTransformer(transformer Transformer) Option {
	return func(f *Form) {
		if transformer != nil {
			f.transformers = append(f.transformers, transformer)
		}
	}
}

// WithSinks forwards every builder event to extra sinks after the model.
func WithSinks(sinks ...model.Sink) Option {
	return func(f *Form) {
		for _, sink := range sinks {
			if sink != nil {
				f.sinks = append(f.sinks, sink)
			}
		}
	}
}

// WithTheme selects a go-theme theme. Its templates become form-wide
// defaults and its partials, tokens and asset URLs configure the vanilla
// renderer.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(f *Form) {
		resolver, cfg, err := templates.FromTheme(selector, name, variant)
		if err != nil {
			f.fail(fmt.Errorf("orchestrator: %w", err))
			return
		}
		f.themeResolver = resolver
		f.vanillaOptions = append(f.vanillaOptions, vanilla.WithTheme(cfg))
	}
}

// WithTemplateOverrides loads override files (YAML or JSON) from fsys. They
// take precedence over theme defaults.
func WithTemplateOverrides(fsys fs.FS) Option {
	return func(f *Form) {
		if fsys == nil {
			f.fail(errors.New("orchestrator: template overrides filesystem is nil"))
			return
		}
		resolver, err := templates.LoadFS(fsys)
		if err != nil {
			f.fail(fmt.Errorf("orchestrator: %w", err))
			return
		}
		f.fileResolvers = append(f.fileResolvers, resolver)
	}
}

// WithAction sets the form action URL.
func WithAction(action string) Option {
	return func(f *Form) {
		f.action = strings.TrimSpace(action)
	}
}

// WithMethod sets the HTTP method. Defaults to POST.
func WithMethod(method string) Option {
	return func(f *Form) {
		if trimmed := strings.TrimSpace(method); trimmed != "" {
			f.method = strings.ToUpper(trimmed)
		}
	}
}

// WithSubmitLabel sets the submit button text.
func WithSubmitLabel(label string) Option {
	return func(f *Form) {
		f.submitLabel = strings.TrimSpace(label)
	}
}

// WithSubmitLabelKey sets a translation key for the submit button. The
// submit label is its fallback.
func WithSubmitLabelKey(key string) Option {
	return func(f *Form) {
		f.submitLabelKey = strings.TrimSpace(key)
	}
}

// WithHidden appends hidden inputs rendered with every submission, such as
// nonces.
func WithHidden(fields ...render.HiddenField) Option {
	return func(f *Form) {
		f.hidden = append(f.hidden, fields...)
	}
}

// WithFallbackNotice replaces the screen-reader notice used by fallbacks.
func WithFallbackNotice(notice string) Option {
	return func(f *Form) {
		f.notice = strings.TrimSpace(notice)
	}
}

// WithVisibilityEvaluator replaces the evaluator used for string visibility
// rules. Defaults to the expr-lang evaluator.
func WithVisibilityEvaluator(evaluator visibility.Evaluator) Option {
	return func(f *Form) {
		if evaluator != nil {
			f.visibility = evaluator
		}
	}
}

// WithVisibilityExtras exposes extra data to visibility rules under
// "extras", such as the current user's roles.
func WithVisibilityExtras(extras map[string]any) Option {
	return func(f *Form) {
		if f.visibilityExtras == nil {
			f.visibilityExtras = make(map[string]any, len(extras))
		}
		maps.Copy(f.visibilityExtras, extras)
	}
}
