package render

import (
	"context"
	"errors"
	"fmt"
	"html"
	"maps"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/templates"
)

var (
	// ErrSessionConsumed is returned once Close has been called.
	ErrSessionConsumed = errors.New("render: session already consumed")
	// ErrSessionBusy reports overlapping calls on one session.
	ErrSessionBusy = errors.New("render: session used concurrently")
)

const defaultFallbackNotice = "This field could not be displayed."

// Config keys read from the element config when building fallback markup.
const (
	ConfigComponentHTML = "component_html"
	ConfigContent       = "content"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger routes render diagnostics to logger.
func WithLogger(logger hclog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithID fixes the session id instead of generating one.
func WithID(id string) SessionOption {
	return func(s *Session) {
		if id = strings.TrimSpace(id); id != "" {
			s.id = id
		}
	}
}

// WithFallbackNotice replaces the screen-reader text appended to fallback
// markup.
func WithFallbackNotice(notice string) SessionOption {
	return func(s *Session) {
		if notice = strings.TrimSpace(notice); notice != "" {
			s.notice = notice
		}
	}
}

// Element describes the node being rendered. Default is the built-in template
// key used when no override applies. Config carries caller data such as
// component_html used for fallbacks.
type Element struct {
	Type      model.ElementType
	ID        string
	Default   string
	Component string
	FieldID   string
	Config    map[string]any
}

// Failure records an element that rendered its fallback.
type Failure struct {
	TemplateType string
	ElementType  model.ElementType
	ElementID    string
	Err          error
}

func (f Failure) Error() string {
	return fmt.Sprintf("render: %s %q (%s): %v", f.ElementType, f.ElementID, f.TemplateType, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Session renders the elements of one form. It resolves template keys,
// dispatches to the component renderer, and aggregates assets. A session is
// single-use and must not be shared between goroutines; overlapping calls are
// refused rather than serialised.
type Session struct {
	id       string
	resolver *templates.Resolver
	renderer ComponentRenderer
	logger   hclog.Logger
	notice   string

	assets   *Aggregator
	failures []Failure

	busy   atomic.Bool
	closed atomic.Bool
}

// NewSession creates a session. A nil resolver always yields built-in keys.
func NewSession(resolver *templates.Resolver, renderer ComponentRenderer, opts ...SessionOption) (*Session, error) {
	if renderer == nil {
		return nil, fmt.Errorf("render: component renderer is required")
	}
	if resolver == nil {
		resolver = templates.NewResolver()
	}
	s := &Session{
		id:       uuid.NewString(),
		resolver: resolver,
		renderer: renderer,
		logger:   hclog.NewNullLogger(),
		notice:   defaultFallbackNotice,
		assets:   NewAggregator(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.logger = s.logger.With("session", s.id)
	return s, nil
}

// ID returns the session id used in diagnostics.
func (s *Session) ID() string { return s.id }

// Assets exposes the aggregator. Read it only after rendering completes.
func (s *Session) Assets() *Aggregator { return s.assets }

// Failures lists the elements that fell back, in render order.
func (s *Session) Failures() []Failure {
	return append([]Failure(nil), s.failures...)
}

// RenderElement renders one element and returns its markup. It never fails:
// resolution errors, renderer errors and panics are logged and replaced with
// fallback markup built from the element config.
func (s *Session) RenderElement(ctx context.Context, templateType string, element Element, data map[string]any) (markup string) {
	env := mergeEnv(element.Config, data)

	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Error("refusing overlapping render", "template_type", templateType, "element", element.ID, "error", ErrSessionBusy)
		return s.fallback(element.Config)
	}
	defer s.busy.Store(false)

	if s.closed.Load() {
		s.fail(templateType, element, ErrSessionConsumed)
		return s.fallback(element.Config)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			s.fail(templateType, element, fmt.Errorf("panic: %v", recovered))
			markup = s.fallback(element.Config)
		}
	}()

	out, err := s.render(ctx, templateType, element, env)
	if err != nil {
		s.fail(templateType, element, err)
		return s.fallback(element.Config)
	}
	return out
}

func (s *Session) render(ctx context.Context, templateType string, element Element, env map[string]any) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	resolution, err := s.resolver.Resolve(templates.Target{
		TemplateType: templateType,
		ElementType:  element.Type,
		ElementID:    element.ID,
		Default:      element.Default,
	}, env)
	if err != nil {
		return "", err
	}

	if resolution.UsesCallback() {
		out, err := resolution.Callback(ctx, env)
		if err != nil {
			return "", err
		}
		s.logger.Trace("rendered element via callback", "template_type", templateType, "element", element.ID)
		return out, nil
	}

	if resolution.Key == "" {
		return "", fmt.Errorf("render: no template for %s %q (%s)", element.Type, element.ID, templateType)
	}
	result, err := s.renderer.Render(ctx, resolution.Key, env)
	if err != nil {
		return "", err
	}

	tag := Tag{TemplateType: templateType, Component: element.Component, FieldID: element.FieldID}
	if err := s.assets.Ingest(result, tag); err != nil {
		s.logger.Warn("asset ingestion failed",
			"template_type", templateType,
			"field", element.FieldID,
			"key", resolution.Key,
			"error", err,
		)
	}
	s.logger.Trace("rendered element", "template_type", templateType, "element", element.ID, "key", resolution.Key, "source", resolution.Source.String())
	return result.Markup, nil
}

// Close ends the session and returns the collected assets. Later calls
// return ErrSessionConsumed.
func (s *Session) Close() (Bundle, error) {
	if !s.closed.CompareAndSwap(false, true) {
		return Bundle{}, ErrSessionConsumed
	}
	if len(s.failures) > 0 {
		s.logger.Debug("session closed with fallbacks", "failures", len(s.failures))
	}
	return s.assets.Bundle(), nil
}

func (s *Session) fail(templateType string, element Element, err error) {
	failure := Failure{
		TemplateType: templateType,
		ElementType:  element.Type,
		ElementID:    element.ID,
		Err:          err,
	}
	s.failures = append(s.failures, failure)
	s.logger.Error("element render failed, using fallback",
		"template_type", templateType,
		"element_type", string(element.Type),
		"element", element.ID,
		"field", element.FieldID,
		"error", err,
	)
}

// fallback returns the caller supplied markup followed by a notice for
// assistive technology. Without caller markup the element renders nothing.
func (s *Session) fallback(config map[string]any) string {
	content := fallbackContent(config)
	if content == "" {
		return ""
	}
	return content + `<span class="screen-reader-text" role="status">` + html.EscapeString(s.notice) + `</span>`
}

func fallbackContent(config map[string]any) string {
	for _, key := range []string{ConfigComponentHTML, ConfigContent} {
		if value, ok := config[key].(string); ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func mergeEnv(config, data map[string]any) map[string]any {
	env := make(map[string]any, len(config)+len(data))
	maps.Copy(env, config)
	maps.Copy(env, data)
	return env
}
