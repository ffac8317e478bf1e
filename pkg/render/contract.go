// Package render turns resolved template keys into markup. A Session
// dispatches each element to a ComponentRenderer, collects the asset
// declarations of every result into an Aggregator, and replaces failed
// elements with fallback markup so one broken field never blanks a form.
package render

import (
	"context"
	"fmt"
	"strings"
)

// AssetKind distinguishes scripts from stylesheets.
type AssetKind string

const (
	AssetScript AssetKind = "script"
	AssetStyle  AssetKind = "style"
)

// Asset declares a script or stylesheet needed by rendered markup. Handle is
// the deduplication key. Hook names a deferred trigger (for example an admin
// page hook) the delivery layer should wait for.
type Asset struct {
	Handle       string         `json:"handle"`
	Kind         AssetKind      `json:"kind"`
	Source       string         `json:"source"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Version      string         `json:"version,omitempty"`
	Hook         string         `json:"hook,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

// Validate reports declarations the aggregator cannot key.
func (a Asset) Validate() error {
	if strings.TrimSpace(a.Handle) == "" {
		return fmt.Errorf("render: asset without handle (source %q)", a.Source)
	}
	switch a.Kind {
	case AssetScript, AssetStyle:
		return nil
	default:
		return fmt.Errorf("render: asset %q has unknown kind %q", a.Handle, a.Kind)
	}
}

// Result is what a ComponentRenderer produces for one template.
type Result struct {
	Markup        string
	Assets        []Asset
	RequiresMedia bool
}

// ComponentRenderer renders a template key (or component alias) with data.
type ComponentRenderer interface {
	Render(ctx context.Context, key string, data map[string]any) (Result, error)
}

// ComponentRendererFunc adapts a function into a ComponentRenderer.
type ComponentRendererFunc func(ctx context.Context, key string, data map[string]any) (Result, error)

// Render calls the underlying function.
func (fn ComponentRendererFunc) Render(ctx context.Context, key string, data map[string]any) (Result, error) {
	return fn(ctx, key, data)
}
