package templates

import (
	"fmt"
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// FromTheme selects name/variant through selector and seeds a resolver with
// the manifest templates as form-wide defaults. Variant templates win over
// the base manifest. The returned renderer config carries the merged
// partials, tokens, CSS variables and an asset URL resolver.
func FromTheme(selector theme.ThemeSelector, name, variant string) (*Resolver, *theme.RendererConfig, error) {
	if selector == nil {
		return nil, nil, fmt.Errorf("%w: theme selector is required", ErrInvalidArgument)
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, nil, fmt.Errorf("templates: select theme %q/%q: %w", name, variant, err)
	}
	if selection == nil || selection.Manifest == nil {
		return nil, nil, fmt.Errorf("templates: theme %q/%q has no manifest", name, variant)
	}

	manifest := selection.Manifest
	partials := maps.Clone(manifest.Templates)
	if partials == nil {
		partials = make(map[string]string)
	}
	tokens := maps.Clone(manifest.Tokens)
	if tokens == nil {
		tokens = make(map[string]string)
	}
	assets := maps.Clone(manifest.Assets.Files)
	if assets == nil {
		assets = make(map[string]string)
	}
	prefix := manifest.Assets.Prefix

	if selected, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(partials, selected.Templates)
		maps.Copy(tokens, selected.Tokens)
		maps.Copy(assets, selected.Assets.Files)
		if selected.Assets.Prefix != "" {
			prefix = selected.Assets.Prefix
		}
	}

	resolver := NewResolver()
	for _, templateType := range sortedKeys(partials) {
		if err := resolver.SetDefault(templateType, partials[templateType]); err != nil {
			return nil, nil, fmt.Errorf("templates: theme %q: %w", selection.Theme, err)
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for token, value := range tokens {
		cssVars["--"+token] = value
	}

	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, assets),
	}
	return resolver, cfg, nil
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if strings.Contains(file, "://") || strings.HasPrefix(file, "/") || prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
}
