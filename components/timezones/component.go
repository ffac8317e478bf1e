package timezones

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Alias is the component alias registered by Register.
const Alias = "timezone"

// Option configures the component.
type Option func(*config)

type config struct {
	zones      []string
	emptyLabel string
}

// WithZones replaces the embedded zone list.
func WithZones(zones ...string) Option {
	return func(cfg *config) {
		cfg.zones = append([]string{}, zones...)
	}
}

// WithEmptyOption prepends an option with an empty value, for forms where
// the zone is optional.
func WithEmptyOption(label string) Option {
	return func(cfg *config) {
		cfg.emptyLabel = strings.TrimSpace(label)
	}
}

// Register adds the timezone component to registry. Fields render as selects
// whose options are the zone names; values outside the list fail the
// component's choice validator.
func Register(registry *component.Registry, opts ...Option) error {
	if registry == nil {
		return fmt.Errorf("timezones: component registry is required")
	}
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.zones == nil {
		zones, err := DefaultZones()
		if err != nil {
			return fmt.Errorf("timezones: load zones: %w", err)
		}
		cfg.zones = zones
	}
	if len(cfg.zones) == 0 {
		return fmt.Errorf("timezones: zone list is empty")
	}

	options := make([]map[string]any, 0, len(cfg.zones)+1)
	if cfg.emptyLabel != "" {
		options = append(options, map[string]any{"value": "", "label": cfg.emptyLabel})
	}
	for _, zone := range cfg.zones {
		options = append(options, map[string]any{"value": zone, "label": strings.ReplaceAll(zone, "_", " ")})
	}

	allowed := slices.Clone(cfg.zones)
	if cfg.emptyLabel != "" {
		allowed = append(allowed, "")
	}

	return registry.Register(Alias, component.Manifest{
		Factory: func(id, label string) component.Definition {
			def := component.NewSelect(id, label)
			if method, ok := def.Method("options"); ok {
				if _, err := method.Call(cloneOptions(options)); err != nil {
					panic(fmt.Errorf("timezones: seed options: %w", err))
				}
			}
			return def
		},
		Defaults: validation.Bundle{
			Sanitizers: []validation.Sanitizer{validation.TrimSpace()},
			Validators: []validation.Validator{validation.Choice(allowed...)},
		},
	})
}

func cloneOptions(in []map[string]any) []map[string]any {
	out := make([]map[string]any, len(in))
	for idx, option := range in {
		out[idx] = map[string]any{"value": option["value"], "label": option["label"]}
	}
	return out
}
