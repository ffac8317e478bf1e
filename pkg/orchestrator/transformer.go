package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Transformer mutates the folded model before decorators run. Implementations
// can relabel fields, reorder sections or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, m *model.Model) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, m *model.Model) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, m *model.Model) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, m)
}

// PresetTransformer applies declarative patches loaded from a JSON or YAML
// document:
//
//	containers:
//	  general: {heading: "Site", order: 1}
//	fields:
//	  title: {label: "Site title", placeholder: "My site", attributes: {maxlength: 80}}
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Containers map[string]containerPatch `json:"containers" yaml:"containers"`
	Fields     map[string]fieldPatch     `json:"fields" yaml:"fields"`
}

type containerPatch struct {
	Heading     string `json:"heading" yaml:"heading"`
	Description string `json:"description" yaml:"description"`
	Order       *int   `json:"order" yaml:"order"`
}

type fieldPatch struct {
	Label       string         `json:"label" yaml:"label"`
	Description string         `json:"description" yaml:"description"`
	Placeholder string         `json:"placeholder" yaml:"placeholder"`
	Order       *int           `json:"order" yaml:"order"`
	Attributes  map[string]any `json:"attributes" yaml:"attributes"`
}

// NewPresetTransformer parses a preset document. JSON is tried first, then
// YAML.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		if yamlErr := yaml.Unmarshal(data, &document); yamlErr != nil {
			return nil, fmt.Errorf("preset transformer: parse document: %w", yamlErr)
		}
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform folds the patched snapshots back into m. Patches naming unknown
// elements fail so typos surface early.
func (t *PresetTransformer) Transform(ctx context.Context, m *model.Model) error {
	if m == nil {
		return errors.New("preset transformer: model is nil")
	}
	for _, id := range slices.Sorted(maps.Keys(t.document.Containers)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		snapshot, ok := m.Container(id)
		if !ok {
			return fmt.Errorf("preset transformer: container %q not found", id)
		}
		patch := t.document.Containers[id]
		if patch.Heading != "" {
			snapshot.Heading = patch.Heading
		}
		if patch.Description != "" {
			snapshot.Description = patch.Description
		}
		if patch.Order != nil {
			snapshot.Order = max(*patch.Order, 0)
		}
		if err := m.Apply(model.EventMetadata, snapshot); err != nil {
			return fmt.Errorf("preset transformer: %w", err)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(t.document.Fields)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		snapshot, ok := m.Field(id)
		if !ok {
			return fmt.Errorf("preset transformer: field %q not found", id)
		}
		applyFieldPatch(&snapshot, t.document.Fields[id])
		if err := m.Apply(model.EventField, snapshot); err != nil {
			return fmt.Errorf("preset transformer: %w", err)
		}
	}
	return nil
}

func applyFieldPatch(field *model.FieldSnapshot, patch fieldPatch) {
	if field.Context == nil {
		field.Context = make(map[string]any)
	}
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Context["description"] = patch.Description
	}
	if patch.Placeholder != "" {
		field.Context["placeholder"] = patch.Placeholder
	}
	if patch.Order != nil {
		field.Order = max(*patch.Order, 0)
	}
	if len(patch.Attributes) > 0 {
		attrs, _ := field.Context["attributes"].(map[string]any)
		attrs = maps.Clone(attrs)
		if attrs == nil {
			attrs = make(map[string]any, len(patch.Attributes))
		}
		maps.Copy(attrs, patch.Attributes)
		field.Context["attributes"] = attrs
	}
}
