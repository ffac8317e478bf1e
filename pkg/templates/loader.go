package templates

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

type overrideFile struct {
	Defaults map[string]string                       `json:"defaults" yaml:"defaults"`
	Elements map[string]map[string]map[string]string `json:"elements" yaml:"elements"`
}

// LoadFS walks fsys and reads every JSON/YAML override file into a new
// resolver. Files look like:
//
//	defaults:
//	  field-wrapper: fields/wrapper-wide
//	elements:
//	  field:
//	    site_title:
//	      field-wrapper: fields/hero
//
// Every invalid entry is reported; the resolver is only returned when all
// files load cleanly. A nil fsys yields an empty resolver.
func LoadFS(fsys fs.FS) (*Resolver, error) {
	resolver := NewResolver()
	if fsys == nil {
		return resolver, nil
	}

	var result *multierror.Error
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverrideFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("templates: read %s: %w", path, err))
			return nil
		}
		doc, err := parseOverrideFile(data, path)
		if err != nil {
			result = multierror.Append(result, err)
			return nil
		}
		if err := resolver.load(doc, path); err != nil {
			result = multierror.Append(result, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("templates: walk: %w", err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return resolver, nil
}

func (r *Resolver) load(doc overrideFile, source string) error {
	var result *multierror.Error

	for _, templateType := range sortedKeys(doc.Defaults) {
		if err := r.SetDefault(templateType, doc.Defaults[templateType]); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", source, err))
		}
	}
	for _, rawType := range sortedKeys(doc.Elements) {
		elementType := model.ElementType(strings.ToLower(strings.TrimSpace(rawType)))
		for _, elementID := range sortedKeys(doc.Elements[rawType]) {
			overrides := doc.Elements[rawType][elementID]
			for _, templateType := range sortedKeys(overrides) {
				if err := r.SetOverride(elementType, elementID, templateType, overrides[templateType]); err != nil {
					result = multierror.Append(result, fmt.Errorf("%s: %w", source, err))
				}
			}
		}
	}
	return result.ErrorOrNil()
}

func parseOverrideFile(data []byte, source string) (overrideFile, error) {
	var doc overrideFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return overrideFile{}, fmt.Errorf("templates: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = overrideFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return overrideFile{}, fmt.Errorf("templates: parse %s: invalid JSON or YAML", source)
}

func isOverrideFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func sortedKeys[V any](in map[string]V) []string {
	keys := slices.Collect(maps.Keys(in))
	slices.Sort(keys)
	return keys
}
