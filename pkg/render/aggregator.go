package render

import (
	"maps"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Aggregator merges the asset declarations of every result rendered in one
// session. Assets are keyed by handle and the first declaration wins, so
// ingesting the same handle again changes nothing. It belongs to a single
// session and is not safe for concurrent use.
type Aggregator struct {
	scripts       []Asset
	styles        []Asset
	seen          map[AssetKind]map[string]struct{}
	requiresMedia bool
	components    map[string]struct{}
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		seen: map[AssetKind]map[string]struct{}{
			AssetScript: {},
			AssetStyle:  {},
		},
		components: make(map[string]struct{}),
	}
}

// Tag annotates an ingestion with where the result came from.
type Tag struct {
	TemplateType string
	Component    string
	FieldID      string
}

// Ingest merges result. Invalid declarations are skipped and reported
// together; valid ones are kept regardless.
func (a *Aggregator) Ingest(result Result, tag Tag) error {
	if component := strings.TrimSpace(tag.Component); component != "" {
		a.components[component] = struct{}{}
	}
	a.requiresMedia = a.requiresMedia || result.RequiresMedia

	var errs *multierror.Error
	for _, asset := range result.Assets {
		if err := asset.Validate(); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		handles := a.seen[asset.Kind]
		if _, exists := handles[asset.Handle]; exists {
			continue
		}
		handles[asset.Handle] = struct{}{}
		stored := cloneAsset(asset)
		switch asset.Kind {
		case AssetScript:
			a.scripts = append(a.scripts, stored)
		case AssetStyle:
			a.styles = append(a.styles, stored)
		}
	}
	return errs.ErrorOrNil()
}

// HasAssets reports whether any script or style was collected.
func (a *Aggregator) HasAssets() bool {
	return len(a.scripts) > 0 || len(a.styles) > 0
}

// Scripts lists collected scripts in first-seen order.
func (a *Aggregator) Scripts() []Asset {
	return cloneAssets(a.scripts)
}

// Styles lists collected stylesheets in first-seen order.
func (a *Aggregator) Styles() []Asset {
	return cloneAssets(a.styles)
}

// RequiresMedia reports whether any result asked for the media library.
func (a *Aggregator) RequiresMedia() bool {
	return a.requiresMedia
}

// Components lists the component aliases rendered so far, sorted.
func (a *Aggregator) Components() []string {
	names := slices.Collect(maps.Keys(a.components))
	slices.Sort(names)
	return names
}

// Bundle is the final, read-only view of a session's assets.
type Bundle struct {
	Scripts       []Asset  `json:"scripts,omitempty"`
	Styles        []Asset  `json:"styles,omitempty"`
	RequiresMedia bool     `json:"requiresMedia"`
	Components    []string `json:"components,omitempty"`
}

// Bundle snapshots the aggregator.
func (a *Aggregator) Bundle() Bundle {
	return Bundle{
		Scripts:       a.Scripts(),
		Styles:        a.Styles(),
		RequiresMedia: a.requiresMedia,
		Components:    a.Components(),
	}
}

func cloneAssets(in []Asset) []Asset {
	if len(in) == 0 {
		return nil
	}
	out := make([]Asset, len(in))
	for idx, asset := range in {
		out[idx] = cloneAsset(asset)
	}
	return out
}

func cloneAsset(in Asset) Asset {
	out := in
	out.Dependencies = slices.Clone(in.Dependencies)
	out.Data = maps.Clone(in.Data)
	return out
}
