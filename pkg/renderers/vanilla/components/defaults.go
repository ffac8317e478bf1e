package components

import (
	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Asset handles and file names shipped in the vanilla asset bundle.
const (
	HandleStyles = "formbuilder-vanilla"
	HandleColor  = "formbuilder-color"
	HandleMedia  = "formbuilder-media"

	StylesheetFile  = "formbuilder-vanilla.css"
	ColorScriptFile = "formbuilder-color.js"
	MediaScriptFile = "formbuilder-media.js"
)

const templatePrefix = "components/"

// NewDefaultRegistry returns descriptors for every built-in component alias.
// All components share the base stylesheet; the color and media pickers add
// their scripts.
func NewDefaultRegistry() *Registry {
	registry := New()

	styles := render.Asset{Handle: HandleStyles, Kind: render.AssetStyle, Source: StylesheetFile}

	for _, alias := range []string{
		component.AliasText,
		component.AliasEmail,
		component.AliasURL,
		component.AliasNumber,
		component.AliasPassword,
		component.AliasHidden,
	} {
		registry.MustRegister(alias, Descriptor{
			Template: templatePrefix + "input",
			Assets:   []render.Asset{styles},
		})
	}
	registry.MustRegister(component.AliasTextarea, Descriptor{
		Template: templatePrefix + "textarea",
		Assets:   []render.Asset{styles},
	})
	registry.MustRegister(component.AliasSelect, Descriptor{
		Template: templatePrefix + "select",
		Assets:   []render.Asset{styles},
	})
	registry.MustRegister(component.AliasCheckbox, Descriptor{
		Template: templatePrefix + "checkbox",
		Assets:   []render.Asset{styles},
	})
	registry.MustRegister(component.AliasColor, Descriptor{
		Template: templatePrefix + "color",
		Assets: []render.Asset{
			styles,
			{Handle: HandleColor, Kind: render.AssetScript, Source: ColorScriptFile},
		},
	})
	registry.MustRegister(component.AliasMedia, Descriptor{
		Template: templatePrefix + "media",
		Assets: []render.Asset{
			styles,
			{Handle: HandleMedia, Kind: render.AssetScript, Source: MediaScriptFile, Dependencies: []string{"media-library"}},
		},
		RequiresMedia: true,
	})

	return registry
}
