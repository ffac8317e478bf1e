package formbuilder

import (
	"io/fs"

	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
)

// AssetsFS exposes the stylesheet and scripts referenced by the vanilla
// renderer so Go applications can serve them without a build step.
//
// Typical mount, matching vanilla.DefaultAssetBaseURL:
//
//	mux.Handle("/assets/formbuilder/",
//	  http.StripPrefix("/assets/formbuilder/",
//	    http.FileServerFS(formbuilder.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}

// EmbeddedTemplates exposes the built-in vanilla templates so callers can
// copy or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
