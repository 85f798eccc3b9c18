package urlform

import (
	"io/fs"

	"github.com/goliatone/go-urlform/pkg/renderers/web"
)

// EmbeddedTemplates exposes the page templates so callers can extend them
// without importing the web renderer directly.
func EmbeddedTemplates() fs.FS {
	return web.TemplatesFS()
}

// AssetsFS exposes the page stylesheet and script.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(urlform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return web.AssetsFS()
}
