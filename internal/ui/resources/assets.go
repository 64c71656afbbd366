// Package resources serves the shortlist page's static assets.
package resources

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
)

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

//go:embed static/*
var staticFS embed.FS

// Handler serves static assets under /static/. When dir is set the files are
// read from disk on every request so edits show up without a rebuild;
// otherwise the embedded copies are served with long-lived caching.
func Handler(dir string) http.Handler {
	if dir != "" {
		fileServer := http.FileServer(http.FS(os.DirFS(dir)))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-cache")
			http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
		})
	}

	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}
