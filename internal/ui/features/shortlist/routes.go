// Package shortlist provides the lead shortlist page and its live filter endpoints.
package shortlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/shortlist/internal/panel"
)

// Route paths.
const (
	PagePath   = "/shortlist"
	CountPath  = "/api/shortlist/count"
	SubmitPath = "/api/shortlist/submit"
	ClearPath  = "/api/shortlist/clear"
	ReloadPath = "/reload"
	// RunsPath is the run history page, linked when a run log is configured.
	RunsPath = "/runs"
)

// SetupRoutes registers the shortlist feature routes. Without a filter form in
// the layout only the page itself is served.
func SetupRoutes(router chi.Router, cfg Config) error {
	handlers := NewHandlers(cfg)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, PagePath, http.StatusFound)
	})
	router.Get(PagePath, handlers.Page)

	if !panel.Attached(handlers.layout) {
		return nil
	}

	// Plain form post for browsers without scripts
	router.Post(PagePath, handlers.SubmitForm)

	router.Route("/api/shortlist", func(r chi.Router) {
		r.Post("/count", handlers.CountSSE)   // Recount on input/change and page init
		r.Post("/submit", handlers.SubmitSSE) // Guarded submit and search
		r.Post("/clear", handlers.ClearSSE)   // Reset the form
	})

	return nil
}
