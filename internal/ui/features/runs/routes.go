// Package runs provides the run history page of the UI.
package runs

import (
	"github.com/go-chi/chi/v5"
)

// Route paths.
const (
	PagePath    = "/runs"
	UpdatesPath = "/api/runs/updates"
)

// SetupRoutes registers the run history feature routes. Nothing is served
// without a run log.
func SetupRoutes(router chi.Router, cfg Config) error {
	if cfg.Store == nil {
		return nil
	}
	handlers := NewHandlers(cfg)

	router.Get(PagePath, handlers.RunsPage)
	if cfg.Updates != nil {
		router.Get(UpdatesPath, handlers.RunsPageUpdates) // Live table patches
	}

	return nil
}
