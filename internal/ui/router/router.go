// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	runsFeature "github.com/leapstack-labs/shortlist/internal/ui/features/runs"
	shortlistFeature "github.com/leapstack-labs/shortlist/internal/ui/features/shortlist"
	"github.com/leapstack-labs/shortlist/internal/ui/notifier"
	"github.com/leapstack-labs/shortlist/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server. staticDir, when set,
// serves assets from disk instead of the embedded copies.
func SetupRoutes(
	router chi.Router,
	shortlist shortlistFeature.Config,
	runs runsFeature.Config,
	staticDir string,
	notify *notifier.Notifier,
) error {
	// Hot reload endpoint for dev mode
	if shortlist.IsDev {
		setupReload(router, notify)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler(staticDir))

	// Feature routes
	if err := shortlistFeature.SetupRoutes(router, shortlist); err != nil {
		return err
	}
	return runsFeature.SetupRoutes(router, runs)
}

// setupReload serves the long-lived reload stream pages open in dev mode. The
// first connection of a process reloads right away so pages pick up a rebuilt
// server; later connections reload on every notifier ping.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	var hotReloadOnce sync.Once

	router.Get(shortlistFeature.ReloadPath, func(w http.ResponseWriter, r *http.Request) {
		pings := notify.Subscribe(r.Context())
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		for {
			select {
			case _, ok := <-pings:
				if !ok {
					return
				}
				reload()
			case <-r.Context().Done():
				return
			}
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		notify.Broadcast()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
