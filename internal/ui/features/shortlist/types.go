package shortlist

import (
	"log/slog"

	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/shortlist/internal/panel"
	"github.com/leapstack-labs/shortlist/internal/search"
	"github.com/leapstack-labs/shortlist/internal/state"
	"github.com/leapstack-labs/shortlist/internal/ui/components"
	"github.com/leapstack-labs/shortlist/internal/ui/notifier"
	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

// Config holds the dependencies of the shortlist feature.
type Config struct {
	Panel    *panel.Panel
	Searcher search.Searcher
	Store    state.Store // optional run log
	// RunUpdates, when set, is pinged after every recorded run.
	RunUpdates   *notifier.Notifier
	SessionStore sessions.Store
	Layout       view.Layout
	Options      components.Options
	IsDev        bool
	Logger       *slog.Logger
}

// Messages shown in the results area when a search cannot complete.
const (
	SearchFailedMessage        = "Could not load leads. Please try again."
	SearchNotConfiguredMessage = "Lead search is not configured."
)

const pageTitle = "Lead shortlist"
