package runs

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/shortlist/internal/state"
	"github.com/leapstack-labs/shortlist/internal/ui/components"
	"github.com/leapstack-labs/shortlist/internal/ui/notifier"
)

const pageTitle = "Recent shortlists"

// Config holds the dependencies of the run history feature.
type Config struct {
	Store state.Store
	// Updates is pinged whenever a run is recorded. Without it the page is static.
	Updates *notifier.Notifier
	Limit   int
	IsDev   bool
	Reload  string
	Logger  *slog.Logger
}

// Handlers provides HTTP handlers for the run history feature.
type Handlers struct {
	store    state.Store
	notifier *notifier.Notifier
	limit    int
	isDev    bool
	reload   string
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg Config) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		store:    cfg.Store,
		notifier: cfg.Updates,
		limit:    cfg.Limit,
		isDev:    cfg.IsDev,
		reload:   cfg.Reload,
		logger:   logger,
	}
}

// RunsPage renders the run history page with the current runs.
func (h *Handlers) RunsPage(w http.ResponseWriter, r *http.Request) {
	rows, err := h.rows(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := components.RunsPageData{
		Title:  pageTitle,
		IsDev:  h.isDev,
		Reload: h.reload,
		Rows:   rows,
	}
	if h.notifier != nil {
		data.Updates = UpdatesPath
	}
	if err := components.RunsPage(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// RunsPageUpdates is the long-lived SSE endpoint for the runs page. It sends
// nothing up front (the page is already rendered) and patches the table each
// time a run is recorded.
func (h *Handlers) RunsPageUpdates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	updates := h.notifier.Subscribe(ctx)
	sse := datastar.NewSSE(w, r)

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := h.sendTable(ctx, sse); err != nil {
				h.logger.Warn("failed to refresh run history", slog.Any("error", err))
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) sendTable(ctx context.Context, sse *datastar.ServerSentEventGenerator) error {
	rows, err := h.rows(ctx)
	if err != nil {
		return err
	}
	return sse.PatchElementTempl(components.RunsTable(rows))
}

func (h *Handlers) rows(ctx context.Context) ([]components.RunRow, error) {
	runs, err := h.store.ListRuns(ctx, h.limit)
	if err != nil {
		return nil, err
	}
	rows := make([]components.RunRow, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, toRow(run))
	}
	return rows, nil
}

func toRow(run state.Run) components.RunRow {
	leads := "-"
	if run.LeadCount != nil {
		leads = strconv.Itoa(*run.LeadCount)
	}
	return components.RunRow{
		ID:        run.ShortID(),
		CreatedAt: run.CreatedAt.Local().Format(time.DateTime),
		Status:    run.Status(),
		Active:    strconv.Itoa(run.ActiveCount) + "/" + strconv.Itoa(run.MinActive),
		Leads:     leads,
		Filters:   run.GroupSummary(),
		Error:     run.Error,
	}
}
