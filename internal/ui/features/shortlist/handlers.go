package shortlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/gate"
	"github.com/leapstack-labs/shortlist/internal/leads"
	"github.com/leapstack-labs/shortlist/internal/panel"
	"github.com/leapstack-labs/shortlist/internal/search"
	"github.com/leapstack-labs/shortlist/internal/state"
	"github.com/leapstack-labs/shortlist/internal/ui/components"
	"github.com/leapstack-labs/shortlist/internal/ui/notifier"
	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

// Handlers provides HTTP handlers for the shortlist feature.
type Handlers struct {
	panel        *panel.Panel
	searcher     search.Searcher
	store        state.Store
	runUpdates   *notifier.Notifier
	sessionStore sessions.Store
	layout       view.Layout
	options      components.Options
	isDev        bool
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg Config) *Handlers {
	p := cfg.Panel
	if p == nil {
		p = panel.New(panel.Config{})
	}
	searcher := cfg.Searcher
	if searcher == nil {
		searcher = search.Unconfigured{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	layout := cfg.Layout
	if layout.IsZero() {
		layout = view.FullLayout()
	}
	return &Handlers{
		panel:        p,
		searcher:     searcher,
		store:        cfg.Store,
		runUpdates:   cfg.RunUpdates,
		sessionStore: cfg.SessionStore,
		layout:       layout,
		options:      cfg.Options,
		isDev:        cfg.IsDev,
		logger:       logger,
	}
}

// Page renders the shortlist page, pre-filled with the session's last shortlist.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	values := filter.Empty()
	if last, ok := loadLastShortlist(h.sessionStore, r); ok {
		values = last.Filters
	}

	if err := components.ShortlistPage(h.pageData(values)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SubmitForm handles a plain form post. The guard runs again on the server and
// the page is re-rendered with the submitted values.
func (h *Handlers) SubmitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	snapshot := filter.FromValues(r.PostForm)
	data := h.pageData(snapshot)

	d := h.panel.Guard.Decide(snapshot)
	if !d.Allowed() {
		data.FormError = h.panel.Guard.Message()
		h.recordRun(r.Context(), newRun(snapshot, d))
	} else {
		run, payload, err := h.search(r.Context(), snapshot, d)
		data.Results.Shown = true
		if err != nil {
			data.Results.Message = failureMessage(err)
		} else {
			if payload.Count != nil {
				data.Results.Count = strconv.Itoa(*payload.Count)
			}
			data.Results.Cards = h.panel.Renderer.Cards(payload)
			h.remember(w, r, run)
		}
	}

	if err := components.ShortlistPage(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// CountSSE recounts active filters for the posted field values.
func (h *Handlers) CountSSE(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.readSignals(w, r)
	if !ok {
		return
	}

	a := view.NewAdapter(h.layout)
	h.panel.Refresh(a, snapshot)
	h.flush(w, r, a)
}

// SubmitSSE runs the submission guard and, when allowed, the lead search.
func (h *Handlers) SubmitSSE(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.readSignals(w, r)
	if !ok {
		return
	}

	a := view.NewAdapter(h.layout)
	d := h.panel.Submit(a, snapshot)
	if !d.Allowed() {
		h.logger.Debug("shortlist blocked", slog.Int("active", d.Count), slog.Int("min", d.MinActive))
		h.recordRun(r.Context(), newRun(snapshot, d))
		h.flush(w, r, a)
		return
	}

	run, payload, err := h.search(r.Context(), snapshot, d)
	if err != nil {
		h.panel.Fail(a, failureMessage(err))
	} else {
		h.panel.Render(a, payload)
		// The cookie must be set before the event stream starts.
		h.remember(w, r, run)
	}
	h.flush(w, r, a)
}

// ClearSSE resets the form and hides the results.
func (h *Handlers) ClearSSE(w http.ResponseWriter, r *http.Request) {
	if err := clearLastShortlist(h.sessionStore, w, r); err != nil {
		h.logger.Warn("failed to clear saved shortlist", slog.Any("error", err))
	}

	a := view.NewAdapter(h.layout)
	h.panel.ClearAll(a)
	h.flush(w, r, a)
}

// readSignals decodes the posted field values. On failure the error is sent to
// the browser console and ok is false.
func (h *Handlers) readSignals(w http.ResponseWriter, r *http.Request) (filter.Snapshot, bool) {
	var snapshot filter.Snapshot
	if err := datastar.ReadSignals(r, &snapshot); err != nil {
		h.logger.Warn("failed to read signals", slog.String("path", r.URL.Path), slog.Any("error", err))
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return filter.Snapshot{}, false
	}
	return snapshot, true
}

// flush opens the event stream and applies the adapter's pending changes.
func (h *Handlers) flush(w http.ResponseWriter, r *http.Request, a *view.Adapter) {
	sse := datastar.NewSSE(w, r)
	if err := a.Flush(view.NewSSESink(sse)); err != nil {
		h.logger.Error("failed to send view update", slog.String("path", r.URL.Path), slog.Any("error", err))
		_ = sse.ConsoleError(err)
	}
}

// search runs the lead search for an allowed submission and records the run.
func (h *Handlers) search(ctx context.Context, snapshot filter.Snapshot, d gate.Decision) (state.Run, leads.ResultsPayload, error) {
	run := newRun(snapshot, d)

	payload, err := h.searcher.Search(ctx, snapshot)
	if err != nil {
		h.logger.Error("lead search failed", slog.Any("error", err))
		run.Error = err.Error()
		return h.recordRun(ctx, run), leads.ResultsPayload{}, err
	}

	n := len(payload.Leads)
	if payload.Count != nil {
		n = *payload.Count
	}
	run.LeadCount = &n
	h.logger.Info("shortlist created", slog.Int("active", d.Count), slog.Int("leads", n))
	return h.recordRun(ctx, run), payload, nil
}

// recordRun appends run to the run log. A failing log never fails the request.
func (h *Handlers) recordRun(ctx context.Context, run state.Run) state.Run {
	if h.store == nil {
		return run
	}
	recorded, err := h.store.RecordRun(ctx, run)
	if err != nil {
		h.logger.Error("failed to record run", slog.Any("error", err))
		return run
	}
	if h.runUpdates != nil {
		h.runUpdates.Broadcast()
	}
	return recorded
}

// remember saves an allowed, successful run as the session's last shortlist.
func (h *Handlers) remember(w http.ResponseWriter, r *http.Request, run state.Run) {
	last := LastShortlist{Filters: run.Filters, RunID: run.ID}
	if run.LeadCount != nil {
		last.LeadCount = *run.LeadCount
	}
	if err := saveLastShortlist(h.sessionStore, w, r, last); err != nil {
		h.logger.Warn("failed to save shortlist in session", slog.Any("error", err))
	}
}

func (h *Handlers) pageData(values filter.Snapshot) components.PageData {
	data := components.PageData{
		Title:   pageTitle,
		IsDev:   h.isDev,
		Layout:  h.layout,
		Values:  values,
		State:   filter.Evaluate(values),
		Options: h.options,
	}
	if h.isDev {
		data.Actions.Reload = ReloadPath
	}
	if h.store != nil {
		data.Actions.Runs = RunsPath
	}
	if panel.Attached(h.layout) {
		data.Actions.Form = PagePath
		data.Actions.Count = CountPath
		data.Actions.Submit = SubmitPath
		data.Actions.Clear = ClearPath
	}
	return data
}

func newRun(snapshot filter.Snapshot, d gate.Decision) state.Run {
	return state.Run{
		Filters:     snapshot,
		ActiveCount: d.Count,
		MinActive:   d.MinActive,
		Allowed:     d.Allowed(),
	}
}

func failureMessage(err error) string {
	if errors.Is(err, search.ErrNotConfigured) {
		return SearchNotConfiguredMessage
	}
	return SearchFailedMessage
}
