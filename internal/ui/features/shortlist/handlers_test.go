package shortlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/leads"
	"github.com/leapstack-labs/shortlist/internal/panel"
	"github.com/leapstack-labs/shortlist/internal/search"
	"github.com/leapstack-labs/shortlist/internal/state"
	"github.com/leapstack-labs/shortlist/internal/testutil"
	"github.com/leapstack-labs/shortlist/internal/ui/components"
	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

type testFixture struct {
	router   chi.Router
	store    *state.SQLiteStore
	searches *atomic.Int32
}

type fixtureOption func(*Config)

func withLayout(l view.Layout) fixtureOption { return func(c *Config) { c.Layout = l } }

func withSearcher(s search.Searcher) fixtureOption { return func(c *Config) { c.Searcher = s } }

func withLogger(l *slog.Logger) fixtureOption { return func(c *Config) { c.Logger = l } }

func samplePayload() leads.ResultsPayload {
	return leads.NewPayload([]leads.Record{
		{Name: "Amira Haddad", Email: "amira@example.com", Project: "Altura", Budget: leads.NewBudget(500000), UnitType: "Studio", VisitStatus: "Connected"},
		{Name: "Bilal Khan", Project: "Altura", UnitType: "2 bed"},
	})
}

func setupTestRouter(t *testing.T, opts ...fixtureOption) *testFixture {
	t.Helper()

	store, err := state.Open(context.Background(), state.MemoryPath, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	searches := &atomic.Int32{}
	cfg := Config{
		Panel: panel.New(panel.Config{}),
		Searcher: search.Func(func(_ context.Context, _ filter.Snapshot) (leads.ResultsPayload, error) {
			searches.Add(1)
			return samplePayload(), nil
		}),
		Store:        store,
		SessionStore: sessions.NewCookieStore([]byte("test-secret-test-secret-test-sec")),
		Layout:       view.FullLayout(),
		Options: components.Options{
			Projects:     []string{"Altura", "Sobha Waves"},
			UnitTypes:    []string{"Studio", "2 bed"},
			LeadStatuses: []string{"Connected"},
		},
		Logger: testutil.NewTestLogger(t),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, cfg))
	return &testFixture{router: r, store: store, searches: searches}
}

func (f *testFixture) post(t *testing.T, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *testFixture) runs(t *testing.T) []state.Run {
	t.Helper()
	runs, err := f.store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	return runs
}

// =============================================================================
// Page Tests
// =============================================================================

func TestPage(t *testing.T) {
	f := setupTestRouter(t)

	rec := f.get(t, PagePath)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<!doctype html>",
		"<title>Lead shortlist - Shortlist</title>",
		`data-init="@post(&#39;/api/shortlist/count&#39;)"`,
		`data-on:submit="@post(&#39;/api/shortlist/submit&#39;)"`,
		`data-on:click="@post(&#39;/api/shortlist/clear&#39;)"`,
		`<option value="Sobha Waves">`,
		`id="leadsList"`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestRootRedirects(t *testing.T) {
	f := setupTestRouter(t)

	rec := f.get(t, "/")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, PagePath, rec.Header().Get("Location"))
}

func TestRoutes_WithoutFilterForm(t *testing.T) {
	f := setupTestRouter(t, withLayout(view.FullLayout().Without(view.FilterForm)))

	page := f.get(t, PagePath)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.NotContains(t, page.Body.String(), "data-on:")
	assert.NotContains(t, page.Body.String(), "data-init=\"@post")

	for _, path := range []string{CountPath, SubmitPath, ClearPath} {
		rec := f.post(t, path, `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
	assert.Equal(t, http.StatusMethodNotAllowed, f.post(t, PagePath, "").Code)
	assert.Zero(t, f.searches.Load())
}

// =============================================================================
// Counter Tests
// =============================================================================

func TestCountSSE(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount string
		wantReady string
	}{
		{"empty form", `{}`, `"_filterCountText":"0"`, `"_readyIndicatorShown":false`},
		{"one group", `{"project_name":"Altura"}`, `"_filterCountText":"1"`, `"_readyIndicatorShown":true`},
		{"budget counts once", `{"min_budget":100,"max_budget":"900"}`, `"_filterCountText":"1"`, `"_readyIndicatorShown":true`},
		{
			name:      "three groups with checkbox arrays",
			body:      `{"project_name":"Altura","unit_type":["Studio"],"lead_status":["","Connected"]}`,
			wantCount: `"_filterCountText":"3"`,
			wantReady: `"_readyIndicatorShown":true`,
		},
		{"unchecked boxes ignored", `{"unit_type":[""],"lead_status":[]}`, `"_filterCountText":"0"`, `"_readyIndicatorShown":false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestRouter(t)

			rec := f.post(t, CountPath, tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
			body := rec.Body.String()
			assert.Contains(t, body, "datastar-patch-signals")
			assert.Contains(t, body, tt.wantCount)
			assert.Contains(t, body, tt.wantReady)
		})
	}
}

func TestCountSSE_MissingSlots(t *testing.T) {
	f := setupTestRouter(t, withLayout(view.FullLayout().Without(view.FilterCount, view.ReadyIndicator)))

	rec := f.post(t, CountPath, `{"project_name":"Altura"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "_filterCountText")
	assert.NotContains(t, rec.Body.String(), "console.error")
}

func TestCountSSE_MalformedSignals(t *testing.T) {
	f := setupTestRouter(t)

	rec := f.post(t, CountPath, `{"project_name":`)

	assert.Contains(t, rec.Body.String(), "console.error")
	assert.NotContains(t, rec.Body.String(), "_filterCountText")
}

// =============================================================================
// Submit Tests
// =============================================================================

func TestSubmitSSE_Blocked(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty form", `{}`},
		{"one group", `{"project_name":"Altura"}`},
		{"budget range is one group", `{"min_budget":"1","max_budget":"2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestRouter(t)

			rec := f.post(t, SubmitPath, tt.body)

			body := rec.Body.String()
			assert.Contains(t, body, `"_formErrorText":"Please select at least 2 filters before shortlisting."`)
			assert.Contains(t, body, `"_formErrorShown":true`)
			assert.NotContains(t, body, "leadsList")
			assert.Zero(t, f.searches.Load(), "blocked submit must not search")
			assert.Empty(t, rec.Result().Cookies())

			runs := f.runs(t)
			require.Len(t, runs, 1)
			assert.False(t, runs[0].Allowed)
			assert.Nil(t, runs[0].LeadCount)
		})
	}
}

func TestSubmitSSE_Allowed(t *testing.T) {
	f := setupTestRouter(t)

	rec := f.post(t, SubmitPath, `{"project_name":"Altura","min_budget":"500000"}`)

	body := rec.Body.String()
	assert.Equal(t, int32(1), f.searches.Load())
	assert.Contains(t, body, `"_formErrorText":""`)
	assert.Contains(t, body, `"_formErrorShown":false`)
	assert.Contains(t, body, `"_resultsAreaShown":true`)
	assert.Contains(t, body, `"_leadCountText":"2"`)
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, `<div id="leadsList" class="leads-list">`)
	assert.Contains(t, body, "$500,000")
	assert.Contains(t, body, "N/A")
	assert.Less(t, strings.Index(body, "Amira Haddad"), strings.Index(body, "Bilal Khan"))
	assert.Contains(t, body, "scrollIntoView")
	assert.NotEmpty(t, rec.Result().Cookies(), "last shortlist is saved in the session")

	runs := f.runs(t)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Allowed)
	require.NotNil(t, runs[0].LeadCount)
	assert.Equal(t, 2, *runs[0].LeadCount)
	assert.Equal(t, "Altura", runs[0].Filters.ProjectName)
}

func TestSubmitSSE_SearchFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"upstream error", errors.New("connection refused"), SearchFailedMessage},
		{"not configured", search.ErrNotConfigured, SearchNotConfiguredMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewCaptureLogger(slog.LevelInfo)
			f := setupTestRouter(t, withLogger(logger), withSearcher(search.Func(func(context.Context, filter.Snapshot) (leads.ResultsPayload, error) {
				return leads.ResultsPayload{}, tt.err
			})))

			rec := f.post(t, SubmitPath, `{"project_name":"Altura","unit_type":["Studio"]}`)

			body := rec.Body.String()
			assert.Contains(t, body, `"_resultsMessageText":"`+tt.wantMsg+`"`)
			assert.Contains(t, body, `"_formErrorShown":false`, "gate outcome is unaffected")
			assert.NotContains(t, body, "leadsList")
			assert.Empty(t, rec.Result().Cookies())

			runs := f.runs(t)
			require.Len(t, runs, 1)
			assert.True(t, runs[0].Allowed)
			assert.Equal(t, tt.err.Error(), runs[0].Error)
			assert.Contains(t, logs.String(), "lead search failed")
		})
	}
}

func TestSubmitSSE_EscapesLeadFields(t *testing.T) {
	f := setupTestRouter(t, withSearcher(search.Func(func(context.Context, filter.Snapshot) (leads.ResultsPayload, error) {
		return leads.NewPayload([]leads.Record{{Name: `<img src=x onerror=alert(1)>`}}), nil
	})))

	rec := f.post(t, SubmitPath, `{"project_name":"Altura","to_date":"March 3, 2025"}`)

	assert.NotContains(t, rec.Body.String(), "<img")
	assert.Contains(t, rec.Body.String(), "&lt;img src=x onerror=alert(1)&gt;")
}

func TestSubmitSSE_ConfiguredThreshold(t *testing.T) {
	f := setupTestRouter(t, func(c *Config) { c.Panel = panel.New(panel.Config{MinActive: 3}) })

	rec := f.post(t, SubmitPath, `{"project_name":"Altura","min_budget":"1"}`)

	assert.Contains(t, rec.Body.String(), "Please select at least 3 filters before shortlisting.")
	assert.Zero(t, f.searches.Load())
}

// =============================================================================
// Clear Tests
// =============================================================================

func TestClearSSE(t *testing.T) {
	f := setupTestRouter(t)

	rec := f.post(t, ClearPath, `{"project_name":"Altura","unit_type":["Studio"]}`)

	body := rec.Body.String()
	assert.Contains(t, body, `"project_name":""`)
	assert.Contains(t, body, `"unit_type":[]`)
	assert.Contains(t, body, `"_filterCountText":"0"`)
	assert.Contains(t, body, `"_readyIndicatorShown":false`)
	assert.Contains(t, body, `"_resultsAreaShown":false`)
}

func TestClearSSE_WithoutResultsArea(t *testing.T) {
	f := setupTestRouter(t, withLayout(view.FullLayout().Without(view.ResultsArea)))

	rec := f.post(t, ClearPath, `{}`)

	assert.NotContains(t, rec.Body.String(), "_resultsAreaShown")
	assert.Contains(t, rec.Body.String(), `"_filterCountText":"0"`)
}

// =============================================================================
// Plain Form Tests
// =============================================================================

func postForm(t *testing.T, f *testFixture, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, PagePath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitForm(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantBody   []string
		wantNot    []string
		wantSearch int32
	}{
		{
			name:       "blocked keeps values",
			form:       url.Values{"project_name": {"Altura"}},
			wantBody:   []string{"Please select at least 2 filters before shortlisting.", `name="project_name" value="Altura"`},
			wantNot:    []string{"lead-card"},
			wantSearch: 0,
		},
		{
			name: "allowed renders cards",
			form: url.Values{"project_name": {"Altura"}, "unit_type": {"Studio", ""}},
			wantBody: []string{
				`<div class="lead-card"><h4>Amira Haddad</h4>`,
				`<span id="leadCount" data-text="$_leadCountText">2</span>`,
				` checked`,
			},
			wantNot:    []string{"Please select at least"},
			wantSearch: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestRouter(t)

			rec := postForm(t, f, tt.form)

			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
			for _, not := range tt.wantNot {
				assert.NotContains(t, body, not)
			}
			assert.Equal(t, tt.wantSearch, f.searches.Load())
		})
	}
}

// =============================================================================
// Session Tests
// =============================================================================

func TestLastShortlistRestoredOnPageLoad(t *testing.T) {
	f := setupTestRouter(t)

	submit := f.post(t, SubmitPath, `{"project_name":"Sobha Waves","lead_status":["Connected"]}`)
	cookies := submit.Result().Cookies()
	require.NotEmpty(t, cookies)

	page := f.get(t, PagePath, cookies...)
	body := page.Body.String()
	assert.Contains(t, body, `name="project_name" value="Sobha Waves"`)
	assert.Contains(t, body, `<span id="filterCount" data-text="$_filterCountText">2</span>`)

	cleared := f.post(t, ClearPath, `{}`, cookies...)
	page = f.get(t, PagePath, cleared.Result().Cookies()...)
	assert.NotContains(t, page.Body.String(), `name="project_name" value="Sobha Waves"`)
}
