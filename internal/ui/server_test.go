package ui

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shortlist/internal/panel"
	"github.com/leapstack-labs/shortlist/internal/state"
	"github.com/leapstack-labs/shortlist/internal/testutil"
	shortlistFeature "github.com/leapstack-labs/shortlist/internal/ui/features/shortlist"
	"github.com/leapstack-labs/shortlist/internal/ui/view"
)

func newTestServer(t *testing.T, watch bool, staticDir string) *Server {
	t.Helper()
	return NewServer(Config{
		Shortlist: shortlistFeature.Config{
			Panel:  panel.New(panel.Config{}),
			Layout: view.FullLayout(),
		},
		Watch:         watch,
		StaticDir:     staticDir,
		SessionSecret: "test-secret",
		Logger:        testutil.NewTestLogger(t),
	})
}

func TestServer_Handler(t *testing.T) {
	s := newTestServer(t, false, "")
	h, err := s.Handler()
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"page", "/shortlist", http.StatusOK, "Shortlist leads"},
		{"embedded stylesheet", "/static/panel.css", http.StatusOK, ".lead-card"},
		{"no reload stream outside dev", "/reload", http.StatusNotFound, ""},
		{"no run history without a run log", "/runs", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestServer_RunHistory(t *testing.T) {
	store, err := state.Open(context.Background(), state.MemoryPath, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	s := NewServer(Config{
		Shortlist: shortlistFeature.Config{
			Panel:  panel.New(panel.Config{}),
			Store:  store,
			Layout: view.FullLayout(),
		},
		SessionSecret: "test-secret",
		Logger:        testutil.NewTestLogger(t),
	})
	h, err := s.Handler()
	require.NoError(t, err)

	page := httptest.NewRecorder()
	h.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/shortlist", nil))
	assert.Contains(t, page.Body.String(), `href="/runs"`)

	runs := httptest.NewRecorder()
	h.ServeHTTP(runs, httptest.NewRequest(http.MethodGet, "/runs", nil))
	assert.Equal(t, http.StatusOK, runs.Code)
	assert.Contains(t, runs.Body.String(), "Recent shortlists")
	assert.Contains(t, runs.Body.String(), "/api/runs/updates")
}

func TestServer_DevReload(t *testing.T) {
	s := newTestServer(t, true, "")
	assert.True(t, s.IsDev())
	h, err := s.Handler()
	require.NoError(t, err)

	page := httptest.NewRecorder()
	h.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/shortlist", nil))
	assert.Contains(t, page.Body.String(), "/reload")

	hot := httptest.NewRecorder()
	h.ServeHTTP(hot, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, "OK", hot.Body.String())
}

func TestServer_WatchBroadcastsOnAssetChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "panel.css"), []byte("body{}"), 0o600))

	s := newTestServer(t, true, dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pings := s.Notifier().Subscribe(ctx)
	done := make(chan error, 1)
	go func() { done <- s.watchFiles(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "panel.css"), []byte("body{color:red}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	select {
	case <-pings:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reload ping after the stylesheet changed")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, false, "")
	s.port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/shortlist", s.port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}
