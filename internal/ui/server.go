// Package ui serves the shortlist filter panel over HTTP.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	runsFeature "github.com/leapstack-labs/shortlist/internal/ui/features/runs"
	shortlistFeature "github.com/leapstack-labs/shortlist/internal/ui/features/shortlist"
	"github.com/leapstack-labs/shortlist/internal/ui/notifier"
	"github.com/leapstack-labs/shortlist/internal/ui/router"
)

// reloadDebounce groups bursts of file events into one reload.
const reloadDebounce = 100 * time.Millisecond

// watchedExts are the static asset types that trigger a reload.
var watchedExts = map[string]bool{".css": true, ".js": true, ".html": true, ".svg": true}

// Server is the main UI server.
type Server struct {
	shortlist    shortlistFeature.Config
	runs         runsFeature.Config
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	staticDir    string
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	// Shortlist carries the panel, search, run log, layout and options.
	// SessionStore, IsDev and Logger are filled in by the server.
	Shortlist     shortlistFeature.Config
	Port          int
	Watch         bool
	StaticDir     string
	SessionSecret string
	// RunsLimit caps the run history page; 0 uses the store default.
	RunsLimit int
	Logger    *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	feature := cfg.Shortlist
	feature.SessionStore = sessionStore
	feature.IsDev = cfg.Watch
	feature.Logger = logger

	var runUpdates *notifier.Notifier
	if feature.Store != nil {
		runUpdates = notifier.New()
		feature.RunUpdates = runUpdates
	}

	return &Server{
		shortlist: feature,
		runs: runsFeature.Config{
			Store:   feature.Store,
			Updates: runUpdates,
			Limit:   cfg.RunsLimit,
			IsDev:   cfg.Watch,
			Reload:  shortlistFeature.ReloadPath,
			Logger:  logger,
		},
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		staticDir:    cfg.StaticDir,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5, "text/html", "text/css", "application/javascript"),
	)

	if err := router.SetupRoutes(r, s.shortlist, s.runs, s.staticDir, s.notifier); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start file watcher if enabled
	if s.watch && s.staticDir != "" {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether pages get the live reload stream.
func (s *Server) IsDev() bool {
	return s.watch
}

// Notifier returns the server's notifier for reload pings.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// watchFiles reloads open pages when a static asset changes.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.staticDir); err != nil {
		s.logger.Error("failed to watch static directory", "dir", s.staticDir, "error", err)
		// Don't fail - continue without watching
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !watchedExts[filepath.Ext(event.Name)] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				n := s.notifier.Broadcast()
				s.logger.Debug("static asset changed, reloading pages", "file", name, "pages", n)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
