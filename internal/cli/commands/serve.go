package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shortlist/internal/ui"
	"github.com/leapstack-labs/shortlist/internal/ui/components"
	shortlistFeature "github.com/leapstack-labs/shortlist/internal/ui/features/shortlist"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	StaticDir string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the lead shortlist web UI",
		Long: `Start a local web server hosting the lead shortlist filter panel.

The panel counts active filter groups as you edit the form, refuses to
shortlist with fewer than the configured minimum, and renders the leads
returned by the configured search backend. Every submit decision is
recorded in the run log.`,
		Example: `  # Start on the default port
  shortlist serve

  # Start on a custom port without opening a browser
  shortlist serve --port 3000 --no-browser

  # Serve results from a local fixture and reload on stylesheet edits
  SHORTLIST_SEARCH__FIXTURE=leads.json shortlist serve --watch --static-dir internal/ui/resources/static`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload open pages when static assets change")
	cmd.Flags().StringVar(&opts.StaticDir, "static-dir", "", "Serve static assets from this directory instead of the embedded copies")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	// CLI flags override config file
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	autoOpen := cfg.UI.AutoOpen && !opts.NoBrowser
	watch := cfg.UI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}
	staticDir := cfg.UI.StaticDir
	if opts.StaticDir != "" {
		staticDir = opts.StaticDir
	}

	p, err := cmdCtx.Panel()
	if err != nil {
		return err
	}
	searcher, err := cmdCtx.Searcher()
	if err != nil {
		return err
	}
	store, err := cmdCtx.OpenStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	server := ui.NewServer(ui.Config{
		Shortlist: shortlistFeature.Config{
			Panel:    p,
			Searcher: searcher,
			Store:    store,
			Layout:   cfg.Layout(),
			Options: components.Options{
				Projects:     cfg.Shortlist.Projects,
				UnitTypes:    cfg.Shortlist.UnitTypes,
				LeadStatuses: cfg.Shortlist.LeadStatuses,
			},
		},
		Port:          port,
		Watch:         watch,
		StaticDir:     staticDir,
		SessionSecret: cfg.UI.SessionSecret,
		Logger:        cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if autoOpen {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Success("Serving the shortlist panel on " + url)
	r.Muted("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
