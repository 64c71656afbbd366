package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shortlist/internal/cli/output"
	"github.com/leapstack-labs/shortlist/internal/leads"
	"github.com/leapstack-labs/shortlist/internal/ui/components"
)

// Render formats.
const (
	FormatAuto     = ""
	FormatTable    = "table"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// RenderOptions holds options for the render command.
type RenderOptions struct {
	Format string
}

// RenderOutput is the JSON form of rendered cards.
type RenderOutput struct {
	Count *int              `json:"count,omitempty"`
	Cards []components.Card `json:"cards"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <payload.json>",
		Short: "Render a search results payload as lead cards",
		Long: `Render a results payload the way the panel does: one card per lead in
payload order, budgets formatted for the configured locale, missing budgets
shown as N/A.

Use "-" to read the payload from stdin.

Output adapts to environment unless --format is given:
  - Terminal: table
  - Piped/Scripted: markdown converted from the card markup
  - --output json: the prepared cards`,
		Example: `  # Render a fixture as a table
  shortlist render testdata/leads.json --format table

  # Print the exact card markup the panel would patch in
  shortlist render testdata/leads.json --format html

  # Render an upstream response from stdin
  curl -s -d '{}' $SEARCH_URL | shortlist render -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", FormatAuto, "Card format (table|html|markdown)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatTable, FormatHTML, FormatMarkdown}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runRender(cmd *cobra.Command, path string, opts *RenderOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	payload, err := readPayload(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	p, err := cmdCtx.Panel()
	if err != nil {
		return err
	}
	cards := p.Renderer.Cards(payload)

	format := opts.Format
	if format == FormatAuto {
		switch r.EffectiveMode() {
		case output.ModeJSON:
			return r.JSON(RenderOutput{Count: payload.Count, Cards: cards})
		case output.ModeText:
			format = FormatTable
		default:
			format = FormatMarkdown
		}
	}

	switch format {
	case FormatTable:
		renderCardTable(r, payload.Count, cards)
		return nil
	case FormatHTML:
		markup, err := cardsHTML(cmd, cards)
		if err != nil {
			return err
		}
		r.Println(markup)
		return nil
	case FormatMarkdown:
		markup, err := cardsHTML(cmd, cards)
		if err != nil {
			return err
		}
		md, err := htmltomarkdown.ConvertString(markup)
		if err != nil {
			return fmt.Errorf("failed to convert cards to markdown: %w", err)
		}
		if payload.Count != nil {
			r.Println(output.FormatHeader(1, leadsFound(*payload.Count)))
			r.Println("")
		}
		r.Println(md)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, html or markdown)", format)
	}
}

func readPayload(stdin io.Reader, path string) (leads.ResultsPayload, error) {
	if path == "-" {
		return leads.Decode(stdin)
	}
	f, err := os.Open(path) //nolint:gosec // G304: path is given by the user
	if err != nil {
		return leads.ResultsPayload{}, fmt.Errorf("failed to open payload: %w", err)
	}
	defer func() { _ = f.Close() }()
	return leads.Decode(f)
}

func cardsHTML(cmd *cobra.Command, cards []components.Card) (string, error) {
	var buf bytes.Buffer
	if err := components.LeadsList(cards).Render(cmd.Context(), &buf); err != nil {
		return "", fmt.Errorf("failed to render cards: %w", err)
	}
	return buf.String(), nil
}

func renderCardTable(r *output.Renderer, count *int, cards []components.Card) {
	if count != nil {
		r.Header(1, leadsFound(*count))
		r.Println("")
	}
	if len(cards) == 0 {
		r.Muted("No leads")
		return
	}
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []string{c.Name, c.Email, c.Phone, c.Project, c.Budget, c.UnitType, c.VisitStatus})
	}
	r.Table([]string{"Name", "Email", "Phone", "Project", "Budget", "Unit Type", "Status"}, rows)
}

func leadsFound(n int) string {
	return strconv.Itoa(n) + " leads found"
}
