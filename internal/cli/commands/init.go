package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/shortlist/internal/cli/config"
	"github.com/leapstack-labs/shortlist/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default shortlist.yaml",
		Long: `Write a shortlist.yaml holding the default configuration: the minimum
number of filters, budget locale, the option lists offered by the form, and
the lead search settings.

Use --example to also write a leads.json search fixture and point the
configuration at it, so "shortlist serve" works without an upstream.`,
		Example: `  # Initialize in current directory
  shortlist init

  # Initialize with a sample search fixture
  shortlist init --example

  # Initialize in a new directory
  shortlist init my-panel --example

  # Force overwrite existing config
  shortlist init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r := NewCommandContext(cmd).Renderer
			return runInit(r, dir, force, example)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&example, "example", false, "Also write a sample search fixture")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, example bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	cfg := config.Default()
	if example {
		cfg.Search.Fixture = FixtureFileName
	}
	data, err := marshalConfig(cfg)
	if err != nil {
		return err
	}
	configPath, err := writeProjectFile(dir, ConfigFileName, data, force)
	if err != nil {
		return err
	}
	r.Success("Wrote " + configPath)

	if example {
		fixture, err := exampleFixture()
		if err != nil {
			return err
		}
		fixturePath, err := writeProjectFile(dir, FixtureFileName, fixture, force)
		if err != nil {
			return err
		}
		r.Success("Wrote " + fixturePath)
	}

	r.Println("")
	r.Println("Next steps:")
	if !example {
		r.Println("  1. Set search.url in " + ConfigFileName + " to your lead search endpoint")
	} else {
		r.Println("  1. Replace " + FixtureFileName + " or set search.url to a real endpoint")
	}
	r.Println("  2. Run 'shortlist check \"project_name=Altura&unit_type=Studio\"' to try the filter rule")
	r.Println("  3. Run 'shortlist serve' to open the panel")

	return nil
}
