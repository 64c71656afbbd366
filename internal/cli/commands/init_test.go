package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shortlist/internal/cli/config"
	"github.com/leapstack-labs/shortlist/internal/filter"
	"github.com/leapstack-labs/shortlist/internal/search"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
		noFiles   []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{ConfigFileName},
			noFiles:   []string{FixtureFileName},
		},
		{
			name:      "init with example fixture",
			args:      []string{"--example"},
			wantFiles: []string{ConfigFileName, FixtureFileName},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("existing"), 0o600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("existing"), 0o600)
			},
			args:      []string{"--force"},
			wantFiles: []string{ConfigFileName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config.ResetConfig()
			tmpDir := t.TempDir()
			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(append(tt.args, tmpDir))

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(tmpDir, f))
			}
			for _, f := range tt.noFiles {
				assert.NoFileExists(t, filepath.Join(tmpDir, f))
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
	assert.NotNil(t, cmd.Flags().Lookup("example"), "--example flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(ConfigFileName)
	require.NoError(t, err, "failed to read shortlist.yaml")
	for _, expected := range []string{
		"min_filters: 2",
		"locale: en-US",
		"timeout: 10s",
		"state_path: .shortlist/state.db",
		"- Sobha Waves",
		"- Visit scheduled",
	} {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}

	cfg, err := config.LoadConfig(ConfigFileName, nil)
	require.NoError(t, err, "generated config should load and validate")
	def := config.Default()
	assert.Equal(t, def.Shortlist, cfg.Shortlist)
	assert.Equal(t, def.Search.Timeout, cfg.Search.Timeout)
	assert.Equal(t, def.UI.Port, cfg.UI.Port)
}

func TestInitExampleFixtureIsSearchable(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	dir := t.TempDir()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--example", dir})
	require.NoError(t, cmd.Execute())

	cfg, err := config.LoadConfig(filepath.Join(dir, ConfigFileName), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FixtureFileName), cfg.Search.Fixture, "fixture resolves next to the config file")

	payload, err := search.Fixture{Path: cfg.Search.Fixture}.Search(context.Background(), filter.Empty())
	require.NoError(t, err)
	require.NotNil(t, payload.Count)
	assert.Equal(t, 4, *payload.Count)
	assert.Len(t, payload.Leads, 4)
	assert.False(t, payload.Leads[2].Budget.Valid, "null budget decodes as missing")
}
