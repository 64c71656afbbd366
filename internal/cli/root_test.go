package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/shortlist/internal/cli/commands"
	"github.com/leapstack-labs/shortlist/internal/cli/config"
)

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	cfgFile = ""

	root := NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "shortlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"version", "serve", "check", "render", "runs", "doctor", "init", "completion"} {
		found, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
	for _, flag := range []string{"config", "state", "log-level", "verbose", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCmd_FlagsOverrideConfigFile(t *testing.T) {
	path := writeConfig(t, "output: markdown\nshortlist:\n  min_filters: 3\n")
	state := filepath.Join(t.TempDir(), "runs.db")

	out, _, err := runRoot(t, "--config", path, "--output", "json", "--state", state,
		"check", "project_name=Altura&unit_type=Studio")
	require.NoError(t, err)

	var result commands.CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &result), "--output json wins over the file")
	assert.Equal(t, 3, result.MinActive, "threshold comes from the file")
	assert.Equal(t, "blocked", result.Decision)

	cfg := config.GetCurrentConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, state, cfg.StatePath)
}

func TestRootCmd_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "output: json\nshortlist:\n  min_filters: 3\n")
	t.Setenv("SHORTLIST_SHORTLIST__MIN_FILTERS", "1")

	out, _, err := runRoot(t, "--config", path, "check", "lead_status=Connected")
	require.NoError(t, err)

	var result commands.CheckResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.MinActive)
	assert.Equal(t, "allowed", result.Decision)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad output flag", []string{"--output", "xml", "check", "a=b"}, "output must be one of"},
		{"bad log level", []string{"--log-level", "loud", "check", "a=b"}, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "")
			_, _, err := runRoot(t, append([]string{"--config", path}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRootCmd_VerboseLogsConfigFile(t *testing.T) {
	path := writeConfig(t, "output: markdown\n")

	_, errOut, err := runRoot(t, "--config", path, "-v", "check", "project_name=Altura")
	require.NoError(t, err)
	assert.Contains(t, errOut, "using config file")
	assert.Contains(t, errOut, path)
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := runRoot(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "shortlist")

	_, _, err = runRoot(t, "completion", "tcsh")
	assert.Error(t, err)
}
