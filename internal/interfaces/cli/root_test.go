package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/internal/config"
	domainDock "github.com/turtacn/dockprep/internal/domain/docking"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

const testSubstituents = "# test table\nH\nF = F\nhydroxy = O = OC\n"

// testEnv is a temporary workspace with a config file and substituent table.
type testEnv struct {
	dir        string
	configPath string
	subsPath   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	env := &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "dockprep.yaml"),
		subsPath:   filepath.Join(dir, "substituents.txt"),
	}
	require.NoError(t, os.WriteFile(env.subsPath, []byte(testSubstituents), 0o644))
	cfg := "log:\n  level: error\n" +
		"substituents:\n  path: " + env.subsPath + "\n" +
		"derivatives:\n  format: smi\n  sink: local\n  max_count: 50\n" +
		"docking:\n  exhaustiveness: 16\n"
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o644))
	return env
}

func (e *testEnv) path(parts ...string) string {
	return filepath.Join(append([]string{e.dir}, parts...)...)
}

// run executes the root command with the env config and returns stdout and
// stderr.
func (e *testEnv) run(t *testing.T, deps *Dependencies, args ...string) (string, string, error) {
	t.Helper()
	var opts []RootOption
	if deps != nil {
		opts = append(opts, WithDependencies(deps))
	}
	cmd := NewRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath, "--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "dockprep", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestNewRootCommand_SubcommandRegistration(t *testing.T) {
	cmd := NewRootCommand()
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{
		"derive", "expand", "classify", "substituents", "receptor", "box",
		"scores", "extract", "structure", "events", "version",
	} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}

	derive, _, err := cmd.Find([]string{"derive", "batch"})
	require.NoError(t, err)
	assert.Equal(t, "batch", derive.Name())
	assert.NotNil(t, derive.Flags().Lookup("manifest"))
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	pf := cmd.PersistentFlags()

	cases := []struct {
		name, shorthand, def string
	}{
		{"config", "c", ""},
		{"output", "o", "text"},
		{"verbose", "v", "false"},
		{"no-color", "", "false"},
		{"timeout", "", "0s"},
		{"substituents", "", ""},
		{"placeholder", "", ""},
		{"log-level", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := pf.Lookup(tc.name)
			require.NotNil(t, f)
			assert.Equal(t, tc.shorthand, f.Shorthand)
			assert.Equal(t, tc.def, f.DefValue)
		})
	}
}

func TestPersistentPreRun_FlagsOverrideConfig(t *testing.T) {
	env := newTestEnv(t)
	other := env.path("other.txt")
	require.NoError(t, os.WriteFile(other, []byte("Cl = Cl\n"), 0o644))

	var captured *CLIContext
	cmd := NewRootCommand()
	echo := &cobra.Command{
		Use: "echo",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			captured, err = GetCLIContext(cmd)
			return err
		},
	}
	cmd.AddCommand(echo)
	cmd.SetArgs([]string{"--config", env.configPath, "--substituents", other,
		"--placeholder", "*", "--log-level", "WARN", "-o", "json", "--timeout", "5s", "echo"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, captured)
	assert.Equal(t, other, captured.Config.Substituents.Path)
	assert.Equal(t, "*", captured.Config.Substituents.Placeholder)
	assert.Equal(t, "warn", captured.Config.Log.Level)
	assert.Equal(t, 16, captured.Config.Docking.Exhaustiveness)
	assert.Equal(t, "json", captured.OutputFormat)
	assert.Equal(t, "5s", captured.Timeout.String())
	assert.NotNil(t, captured.Logger)
	assert.NotNil(t, captured.Deps.DerivativeService)
}

func TestPersistentPreRun_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.run(t, nil, "--log-level", "loud", "classify", "[R]C")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestPersistentPreRun_MissingConfigFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "version"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	_, err := GetCLIContext(cmd)
	assert.True(t, errors.IsValidation(err))

	cmd.SetContext(context.Background())
	_, err = GetCLIContext(cmd)
	assert.True(t, errors.IsValidation(err))
}

func TestPrintResult_Formats(t *testing.T) {
	view := reportView{Entries: []domainDock.ScoreEntry{{Ligand: "lig", Score: -7.5}}}

	for format, want := range map[string]string{
		"json":  `"ligand": "lig"`,
		"table": "LIGAND  SCORE\n------  -----\nlig     -7.5\n",
		"text":  "lig     -7.5",
	} {
		t.Run(format, func(t *testing.T) {
			cmd := &cobra.Command{}
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetContext(context.WithValue(context.Background(), cliContextKey{},
				&CLIContext{OutputFormat: format, Logger: logging.NewNopLogger(), Config: config.NewDefaultConfig()}))
			require.NoError(t, PrintResult(cmd, view))
			assert.Contains(t, out.String(), want)
		})
	}
}

func TestPrintResult_NoContextFallsBackToJSON(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, PrintResult(cmd, map[string]int{"n": 1}))
	assert.JSONEq(t, `{"n":1}`, out.String())
}

func TestPrintHelpers(t *testing.T) {
	color.NoColor = true
	cmd := &cobra.Command{}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	PrintError(cmd, nil)
	assert.Empty(t, errOut.String())

	PrintError(cmd, errors.NotFound("gone"))
	PrintWarning(cmd, "careful")
	PrintSuccess(cmd, "done")
	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Error: "))
	assert.Contains(t, lines[0], "gone")
	assert.Equal(t, "Warning: careful", lines[1])
	assert.Equal(t, "OK: done", lines[2])
}

func TestFormatTable(t *testing.T) {
	out := FormatTable([]string{"A", "LONG"}, [][]string{{"xyz", "1"}, {"q"}})
	assert.Equal(t, "A    LONG\n---  ----\nxyz  1\nq    \n", out)
	assert.Empty(t, FormatTable(nil, nil))
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

//Personal.AI order the ending
