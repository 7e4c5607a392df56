package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"pkt.systems/pslog"

	"github.com/jakoblorz/go-debugargs/internal/combo"
	"github.com/jakoblorz/go-debugargs/internal/config"
	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/history"
	"github.com/jakoblorz/go-debugargs/internal/host"
	"github.com/jakoblorz/go-debugargs/internal/models"
	"github.com/jakoblorz/go-debugargs/internal/resolver"
	"github.com/jakoblorz/go-debugargs/internal/settings"
	"github.com/jakoblorz/go-debugargs/internal/workspace"
)

const (
	testWorkspaceRoot = "/test-workspace"
	testSettingsPath  = "/home/dev/.config/debugargs/settings.yaml"
)

const apiLaunchConfig = `active: Debug
configurations:
  Debug:
    WorkingDirectory: ./bin
    CommandArguments: --port 8080
  Release:
    CommandArguments: ""
`

const webPackageJSON = `{
  "name": "web",
  "version": "0.0.0",
  "debugargs": {
    "configurations": {
      "Debug": { "StartArguments": "--foo" }
    }
  }
}
`

func buildWorkspace(t *testing.T, setup func(*workspace.WorkspaceBuilder)) *filesystem.MockFileSystem {
	t.Helper()

	wb := workspace.NewWorkspaceBuilder(testWorkspaceRoot)
	wb.AddProject("api", "services/api", "github.com/example/api")
	wb.AddNodeProject("web", "apps/web")
	wb.AddProject("worker", "services/worker", "github.com/example/worker")
	wb.SetLaunchConfig("api", apiLaunchConfig)
	wb.SetPackageJSON("web", webPackageJSON)
	if setup != nil {
		setup(wb)
	}

	return wb.Build()
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Settings.Path = testSettingsPath
	return cfg
}

// testCommand returns a cobra command carrying cfg whose output goes to buf.
func testCommand(t *testing.T, cfg config.Config) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(withConfig(context.Background(), cfg))
	cmd.SetOut(&buf)
	cmd.SetIn(&bytes.Buffer{})
	return cmd, &buf
}

func selectStartup(t *testing.T, fs filesystem.FileSystem, name string) {
	t.Helper()

	cmd, _ := testCommand(t, testConfig())
	require.NoError(t, (&StartupCommand{fs: fs}).Run(cmd, []string{name}))
}

func storedHistory(t *testing.T, fs filesystem.FileSystem) []string {
	t.Helper()

	list, err := history.New(settings.NewFileStore(fs, testSettingsPath)).Load()
	require.NoError(t, err)
	return list
}

func TestStatus_NoStartupProject(t *testing.T) {
	fs := buildWorkspace(t, nil)
	cmd, buf := testCommand(t, testConfig())

	require.NoError(t, (&StatusCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "disabled\n  startup project: (none)\n", buf.String())
}

func TestStatus_Enabled(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")
	cmd, buf := testCommand(t, testConfig())

	require.NoError(t, (&StatusCommand{fs: fs}).Run(cmd, nil))
	snaps.MatchSnapshot(t, buf.String())
	require.Contains(t, buf.String(), "enabled")
	require.Contains(t, buf.String(), "CommandArguments")
}

func TestStatus_NoArgumentsProperty(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "worker")
	cmd, buf := testCommand(t, testConfig())

	require.NoError(t, (&StatusCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "disabled\n  startup project: worker\n", buf.String())
}

func TestStatus_Format(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "web")
	cmd, buf := testCommand(t, testConfig())

	c := &StatusCommand{fs: fs, format: `{{ .Status | upper }} {{ .Project }}/{{ .Configuration }}/{{ .Property }}`}
	require.NoError(t, c.Run(cmd, nil))
	require.Equal(t, "ENABLED web/Debug/StartArguments\n", buf.String())
}

func TestGet_PromotesCurrentValue(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "web")
	cmd, buf := testCommand(t, testConfig())

	require.NoError(t, (&GetCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "--foo\n", buf.String())
	require.Equal(t, []string{"--foo"}, storedHistory(t, fs))
}

func TestGet_DisabledPrintsNothing(t *testing.T) {
	fs := buildWorkspace(t, nil)
	cmd, buf := testCommand(t, testConfig())

	require.NoError(t, (&GetCommand{fs: fs}).Run(cmd, nil))
	require.Empty(t, buf.String())
	require.Empty(t, storedHistory(t, fs))
}

func TestGet_Format(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")
	cmd, buf := testCommand(t, testConfig())

	c := &GetCommand{fs: fs, format: `{{ .Project }}: {{ .Value | quote }}`}
	require.NoError(t, c.Run(cmd, nil))
	require.Equal(t, "api: \"--port 8080\"\n", buf.String())
}

func TestSet_GoProject(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")
	cmd, buf := testCommand(t, testConfig())

	require.NoError(t, (&SetCommand{fs: fs}).Run(cmd, []string{"--verbose", "--port", "9090"}))
	require.Equal(t, "✓ api: --verbose --port 9090\n", buf.String())

	data, err := fs.ReadFile(filepath.Join(testWorkspaceRoot, "services/api/.debugargs.yaml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "--verbose --port 9090")
	require.Contains(t, string(data), "WorkingDirectory: ./bin")

	require.Equal(t, []string{"--verbose --port 9090"}, storedHistory(t, fs))
}

func TestSet_NodeProject(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "web")

	cmd, _ := testCommand(t, testConfig())
	require.NoError(t, (&GetCommand{fs: fs}).Run(cmd, nil))

	cmd, _ = testCommand(t, testConfig())
	require.NoError(t, (&SetCommand{fs: fs}).Run(cmd, []string{"--bar"}))

	data, err := fs.ReadFile(filepath.Join(testWorkspaceRoot, "apps/web/package.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), `"StartArguments": "--bar"`)
	require.Contains(t, string(data), `"version": "0.0.0"`)

	require.Equal(t, []string{"--bar", "--foo"}, storedHistory(t, fs))
}

func TestSet_EmptyValue(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "web")
	cmd, _ := testCommand(t, testConfig())

	require.NoError(t, (&SetCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, []string{""}, storedHistory(t, fs))
}

func TestSet_NoStartupProject(t *testing.T) {
	fs := buildWorkspace(t, nil)
	cmd, _ := testCommand(t, testConfig())

	err := (&SetCommand{fs: fs}).Run(cmd, []string{"--verbose"})
	require.ErrorIs(t, err, resolver.ErrNotSupported)
	require.Contains(t, err.Error(), "disabled")
	require.Empty(t, storedHistory(t, fs))
}

func TestRecent(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")

	for _, args := range [][]string{{"-a"}, {"-b"}, {"-a"}} {
		cmd, _ := testCommand(t, testConfig())
		require.NoError(t, (&SetCommand{fs: fs}).Run(cmd, args))
	}

	cmd, buf := testCommand(t, testConfig())
	require.NoError(t, (&RecentCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "-a\n-b\n", buf.String())

	cmd, buf = testCommand(t, testConfig())
	require.NoError(t, (&RecentCommand{fs: fs, format: `{{ .Entries | join "," }} ({{ len .Entries }}/{{ .MaxCount }})`}).Run(cmd, nil))
	require.Equal(t, "-a,-b (2/15)\n", buf.String())
}

func TestRecent_WorksWithoutStartupProject(t *testing.T) {
	fs := buildWorkspace(t, nil)
	store := settings.NewFileStore(fs, testSettingsPath)
	_, err := history.New(store).Promote("-x")
	require.NoError(t, err)

	cmd, buf := testCommand(t, testConfig())
	require.NoError(t, (&RecentCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "-x\n", buf.String())
}

func TestRecent_MaxCountFromConfig(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")
	cfg := testConfig()
	cfg.History.MaxCount = 2

	for _, v := range []string{"-a", "-b", "-c"} {
		cmd, _ := testCommand(t, cfg)
		require.NoError(t, (&SetCommand{fs: fs}).Run(cmd, []string{v}))
	}

	cmd, buf := testCommand(t, cfg)
	require.NoError(t, (&RecentCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "-c\n-b\n", buf.String())
}

func TestRecent_Clear(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")
	cmd, _ := testCommand(t, testConfig())
	require.NoError(t, (&SetCommand{fs: fs}).Run(cmd, []string{"-a"}))

	cmd, buf := testCommand(t, testConfig())
	require.NoError(t, (&RecentCommand{fs: fs, clear: true, yes: true}).Run(cmd, nil))
	require.Equal(t, "✓ Cleared recent command lines\n", buf.String())
	require.Empty(t, storedHistory(t, fs))
}

func TestStartup(t *testing.T) {
	fs := buildWorkspace(t, nil)

	cmd, buf := testCommand(t, testConfig())
	require.NoError(t, (&StartupCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "(none)\n", buf.String())

	cmd, buf = testCommand(t, testConfig())
	require.NoError(t, (&StartupCommand{fs: fs}).Run(cmd, []string{"web"}))
	require.Equal(t, "✓ Startup project set to web\n", buf.String())

	cmd, buf = testCommand(t, testConfig())
	require.NoError(t, (&StartupCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "web\n", buf.String())

	cmd, buf = testCommand(t, testConfig())
	require.NoError(t, (&StartupCommand{fs: fs, list: true}).Run(cmd, nil))
	snaps.MatchSnapshot(t, buf.String())
	require.Contains(t, buf.String(), "* web (node)\n")
	require.Contains(t, buf.String(), "  api (go)\n")
	require.Contains(t, buf.String(), "  worker (go) - no launch configuration\n")
}

func TestStartup_UnknownProject(t *testing.T) {
	fs := buildWorkspace(t, nil)
	cmd, _ := testCommand(t, testConfig())

	err := (&StartupCommand{fs: fs}).Run(cmd, []string{"billing"})
	require.ErrorIs(t, err, host.ErrProjectNotFound)
}

func TestStartup_Pick(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")

	var offered []string
	c := &StartupCommand{
		fs:   fs,
		pick: true,
		picker: func(root string, projects []*models.Project, current string) (string, error) {
			require.Equal(t, testWorkspaceRoot, root)
			require.Equal(t, "api", current)
			for _, p := range projects {
				offered = append(offered, p.Name)
			}
			return "worker", nil
		},
	}

	cmd, buf := testCommand(t, testConfig())
	require.NoError(t, c.Run(cmd, nil))
	require.ElementsMatch(t, []string{"api", "web", "worker"}, offered)
	require.Equal(t, "✓ Startup project set to worker\n", buf.String())
}

func TestStartup_PickAborted(t *testing.T) {
	fs := buildWorkspace(t, nil)
	c := &StartupCommand{
		fs:   fs,
		pick: true,
		picker: func(string, []*models.Project, string) (string, error) {
			return "", nil
		},
	}

	cmd, buf := testCommand(t, testConfig())
	require.NoError(t, c.Run(cmd, nil))
	require.Empty(t, buf.String())
}

func TestConfiguration(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")

	cmd, buf := testCommand(t, testConfig())
	require.NoError(t, (&ConfigurationCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "Debug\n", buf.String())

	cmd, buf = testCommand(t, testConfig())
	require.NoError(t, (&ConfigurationCommand{fs: fs, list: true}).Run(cmd, nil))
	require.Equal(t, "* Debug\n  Release\n", buf.String())

	cmd, buf = testCommand(t, testConfig())
	require.NoError(t, (&ConfigurationCommand{fs: fs}).Run(cmd, []string{"Release"}))
	require.Equal(t, "✓ api now uses configuration Release\n", buf.String())

	cmd, buf = testCommand(t, testConfig())
	require.NoError(t, (&GetCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "\n", buf.String())
}

func TestConfiguration_Unknown(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")
	cmd, _ := testCommand(t, testConfig())

	err := (&ConfigurationCommand{fs: fs}).Run(cmd, []string{"Profile"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "configuration not found")
}

func TestConfiguration_NoStartupProject(t *testing.T) {
	fs := buildWorkspace(t, nil)
	cmd, _ := testCommand(t, testConfig())

	err := (&ConfigurationCommand{fs: fs}).Run(cmd, nil)
	require.ErrorIs(t, err, errNoStartupProject)
}

func TestSQLiteBackend(t *testing.T) {
	fs := buildWorkspace(t, nil)
	cfg := testConfig()
	cfg.Settings.Backend = "sqlite"
	cfg.Settings.Path = filepath.Join(t.TempDir(), "settings.db")

	cmd, _ := testCommand(t, cfg)
	require.NoError(t, (&StartupCommand{fs: fs}).Run(cmd, []string{"web"}))

	cmd, _ = testCommand(t, cfg)
	require.NoError(t, (&SetCommand{fs: fs}).Run(cmd, []string{"--inspect"}))

	cmd, buf := testCommand(t, cfg)
	require.NoError(t, (&RecentCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "--inspect\n", buf.String())
	require.False(t, fs.Exists(testSettingsPath))
}

func TestRootCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	fs := buildWorkspace(t, nil)

	run := func(args ...string) string {
		t.Helper()
		var out, errOut bytes.Buffer
		root := NewRootCommand(fs)
		root.SetOut(&out)
		root.SetErr(&errOut)
		root.SetArgs(append([]string{"--settings-path", testSettingsPath}, args...))
		require.NoError(t, root.ExecuteContext(context.Background()))
		return out.String()
	}

	require.Equal(t, "✓ Startup project set to api\n", run("startup", "api"))
	require.Equal(t, "✓ api: -v\n", run("set", "--", "-v"))
	require.Equal(t, "-v\n", run("get"))
	require.Equal(t, "-v\n", run("recent"))
	require.Equal(t, "-v\n", run("--max-recent", "3", "recent"))
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	fs := buildWorkspace(t, nil)

	root := NewRootCommand(fs)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--settings-backend", "registry", "status"})
	require.Error(t, root.ExecuteContext(context.Background()))
}

const corruptSettings = "collections: [not, a, mapping"

func TestCorruptSettings_ControlDisabled(t *testing.T) {
	fs := buildWorkspace(t, nil)
	selectStartup(t, fs, "api")
	fs.AddFile(testSettingsPath, []byte(corruptSettings))

	cmd, buf := testCommand(t, testConfig())
	require.NoError(t, (&StatusCommand{fs: fs}).Run(cmd, nil))
	require.Equal(t, "disabled\n  startup project: (none)\n", buf.String())

	cmd, buf = testCommand(t, testConfig())
	require.NoError(t, (&GetCommand{fs: fs}).Run(cmd, nil))
	require.Empty(t, buf.String())

	cmd, buf = testCommand(t, testConfig())
	require.NoError(t, (&RecentCommand{fs: fs}).Run(cmd, nil))
	require.Empty(t, buf.String())

	cmd, _ = testCommand(t, testConfig())
	err := (&SetCommand{fs: fs}).Run(cmd, []string{"--verbose"})
	require.ErrorIs(t, err, combo.ErrDisabled)

	data, err := fs.ReadFile(filepath.Join(testWorkspaceRoot, "services/api/.debugargs.yaml"))
	require.NoError(t, err)
	require.NotContains(t, string(data), "--verbose")
}

func TestStartupProjectName_LogsFailure(t *testing.T) {
	fs := buildWorkspace(t, nil)
	fs.AddFile(testSettingsPath, []byte(corruptSettings))

	var logs bytes.Buffer
	logger := pslog.NewWithOptions(&logs, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.DebugLevel,
	})
	ctx := withConfig(pslog.ContextWithLogger(context.Background(), logger), testConfig())

	s, err := openHost(ctx, fs, nil)
	require.NoError(t, err)
	defer s.Close()

	require.Empty(t, s.startupProjectName(ctx))
	require.Contains(t, logs.String(), "startup project unavailable")
	require.Contains(t, logs.String(), "failed to parse settings file")
}
