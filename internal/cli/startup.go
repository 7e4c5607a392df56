package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/models"
	"github.com/jakoblorz/go-debugargs/internal/tui/startup"
)

// StartupCommand shows or selects the startup project.
type StartupCommand struct {
	fs     filesystem.FileSystem
	pick   bool
	list   bool
	stdout io.Writer

	// picker chooses a project interactively; nil uses the huh picker.
	picker func(root string, projects []*models.Project, current string) (string, error)
}

// NewStartupCommand creates a new startup command
func NewStartupCommand(fs filesystem.FileSystem) *cobra.Command {
	c := &StartupCommand{fs: fs}

	cmd := &cobra.Command{
		Use:   "startup [project]",
		Short: "Show or select the startup project",
		Long: `Without arguments prints the startup project of the current workspace.
With a project name, makes that project the startup project. The selection is
remembered per workspace.`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.Run,
	}
	cmd.Flags().BoolVarP(&c.pick, "pick", "i", false, "Choose the startup project interactively")
	cmd.Flags().BoolVarP(&c.list, "list", "l", false, "List the workspace projects")

	return cmd
}

// Run executes the startup command
func (c *StartupCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := commandOutput(cmd, c.stdout)

	s, err := openHost(ctx, c.fs, workspaceOptionsFromCmd(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	current, _, err := s.host.StartupProjectName(ctx)
	if err != nil {
		return err
	}

	var name string
	switch {
	case len(args) == 1:
		name = args[0]
	case c.pick:
		ws, err := s.host.Workspace()
		if err != nil {
			return err
		}
		picker := c.picker
		if picker == nil {
			picker = func(root string, projects []*models.Project, current string) (string, error) {
				return startup.NewPicker(root).Run(projects, current)
			}
		}
		name, err = picker(ws.RootPath, ws.Projects, current)
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
	case c.list:
		projects, err := s.host.Projects(ctx)
		if err != nil {
			return err
		}
		for _, project := range projects {
			marker := " "
			if project.Name == current {
				marker = "*"
			}
			note := ""
			if !project.HasLaunchConfig {
				note = " - " + startup.NoLaunchConfig
			}
			fmt.Fprintf(out, "%s %s (%s)%s\n", marker, project.Name, project.Type, note)
		}
		return nil
	default:
		if current == "" {
			fmt.Fprintln(out, "(none)")
			return nil
		}
		fmt.Fprintln(out, current)
		return nil
	}

	if err := s.host.SetStartupProject(ctx, name); err != nil {
		return err
	}
	pslog.Ctx(ctx).Info("startup project selected", "project", name)
	fmt.Fprintf(out, "✓ Startup project set to %s\n", name)
	return nil
}
