package cli

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/projectsys"
	"github.com/jakoblorz/go-debugargs/internal/tui/components"
)

var errNoStartupProject = errors.New("no startup project selected (run 'debugargs startup <project>')")

// ConfigurationCommand shows or switches the startup project's active
// configuration.
type ConfigurationCommand struct {
	fs     filesystem.FileSystem
	pick   bool
	list   bool
	stdin  io.Reader
	stdout io.Writer
}

// NewConfigurationCommand creates a new configuration command
func NewConfigurationCommand(fs filesystem.FileSystem) *cobra.Command {
	c := &ConfigurationCommand{fs: fs}

	cmd := &cobra.Command{
		Use:     "configuration [name]",
		Aliases: []string{"config"},
		Short:   "Show or switch the startup project's active configuration",
		Args:    cobra.MaximumNArgs(1),
		RunE:    c.Run,
	}
	cmd.Flags().BoolVarP(&c.pick, "pick", "i", false, "Choose the configuration interactively")
	cmd.Flags().BoolVarP(&c.list, "list", "l", false, "List the configurations")

	return cmd
}

// Run executes the configuration command
func (c *ConfigurationCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := commandOutput(cmd, c.stdout)

	s, err := openHost(ctx, c.fs, workspaceOptionsFromCmd(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	project, err := s.host.StartupProject(ctx)
	if err != nil {
		return err
	}
	if project == nil {
		return errNoStartupProject
	}

	active := ""
	if config, err := project.ActiveConfiguration(); err != nil {
		return fmt.Errorf("failed to read active configuration of %s: %w", project.Name(), err)
	} else if config != nil {
		active = config.Name()
	}

	var name string
	switch {
	case len(args) == 1:
		name = args[0]
	case c.pick:
		name, err = c.pickConfiguration(cmd, project, active, out)
		if err != nil || name == "" {
			return err
		}
	case c.list:
		names, err := project.Configurations()
		if err != nil {
			return fmt.Errorf("failed to list configurations of %s: %w", project.Name(), err)
		}
		for _, n := range names {
			marker := " "
			if n == active {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s\n", marker, n)
		}
		return nil
	default:
		if active == "" {
			fmt.Fprintln(out, "(none)")
			return nil
		}
		fmt.Fprintln(out, active)
		return nil
	}

	if err := project.SetActiveConfiguration(name); err != nil {
		return fmt.Errorf("failed to switch %s to %s: %w", project.Name(), name, err)
	}
	fmt.Fprintf(out, "✓ %s now uses configuration %s\n", project.Name(), name)
	return nil
}

func (c *ConfigurationCommand) pickConfiguration(cmd *cobra.Command, project projectsys.Project, active string, out io.Writer) (string, error) {
	names, err := project.Configurations()
	if err != nil {
		return "", fmt.Errorf("failed to list configurations of %s: %w", project.Name(), err)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("project %s has no configurations", project.Name())
	}

	options := make([]components.RadioOption, 0, len(names))
	for _, n := range names {
		options = append(options, components.RadioOption{Value: n, Label: n})
	}

	model, err := tea.NewProgram(
		components.NewRadio(fmt.Sprintf("Configuration of %s", project.Name()), options, active),
		tea.WithInput(commandInput(cmd, c.stdin)),
		tea.WithOutput(out),
	).Run()
	if err != nil {
		return "", fmt.Errorf("failed to run configuration picker: %w", err)
	}

	radio, ok := model.(components.RadioModel)
	if !ok || !radio.HasSelection() {
		return "", nil
	}
	return radio.GetSelected(), nil
}
