package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
)

// StatusCommand reports whether the combo control is enabled.
type StatusCommand struct {
	fs     filesystem.FileSystem
	format string
	stdout io.Writer
}

// statusOutput is the --format data of status.
type statusOutput struct {
	Status        string
	Supported     bool
	Enabled       bool
	Project       string
	Configuration string
	Property      string
}

// NewStatusCommand creates a new status command
func NewStatusCommand(fs filesystem.FileSystem) *cobra.Command {
	c := &StatusCommand{fs: fs}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether command line arguments can be edited",
		Long: `Resolves the startup project and its arguments property. The control is
enabled when the active configuration of the startup project has one of the
known arguments properties.`,
		Args: cobra.NoArgs,
		RunE: c.Run,
	}
	cmd.Flags().StringVar(&c.format, formatFlag, "", "Go template for the output (fields: .Status .Enabled .Project .Configuration .Property)")

	return cmd
}

// Run executes the status command
func (c *StatusCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := commandOutput(cmd, c.stdout)

	s, err := openSession(ctx, c.fs, workspaceOptionsFromCmd(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	status, err := s.combo.QueryStatus(ctx)
	if err != nil {
		return err
	}

	data := statusOutput{
		Status:    status.String(),
		Supported: status.Supported,
		Enabled:   status.Enabled,
		Property:  status.Property,
	}
	if project, err := s.host.StartupProject(ctx); err == nil && project != nil {
		data.Project = project.Name()
		if config, err := project.ActiveConfiguration(); err == nil && config != nil {
			data.Configuration = config.Name()
		}
	}

	if c.format != "" {
		return renderFormat(out, c.format, data)
	}

	fmt.Fprintln(out, data.Status)
	if data.Project == "" {
		fmt.Fprintln(out, "  startup project: (none)")
		return nil
	}
	fmt.Fprintf(out, "  startup project: %s\n", data.Project)
	if data.Configuration != "" {
		fmt.Fprintf(out, "  configuration:   %s\n", data.Configuration)
	}
	if data.Property != "" {
		fmt.Fprintf(out, "  property:        %s\n", data.Property)
	}
	return nil
}
