package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
)

// GetCommand prints the startup project's command line arguments.
type GetCommand struct {
	fs     filesystem.FileSystem
	format string
	stdout io.Writer
}

// valueOutput is the --format data of get and set.
type valueOutput struct {
	Value    string
	Enabled  bool
	Project  string
	Property string
}

// NewGetCommand creates a new get command
func NewGetCommand(fs filesystem.FileSystem) *cobra.Command {
	c := &GetCommand{fs: fs}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the startup project's command line arguments",
		Long: `Reads the command line arguments of the startup project's active configuration
and records them as the most recent entry. Prints nothing while the control is
disabled (no startup project, or no arguments property).`,
		Args: cobra.NoArgs,
		RunE: c.Run,
	}
	cmd.Flags().StringVar(&c.format, formatFlag, "", "Go template for the output (fields: .Value .Enabled .Project .Property)")

	return cmd
}

// Run executes the get command
func (c *GetCommand) Run(cmd *cobra.Command, args []string) error {
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

	data := valueOutput{Enabled: status.Enabled, Property: status.Property}
	if status.Enabled {
		data.Value, err = s.combo.Invoke(ctx, nil)
		if err != nil {
			return err
		}
		data.Project = s.startupProjectName(ctx)
	} else {
		pslog.Ctx(ctx).Debug("command line control disabled")
	}

	if c.format != "" {
		return renderFormat(out, c.format, data)
	}
	if status.Enabled {
		fmt.Fprintln(out, data.Value)
	}
	return nil
}
