package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/resolver"
)

// SetCommand writes new command line arguments to the startup project.
type SetCommand struct {
	fs     filesystem.FileSystem
	format string
	stdout io.Writer
}

// NewSetCommand creates a new set command
func NewSetCommand(fs filesystem.FileSystem) *cobra.Command {
	c := &SetCommand{fs: fs}

	cmd := &cobra.Command{
		Use:   "set [--] <args...>",
		Short: "Set the startup project's command line arguments",
		Long: `Writes the arguments to the startup project's active configuration and
records them as the most recent entry. Arguments are joined with single spaces;
no arguments clears the value.`,
		Example: `  debugargs set -- --port 8080 --verbose
  debugargs set`,
		Args: cobra.ArbitraryArgs,
		RunE: c.Run,
	}
	cmd.Flags().StringVar(&c.format, formatFlag, "", "Go template for the output (fields: .Value .Enabled .Project .Property)")

	return cmd
}

// Run executes the set command
func (c *SetCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := commandOutput(cmd, c.stdout)
	value := strings.Join(args, " ")

	s, err := openSession(ctx, c.fs, workspaceOptionsFromCmd(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	current, err := s.combo.Invoke(ctx, &value)
	if err != nil {
		if errors.Is(err, resolver.ErrNotSupported) {
			return fmt.Errorf("command line control disabled: %w", err)
		}
		return err
	}

	project := s.startupProjectName(ctx)
	pslog.Ctx(ctx).Debug("command line arguments set", "project", project)

	if c.format != "" {
		status, err := s.combo.QueryStatus(ctx)
		if err != nil {
			return err
		}
		return renderFormat(out, c.format, valueOutput{
			Value:    current,
			Enabled:  status.Enabled,
			Project:  project,
			Property: status.Property,
		})
	}

	fmt.Fprintf(out, "✓ %s: %s\n", project, current)
	return nil
}
