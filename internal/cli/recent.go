package cli

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/tui/components"
)

// RecentCommand lists or clears the recent command lines.
type RecentCommand struct {
	fs     filesystem.FileSystem
	format string
	clear  bool
	yes    bool
	stdin  io.Reader
	stdout io.Writer
}

// recentOutput is the --format data of recent.
type recentOutput struct {
	Entries  []string
	MaxCount int
}

// NewRecentCommand creates a new recent command
func NewRecentCommand(fs filesystem.FileSystem) *cobra.Command {
	c := &RecentCommand{fs: fs}

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent command lines, most recent first",
		Args:  cobra.NoArgs,
		RunE:  c.Run,
	}
	cmd.Flags().StringVar(&c.format, formatFlag, "", "Go template for the output (fields: .Entries .MaxCount)")
	cmd.Flags().BoolVar(&c.clear, "clear", false, "Forget all recent command lines")
	cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Do not ask for confirmation when clearing")

	return cmd
}

// Run executes the recent command
func (c *RecentCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := commandOutput(cmd, c.stdout)

	s, err := openSession(ctx, c.fs, workspaceOptionsFromCmd(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	if c.clear {
		return c.runClear(cmd, s, out)
	}

	entries, err := s.combo.FetchList(nil)
	if err != nil {
		return err
	}

	if c.format != "" {
		return renderFormat(out, c.format, recentOutput{
			Entries:  entries,
			MaxCount: s.combo.History().MaxCount(),
		})
	}

	for _, entry := range entries {
		fmt.Fprintln(out, entry)
	}
	return nil
}

func (c *RecentCommand) runClear(cmd *cobra.Command, s *session, out io.Writer) error {
	if !c.yes {
		model, err := tea.NewProgram(
			components.NewConfirm("Clear recent command lines?"),
			tea.WithInput(commandInput(cmd, c.stdin)),
			tea.WithOutput(out),
		).Run()
		if err != nil {
			return fmt.Errorf("failed to run confirmation: %w", err)
		}
		if confirm, ok := model.(components.ConfirmModel); !ok || !confirm.IsConfirmed() {
			return nil
		}
	}

	if err := s.combo.History().Clear(); err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ Cleared recent command lines")
	return nil
}
