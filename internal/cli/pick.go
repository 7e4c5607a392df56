package cli

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/resolver"
	"github.com/jakoblorz/go-debugargs/internal/tui/components"
)

// PickCommand runs the interactive command line combo.
type PickCommand struct {
	fs     filesystem.FileSystem
	stdin  io.Reader
	stdout io.Writer
}

// NewPickCommand creates a new pick command
func NewPickCommand(fs filesystem.FileSystem) *cobra.Command {
	c := &PickCommand{fs: fs}

	return &cobra.Command{
		Use:   "pick",
		Short: "Edit the command line arguments, choosing from recent entries",
		Args:  cobra.NoArgs,
		RunE:  c.Run,
	}
}

// Run executes the pick command
func (c *PickCommand) Run(cmd *cobra.Command, args []string) error {
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

	current := ""
	if status.Enabled {
		current, err = s.combo.Invoke(ctx, nil)
		if err != nil {
			return err
		}
	}
	items, err := s.combo.FetchList(nil)
	if err != nil {
		return err
	}

	project := s.startupProjectName(ctx)
	model := components.NewCombo(current, items, status.Enabled).
		WithLabel(project, status.Property).
		OnChange(func(v string) { s.combo.Change(ctx, v) })

	final, err := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(commandInput(cmd, c.stdin)),
		tea.WithOutput(out),
	).Run()
	if err != nil {
		return fmt.Errorf("failed to run command line picker: %w", err)
	}

	result, ok := final.(components.ComboModel)
	if !ok || !result.Submitted() {
		return nil
	}

	value := result.Value()
	applied, err := s.combo.Invoke(ctx, &value)
	if err != nil {
		if errors.Is(err, resolver.ErrNotSupported) {
			return fmt.Errorf("command line control disabled: %w", err)
		}
		return err
	}

	fmt.Fprintf(out, "✓ %s: %s\n", project, applied)
	return nil
}
