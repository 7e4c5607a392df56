package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jakoblorz/go-debugargs/internal/config"
	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/logging"
)

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "debugargs",
		Short: "Edit the command line arguments of the startup project",
		Long: `A CLI tool for editing the command line arguments a workspace project is
started with, remembering recently used arguments across sessions.

The startup project is one project of the Go (go.work) or Node (package.json)
workspace containing the current directory. Go projects keep their arguments in
.debugargs.yaml, Node projects under the "debugargs" key of package.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}

			ctx := pslog.ContextWithLogger(commandContext(cmd), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to `debugargs pick` when no subcommand is provided.
			return (&PickCommand{fs: fs}).Run(cmd, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/debugargs/config.yaml)")
	flags.String("settings-backend", "", "Settings backend: file or sqlite")
	flags.String("settings-path", "", "Settings file path")
	flags.Int("max-recent", 0, "Number of recent command lines to keep")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("log-format", "", "Log format: console or json")
	flags.Bool(nodeStrictWorkspaceFlag, false, "Only discover Node projects listed in package.json workspaces")

	rootCmd.AddCommand(NewPickCommand(fs))
	rootCmd.AddCommand(NewGetCommand(fs))
	rootCmd.AddCommand(NewSetCommand(fs))
	rootCmd.AddCommand(NewRecentCommand(fs))
	rootCmd.AddCommand(NewStatusCommand(fs))
	rootCmd.AddCommand(NewStartupCommand(fs))
	rootCmd.AddCommand(NewConfigurationCommand(fs))

	return rootCmd
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	fs := filesystem.NewOSFileSystem()

	rootCmd := NewRootCommand(fs)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
