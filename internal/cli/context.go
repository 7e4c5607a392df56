package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jakoblorz/go-debugargs/internal/combo"
	"github.com/jakoblorz/go-debugargs/internal/config"
	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/history"
	"github.com/jakoblorz/go-debugargs/internal/host"
	"github.com/jakoblorz/go-debugargs/internal/resolver"
	"github.com/jakoblorz/go-debugargs/internal/settings"
	"github.com/jakoblorz/go-debugargs/internal/workspace"
)

type configKey struct{}

// withConfig attaches the loaded configuration to ctx.
func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the configuration attached by the root command,
// or the defaults when there is none.
func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(configKey{}).(config.Config); ok {
		return cfg
	}
	return config.Default()
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

func commandOutput(cmd *cobra.Command, w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	if cmd != nil {
		return cmd.OutOrStdout()
	}
	return os.Stdout
}

func commandInput(cmd *cobra.Command, r io.Reader) io.Reader {
	if r != nil {
		return r
	}
	if cmd != nil {
		return cmd.InOrStdin()
	}
	return os.Stdin
}

// session is one activation of the combo control: the settings store, the
// startup project resolver and the coordinator built on top of them.
type session struct {
	store    settings.Store
	host     *host.WorkspaceResolver
	resolver *resolver.Resolver
	combo    *combo.Coordinator
}

// openSession opens the configured settings store and activates the combo
// control. Callers must Close the session.
func openSession(ctx context.Context, fs filesystem.FileSystem, wsOpts []workspace.Option) (*session, error) {
	s, err := openHost(ctx, fs, wsOpts)
	if err != nil {
		return nil, err
	}

	cfg := configFromContext(ctx)
	s.resolver = resolver.New(s.host, resolver.WithKnownProperties(cfg.KnownProperties...))

	// A load failure leaves a disabled coordinator; commands report the
	// disabled state instead of failing.
	s.combo, err = combo.Activate(ctx, s.store, s.resolver, history.WithMaxCount(cfg.History.MaxCount))
	if err != nil {
		pslog.Ctx(ctx).Warn("command line control disabled", "err", err)
	}
	return s, nil
}

// startupProjectName returns the startup project's name, or "" when it
// cannot be resolved.
func (s *session) startupProjectName(ctx context.Context) string {
	name, _, err := s.host.StartupProjectName(ctx)
	if err != nil {
		pslog.Ctx(ctx).Debug("startup project unavailable", "err", err)
		return ""
	}
	return name
}

// openHost opens the settings store and the startup project resolver only.
func openHost(ctx context.Context, fs filesystem.FileSystem, wsOpts []workspace.Option) (*session, error) {
	cfg := configFromContext(ctx)

	path, err := cfg.SettingsPath()
	if err != nil {
		return nil, err
	}
	store, err := settings.Open(fs, cfg.SettingsBackend(), path)
	if err != nil {
		return nil, err
	}

	return &session{
		store: store,
		host:  host.NewWorkspaceResolver(fs, store, wsOpts...),
	}, nil
}

func (s *session) Close() error {
	if s.combo != nil {
		s.combo.Deactivate()
	}
	return s.store.Close()
}
