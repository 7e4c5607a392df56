// Package host resolves which workspace project is the startup project.
package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/models"
	"github.com/jakoblorz/go-debugargs/internal/projectsys"
	"github.com/jakoblorz/go-debugargs/internal/settings"
	"github.com/jakoblorz/go-debugargs/internal/workspace"
)

// StartupCollection holds the startup project name of every workspace,
// keyed by workspace root path.
const StartupCollection = `DebugCommandLine\Startup`

// ErrProjectNotFound is returned when selecting a project the workspace does
// not contain.
var ErrProjectNotFound = errors.New("project not found")

// ActiveProjectResolver returns the current startup project, or nil when
// there is none.
type ActiveProjectResolver interface {
	StartupProject(ctx context.Context) (projectsys.Project, error)
}

var _ ActiveProjectResolver = (*WorkspaceResolver)(nil)

// WorkspaceResolver resolves the startup project of the workspace containing
// the current directory. The workspace is detected again on every call.
type WorkspaceResolver struct {
	fs       filesystem.FileSystem
	settings settings.Store
	options  []workspace.Option
}

// NewWorkspaceResolver creates a resolver that persists the selection in store.
func NewWorkspaceResolver(fs filesystem.FileSystem, store settings.Store, options ...workspace.Option) *WorkspaceResolver {
	return &WorkspaceResolver{
		fs:       fs,
		settings: store,
		options:  options,
	}
}

// Workspace detects the workspace containing the current directory.
func (r *WorkspaceResolver) Workspace() (*workspace.Workspace, error) {
	ws := workspace.New(r.fs, r.options...)
	if err := ws.Detect(); err != nil {
		return nil, fmt.Errorf("failed to detect workspace: %w", err)
	}
	return ws, nil
}

// StartupProject returns the project system view of the startup project. It
// returns nil without error when no startup project is selected or the
// selected project no longer exists.
func (r *WorkspaceResolver) StartupProject(ctx context.Context) (projectsys.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ws, err := r.Workspace()
	if err != nil {
		return nil, err
	}

	project, err := r.startupProject(ws)
	if err != nil || project == nil {
		return nil, err
	}

	return projectsys.Open(r.fs, project)
}

// StartupProjectName returns the name of the selected startup project.
func (r *WorkspaceResolver) StartupProjectName(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	ws, err := r.Workspace()
	if err != nil {
		return "", false, err
	}

	project, err := r.startupProject(ws)
	if err != nil || project == nil {
		return "", false, err
	}
	return project.Name, true, nil
}

func (r *WorkspaceResolver) startupProject(ws *workspace.Workspace) (*models.Project, error) {
	name, err := r.settings.GetString(StartupCollection, ws.RootPath)
	if errors.Is(err, settings.ErrCollectionNotFound) || errors.Is(err, settings.ErrPropertyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read startup project: %w", err)
	}

	return ws.FindProject(name), nil
}

// SetStartupProject selects name as the startup project of the current
// workspace.
func (r *WorkspaceResolver) SetStartupProject(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ws, err := r.Workspace()
	if err != nil {
		return err
	}
	if ws.FindProject(name) == nil {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, name)
	}

	if err := r.settings.CreateCollection(StartupCollection); err != nil {
		return fmt.Errorf("failed to create startup settings: %w", err)
	}
	if err := r.settings.SetString(StartupCollection, ws.RootPath, name); err != nil {
		return fmt.Errorf("failed to save startup project: %w", err)
	}
	return nil
}

// Projects lists the projects of the current workspace.
func (r *WorkspaceResolver) Projects(ctx context.Context) ([]*models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ws, err := r.Workspace()
	if err != nil {
		return nil, err
	}
	return ws.Projects, nil
}

// StaticResolver always resolves to the same project.
type StaticResolver struct {
	Project projectsys.Project
	Err     error
}

func (r StaticResolver) StartupProject(ctx context.Context) (projectsys.Project, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Project == nil {
		return nil, nil
	}
	return r.Project, nil
}
