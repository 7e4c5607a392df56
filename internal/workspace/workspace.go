// Package workspace discovers the projects that can be selected as the
// startup project: the Go modules of a go.work (or a lone go.mod) and the
// Node packages of the surrounding directory tree.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/models"
)

// Workspace represents a workspace containing Go and/or Node projects. Any of
// its projects can be designated as the startup project.
type Workspace struct {
	fs           filesystem.FileSystem
	RootPath     string
	WorkFilePath string
	Projects     []*models.Project

	// modFilePath is set when the workspace is a single Go module without a
	// go.work file.
	modFilePath string

	nodeStrictWorkspace bool
}

// Option configures workspace behavior.
type Option func(*Workspace)

// WithNodeStrictWorkspace limits Node discovery to the packages listed in
// the root package.json workspaces.
func WithNodeStrictWorkspace(enabled bool) Option {
	return func(w *Workspace) {
		w.nodeStrictWorkspace = enabled
	}
}

// New creates a new Workspace instance.
func New(fs filesystem.FileSystem, options ...Option) *Workspace {
	ws := &Workspace{
		fs:       fs,
		Projects: []*models.Project{},
	}

	for _, option := range options {
		option(ws)
	}

	return ws
}

// Detect finds the workspace containing the current directory and discovers
// its projects.
func (w *Workspace) Detect() error {
	root, err := w.findRoot()
	if err != nil {
		return err
	}
	w.RootPath = root.dir
	if root.goWork {
		w.WorkFilePath = filepath.Join(root.dir, "go.work")
	}
	if root.goMod {
		w.modFilePath = filepath.Join(root.dir, "go.mod")
	}

	projects, err := w.discover(root.packageJSON)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	if len(projects) == 0 {
		return fmt.Errorf("failed to load projects: no projects found in workspace")
	}

	w.Projects = dedupeProjectNames(projects)
	return nil
}

type workspaceRoot struct {
	dir         string
	goWork      bool
	goMod       bool
	packageJSON bool
}

// findRoot walks up from the working directory. The nearest directory with a
// go.work or package.json wins; a go.mod is only used as the root when no such
// directory exists above it.
func (w *Workspace) findRoot() (workspaceRoot, error) {
	cwd, err := w.fs.Getwd()
	if err != nil {
		return workspaceRoot{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	moduleDir := ""
	for dir := filepath.Clean(cwd); ; {
		root := workspaceRoot{
			dir:         dir,
			goWork:      w.fs.Exists(filepath.Join(dir, "go.work")),
			packageJSON: w.fs.Exists(filepath.Join(dir, "package.json")),
		}
		if root.goWork || root.packageJSON {
			return root, nil
		}
		if moduleDir == "" && w.fs.Exists(filepath.Join(dir, "go.mod")) {
			moduleDir = dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if moduleDir != "" {
		return workspaceRoot{dir: moduleDir, goMod: true}, nil
	}
	return workspaceRoot{}, fmt.Errorf("workspace not found")
}

func (w *Workspace) discover(hasPackageJSON bool) ([]*models.Project, error) {
	var projects []*models.Project

	switch {
	case w.WorkFilePath != "":
		goProjects, err := w.loadGoWork()
		if err != nil {
			return nil, err
		}
		projects = append(projects, goProjects...)
	case w.modFilePath != "":
		project, err := w.loadGoProject(w.RootPath)
		if err != nil {
			return nil, err
		}
		return []*models.Project{project}, nil
	}

	nodeProjects, err := w.loadNodeProjects(hasPackageJSON)
	if err != nil {
		return nil, err
	}
	return append(projects, nodeProjects...), nil
}

// GetProject returns a project by name.
func (w *Workspace) GetProject(name string) (*models.Project, error) {
	if p := w.FindProject(name); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("project %s not found in workspace", name)
}

// GetProjectNames returns a list of all project names.
func (w *Workspace) GetProjectNames() []string {
	names := make([]string, len(w.Projects))
	for i, p := range w.Projects {
		names[i] = p.Name
	}
	return names
}

// FindProject looks a project up by name, returning nil when it is not part of
// the workspace.
func (w *Workspace) FindProject(name string) *models.Project {
	for _, p := range w.Projects {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Launchable returns the projects that have launch configurations.
func (w *Workspace) Launchable() []*models.Project {
	var projects []*models.Project
	for _, p := range w.Projects {
		if p.HasLaunchConfig {
			projects = append(projects, p)
		}
	}
	return projects
}

// dedupeProjectNames suffixes colliding names with the project type, then
// with a counter.
func dedupeProjectNames(projects []*models.Project) []*models.Project {
	counts := make(map[string]int)
	for _, p := range projects {
		counts[p.Name]++
	}

	used := make(map[string]int)
	for _, p := range projects {
		name := p.Name
		if counts[p.Name] > 1 {
			name = fmt.Sprintf("%s-%s", p.Name, p.Type)
		}
		if used[name] > 0 {
			name = fmt.Sprintf("%s-%d", name, used[name]+1)
		}
		used[name]++
		p.Name = name
	}

	return projects
}
