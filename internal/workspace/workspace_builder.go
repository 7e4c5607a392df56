package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
)

// WorkspaceBuilder helps create test workspaces
type WorkspaceBuilder struct {
	fs       *filesystem.MockFileSystem
	root     string
	projects []ProjectConfig
}

// ProjectConfig represents a project configuration
type ProjectConfig struct {
	Name       string
	Path       string
	ModulePath string
	Node       bool
}

// NewWorkspaceBuilder creates a new WorkspaceBuilder
func NewWorkspaceBuilder(root string) *WorkspaceBuilder {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir(root)
	fs.SetCurrentDir(root)

	return &WorkspaceBuilder{
		fs:   fs,
		root: root,
	}
}

// AddProject adds a Go project to the workspace
func (wb *WorkspaceBuilder) AddProject(name, path, modulePath string) *WorkspaceBuilder {
	wb.projects = append(wb.projects, ProjectConfig{
		Name:       name,
		Path:       path,
		ModulePath: modulePath,
	})

	projectRoot := filepath.Join(wb.root, path)
	wb.fs.AddDir(projectRoot)

	goMod := fmt.Sprintf("module %s\n\ngo 1.24\n", modulePath)
	wb.fs.AddFile(filepath.Join(projectRoot, "go.mod"), []byte(goMod))

	return wb
}

// AddNodeProject adds a Node project with a minimal package.json
func (wb *WorkspaceBuilder) AddNodeProject(name, path string) *WorkspaceBuilder {
	wb.projects = append(wb.projects, ProjectConfig{
		Name: name,
		Path: path,
		Node: true,
	})

	pkg := fmt.Sprintf("{\n  \"name\": %q,\n  \"version\": \"0.0.0\"\n}\n", name)
	wb.fs.AddFile(filepath.Join(wb.root, path, "package.json"), []byte(pkg))

	return wb
}

// SetLaunchConfig writes the .debugargs.yaml of a Go project
func (wb *WorkspaceBuilder) SetLaunchConfig(project, content string) *WorkspaceBuilder {
	if p, ok := wb.lookup(project); ok {
		wb.fs.AddFile(filepath.Join(wb.root, p.Path, ".debugargs.yaml"), []byte(content))
	}
	return wb
}

// SetPackageJSON replaces the package.json of a Node project
func (wb *WorkspaceBuilder) SetPackageJSON(project, content string) *WorkspaceBuilder {
	if p, ok := wb.lookup(project); ok {
		wb.fs.AddFile(filepath.Join(wb.root, p.Path, "package.json"), []byte(content))
	}
	return wb
}

// ProjectRoot returns the absolute root of a project added to the builder.
func (wb *WorkspaceBuilder) ProjectRoot(project string) string {
	if p, ok := wb.lookup(project); ok {
		return filepath.Join(wb.root, p.Path)
	}
	return ""
}

func (wb *WorkspaceBuilder) lookup(project string) (ProjectConfig, bool) {
	for _, p := range wb.projects {
		if p.Name == project {
			return p, true
		}
	}
	return ProjectConfig{}, false
}

// Build finalizes the workspace and returns the filesystem
func (wb *WorkspaceBuilder) Build() *filesystem.MockFileSystem {
	goWork := "go 1.24\n\nuse (\n"
	for _, p := range wb.projects {
		if p.Node {
			continue
		}
		goWork += fmt.Sprintf("\t./%s\n", p.Path)
	}
	goWork += ")\n"

	wb.fs.AddFile(filepath.Join(wb.root, "go.work"), []byte(goWork))

	return wb.fs
}

// FileSystem returns the mock filesystem
func (wb *WorkspaceBuilder) FileSystem() *filesystem.MockFileSystem {
	return wb.fs
}
