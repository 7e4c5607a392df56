package models

import "path/filepath"

// ProjectType represents the project system a workspace project belongs to.
type ProjectType string

const (
	ProjectTypeGo   ProjectType = "go"
	ProjectTypeNode ProjectType = "node"
)

const (
	// GoLaunchFile holds the launch configurations of a Go project.
	GoLaunchFile = ".debugargs.yaml"

	// NodeLaunchKey is the package.json key holding a Node project's launch
	// configurations.
	NodeLaunchKey = "debugargs"
)

// Project represents a project/module in the workspace.
type Project struct {
	// Name is the project identifier (unique within the workspace)
	Name string

	// RootPath is the absolute path to the project root
	RootPath string

	// ModulePath is the full module path from go.mod (Go projects only)
	ModulePath string

	// ManifestPath is the path to the manifest (go.mod or package.json).
	ManifestPath string

	// Type indicates the project system.
	Type ProjectType

	// HasLaunchConfig reports whether launch configurations were found when
	// the workspace was detected.
	HasLaunchConfig bool
}

// NewProject creates a new Project instance
func NewProject(name, rootPath, modulePath, manifestPath string, projectType ProjectType) *Project {
	return &Project{
		Name:         name,
		RootPath:     rootPath,
		ModulePath:   modulePath,
		ManifestPath: manifestPath,
		Type:         projectType,
	}
}

// LaunchConfigPath returns the file the project's launch configurations are
// stored in.
func (p *Project) LaunchConfigPath() string {
	if p.Type == ProjectTypeNode {
		return p.ManifestPath
	}
	return filepath.Join(p.RootPath, GoLaunchFile)
}
