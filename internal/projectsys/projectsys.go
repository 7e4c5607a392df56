// Package projectsys models the per-project run configuration that project
// systems expose: a project has named configurations, one of which is
// active, and each configuration is an ordered bag of string properties.
//
// Different project systems expose the same concept under different property
// names (the Go project system uses CommandArguments, the Node project system
// uses StartArguments), so callers enumerate properties rather than look them
// up by a fixed name.
package projectsys

import (
	"errors"
	"fmt"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/models"
)

var (
	// ErrConfigurationNotFound is returned when a named configuration does not exist.
	ErrConfigurationNotFound = errors.New("configuration not found")

	// ErrPropertyNotFound is returned when writing a property that vanished
	// since it was enumerated.
	ErrPropertyNotFound = errors.New("property not found")
)

// Property is a single named, string-valued setting of a configuration.
type Property interface {
	Name() string
	Value() (string, error)
	SetValue(value string) error
}

// Configuration is a named build/run configuration of a project.
type Configuration interface {
	Name() string
	// Properties enumerates the configuration's properties in the order the
	// project system stores them.
	Properties() ([]Property, error)
}

// Project is a workspace project as seen through its project system.
type Project interface {
	Name() string
	// ActiveConfiguration returns nil without error when the project has no
	// active configuration.
	ActiveConfiguration() (Configuration, error)
	Configurations() ([]string, error)
	SetActiveConfiguration(name string) error
}

// Open returns the project system view of a workspace project.
func Open(fs filesystem.FileSystem, project *models.Project) (Project, error) {
	switch project.Type {
	case models.ProjectTypeGo:
		return NewGoProject(fs, project), nil
	case models.ProjectTypeNode:
		return NewNodeProject(fs, project), nil
	default:
		return nil, fmt.Errorf("project %s: unsupported project type %q", project.Name, project.Type)
	}
}
