// Package projectsystest provides in-memory project systems for tests.
package projectsystest

import (
	"fmt"

	"github.com/jakoblorz/go-debugargs/internal/projectsys"
)

var _ projectsys.Project = (*Project)(nil)

// Project is an in-memory projectsys.Project.
type Project struct {
	ProjectName string
	Active      string
	Configs     []*Configuration

	// ActiveConfigurationError, when set, is returned by ActiveConfiguration.
	ActiveConfigurationError error
}

// NewProject creates a project with a single active configuration named
// "Debug" holding props.
func NewProject(name string, props ...*Property) *Project {
	return &Project{
		ProjectName: name,
		Active:      "Debug",
		Configs: []*Configuration{
			{ConfigName: "Debug", Props: props},
		},
	}
}

func (p *Project) Name() string {
	return p.ProjectName
}

func (p *Project) ActiveConfiguration() (projectsys.Configuration, error) {
	if p.ActiveConfigurationError != nil {
		return nil, p.ActiveConfigurationError
	}
	for _, c := range p.Configs {
		if c.ConfigName == p.Active {
			return c, nil
		}
	}
	return nil, nil
}

func (p *Project) Configurations() ([]string, error) {
	names := make([]string, 0, len(p.Configs))
	for _, c := range p.Configs {
		names = append(names, c.ConfigName)
	}
	return names, nil
}

func (p *Project) SetActiveConfiguration(name string) error {
	for _, c := range p.Configs {
		if c.ConfigName == name {
			p.Active = name
			return nil
		}
	}
	return fmt.Errorf("%w: %s", projectsys.ErrConfigurationNotFound, name)
}

// Configuration is an in-memory projectsys.Configuration.
type Configuration struct {
	ConfigName string
	Props      []*Property

	// PropertiesError, when set, is returned by Properties.
	PropertiesError error
}

func (c *Configuration) Name() string {
	return c.ConfigName
}

func (c *Configuration) Properties() ([]projectsys.Property, error) {
	if c.PropertiesError != nil {
		return nil, c.PropertiesError
	}
	props := make([]projectsys.Property, 0, len(c.Props))
	for _, p := range c.Props {
		props = append(props, p)
	}
	return props, nil
}

// Property is an in-memory projectsys.Property.
type Property struct {
	PropName  string
	PropValue string

	ValueError    error
	SetValueError error
	Writes        int
}

// NewProperty creates a string property.
func NewProperty(name, value string) *Property {
	return &Property{PropName: name, PropValue: value}
}

func (p *Property) Name() string {
	return p.PropName
}

func (p *Property) Value() (string, error) {
	if p.ValueError != nil {
		return "", p.ValueError
	}
	return p.PropValue, nil
}

func (p *Property) SetValue(value string) error {
	if p.SetValueError != nil {
		return p.SetValueError
	}
	p.PropValue = value
	p.Writes++
	return nil
}
