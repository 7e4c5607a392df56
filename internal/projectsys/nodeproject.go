package projectsys

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/models"
)

// NodeArgumentsProperty is the property Node projects keep arguments in.
const NodeArgumentsProperty = "StartArguments"

const nodeRootKey = models.NodeLaunchKey

var _ Project = (*NodeProject)(nil)

// NodeProject exposes the configurations stored under the "debugargs" key of
// a Node project's package.json:
//
//	"debugargs": {
//	  "active": "Debug",
//	  "configurations": {
//	    "Debug": { "StartArguments": "--inspect" }
//	  }
//	}
//
// Writes patch the document in place so the rest of package.json keeps its
// formatting.
type NodeProject struct {
	fs      filesystem.FileSystem
	project *models.Project
}

// NewNodeProject creates the project system view of a Node project.
func NewNodeProject(fs filesystem.FileSystem, project *models.Project) *NodeProject {
	return &NodeProject{fs: fs, project: project}
}

func (p *NodeProject) Name() string {
	return p.project.Name
}

func (p *NodeProject) read() ([]byte, error) {
	data, err := p.fs.ReadFile(p.project.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.project.ManifestPath, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("failed to parse %s: invalid JSON", p.project.ManifestPath)
	}
	return data, nil
}

func (p *NodeProject) write(data []byte) error {
	if err := p.fs.WriteFile(p.project.ManifestPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.project.ManifestPath, err)
	}
	return nil
}

func (p *NodeProject) Configurations() ([]string, error) {
	data, err := p.read()
	if err != nil {
		return nil, err
	}
	return nodeConfigurationNames(data), nil
}

func nodeConfigurationNames(data []byte) []string {
	var names []string
	configs := gjson.GetBytes(data, jsonPath(nodeRootKey, "configurations"))
	if !configs.IsObject() {
		return nil
	}
	configs.ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names
}

func (p *NodeProject) ActiveConfiguration() (Configuration, error) {
	data, err := p.read()
	if err != nil {
		return nil, err
	}

	names := nodeConfigurationNames(data)
	if len(names) == 0 {
		return nil, nil
	}

	active := gjson.GetBytes(data, jsonPath(nodeRootKey, "active")).String()
	if active == "" {
		return &nodeConfiguration{project: p, name: names[0]}, nil
	}
	if containsString(names, active) {
		return &nodeConfiguration{project: p, name: active}, nil
	}
	return nil, nil
}

func (p *NodeProject) SetActiveConfiguration(name string) error {
	data, err := p.read()
	if err != nil {
		return err
	}
	if !containsString(nodeConfigurationNames(data), name) {
		return fmt.Errorf("%w: %s in project %s", ErrConfigurationNotFound, name, p.Name())
	}

	updated, err := sjson.SetBytes(data, jsonPath(nodeRootKey, "active"), name)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", p.project.ManifestPath, err)
	}
	return p.write(updated)
}

type nodeConfiguration struct {
	project *NodeProject
	name    string
}

func (c *nodeConfiguration) Name() string {
	return c.name
}

func (c *nodeConfiguration) Properties() ([]Property, error) {
	data, err := c.project.read()
	if err != nil {
		return nil, err
	}

	config := gjson.GetBytes(data, jsonPath(nodeRootKey, "configurations", c.name))
	if !config.Exists() {
		return nil, fmt.Errorf("%w: %s in project %s", ErrConfigurationNotFound, c.name, c.project.Name())
	}
	if !config.IsObject() {
		return nil, fmt.Errorf("%s: configuration %s must be an object", c.project.project.ManifestPath, c.name)
	}

	var props []Property
	config.ForEach(func(key, value gjson.Result) bool {
		prop := &nodeProperty{config: c, name: key.String()}
		if value.Type == gjson.String {
			prop.value = value.String()
		} else {
			prop.valueErr = fmt.Errorf("property %s of %s is not a string", key.String(), c.name)
		}
		props = append(props, prop)
		return true
	})
	return props, nil
}

type nodeProperty struct {
	config   *nodeConfiguration
	name     string
	value    string
	valueErr error
}

func (p *nodeProperty) Name() string {
	return p.name
}

func (p *nodeProperty) Value() (string, error) {
	return p.value, p.valueErr
}

func (p *nodeProperty) SetValue(value string) error {
	project := p.config.project
	data, err := project.read()
	if err != nil {
		return err
	}

	path := jsonPath(nodeRootKey, "configurations", p.config.name, p.name)
	if !gjson.GetBytes(data, path).Exists() {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, p.name)
	}

	updated, err := sjson.SetBytes(data, path, value)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", project.project.ManifestPath, err)
	}
	if err := project.write(updated); err != nil {
		return err
	}

	p.value, p.valueErr = value, nil
	return nil
}

// jsonPath joins path components for gjson/sjson, escaping the characters
// their path syntax treats specially.
func jsonPath(components ...string) string {
	escaped := make([]string, len(components))
	for i, c := range components {
		var b strings.Builder
		for _, r := range c {
			if strings.ContainsRune(`\.*?|#@!:=<>%~`, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		escaped[i] = b.String()
	}
	return strings.Join(escaped, ".")
}
