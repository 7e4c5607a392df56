package projectsys

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/models"
)

// GoLaunchFile is the per-project launch configuration file of Go projects.
const GoLaunchFile = models.GoLaunchFile

// GoArgumentsProperty is the property Go projects keep arguments in.
const GoArgumentsProperty = "CommandArguments"

var _ Project = (*GoProject)(nil)

// GoProject exposes the configurations stored in a Go project's
// .debugargs.yaml:
//
//	active: Debug
//	configurations:
//	  Debug:
//	    CommandArguments: --verbose
//	  Release:
//	    CommandArguments: ""
//
// The file is read again on every call.
type GoProject struct {
	fs      filesystem.FileSystem
	project *models.Project
}

// NewGoProject creates the project system view of a Go project.
func NewGoProject(fs filesystem.FileSystem, project *models.Project) *GoProject {
	return &GoProject{fs: fs, project: project}
}

func (p *GoProject) Name() string {
	return p.project.Name
}

func (p *GoProject) path() string {
	return p.project.LaunchConfigPath()
}

// load returns the root mapping of the launch file, or nil when the file does
// not exist.
func (p *GoProject) load() (*yaml.Node, *yaml.Node, error) {
	data, err := p.fs.ReadFile(p.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read %s: %w", p.path(), err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", p.path(), err)
	}
	if doc.Kind == 0 {
		return nil, nil, nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("%s: expected a mapping at the top level", p.path())
	}

	return &doc, doc.Content[0], nil
}

func (p *GoProject) save(doc *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode %s: %w", p.path(), err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode %s: %w", p.path(), err)
	}

	if err := p.fs.WriteFile(p.path(), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.path(), err)
	}
	return nil
}

func (p *GoProject) Configurations() ([]string, error) {
	_, root, err := p.load()
	if err != nil || root == nil {
		return nil, err
	}
	return p.configurationNames(root)
}

func (p *GoProject) configurationNames(root *yaml.Node) ([]string, error) {
	configs := mappingValue(root, "configurations")
	if configs == nil {
		return nil, nil
	}
	if configs.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: configurations must be a mapping", p.path())
	}

	names := make([]string, 0, len(configs.Content)/2)
	for i := 0; i+1 < len(configs.Content); i += 2 {
		names = append(names, configs.Content[i].Value)
	}
	return names, nil
}

func (p *GoProject) ActiveConfiguration() (Configuration, error) {
	_, root, err := p.load()
	if err != nil || root == nil {
		return nil, err
	}

	names, err := p.configurationNames(root)
	if err != nil || len(names) == 0 {
		return nil, err
	}

	active := ""
	if node := mappingValue(root, "active"); node != nil && node.Kind == yaml.ScalarNode {
		active = node.Value
	}
	if active == "" {
		return &goConfiguration{project: p, name: names[0]}, nil
	}

	for _, name := range names {
		if name == active {
			return &goConfiguration{project: p, name: name}, nil
		}
	}
	return nil, nil
}

func (p *GoProject) SetActiveConfiguration(name string) error {
	doc, root, err := p.load()
	if err != nil {
		return err
	}
	if root == nil {
		return fmt.Errorf("%w: %s has no %s", ErrConfigurationNotFound, p.Name(), GoLaunchFile)
	}

	names, err := p.configurationNames(root)
	if err != nil {
		return err
	}
	if !containsString(names, name) {
		return fmt.Errorf("%w: %s in project %s", ErrConfigurationNotFound, name, p.Name())
	}

	setMappingValue(root, "active", name)
	return p.save(doc)
}

type goConfiguration struct {
	project *GoProject
	name    string
}

func (c *goConfiguration) Name() string {
	return c.name
}

func (c *goConfiguration) Properties() ([]Property, error) {
	_, root, err := c.project.load()
	if err != nil {
		return nil, err
	}
	config, err := c.project.configurationNode(root, c.name)
	if err != nil {
		return nil, err
	}

	props := make([]Property, 0, len(config.Content)/2)
	for i := 0; i+1 < len(config.Content); i += 2 {
		key, value := config.Content[i], config.Content[i+1]
		prop := &goProperty{config: c, name: key.Value}
		if value.Kind == yaml.ScalarNode {
			prop.value = value.Value
		} else {
			prop.valueErr = fmt.Errorf("property %s of %s is not a string", key.Value, c.name)
		}
		props = append(props, prop)
	}
	return props, nil
}

func (p *GoProject) configurationNode(root *yaml.Node, name string) (*yaml.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: %s in project %s", ErrConfigurationNotFound, name, p.Name())
	}
	configs := mappingValue(root, "configurations")
	if configs == nil || configs.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s in project %s", ErrConfigurationNotFound, name, p.Name())
	}
	config := mappingValue(configs, name)
	if config == nil {
		return nil, fmt.Errorf("%w: %s in project %s", ErrConfigurationNotFound, name, p.Name())
	}
	if config.Kind != yaml.MappingNode {
		// An empty configuration ("Debug:") parses as a null scalar.
		if config.Kind == yaml.ScalarNode && config.Tag == "!!null" {
			config.Kind = yaml.MappingNode
			config.Tag = "!!map"
			config.Value = ""
			return config, nil
		}
		return nil, fmt.Errorf("%s: configuration %s must be a mapping", p.path(), name)
	}
	return config, nil
}

type goProperty struct {
	config   *goConfiguration
	name     string
	value    string
	valueErr error
}

func (p *goProperty) Name() string {
	return p.name
}

func (p *goProperty) Value() (string, error) {
	return p.value, p.valueErr
}

func (p *goProperty) SetValue(value string) error {
	project := p.config.project
	doc, root, err := project.load()
	if err != nil {
		return err
	}
	config, err := project.configurationNode(root, p.config.name)
	if err != nil {
		return err
	}
	if mappingValue(config, p.name) == nil {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, p.name)
	}

	setMappingValue(config, p.name, value)
	if err := project.save(doc); err != nil {
		return err
	}

	p.value, p.valueErr = value, nil
	return nil
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func setMappingValue(mapping *yaml.Node, key, value string) {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			node.HeadComment = mapping.Content[i+1].HeadComment
			node.LineComment = mapping.Content[i+1].LineComment
			mapping.Content[i+1] = node
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		node,
	)
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
