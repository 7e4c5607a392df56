// Package startup provides the interactive startup project picker.
package startup

import (
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	huh "github.com/charmbracelet/huh"

	"github.com/jakoblorz/go-debugargs/internal/models"
	"github.com/jakoblorz/go-debugargs/internal/tui"
)

// NoLaunchConfig marks projects whose arguments cannot be edited yet.
const NoLaunchConfig = "no launch configuration"

// Picker lets the user choose the startup project with a huh form.
type Picker struct {
	root  string
	theme *huh.Theme
}

// NewPicker creates a picker labelling project paths relative to root.
func NewPicker(root string) *Picker {
	return &Picker{
		root:  root,
		theme: tui.NewHuhTheme(),
	}
}

// Run shows the picker with current preselected. It returns "" when the user
// aborts.
func (p *Picker) Run(projects []*models.Project, current string) (string, error) {
	if len(projects) == 0 {
		return "", fmt.Errorf("no projects found in workspace")
	}

	selected := current
	keyMap := huh.NewDefaultKeyMap()
	keyMap.Select.Submit.SetKeys("enter", " ")
	keyMap.Select.Submit.SetHelp("space/enter", "select")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(p.Options(projects, current)...).
				Value(&selected),
		).
			Title("Startup Project").
			Description("Command line arguments are read from and written to this project."),
	).
		WithTheme(p.theme).
		WithShowHelp(true).
		WithProgramOptions(tea.WithAltScreen()).
		WithKeyMap(keyMap)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", err
	}
	return selected, nil
}

// Options builds one option per project, labelled with its type and path.
func (p *Picker) Options(projects []*models.Project, current string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(projects))
	for _, project := range projects {
		opts = append(opts, huh.NewOption(p.Label(project), project.Name).Selected(project.Name == current))
	}
	return opts
}

// Label renders a project as "name (type) path", noting projects without
// launch configurations.
func (p *Picker) Label(project *models.Project) string {
	path := project.RootPath
	if rel, err := filepath.Rel(p.root, project.RootPath); err == nil {
		path = rel
	}
	label := fmt.Sprintf("%s (%s) %s", project.Name, project.Type, path)
	if !project.HasLaunchConfig {
		label += " · " + NoLaunchConfig
	}
	return label
}
