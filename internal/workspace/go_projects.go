package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/jakoblorz/go-debugargs/internal/models"
)

// loadGoWork loads every module listed in go.work use directives.
func (w *Workspace) loadGoWork() ([]*models.Project, error) {
	data, err := w.fs.ReadFile(w.WorkFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.work: %w", err)
	}

	workFile, err := modfile.ParseWork(w.WorkFilePath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.work: %w", err)
	}

	projects := make([]*models.Project, 0, len(workFile.Use))
	for _, use := range workFile.Use {
		projectPath := filepath.Join(w.RootPath, use.Path)

		project, err := w.loadGoProject(projectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load project at %s: %w", projectPath, err)
		}
		projects = append(projects, project)
	}

	return projects, nil
}

// loadGoProject loads the module rooted at projectPath. Its name is the last
// element of the module path.
func (w *Workspace) loadGoProject(projectPath string) (*models.Project, error) {
	goModPath := filepath.Join(projectPath, "go.mod")
	data, err := w.fs.ReadFile(goModPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod: %w", err)
	}

	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		return nil, fmt.Errorf("%s has no module directive", goModPath)
	}

	project := models.NewProject(goProjectName(modulePath), projectPath, modulePath, goModPath, models.ProjectTypeGo)
	project.HasLaunchConfig = w.fs.Exists(project.LaunchConfigPath())
	return project, nil
}

// goProjectName skips a trailing major version element, so
// "example.com/api/v2" is named "api".
func goProjectName(modulePath string) string {
	parts := strings.Split(modulePath, "/")
	name := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(name) {
		name = parts[len(parts)-2]
	}
	return name
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
