package workspace

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"github.com/tidwall/gjson"

	"github.com/jakoblorz/go-debugargs/internal/filesystem"
	"github.com/jakoblorz/go-debugargs/internal/models"
)

// skippedDirs are never searched for Node packages.
var skippedDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
}

// packageManifest is the part of a package.json discovery looks at.
type packageManifest struct {
	path       string
	name       string
	workspaces []string
	launch     bool
}

func readPackageManifest(fs filesystem.FileSystem, path string) (packageManifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return packageManifest{}, fmt.Errorf("failed to read package.json at %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return packageManifest{}, fmt.Errorf("failed to parse package.json at %s: invalid JSON", path)
	}

	doc := gjson.ParseBytes(data)
	m := packageManifest{
		path:   path,
		name:   strings.TrimSpace(doc.Get("name").String()),
		launch: doc.Get(models.NodeLaunchKey).IsObject(),
	}

	// "workspaces" is either an array or an object with a packages array.
	workspaces := doc.Get("workspaces")
	if workspaces.IsObject() {
		workspaces = workspaces.Get("packages")
	}
	for _, item := range workspaces.Array() {
		if pattern := strings.TrimSpace(item.String()); pattern != "" {
			m.workspaces = append(m.workspaces, pattern)
		}
	}

	return m, nil
}

func (m packageManifest) project() *models.Project {
	root := filepath.Dir(m.path)
	name := m.name
	if name == "" {
		name = filepath.Base(root)
	}

	project := models.NewProject(name, root, "", m.path, models.ProjectTypeNode)
	project.HasLaunchConfig = m.launch
	return project
}

// loadNodeProjects returns the packages listed in the root package.json
// workspaces, or the root package itself when it lists none. Unless strict
// discovery is enabled, every other package.json below the root that is not
// gitignored is added too.
func (w *Workspace) loadNodeProjects(hasPackageJSON bool) ([]*models.Project, error) {
	var (
		projects []*models.Project
		seen     = map[string]struct{}{}
		skipRoot bool
	)
	add := func(m packageManifest) {
		if _, ok := seen[m.path]; ok {
			return
		}
		seen[m.path] = struct{}{}
		projects = append(projects, m.project())
	}

	if hasPackageJSON {
		root, err := readPackageManifest(w.fs, filepath.Join(w.RootPath, "package.json"))
		if err != nil {
			return nil, err
		}
		// A workspace root only aggregates its packages; it is never started.
		skipRoot = len(root.workspaces) > 0
		if !skipRoot {
			add(root)
		}

		members, err := w.workspaceMembers(root.workspaces)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			add(m)
		}
	}

	if w.nodeStrictWorkspace {
		return projects, nil
	}

	found, err := w.walkPackageManifests()
	if err != nil {
		return nil, err
	}
	rootPath := filepath.Join(w.RootPath, "package.json")
	for _, m := range found {
		if skipRoot && m.path == rootPath {
			continue
		}
		add(m)
	}

	return projects, nil
}

// workspaceMembers resolves package.json workspace patterns.
func (w *Workspace) workspaceMembers(patterns []string) ([]packageManifest, error) {
	var members []packageManifest
	for _, pattern := range patterns {
		matches, err := w.fs.Glob(filepath.Join(w.RootPath, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to glob workspace pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			path := match
			if filepath.Base(match) != "package.json" {
				path = filepath.Join(match, "package.json")
			}
			if !w.fs.Exists(path) {
				continue
			}

			m, err := readPackageManifest(w.fs, path)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
	}
	return members, nil
}

// walkPackageManifests finds every package.json below the root, honoring the
// root .gitignore.
func (w *Workspace) walkPackageManifests() ([]packageManifest, error) {
	ignore, err := w.loadRootGitIgnore()
	if err != nil {
		return nil, err
	}

	var found []packageManifest
	err = w.fs.WalkDir(w.RootPath, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == w.RootPath {
			return nil
		}
		if entry.IsDir() {
			if _, ok := skippedDirs[entry.Name()]; ok {
				return filepath.SkipDir
			}
		}

		rel, err := filepath.Rel(w.RootPath, path)
		if err != nil {
			return err
		}
		if ignore != nil {
			if match := ignore.Relative(filepath.ToSlash(rel), entry.IsDir()); match != nil && match.Ignore() {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if entry.IsDir() || entry.Name() != "package.json" {
			return nil
		}

		m, err := readPackageManifest(w.fs, path)
		if err != nil {
			return err
		}
		found = append(found, m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

func (w *Workspace) loadRootGitIgnore() (gitignore.GitIgnore, error) {
	ignorePath := filepath.Join(w.RootPath, ".gitignore")
	if !w.fs.Exists(ignorePath) {
		return nil, nil
	}

	data, err := w.fs.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	return gitignore.New(bytes.NewReader(data), w.RootPath, nil), nil
}
