package devkit

import (
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/RicardoJBarrios/kuocli/pkg/filesystem"
	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// ProjectType is the kind of an Nx project.
type ProjectType string

const (
	Application ProjectType = "application"
	Library     ProjectType = "library"
)

const (
	projectFile   = "project.json"
	workspaceFile = "workspace.json"
	projectSchema = "node_modules/nx/schemas/project-schema.json"
)

// ErrProjectExists is returned when adding a project whose name or root is
// already taken.
var ErrProjectExists = errors.New("project already exists")

// ProjectConfiguration describes one workspace project.
type ProjectConfiguration struct {
	Name        string
	Root        string
	SourceRoot  string
	ProjectType ProjectType
	Tags        []string
	// Targets keeps the targets object as written in project.json.
	Targets *jsondoc.Object
}

// Projects returns the workspace projects sorted by name. Projects are read
// from project.json files and from the projects map of a workspace.json.
// node_modules, dist and hidden directories are not searched.
func Projects(t *tree.Tree) ([]ProjectConfiguration, error) {
	files, err := t.FilesWithOptions("", filesystem.WalkOptions{})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	byName := make(map[string]ProjectConfiguration)
	for _, f := range files {
		if path.Base(f) != projectFile {
			continue
		}
		doc := GetJSONFile(t, f)
		if doc == nil {
			logger.Warn("skipping invalid project file", logger.F("path", f))
			continue
		}
		p := projectFromJSON(doc, path.Dir(f))
		byName[p.Name] = p
	}

	for name, root := range workspaceProjects(t) {
		if _, ok := byName[name]; ok {
			continue
		}
		doc := GetJSONFile(t, path.Join(root, projectFile))
		if doc == nil {
			doc = jsondoc.NewObject()
		}
		p := projectFromJSON(doc, root)
		p.Name = name
		byName[name] = p
	}

	projects := make([]ProjectConfiguration, 0, len(byName))
	for _, p := range byName {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects, nil
}

// workspaceProjects reads the name to root map of workspace.json.
func workspaceProjects(t tree.Store) map[string]string {
	doc := GetJSONFile(t, workspaceFile)
	if doc == nil {
		return nil
	}
	v, _ := doc.Get("projects")
	entries, ok := v.(*jsondoc.Object)
	if !ok {
		return nil
	}
	roots := make(map[string]string)
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		switch val := pair.Value.(type) {
		case string:
			roots[pair.Key] = filesystem.Clean(val)
		case *jsondoc.Object:
			if r, ok := val.Get("root"); ok {
				if s, ok := r.(string); ok {
					roots[pair.Key] = filesystem.Clean(s)
				}
			}
		}
	}
	return roots
}

func projectFromJSON(doc *jsondoc.Object, root string) ProjectConfiguration {
	root = filesystem.Clean(root)
	p := ProjectConfiguration{Root: root, Name: path.Base(root)}
	if root == "" {
		p.Name = "workspace"
	}

	if v, ok := doc.Get("name"); ok {
		if s, ok := v.(string); ok && s != "" {
			p.Name = s
		}
	}
	if v, ok := doc.Get("sourceRoot"); ok {
		p.SourceRoot, _ = v.(string)
	}
	if v, ok := doc.Get("projectType"); ok {
		s, _ := v.(string)
		p.ProjectType = ProjectType(s)
	}
	if v, ok := doc.Get("tags"); ok {
		if arr, ok := jsondoc.AsArray(v); ok {
			for _, tag := range arr {
				if s, ok := tag.(string); ok {
					p.Tags = append(p.Tags, s)
				}
			}
		}
	}
	if v, ok := doc.Get("targets"); ok {
		p.Targets, _ = v.(*jsondoc.Object)
	}
	return p
}

// ReadProjectConfiguration returns the project called name.
func ReadProjectConfiguration(t *tree.Tree, name string) (ProjectConfiguration, error) {
	projects, err := Projects(t)
	if err != nil {
		return ProjectConfiguration{}, err
	}
	for _, p := range projects {
		if p.Name == name {
			return p, nil
		}
	}
	return ProjectConfiguration{}, fmt.Errorf("cannot find project %q", name)
}

// ProjectNamesByType returns the names of the projects of type typ.
func ProjectNamesByType(t *tree.Tree, typ ProjectType) ([]string, error) {
	projects, err := Projects(t)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, p := range projects {
		if p.ProjectType == typ {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

// AddProjectConfiguration writes <cfg.Root>/project.json for a new project.
func AddProjectConfiguration(t *tree.Tree, name string, cfg ProjectConfiguration) error {
	root := filesystem.Clean(cfg.Root)
	if root == "" {
		return fmt.Errorf("project %s: empty root", name)
	}
	file := path.Join(root, projectFile)
	if t.Exists(file) {
		return fmt.Errorf("%w: %s", ErrProjectExists, file)
	}
	if _, err := ReadProjectConfiguration(t, name); err == nil {
		return fmt.Errorf("%w: %s", ErrProjectExists, name)
	}

	doc := jsondoc.NewObject()
	doc.Set("name", name)
	doc.Set("$schema", relativeTo(root, projectSchema))
	if cfg.ProjectType != "" {
		doc.Set("projectType", string(cfg.ProjectType))
	}
	if cfg.SourceRoot != "" {
		doc.Set("sourceRoot", cfg.SourceRoot)
	}
	tags := make([]any, 0, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		tags = append(tags, tag)
	}
	doc.Set("tags", tags)
	if cfg.Targets != nil {
		doc.Set("targets", jsondoc.Clone(cfg.Targets))
	} else {
		doc.Set("targets", jsondoc.NewObject())
	}

	out, err := jsondoc.MarshalIndent(doc, "  ")
	if err != nil {
		return fmt.Errorf("project %s: %w", name, err)
	}
	return t.Write(file, out)
}

// relativeTo returns the path from dir to the workspace file target.
func relativeTo(dir, target string) string {
	up := ""
	for d := dir; d != "." && d != ""; d = path.Dir(d) {
		up += "../"
	}
	return up + target
}
