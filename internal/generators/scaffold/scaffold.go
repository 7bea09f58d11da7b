// Package scaffold creates new library projects in the workspace.
package scaffold

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/RicardoJBarrios/kuocli/internal/generators/shared"
	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/generator"
	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

//go:embed all:files
var filesFS embed.FS

const (
	nxJSON          = "nx.json"
	tsconfigBase    = "tsconfig.base.json"
	defaultLibsDir  = "libs"
	buildExecutor   = "@nrwl/js:tsc"
	buildOutputsKey = "{options.outputPath}"
)

// ErrNameRequired is returned when Options.Name is empty.
var ErrNameRequired = errors.New("project name is required")

// Options configures the recipe.
type Options struct {
	Name string
	// Directory is the parent directory under the libraries directory.
	Directory string
	// Tags is a comma separated list of project tags.
	Tags       string
	SkipFormat bool
}

// Project is the normalized description of the library to create.
type Project struct {
	Name       string
	FileName   string
	Directory  string
	Root       string
	ImportPath string
	Tags       []string
}

// Generator is the init recipe.
type Generator struct {
	deps shared.Deps
}

// New creates the recipe.
func New(deps shared.Deps) *Generator {
	return &Generator{deps: deps}
}

// Generate adds the library project to t. Nothing needs installing, so the
// returned callback is nil.
func (g *Generator) Generate(ctx context.Context, t *tree.Tree, opts Options) (devkit.Callback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := Normalize(t, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("creating library", logger.F("name", p.Name), logger.F("root", p.Root))

	if err := devkit.AddProjectConfiguration(t, p.Name, devkit.ProjectConfiguration{
		Root:        p.Root,
		SourceRoot:  path.Join(p.Root, "src"),
		ProjectType: devkit.Library,
		Tags:        p.Tags,
		Targets:     buildTargets(p),
	}); err != nil {
		return nil, err
	}

	if _, err := devkit.GenerateFiles(t, filesFS, "files", p.Root, g.deps.GenerateOptions(templateData(p))); err != nil {
		return nil, fmt.Errorf("generate %s files: %w", p.Name, err)
	}
	addImportPath(t, p)

	if !opts.SkipFormat {
		if err := devkit.FormatFiles(t); err != nil {
			return nil, fmt.Errorf("format files: %w", err)
		}
	}
	return nil, nil
}

// Normalize derives the project layout from opts. The project name joins
// the directory segments and the name with dashes.
func Normalize(t tree.Store, opts Options) (Project, error) {
	name := generator.KebabCase(strings.TrimSpace(opts.Name))
	if name == "" {
		return Project{}, ErrNameRequired
	}

	var segments []string
	for _, s := range strings.Split(opts.Directory, "/") {
		if s = generator.KebabCase(strings.TrimSpace(s)); s != "" {
			segments = append(segments, s)
		}
	}
	directory := path.Join(append(segments, name)...)

	p := Project{
		Name:      strings.ReplaceAll(directory, "/", "-"),
		FileName:  name,
		Directory: directory,
		Root:      path.Join(libsDir(t), directory),
		Tags:      shared.SplitList(opts.Tags),
	}
	p.ImportPath = importPath(t, directory)
	return p, nil
}

func libsDir(t tree.Store) string {
	if nx := devkit.GetJSONFile(t, nxJSON); nx != nil {
		if v, ok := jsondoc.Get(nx, "workspaceLayout.libsDir"); ok {
			if dir, ok := v.(string); ok && dir != "" {
				return dir
			}
		}
	}
	return defaultLibsDir
}

func importPath(t tree.Store, directory string) string {
	if nx := devkit.GetJSONFile(t, nxJSON); nx != nil {
		if v, ok := nx.Get("npmScope"); ok {
			if scope, ok := v.(string); ok && scope != "" {
				return "@" + strings.TrimPrefix(scope, "@") + "/" + directory
			}
		}
	}
	return directory
}

func buildTargets(p Project) *jsondoc.Object {
	return shared.Object(
		"build", shared.Object(
			"executor", buildExecutor,
			"outputs", []any{buildOutputsKey},
			"options", shared.Object(
				"outputPath", path.Join("dist", p.Root),
				"main", path.Join(p.Root, "src/index.ts"),
				"tsConfig", path.Join(p.Root, "tsconfig.lib.json"),
				"assets", []any{path.Join(p.Root, "*.md")},
			),
		),
	)
}

func templateData(p Project) map[string]any {
	return map[string]any{
		"name":           p.FileName,
		"fileName":       p.FileName,
		"propertyName":   generator.CamelCase(p.FileName),
		"projectName":    p.Name,
		"offsetFromRoot": offsetFromRoot(p.Root),
	}
}

func offsetFromRoot(root string) string {
	return strings.Repeat("../", strings.Count(root, "/")+1)
}

// addImportPath maps the import path to the library entry point in
// tsconfig.base.json when the workspace has one.
func addImportPath(t tree.Store, p Project) {
	if !t.Exists(tsconfigBase) {
		return
	}
	devkit.UpsertJSONFile(t, tsconfigBase, func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		paths := child(child(doc, "compilerOptions"), "paths")
		paths.Set(p.ImportPath, []any{path.Join(p.Root, "src/index.ts")})
		return doc, nil
	})
}

// child returns the object under key, replacing any other value.
func child(parent *jsondoc.Object, key string) *jsondoc.Object {
	if v, ok := parent.Get(key); ok {
		if obj, ok := jsondoc.AsObject(v); ok {
			return obj
		}
	}
	obj := jsondoc.NewObject()
	parent.Set(key, obj)
	return obj
}
