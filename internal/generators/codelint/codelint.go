// Package codelint sets a workspace up for consistent formatting and linting:
// prettier, lint-staged behind a husky pre-commit hook, ESLint import rules
// when ESLint is installed, editor settings and extension recommendations.
package codelint

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/RicardoJBarrios/kuocli/internal/generators/shared"
	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/output"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

//go:embed all:files
var filesFS embed.FS

// PrintWidth is the prettier line width, also shown as an editor ruler.
const PrintWidth = 120

const (
	eslintConfigFile = ".eslintrc.json"
	lintStagedFile   = ".lintstagedrc"
	preCommitHook    = ".husky/pre-commit"
	lintStagedGlob   = "*.{js,jsx,ts,tsx}"
)

var devDependencies = map[string]string{
	"prettier":    "~2.8.5",
	"lint-staged": "~13.2.0",
}

var eslintDevDependencies = map[string]string{
	"eslint-plugin-import":             "^2.27.5",
	"eslint-plugin-simple-import-sort": "^10.0.0",
	"eslint-plugin-unused-imports":     "^2.0.0",
}

// Options configures the recipe.
type Options struct {
	SkipFormat bool
}

// Generator is the codelint recipe.
type Generator struct {
	deps shared.Deps
}

// New creates the recipe.
func New(deps shared.Deps) *Generator {
	return &Generator{deps: deps}
}

// Generate applies the recipe to t and returns the install task.
func (g *Generator) Generate(ctx context.Context, t *tree.Tree, opts Options) (devkit.Callback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eslint := hasEslint(t)
	logger.Debug("running codelint", logger.F("eslint", eslint))

	if err := g.addFiles(t); err != nil {
		return nil, err
	}
	addDependencies(t, eslint)

	preparePrettier(t)
	if eslint {
		if err := prepareEslint(t); err != nil {
			return nil, err
		}
	}
	prepareCodemetrics(t)
	prepareSonarlint(t)
	if err := prepareEditorconfig(t); err != nil {
		return nil, err
	}
	pm := devkit.DetectPackageManager(t, g.deps.PackageManager)
	prepareSecurityCheck(t, pm.AuditCommand())
	if err := prepareHusky(t); err != nil {
		return nil, err
	}

	if !opts.SkipFormat {
		if err := devkit.FormatFiles(t); err != nil {
			return nil, fmt.Errorf("format files: %w", err)
		}
	}

	return devkit.InstallPackagesTask(t, pm, false), nil
}

func hasEslint(t tree.Store) bool {
	return devkit.HasDependency(t, "eslint", devkit.DevDependencies)
}

func (g *Generator) addFiles(t *tree.Tree) error {
	if _, removed := devkit.RemoveConfig(t, "prettier"); removed {
		output.Verbose("Removed previous prettier configuration")
	}

	written, err := devkit.GenerateFiles(t, filesFS, "files", "", g.deps.GenerateOptions(map[string]any{
		"printWidth": PrintWidth,
	}))
	if err != nil {
		return fmt.Errorf("generate codelint files: %w", err)
	}
	logger.Debug("codelint files generated", logger.F("files", written))
	return nil
}

func addDependencies(t *tree.Tree, eslint bool) {
	deps := shared.MergeDependencies(shared.HuskyDevDependencies, devDependencies)
	if eslint {
		deps = shared.MergeDependencies(deps, eslintDevDependencies)
	}
	devkit.AddDependenciesToPackageJSON(t, nil, deps)
}

func preparePrettier(t tree.Store) {
	devkit.AddIDEPluginRecommendations(t, "esbenp.prettier-vscode")
	devkit.AddScriptToWorkspace(t, "format:all", "nx format:write --all")
	devkit.AddIDESettings(t, shared.Object(
		"editor.defaultFormatter", "esbenp.prettier-vscode",
		"editor.formatOnSave", true,
		"editor.rulers", []any{PrintWidth},
	))
}

// EslintOverride is merged into the overrides of .eslintrc.json.
func EslintOverride() *jsondoc.Object {
	return shared.Object(
		"files", []any{"*.ts", "*.tsx", "*.js", "*.jsx"},
		"plugins", []any{"simple-import-sort", "import", "unused-imports"},
		"rules", shared.Object(
			"simple-import-sort/imports", "error",
			"simple-import-sort/exports", "error",
			"import/first", "error",
			"import/newline-after-import", "error",
			"import/no-duplicates", "error",
			"@typescript-eslint/no-unused-vars", "off",
			"unused-imports/no-unused-imports", "error",
			"unused-imports/no-unused-vars", []any{
				"warn",
				shared.Object(
					"vars", "all",
					"varsIgnorePattern", "^_",
					"args", "after-used",
					"argsIgnorePattern", "^_",
				),
			},
		),
	)
}

var errOverridesNotArray = errors.New("overrides is not an array")

func prepareEslint(t tree.Store) error {
	devkit.AddIDEPluginRecommendations(t, "dbaeumer.vscode-eslint")
	devkit.AddScriptToWorkspace(t, "lint:all", "nx run-many --all --target=lint --fix")

	devkit.UpsertJSONFile(t, eslintConfigFile, func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		if v, ok := doc.Get("overrides"); ok {
			if _, isArray := jsondoc.AsArray(v); !isArray {
				return nil, errOverridesNotArray
			}
		}
		return jsondoc.MergeWithArray(doc, shared.Object("overrides", []any{EslintOverride()})), nil
	})

	if !doublestar.ValidatePattern(lintStagedGlob) {
		return fmt.Errorf("invalid lint-staged pattern %q", lintStagedGlob)
	}
	devkit.UpsertJSONFile(t, lintStagedFile, func(doc *jsondoc.Object) (*jsondoc.Object, error) {
		return jsondoc.MergeWithArray(doc, shared.Object(lintStagedGlob, []any{"nx affected:lint --fix --files"})), nil
	})

	devkit.AddIDESettings(t, shared.Object(
		"editor.codeActionsOnSave", shared.Object("source.fixAll.eslint", true),
	))
	return nil
}

func prepareCodemetrics(t tree.Store) {
	devkit.AddIDEPluginRecommendations(t, "kisstkondoros.vscode-codemetrics")
	devkit.AddIDESettings(t, shared.Object(
		"codemetrics.basics.ComplexityLevelExtreme", 25,
		"codemetrics.basics.ComplexityLevelExtremeDescription", "Extreme",
		"codemetrics.basics.ComplexityLevelHigh", 10,
		"codemetrics.basics.ComplexityLevelHighDescription", "High",
		"codemetrics.basics.ComplexityLevelNormal", 5,
		"codemetrics.basics.ComplexityLevelNormalDescription", "Normal",
		"codemetrics.basics.ComplexityLevelLow", 0,
		"codemetrics.basics.ComplexityLevelLowDescription", "Low",
		"codemetrics.basics.ComplexityTemplate", "{1} complexity: {0}",
		"codemetrics.basics.DecorationModeEnabled", false,
		"codemetrics.basics.Exclude", []any{"**/*.spec.ts"},
	))
}

func prepareSonarlint(t tree.Store) {
	devkit.AddIDEPluginRecommendations(t, "SonarSource.sonarlint-vscode")
	devkit.AddIDESettings(t, shared.Object(
		"sonarlint.analyzerProperties", shared.Object(
			"sonar.typescript.exclusions", "**/*.spec.ts,**/test-setup.ts",
		),
	))
}

func prepareEditorconfig(t tree.Store) error {
	if err := t.Delete(".editorconfig"); err != nil {
		return fmt.Errorf("delete .editorconfig: %w", err)
	}
	return nil
}

func prepareSecurityCheck(t tree.Store, audit string) {
	devkit.AddScriptToWorkspace(t, "security:check", audit)
}

func prepareHusky(t tree.Store) error {
	if err := t.ChangePermissions(preCommitHook, 0o755); err != nil {
		return fmt.Errorf("make %s executable: %w", preCommitHook, err)
	}
	shared.PrepareHusky(t)
	return nil
}
