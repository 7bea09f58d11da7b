// Package gitlint enforces conventional commits: commitlint with the
// workspace projects as scopes, commitizen through husky hooks, git editor
// extensions and, optionally, git-flow.
package gitlint

import (
	"context"
	"embed"
	"fmt"

	"github.com/RicardoJBarrios/kuocli/internal/generators/shared"
	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/output"
	"github.com/RicardoJBarrios/kuocli/pkg/textutil"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

//go:embed all:files
var filesFS embed.FS

// Hooks.
const (
	CommitMsgHook        = "commit-msg"
	PrepareCommitMsgHook = "prepare-commit-msg"
)

var devDependencies = map[string]string{
	"@commitlint/cli":                 "~17.6.1",
	"@commitlint/config-conventional": "~17.6.1",
	"@commitlint/cz-commitlint":       "~17.5.0",
	"commitizen":                      "~4.3.0",
	"inquirer":                        "8.2.5",
}

var commitMsgCommands = []string{
	"npx --no-install commitlint --edit $1",
}

var prepareCommitMsgCommands = []string{
	"COMMIT_MSG_FILE=$1\nCOMMIT_SOURCE=$2\nSHA1=$3\n",
	"if [ \"${COMMIT_SOURCE}\" = merge ]; then exit 0; fi\n",
	"exec < /dev/tty && npx --no-install cz --hook || true",
}

// Options configures the recipe.
type Options struct {
	// Scopes is a comma separated list of extra commit scopes.
	Scopes string
	// AppScopes adds application names as scopes.
	AppScopes bool
	// LibScopes adds library names as scopes.
	LibScopes bool
	// Gitflow initializes git-flow in the repository.
	Gitflow    bool
	SkipFormat bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{AppScopes: true, LibScopes: true, Gitflow: true}
}

// Generator is the gitlint recipe.
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

	scopes, err := Scopes(t, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("running gitlint", logger.F("scopes", scopes))

	if err := g.addFiles(t, scopes); err != nil {
		return nil, err
	}
	if err := addHooks(t); err != nil {
		return nil, err
	}
	devkit.AddDependenciesToPackageJSON(t, nil, shared.MergeDependencies(shared.HuskyDevDependencies, devDependencies))
	shared.PrepareHusky(t)
	prepareIDE(t)

	if opts.Gitflow {
		if err := g.initGitflow(ctx); err != nil {
			return nil, err
		}
	}

	if !opts.SkipFormat {
		if err := devkit.FormatFiles(t); err != nil {
			return nil, fmt.Errorf("format files: %w", err)
		}
	}

	return devkit.InstallPackagesTask(t, devkit.DetectPackageManager(t, g.deps.PackageManager), false), nil
}

// Scopes returns the commit scopes: the explicit ones first, then
// applications and libraries when enabled.
func Scopes(t *tree.Tree, opts Options) ([]string, error) {
	scopes := shared.SplitList(opts.Scopes)
	if opts.AppScopes {
		apps, err := devkit.ProjectNamesByType(t, devkit.Application)
		if err != nil {
			return nil, fmt.Errorf("list applications: %w", err)
		}
		scopes = append(scopes, apps...)
	}
	if opts.LibScopes {
		libs, err := devkit.ProjectNamesByType(t, devkit.Library)
		if err != nil {
			return nil, fmt.Errorf("list libraries: %w", err)
		}
		scopes = append(scopes, libs...)
	}
	return textutil.CleanStringArray(scopes), nil
}

func (g *Generator) addFiles(t *tree.Tree, scopes []string) error {
	for _, cfg := range []string{"commitlint", "config.commitizen"} {
		if _, removed := devkit.RemoveConfig(t, cfg); removed {
			output.Verbose("Removed previous " + cfg + " configuration")
		}
	}

	opts := g.deps.GenerateOptions(map[string]any{"scopes": scopes})
	for _, dir := range []string{"files/commitlint", "files/commitizen"} {
		if _, err := devkit.GenerateFiles(t, filesFS, dir, "", opts); err != nil {
			return fmt.Errorf("generate gitlint files: %w", err)
		}
	}
	return nil
}

func addHooks(t tree.Store) error {
	if err := devkit.UpsertHuskyHook(t, CommitMsgHook, commitMsgCommands...); err != nil {
		return err
	}
	if err := devkit.UpsertHuskyHook(t, PrepareCommitMsgHook, prepareCommitMsgCommands...); err != nil {
		return err
	}
	for _, hook := range []string{CommitMsgHook, PrepareCommitMsgHook} {
		if err := t.ChangePermissions(devkit.HookPath(hook), 0o755); err != nil {
			return fmt.Errorf("make %s executable: %w", hook, err)
		}
	}
	return nil
}

func prepareIDE(t tree.Store) {
	devkit.AddIDEPluginRecommendations(t, "mhutchie.git-graph", "eamodio.gitlens")
	devkit.AddIDESettings(t, shared.Object(
		"gitlens.graph.statusBar.enabled", false,
		"gitlens.plusFeatures.enabled", false,
		"gitlens.showWelcomeOnInstall", false,
	))
}

// initGitflow acts on the repository directly, so it is skipped in dry runs.
func (g *Generator) initGitflow(ctx context.Context) error {
	if g.deps.DryRun {
		output.Verbose("Skipping git-flow initialization in dry run")
		return nil
	}
	if g.deps.Gitflow == nil {
		logger.Debug("no git-flow initializer configured")
		return nil
	}

	initialized, err := g.deps.Gitflow.Init(ctx)
	if err != nil {
		return fmt.Errorf("initialize git-flow: %w", err)
	}
	if initialized {
		output.Success("git-flow initialized")
	}
	return nil
}
