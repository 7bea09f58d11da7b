package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/RicardoJBarrios/kuocli/internal/config"
	"github.com/RicardoJBarrios/kuocli/internal/generators/shared"
	"github.com/RicardoJBarrios/kuocli/internal/gitflow"
	"github.com/RicardoJBarrios/kuocli/internal/schema"
	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/exec"
	"github.com/RicardoJBarrios/kuocli/pkg/generator"
	"github.com/RicardoJBarrios/kuocli/pkg/input"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/output"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// recipeFunc applies a recipe with validated options.
type recipeFunc func(ctx context.Context, t *tree.Tree, deps shared.Deps, opts options) (devkit.Callback, error)

// options are recipe options after schema defaults were applied.
type options map[string]any

func (o options) bool(key string) bool {
	v, _ := o[key].(bool)
	return v
}

func (o options) string(key string) string {
	v, _ := o[key].(string)
	return v
}

// flagOptions collects the recipe flags set on the command line, keyed by
// option name.
func flagOptions(flags *pflag.FlagSet, names map[string]string) (options, error) {
	opts := options{}
	for flag, key := range names {
		f := flags.Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		switch f.Value.Type() {
		case "bool":
			v, err := flags.GetBool(flag)
			if err != nil {
				return nil, err
			}
			opts[key] = v
		default:
			opts[key] = f.Value.String()
		}
	}
	return opts, nil
}

// session holds what one recipe run works with.
type session struct {
	cfg      *config.Config
	tree     *tree.Tree
	executor *exec.Executor
	deps     shared.Deps
}

func newSession(cfg *config.Config) (*session, error) {
	strategy := cfg.OnConflict
	if cfg.Interactive && input.IsInteractive() {
		strategy = generator.StrategyPrompt
	}
	resolver, err := generator.NewResolver(strategy, nil)
	if err != nil {
		return nil, err
	}

	executor := exec.NewExecutor(&exec.Options{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Dir:     cfg.Root,
		DryRun:  cfg.DryRun,
		Spinner: true,
	})

	return &session{
		cfg:      cfg,
		tree:     tree.NewOS(cfg.Root),
		executor: executor,
		deps: shared.Deps{
			Resolver:       resolver,
			Renderer:       generator.NewRenderer(),
			Gitflow:        gitflow.New(cfg.Root, executor),
			DryRun:         cfg.DryRun,
			PackageManager: cfg.PackageManager,
		},
	}, nil
}

// runRecipe validates opts against the recipe schema, runs the recipe on the
// workspace tree, writes the changes and runs the returned task.
func runRecipe(cmd *cobra.Command, name string, opts options, recipe recipeFunc) error {
	cfg, err := configFrom(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if _, set := opts["skipFormat"]; !set && cfg.SkipFormat {
		opts["skipFormat"] = true
	}
	withDefaults, err := schema.ApplyDefaults(name, opts)
	if err != nil {
		return err
	}
	result, err := schema.Validate(name, withDefaults)
	if err != nil {
		return err
	}
	if err := result.Err(); err != nil {
		return err
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	output.Info(fmt.Sprintf("Running %s in %s", name, cfg.Root))
	task, err := recipe(ctx, s.tree, s.deps, withDefaults)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	changes := s.tree.Changes()
	for _, c := range changes {
		output.Change(c.Type.String(), c.Path, len(c.Content))
	}
	if len(changes) == 0 {
		output.Info("Workspace already up to date")
	}

	if err := s.tree.Commit(ctx, s.tree.Base(), tree.CommitOptions{DryRun: cfg.DryRun}); err != nil {
		return err
	}

	if task != nil && !cfg.SkipInstall {
		if err := task(ctx, s.executor); err != nil {
			return err
		}
	} else if task != nil {
		logger.Info("skipping install", logger.F("recipe", name))
	}

	if cfg.DryRun {
		output.Warn("Dry run: no files were written")
		return nil
	}
	output.Success(fmt.Sprintf("%s applied", name))
	return nil
}
