package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RicardoJBarrios/kuocli/internal/generators/codelint"
	"github.com/RicardoJBarrios/kuocli/internal/generators/shared"
	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// CodelintCmd returns the codelint command.
func CodelintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codelint",
		Short: "Set up formatting and linting",
		Long: `Set up consistent formatting and linting in the workspace.

This command will:
1. Add prettier and lint-staged behind a husky pre-commit hook
2. Add ESLint import rules when ESLint is installed
3. Recommend prettier, ESLint, Codemetrics and SonarLint extensions
4. Add the format:all, lint:all and security:check scripts

Example:
  kuocli codelint
  kuocli codelint --package-manager pnpm --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			opts := options{}
			if cfg.PackageManager != "" {
				opts["packageManager"] = cfg.PackageManager
			}
			return runRecipe(cmd, "codelint", opts, runCodelint)
		},
	}
}

func runCodelint(ctx context.Context, t *tree.Tree, deps shared.Deps, opts options) (devkit.Callback, error) {
	deps.PackageManager = opts.string("packageManager")
	return codelint.New(deps).Generate(ctx, t, codelint.Options{
		SkipFormat: opts.bool("skipFormat"),
	})
}
