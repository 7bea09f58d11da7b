package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RicardoJBarrios/kuocli/internal/generators/gitlint"
	"github.com/RicardoJBarrios/kuocli/internal/generators/shared"
	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

var gitlintFlags = map[string]string{
	"scopes":     "scopes",
	"app-scopes": "appScopes",
	"lib-scopes": "libScopes",
	"gitflow":    "gitflow",
}

// GitlintCmd returns the gitlint command.
func GitlintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitlint",
		Short: "Enforce conventional commits",
		Long: `Enforce conventional commits in the workspace.

This command will:
1. Configure commitlint with the workspace projects as scopes
2. Add commitizen and the commit-msg and prepare-commit-msg husky hooks
3. Recommend git editor extensions
4. Initialize git-flow (disable with --gitflow=false)

Example:
  kuocli gitlint
  kuocli gitlint --scopes deps,release --lib-scopes=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFrom(cmd)
			if err != nil {
				return err
			}
			opts, err := flagOptions(cmd.Flags(), gitlintFlags)
			if err != nil {
				return err
			}
			if _, set := opts["gitflow"]; !set {
				opts["gitflow"] = cfg.Gitflow
			}
			return runRecipe(cmd, "gitlint", opts, runGitlint)
		},
	}

	defaults := gitlint.DefaultOptions()
	cmd.Flags().String("scopes", "", "Comma separated list of extra commit scopes")
	cmd.Flags().Bool("app-scopes", defaults.AppScopes, "Add application names to the commit scopes")
	cmd.Flags().Bool("lib-scopes", defaults.LibScopes, "Add library names to the commit scopes")
	cmd.Flags().Bool("gitflow", defaults.Gitflow, "Initialize git-flow in the repository")

	return cmd
}

func runGitlint(ctx context.Context, t *tree.Tree, deps shared.Deps, opts options) (devkit.Callback, error) {
	return gitlint.New(deps).Generate(ctx, t, gitlint.Options{
		Scopes:     opts.string("scopes"),
		AppScopes:  opts.bool("appScopes"),
		LibScopes:  opts.bool("libScopes"),
		Gitflow:    opts.bool("gitflow"),
		SkipFormat: opts.bool("skipFormat"),
	})
}
