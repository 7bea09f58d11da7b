package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RicardoJBarrios/kuocli/internal/generators/scaffold"
	"github.com/RicardoJBarrios/kuocli/internal/generators/shared"
	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

var initFlags = map[string]string{
	"directory": "directory",
	"tags":      "tags",
}

// InitCmd returns the init command.
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Create a library project",
		Long: `Create a TypeScript library project under the libraries directory.

Example:
  kuocli init ui
  kuocli init data-access --directory shared --tags scope:shared,type:data`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flagOptions(cmd.Flags(), initFlags)
			if err != nil {
				return err
			}
			opts["name"] = args[0]
			return runRecipe(cmd, "init", opts, runInit)
		},
	}

	cmd.Flags().StringP("directory", "d", "", "Parent directory of the library")
	cmd.Flags().String("tags", "", "Comma separated list of project tags")

	return cmd
}

func runInit(ctx context.Context, t *tree.Tree, deps shared.Deps, opts options) (devkit.Callback, error) {
	return scaffold.New(deps).Generate(ctx, t, scaffold.Options{
		Name:       opts.string("name"),
		Directory:  opts.string("directory"),
		Tags:       opts.string("tags"),
		SkipFormat: opts.bool("skipFormat"),
	})
}
