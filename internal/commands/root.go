package commands

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RicardoJBarrios/kuocli/internal/config"
	"github.com/RicardoJBarrios/kuocli/pkg/generator"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/output"
)

// Version is set at build time.
var Version = "dev"

type configKey struct{}

// RootCmd creates the root command. Subcommands read the resolved workspace
// configuration with configFrom.
func RootCmd() *cobra.Command {
	var cwd string

	cmd := &cobra.Command{
		Use:   "kuocli",
		Short: "Idempotent workspace recipes for Nx monorepos",
		Long: `kuocli applies opinionated tooling recipes to an Nx workspace.

Recipes merge into the existing configuration instead of replacing it, so
running one twice leaves the workspace unchanged:
  codelint  prettier, lint-staged, ESLint import rules and editor settings
  gitlint   commitlint, commitizen, git hooks and git-flow
  init      a new library project`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cwd, cmd.Flags())
			if err != nil {
				return err
			}

			output.SetVerbose(cfg.Verbose)
			logger.SetDefault(logger.NewWithOptions(logger.Options{
				Level: cfg.Level(),
				Out:   os.Stderr,
				Color: term.IsTerminal(int(os.Stderr.Fd())),
			}))
			logger.Debug("configuration loaded", logger.F("root", cfg.Root), logger.F("file", cfg.File))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable verbose output for debugging")
	flags.Bool("dry-run", false, "Show the changes without writing them or running commands")
	flags.StringVar(&cwd, "cwd", ".", "Workspace root")
	flags.Bool("skip-install", false, "Do not install packages after the recipe")
	flags.Bool("skip-format", false, "Do not format the changed JSON files")
	flags.Bool("interactive", false, "Ask before replacing files with different content")
	flags.String("on-conflict", generator.StrategyOverwrite, "What to do with existing files: overwrite, skip or prompt")
	flags.String("package-manager", "", "Package manager to use: npm, yarn, pnpm or bun")
	flags.String("log-level", "warn", "Diagnostic log level: debug, info, warn, error or silent")

	return cmd
}

// NewApp returns the root command with every recipe registered.
func NewApp() *cobra.Command {
	root := RootCmd()
	root.AddCommand(CodelintCmd())
	root.AddCommand(GitlintCmd())
	root.AddCommand(InitCmd())
	return root
}

// Execute runs the CLI, printing any error.
func Execute() error {
	if err := NewApp().Execute(); err != nil {
		output.Error(err.Error())
		return err
	}
	return nil
}

var errNoConfig = errors.New("configuration not loaded")

func configFrom(cmd *cobra.Command) (*config.Config, error) {
	if ctx := cmd.Context(); ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg, nil
		}
	}
	return nil, errNoConfig
}
