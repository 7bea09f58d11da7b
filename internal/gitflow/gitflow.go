// Package gitflow prepares a repository for git-flow.
//
// Repository state (configuration and worktree status) is read with go-git.
// Steps that only the git and git-flow binaries can perform go through a
// Runner, which pkg/exec.Executor satisfies.
package gitflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	"github.com/RicardoJBarrios/kuocli/pkg/logger"
)

// DefaultHooksPath is where git-flow looks for hooks after Init.
const DefaultHooksPath = ".husky"

// ErrNotInstalled is returned when "git flow version" fails.
var ErrNotInstalled = errors.New("git-flow is not installed")

// Runner runs external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Gitflow works on the repository containing root.
type Gitflow struct {
	root   string
	runner Runner
}

// New creates a Gitflow for the repository containing root.
func New(root string, runner Runner) *Gitflow {
	return &Gitflow{root: root, runner: runner}
}

func (g *Gitflow) open() (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(g.root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s is not a git repository", g.root)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}
	return repo, nil
}

// Initialized reports whether gitflow.branch.master is configured.
func (g *Gitflow) Initialized() (bool, error) {
	repo, err := g.open()
	if err != nil {
		return false, err
	}
	cfg, err := repo.Config()
	if err != nil {
		return false, fmt.Errorf("read git config: %w", err)
	}
	return cfg.Raw.Section("gitflow").Subsection("branch").Option("master") != "", nil
}

// SetHooksPath sets gitflow.path.hooks in the repository configuration.
func (g *Gitflow) SetHooksPath(path string) error {
	repo, err := g.open()
	if err != nil {
		return err
	}
	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("read git config: %w", err)
	}
	cfg.Raw.Section("gitflow").Subsection("path").SetOption("hooks", path)
	if err := repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("write git config: %w", err)
	}
	return nil
}

// Dirty reports whether tracked files have uncommitted changes. Untracked
// files are ignored since "git stash" leaves them in place.
func (g *Gitflow) Dirty() (bool, error) {
	repo, err := g.open()
	if err != nil {
		return false, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("worktree status: %w", err)
	}
	for _, fs := range status {
		if fs.Staging == git.Untracked && fs.Worktree == git.Untracked {
			continue
		}
		if fs.Staging != git.Unmodified || fs.Worktree != git.Unmodified {
			return true, nil
		}
	}
	return false, nil
}

// Init initializes git-flow with default branch names and points its hooks
// to DefaultHooksPath. Local changes are stashed while git-flow runs. It
// returns false when git-flow was already initialized.
func (g *Gitflow) Init(ctx context.Context) (bool, error) {
	if err := g.runner.Run(ctx, "git", "flow", "version"); err != nil {
		return false, fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}

	initialized, err := g.Initialized()
	if err != nil {
		return false, err
	}
	if initialized {
		logger.Info("gitflow is already initialized", logger.F("root", g.root))
		return false, nil
	}

	dirty, err := g.Dirty()
	if err != nil {
		return false, err
	}
	if dirty {
		if err := g.runner.Run(ctx, "git", "stash"); err != nil {
			return false, fmt.Errorf("stash local changes: %w", err)
		}
	}

	initErr := g.runner.Run(ctx, "git", "flow", "init", "-d")
	if initErr == nil {
		initErr = g.SetHooksPath(DefaultHooksPath)
	}

	if dirty {
		if err := g.runner.Run(ctx, "git", "stash", "pop"); err != nil {
			return false, errors.Join(initErr, fmt.Errorf("restore local changes: %w", err))
		}
	}
	if initErr != nil {
		return false, fmt.Errorf("git flow init: %w", initErr)
	}

	logger.Info("gitflow initialized", logger.F("root", g.root))
	return true, nil
}
