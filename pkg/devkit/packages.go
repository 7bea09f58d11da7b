package devkit

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-git/go-billy/v5/util"

	"github.com/RicardoJBarrios/kuocli/pkg/exec"
	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

var lockfiles = []struct {
	name    string
	manager exec.PackageManager
}{
	{"yarn.lock", exec.Yarn},
	{"pnpm-lock.yaml", exec.PNPM},
	{"bun.lockb", exec.Bun},
	{"bun.lock", exec.Bun},
	{"package-lock.json", exec.NPM},
}

// DetectPackageManager returns override when it names a supported package
// manager, otherwise the manager whose lockfile is in the workspace root. It
// defaults to npm.
func DetectPackageManager(t tree.Store, override string) exec.PackageManager {
	if pm := exec.PackageManager(override); pm.Valid() {
		return pm
	}
	if override != "" {
		logger.Warn("ignoring unknown package manager", logger.F("package_manager", override))
	}
	for _, lf := range lockfiles {
		if t.Exists(lf.name) {
			return lf.manager
		}
	}
	return exec.NPM
}

// InstallPackagesTask returns a callback that runs "<pm> install" when
// package.json differs from its content at the time the task was created.
// alwaysRun installs regardless. An empty pm is detected from lockfiles when
// the callback runs.
func InstallPackagesTask(t *tree.Tree, pm exec.PackageManager, alwaysRun bool) Callback {
	before, _ := util.ReadFile(t.Base(), PackageJSON)

	return func(ctx context.Context, e *exec.Executor) error {
		now, err := t.Read(PackageJSON)
		if err != nil && !alwaysRun {
			return nil
		}
		if !alwaysRun && bytes.Equal(before, now) {
			logger.Debug("package.json unchanged, skipping install")
			return nil
		}

		manager := pm
		if manager == "" {
			manager = DetectPackageManager(t, "")
		}
		if err := exec.NewPackageRegistry().Execute(ctx, exec.InstallCommandName(manager), e); err != nil {
			return fmt.Errorf("install packages: %w", err)
		}
		return nil
	}
}
