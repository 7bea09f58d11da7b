package devkit

import (
	"fmt"
	"path"
	"strings"

	"github.com/RicardoJBarrios/kuocli/pkg/logger"
	"github.com/RicardoJBarrios/kuocli/pkg/textutil"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// HuskyDir is where git hooks live in the workspace.
const HuskyDir = ".husky"

// HuskyPreamble starts every hook file created by UpsertHuskyHook.
const HuskyPreamble = "#!/bin/sh\n. \"$(dirname \"$0\")/_/husky.sh\"\n"

// HookPath returns the workspace path of a husky hook.
func HookPath(hook string) string {
	return path.Join(HuskyDir, hook)
}

// UpsertHuskyHook appends commands to the husky hook file, creating it as an
// executable script when missing.
//
// Commands already present in the file as a whole token are dropped. The
// rest are appended in order on their own lines, after a line break. Repeated
// commands inside one call are all appended.
func UpsertHuskyHook(t tree.Store, hook string, commands ...string) error {
	hookPath := HookPath(hook)

	content := HuskyPreamble
	if t.Exists(hookPath) {
		data, err := t.Read(hookPath)
		if err != nil {
			return fmt.Errorf("read hook %s: %w", hookPath, err)
		}
		content = string(data)
	} else {
		if err := t.Write(hookPath, []byte(content), tree.WithMode(0o755)); err != nil {
			return fmt.Errorf("create hook %s: %w", hookPath, err)
		}
	}

	var missing []string
	for _, cmd := range commands {
		if !textutil.ContainsToken(content, cmd) {
			missing = append(missing, cmd)
		}
	}
	if len(missing) == 0 {
		logger.Debug("hook already up to date", logger.F("hook", hook))
		return nil
	}

	updated := content + "\n" + strings.Join(missing, "\n")
	if err := t.Write(hookPath, []byte(updated)); err != nil {
		return fmt.Errorf("update hook %s: %w", hookPath, err)
	}
	return nil
}
