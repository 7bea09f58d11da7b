package exec

import (
	"context"
	"fmt"
)

// PackageManager is a JavaScript package manager binary.
type PackageManager string

const (
	NPM  PackageManager = "npm"
	Yarn PackageManager = "yarn"
	PNPM PackageManager = "pnpm"
	Bun  PackageManager = "bun"
)

// PackageManagers lists the supported managers.
var PackageManagers = []PackageManager{NPM, Yarn, PNPM, Bun}

// Valid reports whether pm is a supported manager.
func (pm PackageManager) Valid() bool {
	for _, known := range PackageManagers {
		if pm == known {
			return true
		}
	}
	return false
}

// AuditCommand is the command line that checks installed packages for known
// vulnerabilities.
func (pm PackageManager) AuditCommand() string {
	switch pm {
	case Yarn:
		return "yarn audit --level high"
	case PNPM:
		return "pnpm audit --audit-level high"
	case Bun:
		return "bun audit --audit-level=high"
	}
	return "npm audit --audit-level=high"
}

// InstallCommandName is the registry name of pm's install wrapper.
func InstallCommandName(pm PackageManager) string {
	return "install:" + string(pm)
}

// InstallCommand runs "<pm> install".
type InstallCommand struct {
	Manager PackageManager
}

func (c InstallCommand) Name() string { return InstallCommandName(c.Manager) }

func (c InstallCommand) Description() string {
	return fmt.Sprintf("Install workspace packages with %s", c.Manager)
}

func (c InstallCommand) Execute(ctx context.Context, e *Executor) error {
	return e.RunWithSpinner(ctx, "Installing packages with "+string(c.Manager), string(c.Manager), "install")
}

// NewPackageRegistry returns a registry with an install wrapper for every
// supported package manager.
func NewPackageRegistry() *CommandRegistry {
	r := NewCommandRegistry()
	for _, pm := range PackageManagers {
		// names are unique, Register cannot fail here
		_ = r.Register(InstallCommand{Manager: pm})
	}
	return r
}
