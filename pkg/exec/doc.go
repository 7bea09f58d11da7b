// Package exec runs the external tools a recipe hands over to: the package
// manager and git-flow.
//
// An Executor wraps os/exec with a working directory, extra environment,
// dry-run support, a spinner for long-running commands and a hint when the
// binary is missing:
//
//	e := exec.NewExecutor(&exec.Options{Dir: root})
//	err := e.RunWithSpinner(ctx, "Installing packages", "npm", "install")
//
// Named wrappers are kept in a CommandRegistry so that callers can look
// them up by name, e.g. "install:pnpm".
package exec
