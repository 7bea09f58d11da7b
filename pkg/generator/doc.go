// Package generator applies file operations to a billy.Filesystem with
// validation, dry-run reporting and rollback, and renders the templates that
// recipes ship.
//
// # Operations
//
// Every change is an Operation. Execute validates all of them first and then
// runs them inside a Transaction:
//
//	ops := []generator.Operation{
//		&generator.WriteFileOp{FS: fsys, Path: ".prettierrc", Content: data, Mode: 0o644},
//		&generator.ChmodOp{FS: fsys, Path: ".husky/pre-commit", Mode: 0o755},
//	}
//	err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: dryRun})
//
// If any operation fails, every file touched so far is restored to the
// content and mode it had before Execute started.
//
// # Conflicts
//
// A Resolver decides what happens when a rendered file would replace a file
// with different content: overwrite it, keep it, or show a diff and ask.
package generator
