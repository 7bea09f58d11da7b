package generator

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun bool
	Force  bool
	Writer io.Writer // Where to write output (defaults to os.Stdout)
}

// Execute validates every operation and then runs them in order. Nothing is
// executed when a validation fails. When an operation fails, the changes of
// the operations that already ran are rolled back.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	// Phase 1: Validate all operations
	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	if opts.DryRun {
		for _, op := range ops {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
		}
		return nil
	}

	// Phase 2: Execute inside a transaction
	tx := NewTransaction()
	for _, op := range ops {
		if target, ok := op.(Target); ok {
			fsys, path := target.Target()
			if err := tx.Snapshot(fsys, path); err != nil {
				return rollback(tx, err)
			}
		}
		if err := op.Execute(ctx); err != nil {
			return rollback(tx, fmt.Errorf("execution failed: %s: %w", op.Description(), err))
		}
		fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
	}

	return tx.Commit()
}

func rollback(tx *Transaction, cause error) error {
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("%w (rollback failed: %v)", cause, err)
	}
	return cause
}
