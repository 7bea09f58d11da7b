package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Operation represents a file system operation that can be validated and executed.
//
// Validate checks if the operation would succeed without executing it.
// force=true skips conflict checks (e.g., file already exists).
//
// Execute performs the actual operation. This should only be called after Validate succeeds.
//
// Description returns a human-readable description for output (e.g., "Create .prettierrc (34 bytes)").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// Target is implemented by operations that modify a single path, so that a
// Transaction can snapshot it before execution.
type Target interface {
	Target() (billy.Filesystem, string)
}

// WriteFileOp creates or replaces a file.
//
// Validation behavior:
//   - Checks for file conflicts unless force=true
//   - Allows empty content (zero bytes) but rejects nil content
//
// Execution behavior:
//   - Creates parent directories if needed
//   - Writes the file and applies Mode, also when the file already existed
type WriteFileOp struct {
	FS      billy.Filesystem
	Path    string      // Path relative to the filesystem root
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)

	existed bool
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	info, err := op.FS.Stat(op.Path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("path is a directory: %s", op.Path)
	case err == nil:
		op.existed = true
		if !force {
			return fmt.Errorf("file already exists: %s", op.Path)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("cannot stat %s: %w", op.Path, err)
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := path.Dir(op.Path); dir != "." {
		if err := op.FS.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}

	mode := op.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := util.WriteFile(op.FS, op.Path, op.Content, mode); err != nil {
		return err
	}
	return chmod(op.FS, op.Path, mode)
}

func (op *WriteFileOp) Description() string {
	verb := "Create"
	if op.existed {
		verb = "Update"
	}
	return fmt.Sprintf("%s %s (%d bytes)", verb, op.Path, len(op.Content))
}

func (op *WriteFileOp) Target() (billy.Filesystem, string) { return op.FS, op.Path }

// DeleteFileOp removes a file. A file that is already gone is not an error.
type DeleteFileOp struct {
	FS   billy.Filesystem
	Path string
}

func (op *DeleteFileOp) Validate(ctx context.Context, force bool) error {
	info, err := op.FS.Stat(op.Path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("refusing to delete directory: %s", op.Path)
	}
	return nil
}

func (op *DeleteFileOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := op.FS.Remove(op.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (op *DeleteFileOp) Description() string {
	return fmt.Sprintf("Delete %s", op.Path)
}

func (op *DeleteFileOp) Target() (billy.Filesystem, string) { return op.FS, op.Path }

// ChmodOp changes the permissions of an existing file.
type ChmodOp struct {
	FS   billy.Filesystem
	Path string
	Mode fs.FileMode
}

func (op *ChmodOp) Validate(ctx context.Context, force bool) error {
	if _, ok := op.FS.(billy.Change); !ok {
		return fmt.Errorf("filesystem does not support permission changes: %s", op.Path)
	}
	return nil
}

func (op *ChmodOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chmod(op.FS, op.Path, op.Mode)
}

func (op *ChmodOp) Description() string {
	return fmt.Sprintf("Chmod %s %#o", op.Path, op.Mode.Perm())
}

func (op *ChmodOp) Target() (billy.Filesystem, string) { return op.FS, op.Path }

func chmod(fsys billy.Filesystem, name string, mode fs.FileMode) error {
	ch, ok := fsys.(billy.Change)
	if !ok {
		return nil
	}
	return ch.Chmod(name, mode.Perm())
}
