package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Transaction records the state of every file before it is modified so that
// a failed run can be undone.
type Transaction struct {
	snapshots []snapshot
	seen      map[string]bool
	committed bool
}

// snapshot is the pre-transaction state of a single path
type snapshot struct {
	fs      billy.Filesystem
	path    string
	existed bool
	content []byte
	mode    fs.FileMode
}

// NewTransaction creates an empty transaction
func NewTransaction() *Transaction {
	return &Transaction{seen: make(map[string]bool)}
}

// Snapshot records the current state of path. Only the first snapshot of a
// path is kept.
func (t *Transaction) Snapshot(fsys billy.Filesystem, path string) error {
	key := fmt.Sprintf("%p:%s", fsys, path)
	if t.seen[key] {
		return nil
	}

	s := snapshot{fs: fsys, path: path}
	info, err := fsys.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		content, err := util.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("snapshot %s: %w", path, err)
		}
		s.existed = true
		s.content = content
		s.mode = info.Mode().Perm()
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("snapshot %s: %w", path, err)
	}

	t.seen[key] = true
	t.snapshots = append(t.snapshots, s)
	return nil
}

// Commit marks the transaction as successful. Rollback becomes a no-op.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}
	t.committed = true
	return nil
}

// Rollback restores every snapshotted path, newest first. It is safe to defer.
func (t *Transaction) Rollback() error {
	if t.committed {
		return nil
	}

	var errs []error
	for i := len(t.snapshots) - 1; i >= 0; i-- {
		s := t.snapshots[i]
		if !s.existed {
			if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if err := util.WriteFile(s.fs, s.path, s.content, s.mode); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := chmod(s.fs, s.path, s.mode); err != nil {
			errs = append(errs, err)
		}
	}

	t.committed = true
	return errors.Join(errs...)
}
