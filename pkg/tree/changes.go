package tree

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/go-git/go-billy/v5"

	"github.com/RicardoJBarrios/kuocli/pkg/generator"
)

// ChangeType classifies a pending change.
type ChangeType int

const (
	Create ChangeType = iota
	Update
	Delete
)

func (c ChangeType) String() string {
	switch c {
	case Create:
		return "CREATE"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	}
	return "UNKNOWN"
}

// FileChange is one entry of the change set.
type FileChange struct {
	Path    string
	Type    ChangeType
	Content []byte
	Mode    fs.FileMode

	// ModeOnly is set on updates whose content matches the base.
	ModeOnly bool
}

// Changes returns the effective changes in the order their paths were first
// touched. Writing a file back to its original content is not a change and
// creating then deleting a file cancels out.
func (t *Tree) Changes() []FileChange {
	t.mu.RLock()
	defer t.mu.RUnlock()

	changes := make([]FileChange, 0, len(t.order))
	for _, p := range t.order {
		e := t.entries[p]
		baseContent, baseMode, err := t.readBase(p)
		inBase := err == nil

		switch {
		case e.deleted:
			if inBase {
				changes = append(changes, FileChange{Path: p, Type: Delete})
			}
		case !inBase:
			mode := DefaultFileMode
			if e.modeSet {
				mode = e.mode
			}
			changes = append(changes, FileChange{Path: p, Type: Create, Content: bytes.Clone(e.content), Mode: mode})
		default:
			mode := baseMode
			if e.modeSet {
				mode = e.mode
			}
			if bytes.Equal(baseContent, e.content) && mode == baseMode {
				continue
			}
			changes = append(changes, FileChange{
				Path:     p,
				Type:     Update,
				Content:  bytes.Clone(e.content),
				Mode:     mode,
				ModeOnly: bytes.Equal(baseContent, e.content),
			})
		}
	}
	return changes
}

// Changed reports whether path has an effective change.
func (t *Tree) Changed(p string) bool {
	cp, err := Clean(p)
	if err != nil {
		return false
	}
	for _, c := range t.Changes() {
		if c.Path == cp {
			return true
		}
	}
	return false
}

// CommitOptions configures Commit.
type CommitOptions struct {
	DryRun bool
	Writer io.Writer // Where operation lines are written (defaults to io.Discard)
}

// Operations converts the change set into generator operations on target.
// Mode-only updates become a chmod when target supports it and a rewrite
// otherwise.
func (t *Tree) Operations(target billy.Filesystem) []generator.Operation {
	_, canChmod := target.(billy.Change)

	var ops []generator.Operation
	for _, c := range t.Changes() {
		switch {
		case c.Type == Delete:
			ops = append(ops, &generator.DeleteFileOp{FS: target, Path: c.Path})
		case c.ModeOnly && canChmod:
			ops = append(ops, &generator.ChmodOp{FS: target, Path: c.Path, Mode: c.Mode})
		default:
			ops = append(ops, &generator.WriteFileOp{FS: target, Path: c.Path, Content: c.Content, Mode: c.Mode})
		}
	}
	return ops
}

// Commit applies the change set to target. On failure every file already
// written is restored. After a successful commit the tree reads from target
// and has no pending changes.
func (t *Tree) Commit(ctx context.Context, target billy.Filesystem, opts CommitOptions) error {
	if target == nil {
		return errors.New("commit: nil target filesystem")
	}
	w := opts.Writer
	if w == nil {
		w = io.Discard
	}

	ops := t.Operations(target)
	if len(ops) == 0 {
		return nil
	}

	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: opts.DryRun, Force: true, Writer: w}); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if opts.DryRun {
		return nil
	}

	t.mu.Lock()
	t.base = target
	t.entries = make(map[string]*entry)
	t.order = nil
	t.mu.Unlock()
	return nil
}
