// Package tree is the workspace file store recipes write to.
//
// A Tree records every write, delete and permission change in memory on top of
// a read-only base filesystem. Nothing touches the base until Commit, which
// makes dry runs and rollbacks straightforward:
//
//	t := tree.New(osfs.New(root))
//	_ = t.Write(".prettierrc", []byte("{}"))
//	for _, c := range t.Changes() {
//		fmt.Println(c.Type, c.Path)
//	}
//	err := t.Commit(ctx, osfs.New(root), tree.CommitOptions{DryRun: dryRun})
package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/RicardoJBarrios/kuocli/pkg/filesystem"
)

// DefaultFileMode is applied to files created without WithMode.
const DefaultFileMode fs.FileMode = 0o644

// ErrOutsideRoot is returned for paths that escape the workspace root.
var ErrOutsideRoot = errors.New("path escapes workspace root")

// Store is the file access recipes and helpers depend on.
type Store interface {
	Read(path string) ([]byte, error)
	Write(path string, content []byte, opts ...WriteOption) error
	Exists(path string) bool
	Delete(path string) error
	ChangePermissions(path string, mode fs.FileMode) error
}

// WriteOption customizes a Write.
type WriteOption func(*entry)

// WithMode sets the permissions of the written file.
func WithMode(mode fs.FileMode) WriteOption {
	return func(e *entry) {
		e.mode = mode.Perm()
		e.modeSet = true
	}
}

// entry is the pending state of one path
type entry struct {
	content []byte
	mode    fs.FileMode
	modeSet bool
	deleted bool
}

// Tree is an in-memory change set over a base filesystem.
type Tree struct {
	mu      sync.RWMutex
	base    billy.Filesystem
	entries map[string]*entry
	order   []string
}

var _ Store = (*Tree)(nil)

// New creates a tree over base.
func New(base billy.Filesystem) *Tree {
	return &Tree{base: base, entries: make(map[string]*entry)}
}

// NewOS creates a tree over the directory root on disk.
func NewOS(root string) *Tree {
	return New(osfs.New(root))
}

// NewMemory creates a tree over an empty in-memory filesystem.
func NewMemory() *Tree {
	return New(memfs.New())
}

// Base returns the filesystem the tree reads from.
func (t *Tree) Base() billy.Filesystem {
	return t.base
}

// Root returns the base filesystem root, "/" for in-memory trees.
func (t *Tree) Root() string {
	return t.base.Root()
}

// Clean validates p and returns it as a slash-separated path relative to the
// workspace root. The root itself is rejected.
func Clean(p string) (string, error) {
	slashed := strings.ReplaceAll(p, "\\", "/")
	if path.IsAbs(slashed) {
		slashed = strings.TrimLeft(slashed, "/")
	}
	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
	}
	if cleaned == "." || cleaned == "" {
		return "", fmt.Errorf("invalid path %q", p)
	}
	return cleaned, nil
}

// Read returns the current content of path.
func (t *Tree) Read(p string) ([]byte, error) {
	cp, err := Clean(p)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	e, ok := t.entries[cp]
	t.mu.RUnlock()

	if ok {
		if e.deleted {
			return nil, &fs.PathError{Op: "read", Path: cp, Err: fs.ErrNotExist}
		}
		return bytes.Clone(e.content), nil
	}

	content, _, err := t.readBase(cp)
	if err != nil {
		return nil, err
	}
	return content, nil
}

// Exists reports whether path is a file in the current state.
func (t *Tree) Exists(p string) bool {
	cp, err := Clean(p)
	if err != nil {
		return false
	}

	t.mu.RLock()
	e, ok := t.entries[cp]
	t.mu.RUnlock()
	if ok {
		return !e.deleted
	}

	info, err := t.base.Stat(cp)
	return err == nil && !info.IsDir()
}

// Write stores content at path. An existing file keeps its mode unless
// WithMode is given.
func (t *Tree) Write(p string, content []byte, opts ...WriteOption) error {
	cp, err := Clean(p)
	if err != nil {
		return err
	}
	if content == nil {
		content = []byte{}
	}

	if info, err := t.base.Stat(cp); err == nil && info.IsDir() {
		return fmt.Errorf("cannot write %s: is a directory", cp)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := &entry{content: bytes.Clone(content)}
	if prev, ok := t.entries[cp]; ok && !prev.deleted {
		e.mode, e.modeSet = prev.mode, prev.modeSet
	}
	for _, opt := range opts {
		opt(e)
	}
	t.put(cp, e)
	return nil
}

// Delete removes path. Deleting a missing file is a no-op.
func (t *Tree) Delete(p string) error {
	cp, err := Clean(p)
	if err != nil {
		return err
	}
	if !t.Exists(cp) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.put(cp, &entry{deleted: true})
	return nil
}

// ChangePermissions sets the mode of an existing file.
func (t *Tree) ChangePermissions(p string, mode fs.FileMode) error {
	cp, err := Clean(p)
	if err != nil {
		return err
	}

	content, err := t.Read(cp)
	if err != nil {
		return fmt.Errorf("chmod %s: %w", cp, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.put(cp, &entry{content: content, mode: mode.Perm(), modeSet: true})
	return nil
}

func (t *Tree) put(cp string, e *entry) {
	if _, seen := t.entries[cp]; !seen {
		t.order = append(t.order, cp)
	}
	t.entries[cp] = e
}

func (t *Tree) readBase(cp string) ([]byte, fs.FileMode, error) {
	info, err := t.base.Stat(cp)
	if err != nil {
		return nil, 0, err
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("read %s: is a directory", cp)
	}
	content, err := util.ReadFile(t.base, cp)
	if err != nil {
		return nil, 0, err
	}
	return content, info.Mode().Perm(), nil
}

// Files returns the sorted files below dir ("" for the whole workspace) in
// the current state. node_modules and .git are skipped.
func (t *Tree) Files(dir string) ([]string, error) {
	return t.FilesWithOptions(dir, filesystem.WalkOptions{
		IncludeHidden: true,
		IgnoreDirs:    []string{"node_modules", ".git"},
	})
}

// FilesWithOptions is Files with custom traversal rules.
func (t *Tree) FilesWithOptions(dir string, opts filesystem.WalkOptions) ([]string, error) {
	prefix := filesystem.Clean(dir)

	set := make(map[string]bool)
	err := filesystem.Walk(t.base, prefix, opts, func(p string, info os.FileInfo) error {
		if !info.IsDir() {
			set[p] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	t.mu.RLock()
	for p, e := range t.entries {
		switch {
		case e.deleted:
			delete(set, p)
		case under(p, prefix) && visible(p, prefix, opts):
			set[p] = true
		}
	}
	t.mu.RUnlock()

	files := make([]string, 0, len(set))
	for p := range set {
		files = append(files, p)
	}
	sort.Strings(files)
	return files, nil
}

// Glob returns the files in the current state matching a doublestar pattern.
func (t *Tree) Glob(pattern string) ([]string, error) {
	all, err := t.Files("")
	if err != nil {
		return nil, err
	}
	var matches []string
	for _, p := range all {
		if filesystem.Ignored(p, []string{pattern}) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func under(p, prefix string) bool {
	return prefix == "" || p == prefix || strings.HasPrefix(p, prefix+"/")
}

// visible applies the walk rules to a pending path.
func visible(p, prefix string, opts filesystem.WalkOptions) bool {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = filesystem.DefaultIgnoreDirs
	}

	rel := strings.TrimPrefix(strings.TrimPrefix(p, prefix), "/")
	parts := strings.Split(rel, "/")
	for i, part := range parts {
		if !opts.IncludeHidden && strings.HasPrefix(part, ".") {
			return false
		}
		if i < len(parts)-1 {
			for _, d := range ignoreDirs {
				if part == d {
					return false
				}
			}
		}
	}
	return !filesystem.Ignored(p, opts.IgnorePatterns)
}
