package filesystem

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// DefaultIgnoreDirs are common directories to skip during traversal
var DefaultIgnoreDirs = []string{
	"node_modules", ".git", ".svn", ".hg",
	"dist", "build", "coverage", "tmp",
	".nx", ".angular", ".idea", ".vscode",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directory names to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // Doublestar patterns matched against the base name and the relative path
	IncludeHidden  bool     // Include hidden files/dirs (default: false)
}

// Walk traverses root inside fsys with configurable ignore rules.
// The visitor function is called for each file and directory.
// Return filepath.SkipDir from visitor to skip a directory.
// A missing root is not an error.
func Walk(fsys billy.Filesystem, root string, opts WalkOptions, visitor func(path string, info os.FileInfo) error) error {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	start := Clean(root)
	walkRoot := "/" + start

	return util.Walk(fsys, walkRoot, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if p == walkRoot && errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}

		rel := Clean(p)
		if rel == start {
			return visitor(rel, info)
		}

		if !opts.IncludeHidden && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			for _, ignore := range ignoreDirs {
				if info.Name() == ignore {
					return filepath.SkipDir
				}
			}
			return visitor(rel, info)
		}

		if Ignored(rel, opts.IgnorePatterns) {
			return nil
		}
		return visitor(rel, info)
	})
}

// WalkWithDefaults walks a directory tree with default ignore patterns.
func WalkWithDefaults(fsys billy.Filesystem, root string, visitor func(path string, info os.FileInfo) error) error {
	return Walk(fsys, root, WalkOptions{}, visitor)
}

// Ignored reports whether rel matches any pattern, either as a whole path or
// by its base name.
func Ignored(rel string, patterns []string) bool {
	name := path.Base(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Clean normalizes p to a slash-separated path relative to the filesystem
// root. The root itself is "".
func Clean(p string) string {
	p = path.Clean("/" + filepath.ToSlash(p))
	return strings.TrimPrefix(p, "/")
}
