package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFS(t *testing.T, files ...string) billy.Filesystem {
	t.Helper()
	fsys := memfs.New()
	for _, f := range files {
		require.NoError(t, util.WriteFile(fsys, f, []byte("test"), 0o644))
	}
	return fsys
}

func collectFiles(t *testing.T, fsys billy.Filesystem, root string, opts WalkOptions) []string {
	t.Helper()
	var files []string
	err := Walk(fsys, root, opts, func(path string, info os.FileInfo) error {
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	return files
}

func TestWalk_BasicTraversal(t *testing.T) {
	fsys := newFS(t, "file1.txt", "dir1/file2.txt", "dir1/subdir/file3.txt")

	files := collectFiles(t, fsys, "", WalkOptions{IgnoreDirs: []string{}})

	assert.ElementsMatch(t, []string{"file1.txt", "dir1/file2.txt", "dir1/subdir/file3.txt"}, files)
}

func TestWalk_IgnoreDefaults(t *testing.T) {
	fsys := newFS(t,
		"node_modules/pkg/package.json",
		"dist/libs/a/index.js",
		".git/config",
		"libs/a/project.json",
	)

	var files []string
	err := WalkWithDefaults(fsys, "", func(path string, info os.FileInfo) error {
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"libs/a/project.json"}, files)
}

func TestWalk_HiddenFiles(t *testing.T) {
	fsys := newFS(t, ".husky/pre-commit", ".prettierrc", "package.json")

	assert.Equal(t, []string{"package.json"}, collectFiles(t, fsys, "", WalkOptions{}))

	withHidden := collectFiles(t, fsys, "", WalkOptions{IncludeHidden: true, IgnoreDirs: []string{}})
	assert.ElementsMatch(t, []string{".husky/pre-commit", ".prettierrc", "package.json"}, withHidden)
}

func TestWalk_IgnorePatterns(t *testing.T) {
	fsys := newFS(t, "src/index.ts", "src/index.spec.ts", "src/deep/util.spec.ts", "README.md")

	files := collectFiles(t, fsys, "", WalkOptions{IgnorePatterns: []string{"**/*.spec.ts", "*.md"}})

	assert.Equal(t, []string{"src/index.ts"}, files)
}

func TestWalk_Subdirectory(t *testing.T) {
	fsys := newFS(t, "apps/web/project.json", "libs/ui/project.json")

	assert.Equal(t, []string{"libs/ui/project.json"}, collectFiles(t, fsys, "libs", WalkOptions{}))
}

func TestWalk_MissingRoot(t *testing.T) {
	fsys := newFS(t, "a.txt")

	assert.Empty(t, collectFiles(t, fsys, "missing", WalkOptions{}))
}

func TestWalk_SkipDir(t *testing.T) {
	fsys := newFS(t, "keep/a.txt", "skip/b.txt")

	var files []string
	err := Walk(fsys, "", WalkOptions{}, func(path string, info os.FileInfo) error {
		if info.IsDir() && path == "skip" {
			return filepath.SkipDir
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"keep/a.txt"}, files)
}

func TestClean(t *testing.T) {
	tests := map[string]string{
		"":              "",
		".":             "",
		"/":             "",
		"./libs/a":      "libs/a",
		"libs//a/":      "libs/a",
		"/abs/path":     "abs/path",
		"a/../b":        "b",
		"libs/./a/b.ts": "libs/a/b.ts",
	}

	for in, want := range tests {
		assert.Equal(t, want, Clean(in), "Clean(%q)", in)
	}
}
