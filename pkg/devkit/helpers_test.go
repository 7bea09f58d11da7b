package devkit_test

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

// newTree returns a tree over an in-memory workspace holding files.
func newTree(t *testing.T, files map[string]string) *tree.Tree {
	t.Helper()
	base := memfs.New()
	for p, content := range files {
		require.NoError(t, util.WriteFile(base, p, []byte(content), 0o644))
	}
	return tree.New(base)
}

func read(t *testing.T, tr tree.Store, p string) string {
	t.Helper()
	data, err := tr.Read(p)
	require.NoError(t, err)
	return string(data)
}

func readJSON(t *testing.T, tr tree.Store, p string) *jsondoc.Object {
	t.Helper()
	doc, err := jsondoc.Parse([]byte(read(t, tr, p)))
	require.NoError(t, err)
	return doc
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := jsondoc.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func obj(t *testing.T, s string) *jsondoc.Object {
	t.Helper()
	doc, err := jsondoc.Parse([]byte(s))
	require.NoError(t, err)
	return doc
}
