package gitlint

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicardoJBarrios/kuocli/internal/generators/shared"
	"github.com/RicardoJBarrios/kuocli/pkg/devkit"
	"github.com/RicardoJBarrios/kuocli/pkg/jsondoc"
	"github.com/RicardoJBarrios/kuocli/pkg/tree"
)

type fakeGitflow struct {
	calls int
	err   error
}

func (f *fakeGitflow) Init(context.Context) (bool, error) {
	f.calls++
	return f.err == nil, f.err
}

func workspace() map[string]string {
	return map[string]string{
		"package.json":           `{"name":"ws"}`,
		"apps/app1/project.json": `{"name":"app1","projectType":"application"}`,
		"libs/lib1/project.json": `{"name":"lib1","projectType":"library"}`,
	}
}

func newTree(t *testing.T, files map[string]string) *tree.Tree {
	t.Helper()
	base := memfs.New()
	for p, content := range files {
		require.NoError(t, util.WriteFile(base, p, []byte(content), 0o644))
	}
	return tree.New(base)
}

func readJSON(t *testing.T, tr *tree.Tree, p string) *jsondoc.Object {
	t.Helper()
	data, err := tr.Read(p)
	require.NoError(t, err)
	doc, err := jsondoc.Parse(data)
	require.NoError(t, err)
	return doc
}

func read(t *testing.T, tr *tree.Tree, p string) string {
	t.Helper()
	data, err := tr.Read(p)
	require.NoError(t, err)
	return string(data)
}

func commitScopes(t *testing.T, tr *tree.Tree) any {
	t.Helper()
	rules, ok := jsondoc.Get(readJSON(t, tr, ".commitlintrc"), "rules")
	require.True(t, ok)
	rule, ok := rules.(*jsondoc.Object).Get("scope-enum")
	require.True(t, ok)
	arr, ok := jsondoc.AsArray(rule)
	require.True(t, ok)
	require.Len(t, arr, 3)
	return arr[2]
}

func generate(t *testing.T, tr *tree.Tree, deps shared.Deps, opts Options) {
	t.Helper()
	task, err := New(deps).Generate(context.Background(), tr, opts)
	require.NoError(t, err)
	require.NotNil(t, task)
}

func TestScopes(t *testing.T) {
	tr := newTree(t, workspace())

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"all", Options{Scopes: "test1", AppScopes: true, LibScopes: true}, []string{"test1", "app1", "lib1"}},
		{"messy list", Options{Scopes: " test1 ,, ,", AppScopes: true, LibScopes: true}, []string{"test1", "app1", "lib1"}},
		{"apps only", Options{AppScopes: true}, []string{"app1"}},
		{"libs only", Options{LibScopes: true}, []string{"lib1"}},
		{"none", Options{}, []string{}},
		{"duplicates", Options{Scopes: "app1,lib1", AppScopes: true, LibScopes: true}, []string{"app1", "lib1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scopes(tr, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_Commitlint(t *testing.T) {
	tr := newTree(t, workspace())

	generate(t, tr, shared.Deps{}, Options{Scopes: "test1", AppScopes: true, LibScopes: true})

	assert.Equal(t, []any{"test1", "app1", "lib1"}, commitScopes(t, tr))
	extends, ok := jsondoc.Get(readJSON(t, tr, ".commitlintrc"), "extends")
	require.True(t, ok)
	assert.Equal(t, []any{"@commitlint/config-conventional"}, extends)

	path, ok := jsondoc.Get(readJSON(t, tr, ".czrc"), "path")
	require.True(t, ok)
	assert.Equal(t, "@commitlint/cz-commitlint", path)
}

func TestGenerate_NoScopes(t *testing.T) {
	tr := newTree(t, workspace())

	generate(t, tr, shared.Deps{}, Options{})

	assert.Equal(t, []any{}, commitScopes(t, tr))
}

func TestGenerate_PackageJSON(t *testing.T) {
	tr := newTree(t, workspace())

	generate(t, tr, shared.Deps{}, DefaultOptions())

	pkg := readJSON(t, tr, "package.json")
	scripts, ok := jsondoc.Get(pkg, "scripts")
	require.True(t, ok)
	assert.Equal(t, `{"prepare":"husky install"}`, marshal(t, scripts))

	dev, ok := jsondoc.Get(pkg, "devDependencies")
	require.True(t, ok)
	assert.Equal(t, []string{
		"@commitlint/cli",
		"@commitlint/config-conventional",
		"@commitlint/cz-commitlint",
		"commitizen",
		"husky",
		"inquirer",
	}, jsondoc.Keys(dev.(*jsondoc.Object)))
}

func TestGenerate_Hooks(t *testing.T) {
	tr := newTree(t, workspace())

	generate(t, tr, shared.Deps{}, DefaultOptions())

	commitMsg := read(t, tr, ".husky/commit-msg")
	assert.True(t, strings.HasPrefix(commitMsg, devkit.HuskyPreamble))
	assert.Contains(t, commitMsg, "npx --no-install commitlint --edit $1")

	prepare := read(t, tr, ".husky/prepare-commit-msg")
	assert.Contains(t, prepare, "COMMIT_MSG_FILE=$1\nCOMMIT_SOURCE=$2\nSHA1=$3\n")
	assert.Contains(t, prepare, `if [ "${COMMIT_SOURCE}" = merge ]; then exit 0; fi`)
	assert.True(t, strings.HasSuffix(prepare, "exec < /dev/tty && npx --no-install cz --hook || true"))

	modes := map[string]int{}
	for _, c := range tr.Changes() {
		modes[c.Path] = int(c.Mode)
	}
	assert.Equal(t, 0o755, modes[".husky/commit-msg"])
	assert.Equal(t, 0o755, modes[".husky/prepare-commit-msg"])
}

func TestGenerate_ExistingHook(t *testing.T) {
	files := workspace()
	files[".husky/commit-msg"] = devkit.HuskyPreamble + "\nnpx --no-install commitlint --edit $1"
	tr := newTree(t, files)

	generate(t, tr, shared.Deps{}, DefaultOptions())

	assert.Equal(t, files[".husky/commit-msg"], read(t, tr, ".husky/commit-msg"))
}

func TestGenerate_IDE(t *testing.T) {
	tr := newTree(t, workspace())

	generate(t, tr, shared.Deps{}, DefaultOptions())

	recommendations, ok := jsondoc.Get(readJSON(t, tr, ".vscode/extensions.json"), "recommendations")
	require.True(t, ok)
	assert.Equal(t, []any{"mhutchie.git-graph", "eamodio.gitlens"}, recommendations)

	settings := readJSON(t, tr, ".vscode/settings.json")
	assert.Equal(t, []string{
		"gitlens.graph.statusBar.enabled",
		"gitlens.plusFeatures.enabled",
		"gitlens.showWelcomeOnInstall",
	}, jsondoc.Keys(settings))
	v, ok := settings.Get("gitlens.plusFeatures.enabled")
	require.True(t, ok)
	assert.Equal(t, false, v)
}

func TestGenerate_Gitflow(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		gf := &fakeGitflow{}
		generate(t, newTree(t, workspace()), shared.Deps{Gitflow: gf}, DefaultOptions())
		assert.Equal(t, 1, gf.calls)
	})

	t.Run("disabled", func(t *testing.T) {
		gf := &fakeGitflow{}
		generate(t, newTree(t, workspace()), shared.Deps{Gitflow: gf}, Options{})
		assert.Zero(t, gf.calls)
	})

	t.Run("dry run", func(t *testing.T) {
		gf := &fakeGitflow{}
		generate(t, newTree(t, workspace()), shared.Deps{Gitflow: gf, DryRun: true}, DefaultOptions())
		assert.Zero(t, gf.calls)
	})

	t.Run("failure", func(t *testing.T) {
		cause := errors.New("git-flow is not installed")
		gf := &fakeGitflow{err: cause}
		task, err := New(shared.Deps{Gitflow: gf}).Generate(context.Background(), newTree(t, workspace()), DefaultOptions())
		assert.ErrorIs(t, err, cause)
		assert.Nil(t, task)
	})
}

func TestGenerate_RemovesPreviousConfig(t *testing.T) {
	files := workspace()
	files["package.json"] = `{"name":"ws","commitlint":{"extends":["other"]},"config":{"commitizen":{"path":"cz-conventional-changelog"}}}`
	files[".commitlintrc.json"] = `{"extends":["other"]}`
	tr := newTree(t, files)

	generate(t, tr, shared.Deps{}, Options{})

	pkg := readJSON(t, tr, "package.json")
	_, ok := pkg.Get("commitlint")
	assert.False(t, ok)
	_, ok = jsondoc.Get(pkg, "config.commitizen")
	assert.False(t, ok)
	assert.True(t, tr.Exists(".commitlintrc.json"))
}

func TestGenerate_Idempotent(t *testing.T) {
	tr := newTree(t, workspace())

	generate(t, tr, shared.Deps{}, DefaultOptions())
	first := map[string]string{}
	for _, c := range tr.Changes() {
		first[c.Path] = string(c.Content)
	}
	generate(t, tr, shared.Deps{}, DefaultOptions())

	for _, c := range tr.Changes() {
		assert.Equal(t, first[c.Path], string(c.Content), c.Path)
	}
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := jsondoc.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
